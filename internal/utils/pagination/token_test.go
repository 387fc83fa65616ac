package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRecordToken(t *testing.T) {
	token := EncodeRecordToken(42)
	assert.NotEmpty(t, token, "Token should not be empty")

	id, err := DecodeRecordToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, int64(42), id)

	big := int64(1) << 62
	id, err = DecodeRecordToken(EncodeRecordToken(big))
	assert.NoError(t, err)
	assert.Equal(t, big, id)
}

func TestDecodeRecordTokenError(t *testing.T) {
	// Test invalid base64
	_, err := DecodeRecordToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Wrong prefix
	_, err = DecodeRecordToken(EncodeMultiFieldToken("journal", "10"))
	assert.Error(t, err)

	// Non numeric id
	_, err = DecodeRecordToken(EncodeMultiFieldToken(recordTokenPrefix, "abc"))
	assert.Error(t, err)

	// Ids start at 1
	_, err = DecodeRecordToken(EncodeMultiFieldToken(recordTokenPrefix, "0"))
	assert.Error(t, err)
}

func TestMultiFieldToken(t *testing.T) {
	fields := []string{"a", "b", "c"}
	parts, err := DecodeMultiFieldToken(EncodeMultiFieldToken(fields...))
	assert.NoError(t, err)
	assert.Equal(t, fields, parts)
}
