package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const recordTokenPrefix = "rec"

// EncodeRecordToken creates a base64 encoded cursor pointing below the given journal record id.
func EncodeRecordToken(lastID int64) string {
	tokenStr := EncodeMultiFieldToken(recordTokenPrefix, strconv.FormatInt(lastID, 10))
	return tokenStr
}

// DecodeRecordToken parses a cursor created by EncodeRecordToken.
func DecodeRecordToken(token string) (int64, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return 0, err
	}
	if len(parts) != 2 || parts[0] != recordTokenPrefix {
		return 0, fmt.Errorf("invalid pagination token format (split)")
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid pagination token format (record id)")
	}
	return id, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}
