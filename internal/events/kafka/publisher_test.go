package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func transferEvent() domain.LedgerEvent {
	at := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	corr := "corr-1"
	debit := domain.NewRecord("acc-a", domain.TransferOut, decimal.NewFromInt(10), decimal.NewFromInt(90), at, &corr)
	debit.ID = 7
	credit := domain.NewRecord("acc-b", domain.TransferIn, decimal.NewFromInt(10), decimal.NewFromInt(10), at, &corr)
	credit.ID = 8
	return domain.LedgerEvent{
		EventID:       "evt-1",
		Type:          domain.EventTransferCompleted,
		CorrelationID: corr,
		Records:       []domain.TransactionRecord{debit, credit},
		OccurredAt:    at,
	}
}

func depositEvent(accountID string) domain.LedgerEvent {
	at := time.Date(2025, 5, 6, 7, 9, 0, 0, time.UTC)
	rec := domain.NewRecord(accountID, domain.Deposit, decimal.NewFromInt(5), decimal.NewFromInt(15), at, nil)
	rec.ID = 9
	return domain.LedgerEvent{
		EventID:    "evt-2",
		Type:       domain.EventDepositApplied,
		Records:    []domain.TransactionRecord{rec},
		OccurredAt: at,
	}
}

func TestBuildMessages_OneMessagePerLeg(t *testing.T) {
	msgs, err := buildMessages(transferEvent())
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "acc-a", string(msgs[0].Key))
	assert.Equal(t, "acc-b", string(msgs[1].Key))
	assert.Equal(t, "", msgs[0].Topic)

	for i, wantKind := range []string{"TRANSFER_OUT", "TRANSFER_IN"} {
		var body map[string]any
		require.NoError(t, json.Unmarshal(msgs[i].Value, &body))
		assert.Equal(t, "ledger.transfer.completed", body["type"])
		assert.Equal(t, "evt-1", body["eventID"])
		assert.Equal(t, "corr-1", body["correlationID"])
		assert.EqualValues(t, 2, body["legs"])

		record, ok := body["record"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, wantKind, record["kind"])

		require.Len(t, msgs[i].Headers, 2)
		assert.Equal(t, "event_type", msgs[i].Headers[0].Key)
		assert.Equal(t, "ledger.transfer.completed", string(msgs[i].Headers[0].Value))
	}
}

func TestBuildMessages_ReceiverSharesKeyWithLaterDeposit(t *testing.T) {
	transfer, err := buildMessages(transferEvent())
	require.NoError(t, err)
	deposit, err := buildMessages(depositEvent("acc-b"))
	require.NoError(t, err)
	require.Len(t, deposit, 1)

	assert.Equal(t, string(transfer[1].Key), string(deposit[0].Key))
}

func TestPublish(t *testing.T) {
	writer := new(MockWriter)
	p := &Publisher{writer: writer}

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		return len(msgs) == 2 && string(msgs[0].Key) == "acc-a" && string(msgs[1].Key) == "acc-b"
	})).Return(nil).Once()
	require.NoError(t, p.Publish(context.Background(), transferEvent()))

	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available")).Once()
	err := p.Publish(context.Background(), transferEvent())
	assert.ErrorContains(t, err, "evt-1")

	// An event without records writes nothing.
	require.NoError(t, p.Publish(context.Background(), domain.LedgerEvent{EventID: "evt-empty"}))

	writer.On("Close").Return(nil).Once()
	assert.NoError(t, p.Close())
	writer.AssertExpectations(t)
}
