package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEventType names a committed ledger operation.
type LedgerEventType string

const (
	EventDepositApplied    LedgerEventType = "ledger.deposit.applied"
	EventWithdrawalApplied LedgerEventType = "ledger.withdrawal.applied"
	EventTransferCompleted LedgerEventType = "ledger.transfer.completed"
)

// LedgerEvent is emitted once per committed operation.
type LedgerEvent struct {
	EventID       string              `json:"eventID"`
	Type          LedgerEventType     `json:"type"`
	CorrelationID string              `json:"correlationID,omitempty"`
	Records       []TransactionRecord `json:"records"`
	OccurredAt    time.Time           `json:"occurredAt"`
}

// ReconciliationReport compares the three views of an account balance.
type ReconciliationReport struct {
	AccountID       string          `json:"accountID"`
	StoredBalance   decimal.Decimal `json:"storedBalance"`
	LatestBalance   decimal.Decimal `json:"latestBalanceAfter"`
	ReplayedBalance decimal.Decimal `json:"replayedBalance"`
	RecordCount     int             `json:"recordCount"`
	Consistent      bool            `json:"consistent"`
	CheckedAt       time.Time       `json:"checkedAt"`
}

// Reconcile builds a report from a consistent snapshot.
func Reconcile(snapshot AccountSnapshot, checkedAt time.Time) ReconciliationReport {
	report := ReconciliationReport{
		AccountID:       snapshot.Account.AccountID,
		StoredBalance:   snapshot.Account.Balance,
		LatestBalance:   decimal.Zero,
		ReplayedBalance: ReplayBalance(snapshot.Records),
		RecordCount:     len(snapshot.Records),
		CheckedAt:       checkedAt,
	}
	if n := len(snapshot.Records); n > 0 {
		report.LatestBalance = snapshot.Records[n-1].BalanceAfter
	}
	report.Consistent = report.StoredBalance.Equal(report.LatestBalance) &&
		report.StoredBalance.Equal(report.ReplayedBalance)
	return report
}
