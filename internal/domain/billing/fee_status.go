package billing

import (
	"github.com/shopspring/decimal"
)

// FeeStatus represents the lifecycle state of a fee
type FeeStatus string

const (
	FeeStatusIssued  FeeStatus = "ISSUED"
	FeeStatusPaid    FeeStatus = "PAID"
	FeeStatusOverdue FeeStatus = "OVERDUE"
)

// feeTransitions lists the allowed moves out of each status.
// Nothing leaves PAID.
var feeTransitions = map[FeeStatus][]FeeStatus{
	FeeStatusIssued:  {FeeStatusPaid, FeeStatusOverdue},
	FeeStatusOverdue: {FeeStatusPaid},
	FeeStatusPaid:    {},
}

// AllFeeStatuses returns every valid status
func AllFeeStatuses() []FeeStatus {
	return []FeeStatus{FeeStatusIssued, FeeStatusPaid, FeeStatusOverdue}
}

// ParseFeeStatus converts a raw string into a FeeStatus
func ParseFeeStatus(s string) (FeeStatus, bool) {
	status := FeeStatus(s)
	return status, status.IsValid()
}

// IsValid checks if the status is a valid FeeStatus
func (s FeeStatus) IsValid() bool {
	_, ok := feeTransitions[s]
	return ok
}

// String returns the string representation of FeeStatus
func (s FeeStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no transition leaves this status
func (s FeeStatus) IsTerminal() bool {
	return s == FeeStatusPaid
}

// CanTransitionTo reports whether the table allows moving from s to next.
// Staying in the same status is always allowed.
func (s FeeStatus) CanTransitionTo(next FeeStatus) bool {
	if s == next {
		return s.IsValid()
	}
	for _, allowed := range feeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DeriveStatus computes a fee's status from what is owed and what was paid.
// A fee is PAID once paid >= amount. Otherwise it keeps its current
// unpaid status, so OVERDUE set by the sweep survives partial payments.
func DeriveStatus(current FeeStatus, amount, paid decimal.Decimal) FeeStatus {
	if current == FeeStatusPaid {
		return FeeStatusPaid
	}
	if paid.GreaterThanOrEqual(amount) {
		return FeeStatusPaid
	}
	if current == FeeStatusOverdue {
		return FeeStatusOverdue
	}
	return FeeStatusIssued
}
