package banking

import (
	"time"
)

// Event type identifiers for the account lifecycle.
const (
	AccountOpenedEventType    = "AccountOpened"
	AccountDepositedEventType = "AccountDeposited"
	AccountWithdrawnEventType = "AccountWithdrawn"
	AccountClosedEventType    = "AccountClosed"
)

// AccountOpened represents when an account was opened for an owner.
type AccountOpened struct {
	AccountID  string
	Owner      string
	Number     string
	OccurredAt time.Time
}

// BuildAccountOpened creates a new AccountOpened event.
func BuildAccountOpened(accountID AccountID, owner string, number string, occurredAt time.Time) AccountOpened {
	return AccountOpened{
		AccountID:  accountID.String(),
		Owner:      owner,
		Number:     number,
		OccurredAt: occurredAt,
	}
}

// AggregateID returns the account identity this event belongs to.
func (e AccountOpened) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e AccountOpened) EventType() string {
	return AccountOpenedEventType
}

// HasOccurredAt returns when this event occurred.
func (e AccountOpened) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// AccountDeposited represents when an amount was deposited on an account.
type AccountDeposited struct {
	AccountID  string
	Amount     int
	OccurredAt time.Time
}

// BuildAccountDeposited creates a new AccountDeposited event.
func BuildAccountDeposited(accountID AccountID, amount int, occurredAt time.Time) AccountDeposited {
	return AccountDeposited{
		AccountID:  accountID.String(),
		Amount:     amount,
		OccurredAt: occurredAt,
	}
}

// AggregateID returns the account identity this event belongs to.
func (e AccountDeposited) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e AccountDeposited) EventType() string {
	return AccountDepositedEventType
}

// HasOccurredAt returns when this event occurred.
func (e AccountDeposited) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// AccountWithdrawn represents when an amount was withdrawn from an account.
type AccountWithdrawn struct {
	AccountID  string
	Amount     int
	OccurredAt time.Time
}

// BuildAccountWithdrawn creates a new AccountWithdrawn event.
func BuildAccountWithdrawn(accountID AccountID, amount int, occurredAt time.Time) AccountWithdrawn {
	return AccountWithdrawn{
		AccountID:  accountID.String(),
		Amount:     amount,
		OccurredAt: occurredAt,
	}
}

// AggregateID returns the account identity this event belongs to.
func (e AccountWithdrawn) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e AccountWithdrawn) EventType() string {
	return AccountWithdrawnEventType
}

// HasOccurredAt returns when this event occurred.
func (e AccountWithdrawn) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// AccountClosed represents when an account was closed.
type AccountClosed struct {
	AccountID  string
	OccurredAt time.Time
}

// BuildAccountClosed creates a new AccountClosed event.
func BuildAccountClosed(accountID AccountID, occurredAt time.Time) AccountClosed {
	return AccountClosed{
		AccountID:  accountID.String(),
		OccurredAt: occurredAt,
	}
}

// AggregateID returns the account identity this event belongs to.
func (e AccountClosed) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e AccountClosed) EventType() string {
	return AccountClosedEventType
}

// HasOccurredAt returns when this event occurred.
func (e AccountClosed) HasOccurredAt() time.Time {
	return e.OccurredAt
}
