package conference

import (
	"time"
)

// Event type identifiers for the payment aggregate.
const (
	AccountCreditedEventType  = "AccountCredited"
	PaymentRequestedEventType = "PaymentRequested"
	PaymentAcceptedEventType  = "PaymentAccepted"
	PaymentRefusedEventType   = "PaymentRefused"
)

// AccountCredited represents when an amount was credited to a payment account.
type AccountCredited struct {
	AccountID  string
	Amount     int
	OccurredAt time.Time
}

// BuildAccountCredited creates a new AccountCredited event.
func BuildAccountCredited(accountID PaymentAccountID, amount int, occurredAt time.Time) AccountCredited {
	return AccountCredited{
		AccountID:  accountID.String(),
		Amount:     amount,
		OccurredAt: occurredAt,
	}
}

// AggregateID returns the payment account identity.
func (e AccountCredited) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e AccountCredited) EventType() string {
	return AccountCreditedEventType
}

// HasOccurredAt returns when this event occurred.
func (e AccountCredited) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// PaymentRequested represents that a payment was attempted against the
// account. Recorded before the outcome, as an audit trail of the attempt.
type PaymentRequested struct {
	AccountID  string
	Amount     int
	OccurredAt time.Time
}

// BuildPaymentRequested creates a new PaymentRequested event.
func BuildPaymentRequested(accountID PaymentAccountID, amount int, occurredAt time.Time) PaymentRequested {
	return PaymentRequested{
		AccountID:  accountID.String(),
		Amount:     amount,
		OccurredAt: occurredAt,
	}
}

// AggregateID returns the payment account identity.
func (e PaymentRequested) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e PaymentRequested) EventType() string {
	return PaymentRequestedEventType
}

// HasOccurredAt returns when this event occurred.
func (e PaymentRequested) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// PaymentAccepted represents when a payment was accepted and the balance
// drawn down, carrying the generated payment reference.
type PaymentAccepted struct {
	PaymentReference string
	AccountID        string
	Amount           int
	OrderID          string
	OccurredAt       time.Time
}

// BuildPaymentAccepted creates a new PaymentAccepted event.
func BuildPaymentAccepted(reference PaymentReference, accountID PaymentAccountID, amount int, orderID OrderID, occurredAt time.Time) PaymentAccepted {
	return PaymentAccepted{
		PaymentReference: reference.String(),
		AccountID:        accountID.String(),
		Amount:           amount,
		OrderID:          orderID.String(),
		OccurredAt:       occurredAt,
	}
}

// AggregateID returns the payment account identity.
func (e PaymentAccepted) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e PaymentAccepted) EventType() string {
	return PaymentAcceptedEventType
}

// HasOccurredAt returns when this event occurred.
func (e PaymentAccepted) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// PaymentRefused represents when a payment was refused for lack of funds.
// The balance is untouched.
type PaymentRefused struct {
	AccountID  string
	Amount     int
	OrderID    string
	OccurredAt time.Time
}

// BuildPaymentRefused creates a new PaymentRefused event.
func BuildPaymentRefused(accountID PaymentAccountID, amount int, orderID OrderID, occurredAt time.Time) PaymentRefused {
	return PaymentRefused{
		AccountID:  accountID.String(),
		Amount:     amount,
		OrderID:    orderID.String(),
		OccurredAt: occurredAt,
	}
}

// AggregateID returns the payment account identity.
func (e PaymentRefused) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e PaymentRefused) EventType() string {
	return PaymentRefusedEventType
}

// HasOccurredAt returns when this event occurred.
func (e PaymentRefused) HasOccurredAt() time.Time {
	return e.OccurredAt
}
