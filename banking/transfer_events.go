package banking

import (
	"time"
)

// Event type identifiers for the two-party transfer protocol.
//
// A transfer moves through three exchanges: the sender requests (or refuses
// upfront), the receiver credits (or refuses the credit), and the sender
// either debits or aborts. Every step is an event on exactly one account
// stream; the process manager carries the protocol between the two streams.
const (
	TransferRequestedEventType      = "TransferRequested"
	TransferRequestRefusedEventType = "TransferRequestRefused"
	FundCreditedEventType           = "FundCredited"
	CreditRequestRefusedEventType   = "CreditRequestRefused"
	FundDebitedEventType            = "FundDebited"
	TransferRequestAbortedEventType = "TransferRequestAborted"
)

// TransferRequested represents when a sender committed to transfer funds to a
// receiver. The sender's balance is untouched until FundDebited.
type TransferRequested struct {
	AccountID         string
	ReceiverAccountID string
	Amount            int
	OccurredAt        time.Time
}

// BuildTransferRequested creates a new TransferRequested event.
func BuildTransferRequested(sender AccountID, receiver AccountID, amount int, occurredAt time.Time) TransferRequested {
	return TransferRequested{
		AccountID:         sender.String(),
		ReceiverAccountID: receiver.String(),
		Amount:            amount,
		OccurredAt:        occurredAt,
	}
}

// AggregateID returns the sender account identity.
func (e TransferRequested) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e TransferRequested) EventType() string {
	return TransferRequestedEventType
}

// HasOccurredAt returns when this event occurred.
func (e TransferRequested) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// TransferRequestRefused represents when a sender refused its own transfer
// request upfront, typically for lack of funds. The protocol never starts.
type TransferRequestRefused struct {
	AccountID         string
	ReceiverAccountID string
	Amount            int
	OccurredAt        time.Time
}

// BuildTransferRequestRefused creates a new TransferRequestRefused event.
func BuildTransferRequestRefused(sender AccountID, receiver AccountID, amount int, occurredAt time.Time) TransferRequestRefused {
	return TransferRequestRefused{
		AccountID:         sender.String(),
		ReceiverAccountID: receiver.String(),
		Amount:            amount,
		OccurredAt:        occurredAt,
	}
}

// AggregateID returns the sender account identity.
func (e TransferRequestRefused) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e TransferRequestRefused) EventType() string {
	return TransferRequestRefusedEventType
}

// HasOccurredAt returns when this event occurred.
func (e TransferRequestRefused) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// FundCredited represents when a receiver accepted an incoming transfer and
// increased its balance.
type FundCredited struct {
	AccountID       string
	SenderAccountID string
	Amount          int
	OccurredAt      time.Time
}

// BuildFundCredited creates a new FundCredited event.
func BuildFundCredited(receiver AccountID, sender AccountID, amount int, occurredAt time.Time) FundCredited {
	return FundCredited{
		AccountID:       receiver.String(),
		SenderAccountID: sender.String(),
		Amount:          amount,
		OccurredAt:      occurredAt,
	}
}

// AggregateID returns the receiver account identity.
func (e FundCredited) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e FundCredited) EventType() string {
	return FundCreditedEventType
}

// HasOccurredAt returns when this event occurred.
func (e FundCredited) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// CreditRequestRefused represents when a receiver turned down an incoming
// transfer, for example because it is closed. The sender must abort.
type CreditRequestRefused struct {
	AccountID       string
	SenderAccountID string
	Amount          int
	OccurredAt      time.Time
}

// BuildCreditRequestRefused creates a new CreditRequestRefused event.
func BuildCreditRequestRefused(receiver AccountID, sender AccountID, amount int, occurredAt time.Time) CreditRequestRefused {
	return CreditRequestRefused{
		AccountID:       receiver.String(),
		SenderAccountID: sender.String(),
		Amount:          amount,
		OccurredAt:      occurredAt,
	}
}

// AggregateID returns the receiver account identity.
func (e CreditRequestRefused) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e CreditRequestRefused) EventType() string {
	return CreditRequestRefusedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CreditRequestRefused) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// FundDebited represents when a sender completed a transfer by decreasing its
// balance after the receiver credited.
type FundDebited struct {
	AccountID         string
	ReceiverAccountID string
	Amount            int
	OccurredAt        time.Time
}

// BuildFundDebited creates a new FundDebited event.
func BuildFundDebited(sender AccountID, receiver AccountID, amount int, occurredAt time.Time) FundDebited {
	return FundDebited{
		AccountID:         sender.String(),
		ReceiverAccountID: receiver.String(),
		Amount:            amount,
		OccurredAt:        occurredAt,
	}
}

// AggregateID returns the sender account identity.
func (e FundDebited) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e FundDebited) EventType() string {
	return FundDebitedEventType
}

// HasOccurredAt returns when this event occurred.
func (e FundDebited) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// TransferRequestAborted represents when a sender closed a transfer after the
// receiver refused the credit. No funds moved at any point.
type TransferRequestAborted struct {
	AccountID         string
	ReceiverAccountID string
	Amount            int
	OccurredAt        time.Time
}

// BuildTransferRequestAborted creates a new TransferRequestAborted event.
func BuildTransferRequestAborted(sender AccountID, receiver AccountID, amount int, occurredAt time.Time) TransferRequestAborted {
	return TransferRequestAborted{
		AccountID:         sender.String(),
		ReceiverAccountID: receiver.String(),
		Amount:            amount,
		OccurredAt:        occurredAt,
	}
}

// AggregateID returns the sender account identity.
func (e TransferRequestAborted) AggregateID() string {
	return e.AccountID
}

// EventType returns the event type identifier.
func (e TransferRequestAborted) EventType() string {
	return TransferRequestAbortedEventType
}

// HasOccurredAt returns when this event occurred.
func (e TransferRequestAborted) HasOccurredAt() time.Time {
	return e.OccurredAt
}
