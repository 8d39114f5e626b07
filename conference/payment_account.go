package conference

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ddd-crafters/conference-booking/eventsourcing"
)

// PaymentAccountID identifies a customer payment account.
type PaymentAccountID string

// NewPaymentAccountID generates a fresh collision-resistant account identity.
func NewPaymentAccountID() PaymentAccountID {
	return PaymentAccountID(uuid.NewString())
}

func (id PaymentAccountID) String() string {
	return string(id)
}

// PaymentReference identifies one accepted payment.
type PaymentReference string

// GeneratePaymentReference creates a fresh payment reference.
func GeneratePaymentReference() PaymentReference {
	return PaymentReference(uuid.NewString())
}

func (r PaymentReference) String() string {
	return string(r)
}

// PaymentAccount is the event-sourced payment aggregate: a balance that
// credits top up and accepted payments draw down.
type PaymentAccount struct {
	eventsourcing.Root

	balance int
}

// NewPaymentAccount creates a fresh payment account with a generated identity.
func NewPaymentAccount() *PaymentAccount {
	return HydratePaymentAccount(NewPaymentAccountID())
}

// HydratePaymentAccount creates an empty payment account shell for the given
// identity, ready to replay its event history. Used by the repository load path.
func HydratePaymentAccount(id PaymentAccountID) *PaymentAccount {
	return &PaymentAccount{
		Root: eventsourcing.NewRoot(id.String()),
	}
}

// ID returns the typed account identity.
func (a *PaymentAccount) ID() PaymentAccountID {
	return PaymentAccountID(a.AggregateID())
}

// Balance returns the current balance.
func (a *PaymentAccount) Balance() int {
	return a.balance
}

/* decisions */

// Credit adds the amount to the balance.
func (a *PaymentAccount) Credit(amount int) error {
	return eventsourcing.FoldNew(a, BuildAccountCredited(a.ID(), amount, time.Now().UTC()))
}

// RequestPayment charges the account for an order.
//
// The attempt itself is always recorded first as PaymentRequested, regardless
// of outcome. Then either PaymentAccepted with a fresh payment reference, or
// PaymentRefused when funds are insufficient. Refusal moves no funds and is
// an event, not an error: the order learns the outcome through the saga.
func (a *PaymentAccount) RequestPayment(amount int, orderID OrderID) error {
	if err := eventsourcing.FoldNew(a, BuildPaymentRequested(a.ID(), amount, time.Now().UTC())); err != nil {
		return err
	}

	if a.balance < amount {
		return eventsourcing.FoldNew(a, BuildPaymentRefused(a.ID(), amount, orderID, time.Now().UTC()))
	}

	return eventsourcing.FoldNew(a, BuildPaymentAccepted(GeneratePaymentReference(), a.ID(), amount, orderID, time.Now().UTC()))
}

/* evolutions */

// Evolve folds one event into the account state. Pure transition, no validation.
func (a *PaymentAccount) Evolve(event eventsourcing.Event) error {
	switch e := event.(type) {
	case AccountCredited:
		a.balance += e.Amount

	case PaymentRequested, PaymentRefused:
		// bookkeeping only, no state change

	case PaymentAccepted:
		a.balance -= e.Amount

	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEvent, event.EventType())
	}

	return nil
}
