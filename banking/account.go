package banking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ddd-crafters/conference-booking/eventsourcing"
)

// ErrInsufficientFunds is returned when a withdrawal exceeds the current balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// AccountID identifies a banking account. Equality is by value.
type AccountID string

// NewAccountID generates a fresh collision-resistant account identity.
func NewAccountID() AccountID {
	return AccountID(uuid.NewString())
}

func (id AccountID) String() string {
	return string(id)
}

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

const (
	StatusNew    AccountStatus = "NEW"
	StatusOpen   AccountStatus = "OPEN"
	StatusClosed AccountStatus = "CLOSED"
)

// Account is the event-sourced banking aggregate.
//
// Lifecycle: NEW --open--> OPEN --close--> CLOSED. Deposits, withdrawals and
// transfer decisions are only valid while OPEN. The balance is an integer and
// never goes negative once OPEN.
type Account struct {
	eventsourcing.Root

	owner   string
	number  string
	balance int
	status  AccountStatus
}

// NewAccount creates a fresh account with a generated identity, version 0,
// and no persisted state yet.
func NewAccount() *Account {
	return HydrateAccount(NewAccountID())
}

// HydrateAccount creates an empty account shell for the given identity,
// ready to replay its event history. Used by the repository load path.
func HydrateAccount(id AccountID) *Account {
	return &Account{
		Root:   eventsourcing.NewRoot(id.String()),
		status: StatusNew,
	}
}

// ID returns the typed account identity.
func (a *Account) ID() AccountID {
	return AccountID(a.AggregateID())
}

// Owner returns the account owner.
func (a *Account) Owner() string {
	return a.owner
}

// Number returns the account number.
func (a *Account) Number() string {
	return a.number
}

// Balance returns the current balance.
func (a *Account) Balance() int {
	return a.balance
}

// Status returns the current lifecycle status.
func (a *Account) Status() AccountStatus {
	return a.status
}

/* decisions */

// Open opens a NEW account for the given owner, assigning an account number.
func (a *Account) Open(owner string) error {
	if a.status != StatusNew {
		return fmt.Errorf("%w: can not open a %s account", eventsourcing.ErrInvalidStateTransition, a.status)
	}

	return eventsourcing.FoldNew(a, BuildAccountOpened(a.ID(), owner, uuid.NewString(), time.Now().UTC()))
}

// Deposit adds the amount to the balance of an OPEN account.
func (a *Account) Deposit(amount int) error {
	if a.status != StatusOpen {
		return fmt.Errorf("%w: can not deposit on a %s account", eventsourcing.ErrInvalidStateTransition, a.status)
	}

	return eventsourcing.FoldNew(a, BuildAccountDeposited(a.ID(), amount, time.Now().UTC()))
}

// Withdraw removes the amount from the balance of an OPEN account.
// Fails with ErrInsufficientFunds when the amount exceeds the balance;
// no event is produced and the state is unchanged.
func (a *Account) Withdraw(amount int) error {
	if a.status != StatusOpen {
		return fmt.Errorf("%w: can not withdraw on a %s account", eventsourcing.ErrInvalidStateTransition, a.status)
	}

	if amount > a.balance {
		return fmt.Errorf("%w: withdrawal of %d can not be applied with balance of %d", ErrInsufficientFunds, amount, a.balance)
	}

	return eventsourcing.FoldNew(a, BuildAccountWithdrawn(a.ID(), amount, time.Now().UTC()))
}

// Close closes an OPEN account. CLOSED is terminal.
func (a *Account) Close() error {
	if a.status != StatusOpen {
		return fmt.Errorf("%w: can not close a %s account", eventsourcing.ErrInvalidStateTransition, a.status)
	}

	return eventsourcing.FoldNew(a, BuildAccountClosed(a.ID(), time.Now().UTC()))
}

/* transfer protocol */

// RequestTransfer starts the two-party transfer protocol on the sender side.
//
// When the funds cover the amount, TransferRequested is recorded and the
// protocol proceeds on the receiver (driven by the transfer process manager).
// Otherwise TransferRequestRefused is recorded and the protocol stops - a
// refusal is a valid business outcome, not an error.
//
// Neither event touches the balance; only the later debit does.
func (a *Account) RequestTransfer(receiver AccountID, amount int) error {
	if a.status != StatusOpen {
		return fmt.Errorf("%w: can not transfer from a %s account", eventsourcing.ErrInvalidStateTransition, a.status)
	}

	if amount <= a.balance {
		return eventsourcing.FoldNew(a, BuildTransferRequested(a.ID(), receiver, amount, time.Now().UTC()))
	}

	return eventsourcing.FoldNew(a, BuildTransferRequestRefused(a.ID(), receiver, amount, time.Now().UTC()))
}

// Credit is the receiver-side branch of the transfer protocol.
//
// An OPEN receiver records FundCredited; any other status records
// CreditRequestRefused so the sender can abort. The branch decision is an
// event either way - the outcome must reach the sender through the protocol.
func (a *Account) Credit(sender AccountID, amount int) error {
	if a.status != StatusOpen {
		return eventsourcing.FoldNew(a, BuildCreditRequestRefused(a.ID(), sender, amount, time.Now().UTC()))
	}

	return eventsourcing.FoldNew(a, BuildFundCredited(a.ID(), sender, amount, time.Now().UTC()))
}

// Debit completes a successful transfer on the sender side.
func (a *Account) Debit(receiver AccountID, amount int) error {
	return eventsourcing.FoldNew(a, BuildFundDebited(a.ID(), receiver, amount, time.Now().UTC()))
}

// AbortTransferRequest neutralizes a refused transfer on the sender side.
// No balance change: TransferRequested never moved funds, so the abort only
// closes the protocol.
func (a *Account) AbortTransferRequest(receiver AccountID, amount int) error {
	return eventsourcing.FoldNew(a, BuildTransferRequestAborted(a.ID(), receiver, amount, time.Now().UTC()))
}

/* evolutions */

// Evolve folds one event into the account state. Pure transition, no validation.
func (a *Account) Evolve(event eventsourcing.Event) error {
	switch e := event.(type) {
	case AccountOpened:
		a.owner = e.Owner
		a.number = e.Number
		a.balance = 0
		a.status = StatusOpen

	case AccountDeposited:
		a.balance += e.Amount

	case AccountWithdrawn:
		a.balance -= e.Amount

	case AccountClosed:
		a.status = StatusClosed

	case TransferRequested, TransferRequestRefused, TransferRequestAborted, CreditRequestRefused:
		// protocol bookkeeping only, no state change

	case FundCredited:
		a.balance += e.Amount

	case FundDebited:
		a.balance -= e.Amount

	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEvent, event.EventType())
	}

	return nil
}
