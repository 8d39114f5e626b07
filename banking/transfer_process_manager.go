package banking

import (
	"context"

	"github.com/ddd-crafters/conference-booking/eventbus"
	"github.com/ddd-crafters/conference-booking/eventsourcing"
	"github.com/ddd-crafters/conference-booking/eventstore"
)

// TransferProcessManager carries the transfer protocol between the sender and
// the receiver account stream. It is stateless: every reaction loads the
// affected account, takes one decision, and saves. Protocol state lives
// entirely in the event streams.
//
// Reactions run under an optimistic concurrency retry, so a conflicting
// writer on the target stream causes a reload and a fresh decision rather
// than a lost reaction.
type TransferProcessManager struct {
	accounts *AccountRepository
}

// NewTransferProcessManager creates a TransferProcessManager.
func NewTransferProcessManager(accounts *AccountRepository) *TransferProcessManager {
	return &TransferProcessManager{accounts: accounts}
}

// Register subscribes the manager's reactions on the bus.
func (pm *TransferProcessManager) Register(bus eventbus.EventBus) {
	bus.Subscribe(TransferRequestedEventType, eventbus.HandlerFunc(pm.onTransferRequested))
	bus.Subscribe(FundCreditedEventType, eventbus.HandlerFunc(pm.onFundCredited))
	bus.Subscribe(CreditRequestRefusedEventType, eventbus.HandlerFunc(pm.onCreditRequestRefused))
}

// onTransferRequested asks the receiver to credit the amount. The receiver
// decides for itself whether to credit or refuse.
func (pm *TransferProcessManager) onTransferRequested(ctx context.Context, event eventsourcing.Event) error {
	requested, ok := event.(TransferRequested)
	if !ok {
		return nil
	}

	return eventstore.RetryOnConflict(ctx, func(ctx context.Context) error {
		receiver, err := pm.accounts.Load(ctx, AccountID(requested.ReceiverAccountID))
		if err != nil {
			return err
		}

		if err = receiver.Credit(AccountID(requested.AccountID), requested.Amount); err != nil {
			return err
		}

		return pm.accounts.Save(ctx, receiver)
	})
}

// onFundCredited completes the transfer by debiting the sender.
func (pm *TransferProcessManager) onFundCredited(ctx context.Context, event eventsourcing.Event) error {
	credited, ok := event.(FundCredited)
	if !ok {
		return nil
	}

	return eventstore.RetryOnConflict(ctx, func(ctx context.Context) error {
		sender, err := pm.accounts.Load(ctx, AccountID(credited.SenderAccountID))
		if err != nil {
			return err
		}

		if err = sender.Debit(AccountID(credited.AccountID), credited.Amount); err != nil {
			return err
		}

		return pm.accounts.Save(ctx, sender)
	})
}

// onCreditRequestRefused aborts the transfer on the sender side.
func (pm *TransferProcessManager) onCreditRequestRefused(ctx context.Context, event eventsourcing.Event) error {
	refused, ok := event.(CreditRequestRefused)
	if !ok {
		return nil
	}

	return eventstore.RetryOnConflict(ctx, func(ctx context.Context) error {
		sender, err := pm.accounts.Load(ctx, AccountID(refused.SenderAccountID))
		if err != nil {
			return err
		}

		if err = sender.AbortTransferRequest(AccountID(refused.AccountID), refused.Amount); err != nil {
			return err
		}

		return pm.accounts.Save(ctx, sender)
	})
}
