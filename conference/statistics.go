package conference

import (
	"context"
	"sync"

	"github.com/ddd-crafters/conference-booking/eventbus"
	"github.com/ddd-crafters/conference-booking/eventsourcing"
)

// ConferenceStatistics is the read-model row kept per conference.
type ConferenceStatistics struct {
	Incomes  int
	Bookings int
}

// StatisticsUpdater maintains per-conference income and booking counters from
// the event stream. Purely downstream: it never feeds back into decisions.
//
// Counters are kept in memory; delivery is at-least-once, so a redelivered
// event counts twice. Good enough for a dashboard, not for accounting.
type StatisticsUpdater struct {
	orders *OrderRepository

	mu    sync.RWMutex
	stats map[ConferenceName]*ConferenceStatistics
}

// NewStatisticsUpdater creates a StatisticsUpdater.
func NewStatisticsUpdater(orders *OrderRepository) *StatisticsUpdater {
	return &StatisticsUpdater{
		orders: orders,
		stats:  make(map[ConferenceName]*ConferenceStatistics),
	}
}

// Register subscribes the updater's reactions on the bus.
func (su *StatisticsUpdater) Register(bus eventbus.EventBus) {
	bus.Subscribe(PaymentAcceptedEventType, eventbus.HandlerFunc(su.onPaymentAccepted))
	bus.Subscribe(SeatBookedEventType, eventbus.HandlerFunc(su.onSeatBooked))
	bus.Subscribe(SeatReleasedEventType, eventbus.HandlerFunc(su.onSeatReleased))
}

// StatisticsFor returns a copy of the counters for a conference.
func (su *StatisticsUpdater) StatisticsFor(name ConferenceName) ConferenceStatistics {
	su.mu.RLock()
	defer su.mu.RUnlock()

	if row, found := su.stats[name]; found {
		return *row
	}

	return ConferenceStatistics{}
}

func (su *StatisticsUpdater) row(name ConferenceName) *ConferenceStatistics {
	if row, found := su.stats[name]; found {
		return row
	}

	row := &ConferenceStatistics{}
	su.stats[name] = row

	return row
}

// The payment event names the account, not the conference; the order carries
// the link between the two.
func (su *StatisticsUpdater) onPaymentAccepted(ctx context.Context, event eventsourcing.Event) error {
	accepted, ok := event.(PaymentAccepted)
	if !ok {
		return nil
	}

	order, err := su.orders.Load(ctx, OrderID(accepted.OrderID))
	if err != nil {
		return err
	}

	su.mu.Lock()
	defer su.mu.Unlock()
	su.row(order.ConferenceName()).Incomes += accepted.Amount

	return nil
}

func (su *StatisticsUpdater) onSeatBooked(_ context.Context, event eventsourcing.Event) error {
	booked, ok := event.(SeatBooked)
	if !ok {
		return nil
	}

	su.mu.Lock()
	defer su.mu.Unlock()
	su.row(ConferenceName(booked.ConferenceName)).Bookings++

	return nil
}

func (su *StatisticsUpdater) onSeatReleased(_ context.Context, event eventsourcing.Event) error {
	released, ok := event.(SeatReleased)
	if !ok {
		return nil
	}

	su.mu.Lock()
	defer su.mu.Unlock()
	su.row(ConferenceName(released.ConferenceName)).Bookings--

	return nil
}
