// Command booking-demo wires the full stack and runs the two choreographies
// end to end: a funds transfer between two banking accounts and the
// conference booking saga, including a refused payment with compensation.
//
// By default everything runs in process against the in-memory event store.
// EVENTSTORE_ENGINE=postgres switches persistence to the Postgres engine;
// KAFKA_BROKERS additionally mirrors committed events onto a kafka topic.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ddd-crafters/conference-booking/banking"
	"github.com/ddd-crafters/conference-booking/conference"
	"github.com/ddd-crafters/conference-booking/eventbus"
	kafkabus "github.com/ddd-crafters/conference-booking/eventbus/kafka"
	"github.com/ddd-crafters/conference-booking/eventsourcing"
	"github.com/ddd-crafters/conference-booking/eventstore/memoryengine"
	"github.com/ddd-crafters/conference-booking/eventstore/postgresengine"
	"github.com/ddd-crafters/conference-booking/oteladapters"
	"github.com/ddd-crafters/conference-booking/shell/config"
)

// eventStore is satisfied by both engines.
type eventStore interface {
	banking.EventStore
}

// fanoutPublisher delivers committed events to the local bus and mirrors them
// to kafka when configured.
type fanoutPublisher struct {
	bus   *eventbus.InMemoryEventBus
	kafka *kafkabus.Publisher
}

func (p *fanoutPublisher) Publish(ctx context.Context, events ...eventsourcing.Event) error {
	if p.kafka != nil {
		if err := p.kafka.Publish(ctx, events...); err != nil {
			return err
		}
	}

	return p.bus.Publish(ctx, events...)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(context.Background(), logger); err != nil {
		logger.Error("demo failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return err
	}

	store, cleanup, err := buildEventStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	bus := eventbus.NewInMemoryEventBus()
	publisher := &fanoutPublisher{bus: bus}

	if cfg.KafkaEnabled() {
		publisher.kafka = kafkabus.NewPublisher(
			cfg.KafkaBrokers,
			cfg.KafkaTopic,
			oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler()),
		)
		defer func() {
			if closeErr := publisher.kafka.Close(); closeErr != nil {
				logger.Warn("failed to close kafka publisher", "error", closeErr.Error())
			}
		}()
	}

	if err = runTransferDemo(ctx, store, publisher, bus, logger); err != nil {
		return err
	}

	return runBookingDemo(ctx, store, publisher, bus, logger)
}

func buildEventStore(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (eventStore, func(), error) {
	if cfg.EventStoreEngine == config.EnginePostgres {
		pgCfg, err := config.LoadPostgresConfig()
		if err != nil {
			return nil, nil, err
		}

		pool, err := config.PostgresPGXPool(ctx, pgCfg)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewEventStoreFromPGXPool(
			pool,
			postgresengine.WithTableName(cfg.EventsTableName),
			postgresengine.WithLogger(oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler())),
		)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		logger.Info("using postgres event store", "table", cfg.EventsTableName)

		return store, pool.Close, nil
	}

	logger.Info("using in-memory event store")

	return memoryengine.NewEventStore(), func() {}, nil
}

func runTransferDemo(
	ctx context.Context,
	store eventStore,
	publisher banking.EventPublisher,
	bus *eventbus.InMemoryEventBus,
	logger *slog.Logger,
) error {

	accounts := banking.NewAccountRepository(store, publisher)
	banking.NewTransferProcessManager(accounts).Register(bus)

	sender := banking.NewAccount()
	if err := sender.Open("Alice"); err != nil {
		return err
	}
	if err := sender.Deposit(200); err != nil {
		return err
	}
	if err := accounts.Save(ctx, sender); err != nil {
		return err
	}

	receiver := banking.NewAccount()
	if err := receiver.Open("Bob"); err != nil {
		return err
	}
	if err := accounts.Save(ctx, receiver); err != nil {
		return err
	}

	if err := sender.RequestTransfer(receiver.ID(), 80); err != nil {
		return err
	}
	if err := accounts.Save(ctx, sender); err != nil {
		return err
	}

	senderAfter, err := accounts.Load(ctx, sender.ID())
	if err != nil {
		return err
	}
	receiverAfter, err := accounts.Load(ctx, receiver.ID())
	if err != nil {
		return err
	}

	logger.Info("transfer completed",
		"sender_balance", senderAfter.Balance(),
		"receiver_balance", receiverAfter.Balance(),
	)

	return nil
}

func runBookingDemo(
	ctx context.Context,
	store eventStore,
	publisher conference.EventPublisher,
	bus *eventbus.InMemoryEventBus,
	logger *slog.Logger,
) error {

	conferences := conference.NewConferenceRepository(store, publisher)
	orders := conference.NewOrderRepository(store, publisher)
	paymentAccounts := conference.NewPaymentAccountRepository(store, publisher)

	conference.NewBookingProcessManager(conferences, orders, paymentAccounts).Register(bus)
	statistics := conference.NewStatisticsUpdater(orders)
	statistics.Register(bus)

	const conferenceName = conference.ConferenceName("gopherconf")
	const seatPrice = 100

	conf := conference.NewConference(conferenceName)
	if err := conf.Open(2, seatPrice); err != nil {
		return err
	}
	if err := conferences.Save(ctx, conf); err != nil {
		return err
	}

	// the second customer can not pay, so their seat is released again and
	// the third customer gets it
	fundings := []int{150, 40, 120}
	for i, funding := range fundings {
		account := conference.NewPaymentAccount()
		if err := account.Credit(funding); err != nil {
			return err
		}
		if err := paymentAccounts.Save(ctx, account); err != nil {
			return err
		}

		order := conference.NewOrder()
		if err := order.RequestBooking(conferenceName, account.ID()); err != nil {
			return err
		}
		if err := orders.Save(ctx, order); err != nil {
			return err
		}

		outcome, err := orders.Load(ctx, order.ID())
		if err != nil {
			return err
		}

		logger.Info(fmt.Sprintf("order %d settled", i+1),
			"order_id", outcome.ID().String(),
			"status", string(outcome.Status()),
		)
	}

	confAfter, err := conferences.Load(ctx, conferenceName)
	if err != nil {
		return err
	}

	stats := statistics.StatisticsFor(conferenceName)
	logger.Info("booking saga finished",
		"conference_status", string(confAfter.Status()),
		"available_seats", len(confAfter.AvailableSeats()),
		"incomes", stats.Incomes,
		"bookings", stats.Bookings,
	)

	return nil
}
