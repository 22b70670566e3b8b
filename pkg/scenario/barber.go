package scenario

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Flogas0833/synchronization-problems/pkg/syncs"
	"github.com/Flogas0833/synchronization-problems/pkg/tracing"
)

// BarberShop runs the sleeping barber scenario: one barber goroutine sleeps
// on a counting semaphore until a customer is seated; customers take a
// waiting-room chair if one is free and leave otherwise.
//
// Synchronization: a [syncs.Lock] guards the chair count, a customers
// [syncs.Semaphore] wakes the barber in customer arrival order, a second
// semaphore hands each seated customer to the barber chair, and [syncs.Flag]
// instances gate opening time (broadcast to all customers at once) and
// closing time.
type BarberShop struct {
	shop        *syncs.Lock
	customers   *syncs.Semaphore
	barberReady *syncs.Semaphore
	open        *syncs.Flag
	closing     *syncs.Flag
	tracer      tracing.Tracer
	subs        []func(any)
	report      BarberReport
	cfg         BarberConfig
	waiting     int
}

// BarberReport summarizes one completed run.
type BarberReport struct {
	RunID      uuid.UUID
	Served     int
	TurnedAway int
}

// NewBarberShop creates a runner for the given configuration.
func NewBarberShop(cfg BarberConfig, opts ...BarberShopOpt) (*BarberShop, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	b := &BarberShop{
		cfg:         cfg,
		shop:        syncs.NewLock(),
		customers:   syncs.NewSemaphore(0),
		barberReady: syncs.NewSemaphore(0),
		open:        syncs.NewFlag(),
		closing:     syncs.NewFlag(),
		tracer:      tracing.NewNoopTracer(),
		subs:        []func(any){},
	}
	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// BarberShopOpt configures a [BarberShop].
type BarberShopOpt func(*BarberShop)

// WithBarberTracer traces the run's phases with the given tracer.
func WithBarberTracer(tracer tracing.Tracer) BarberShopOpt {
	return func(b *BarberShop) {
		b.tracer = tracer
	}
}

// Subscribe registers f to receive every event broadcast during Run.
func (b *BarberShop) Subscribe(f func(any)) {
	b.subs = append(b.subs, f)
}

func (b *BarberShop) broadcastEvent(evt any) {
	for _, sub := range b.subs {
		sub(evt)
	}
}

// Run opens the shop, spawns the barber and every customer, and joins on
// completion. The report is valid once Run returns.
func (b *BarberShop) Run() error {
	runID := uuid.New()
	b.report = BarberReport{RunID: runID}

	logger := slog.With(
		slog.String("scenario", "barber"),
		slog.String("run_id", runID.String()),
	)

	span := b.tracer.StartSpan("barber_run")
	span.SetBaggageItem("customers", b.cfg.Customers)
	span.SetBaggageItem("chairs", b.cfg.Chairs)
	defer span.Finish()

	b.broadcastEvent(EventSetTotal(b.cfg.Customers))

	var customerGroup errgroup.Group
	for i := range b.cfg.Customers {
		customerGroup.Go(func() error {
			b.customer(logger, i)

			return nil
		})
	}

	var g errgroup.Group

	g.Go(func() error {
		b.barber(logger)

		return nil
	})

	g.Go(func() error {
		defer func() {
			// Closing time: one extra permit with no seated customer wakes
			// the barber so it can observe the empty waiting room and stop.
			b.closing.Set()
			b.customers.Release(1)
		}()

		return customerGroup.Wait()
	})

	logger.Debug("opening the shop")
	b.open.Set()

	err := g.Wait()
	b.broadcastEvent(EventRunDone{Err: err})

	logger.Info("shop closed",
		slog.Int("served", b.report.Served),
		slog.Int("turned_away", b.report.TurnedAway),
	)

	return err
}

// Report returns the outcome of the last Run.
func (b *BarberShop) Report() BarberReport {
	return b.report
}

func (b *BarberShop) customer(logger *slog.Logger, id int) {
	b.open.Wait()

	if b.cfg.ArrivalSpread > 0 {
		rng := rand.New(rand.NewPCG(b.cfg.Seed, uint64(id)))
		time.Sleep(time.Duration(rng.Int64N(int64(b.cfg.ArrivalSpread))))
	}

	name := fmt.Sprintf("customer-%d", id)

	b.shop.Acquire()

	if b.waiting == b.cfg.Chairs {
		b.report.TurnedAway++
		b.shop.Release()

		logger.Debug("customer turned away", slog.Int("customer", id))
		b.broadcastEvent(EventCustomerTurnedAway{Customer: id})
		b.broadcastEvent(EventProgress{Item: name})

		return
	}

	b.waiting++
	seated := b.waiting
	b.shop.Release()

	b.broadcastEvent(EventCustomerSeated{Customer: id, Waiting: seated})

	// Wake the barber, then wait to be called to the chair.
	b.customers.Release(1)
	b.barberReady.Acquire()

	logger.Debug("customer served", slog.Int("customer", id))
	b.broadcastEvent(EventCustomerServed{Customer: id})
	b.broadcastEvent(EventProgress{Item: name})
}

func (b *BarberShop) barber(logger *slog.Logger) {
	for {
		b.customers.Acquire()

		b.shop.Acquire()
		if b.waiting == 0 {
			// Every genuine wakeup has a seated customer, so an empty
			// waiting room means the closing-time permit.
			b.shop.Release()

			logger.Debug("barber going home", slog.Bool("closing", b.closing.IsSet()))

			return
		}

		b.waiting--
		b.shop.Release()

		b.barberReady.Release(1)

		if b.cfg.CutTime > 0 {
			time.Sleep(b.cfg.CutTime)
		}

		b.report.Served++
	}
}
