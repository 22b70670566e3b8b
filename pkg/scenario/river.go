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

// BoatCapacity is the number of seats in the boat; the traveler who takes
// the last seat drives the crossing.
const BoatCapacity = 3

// Bank identifies a side of the river.
type Bank int

const (
	LeftBank Bank = iota
	RightBank
)

func (b Bank) String() string {
	switch b {
	case LeftBank:
		return "left"
	case RightBank:
		return "right"
	default:
		return fmt.Sprintf("bank(%d)", int(b))
	}
}

// Across returns the opposite bank.
func (b Bank) Across() Bank {
	if b == LeftBank {
		return RightBank
	}

	return LeftBank
}

// RiverMonitor guards the boat with one [syncs.Lock] and two [syncs.Cond]
// instances sharing it, following the arrive, wait, act, depart pattern: a
// traveler arrives, waits until the boat is on its bank with a free seat,
// takes the seat, and departs either as the driver of a full boat or as a
// passenger waiting for its trip to cross.
//
// The monitor never sends the boat back empty, so travelers on the wrong
// bank can wait forever; this starvation is a documented property of the
// scenario, not a defect.
type RiverMonitor struct {
	lock     *syncs.Lock
	seats    *syncs.Cond
	departed *syncs.Cond
	observe  func(bank, from Bank, boarded int)
	bank     Bank
	boarded  int
	trips    int
}

// NewRiverMonitor creates a monitor with the boat empty on start.
func NewRiverMonitor(start Bank, opts ...RiverMonitorOpt) *RiverMonitor {
	lock := syncs.NewLock()

	m := &RiverMonitor{
		lock:     lock,
		seats:    syncs.NewCond(lock),
		departed: syncs.NewCond(lock),
		bank:     start,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RiverMonitorOpt configures a [RiverMonitor].
type RiverMonitorOpt func(*RiverMonitor)

// WithBoardObserver calls fn on every granted board, inside the monitor's
// critical section, with the boat's current bank, the traveler's bank, and
// the seat count after boarding. Used by tests and reports to check the
// capacity and direction invariants at the moment they must hold.
func WithBoardObserver(fn func(bank, from Bank, boarded int)) RiverMonitorOpt {
	return func(m *RiverMonitor) {
		m.observe = fn
	}
}

// Board blocks until the boat is on the traveler's bank with a free seat,
// then takes the seat. The traveler taking the last seat drives the boat
// across and Board reports true; every other traveler returns once its trip
// has crossed.
func (m *RiverMonitor) Board(from Bank) bool {
	m.lock.Acquire()
	defer m.lock.Release()

	for m.bank != from || m.boarded == BoatCapacity {
		m.seats.Wait()
	}

	m.boarded++

	if m.observe != nil {
		m.observe(m.bank, from, m.boarded)
	}

	if m.boarded == BoatCapacity {
		m.cross()

		return true
	}

	// Passenger: wait for a driver to take this trip across.
	trip := m.trips
	for m.trips == trip {
		m.departed.Wait()
	}

	return false
}

// cross moves the boat to the other bank and releases both the passengers of
// the departed trip and the travelers queued for a seat. Caller must hold
// the monitor lock.
func (m *RiverMonitor) cross() {
	m.trips++
	m.bank = m.bank.Across()
	m.boarded = 0

	m.departed.NotifyAll()
	m.seats.NotifyAll()
}

// Trips returns the number of completed crossings.
func (m *RiverMonitor) Trips() int {
	m.lock.Acquire()
	defer m.lock.Release()

	return m.trips
}

// Bank returns the bank the boat is currently on.
func (m *RiverMonitor) Bank() Bank {
	m.lock.Acquire()
	defer m.lock.Release()

	return m.bank
}

// RiverCrossing runs the river crossing scenario over a [RiverMonitor].
type RiverCrossing struct {
	monitor *RiverMonitor
	tracer  tracing.Tracer
	subs    []func(any)
	report  RiverReport
	cfg     RiverConfig
}

// RiverReport summarizes one completed run.
type RiverReport struct {
	RunID      uuid.UUID
	Trips      int
	MaxBoarded int
	// WrongBankBoards counts boards granted while the boat was on the other
	// bank; the monitor guarantees it stays zero.
	WrongBankBoards int
}

// NewRiverCrossing creates a runner for the given configuration. The boat
// starts on the bank that lets every configured trip run.
func NewRiverCrossing(cfg RiverConfig, opts ...RiverCrossingOpt) (*RiverCrossing, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	r := &RiverCrossing{
		cfg:    cfg,
		tracer: tracing.NewNoopTracer(),
		subs:   []func(any){},
	}
	r.monitor = NewRiverMonitor(cfg.StartBank(), WithBoardObserver(r.recordBoard))

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// RiverCrossingOpt configures a [RiverCrossing].
type RiverCrossingOpt func(*RiverCrossing)

// WithRiverTracer traces the run's phases with the given tracer.
func WithRiverTracer(tracer tracing.Tracer) RiverCrossingOpt {
	return func(r *RiverCrossing) {
		r.tracer = tracer
	}
}

// Subscribe registers f to receive every event broadcast during Run.
func (r *RiverCrossing) Subscribe(f func(any)) {
	r.subs = append(r.subs, f)
}

func (r *RiverCrossing) broadcastEvent(evt any) {
	for _, sub := range r.subs {
		sub(evt)
	}
}

// recordBoard runs inside the monitor's critical section on every granted
// board.
func (r *RiverCrossing) recordBoard(bank, from Bank, boarded int) {
	if boarded > r.report.MaxBoarded {
		r.report.MaxBoarded = boarded
	}

	if bank != from {
		r.report.WrongBankBoards++
	}

	r.broadcastEvent(EventPassengerBoarded{From: from, Boarded: boarded})
}

// Run spawns every traveler and joins on completion. The report is valid
// once Run returns.
func (r *RiverCrossing) Run() error {
	runID := uuid.New()
	r.report = RiverReport{RunID: runID}

	logger := slog.With(
		slog.String("scenario", "river"),
		slog.String("run_id", runID.String()),
	)

	span := r.tracer.StartSpan("river_run")
	span.SetBaggageItem("from_left", r.cfg.FromLeft)
	span.SetBaggageItem("from_right", r.cfg.FromRight)
	defer span.Finish()

	total := r.cfg.FromLeft + r.cfg.FromRight
	r.broadcastEvent(EventSetTotal(total))

	var g errgroup.Group

	for i := range total {
		from := LeftBank
		if i >= r.cfg.FromLeft {
			from = RightBank
		}

		g.Go(func() error {
			r.traveler(logger, i, from)

			return nil
		})
	}

	err := g.Wait()

	r.report.Trips = r.monitor.Trips()
	r.broadcastEvent(EventRunDone{Err: err})

	logger.Info("all travelers across",
		slog.Int("trips", r.report.Trips),
		slog.Int("max_boarded", r.report.MaxBoarded),
	)

	return err
}

// Report returns the outcome of the last Run.
func (r *RiverCrossing) Report() RiverReport {
	return r.report
}

func (r *RiverCrossing) traveler(logger *slog.Logger, id int, from Bank) {
	if r.cfg.ArrivalSpread > 0 {
		rng := rand.New(rand.NewPCG(r.cfg.Seed, uint64(id)))
		time.Sleep(time.Duration(rng.Int64N(int64(r.cfg.ArrivalSpread))))
	}

	drove := r.monitor.Board(from)
	if drove {
		trip := r.monitor.Trips()

		logger.Debug("boat crossed",
			slog.Int("trip", trip),
			slog.String("from", from.String()),
		)
		r.broadcastEvent(EventBoatCrossed{From: from, Trip: trip})
	}

	r.broadcastEvent(EventProgress{Item: fmt.Sprintf("traveler-%d (%s)", id, from)})
}
