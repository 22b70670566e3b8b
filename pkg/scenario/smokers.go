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

// Ingredient is one of the three cigarette makings. Each smoker has an
// endless supply of exactly one ingredient and needs the other two.
type Ingredient int

const (
	Tobacco Ingredient = iota
	Paper
	Matches

	ingredientCount = 3
)

func (i Ingredient) String() string {
	switch i {
	case Tobacco:
		return "tobacco"
	case Paper:
		return "paper"
	case Matches:
		return "matches"
	default:
		return fmt.Sprintf("ingredient(%d)", int(i))
	}
}

// SmokersTable runs the cigarette smokers scenario: each round the agent
// places two ingredients on the table and signals the one smoker who holds
// the third; that smoker takes the ingredients, smokes, and hands the turn
// back to the agent.
//
// Synchronization: an agent [syncs.Semaphore] alternates turns between the
// agent and the active smoker, one semaphore per smoker delivers the round
// to exactly the right goroutine, a [syncs.Lock] guards the table, and a
// [syncs.Flag] marks closing time.
type SmokersTable struct {
	agent   *syncs.Semaphore
	table   *syncs.Lock
	closing *syncs.Flag
	tracer  tracing.Tracer
	smokers [ingredientCount]*syncs.Semaphore
	onTable []Ingredient
	subs    []func(any)
	report  SmokersReport
	cfg     SmokersConfig
}

// SmokersReport summarizes one completed run.
type SmokersReport struct {
	SmokedBy map[Ingredient]int
	RunID    uuid.UUID
	Rounds   int
}

// NewSmokersTable creates a runner for the given configuration.
func NewSmokersTable(cfg SmokersConfig, opts ...SmokersTableOpt) (*SmokersTable, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	s := &SmokersTable{
		cfg:     cfg,
		agent:   syncs.NewSemaphore(1),
		table:   syncs.NewLock(),
		closing: syncs.NewFlag(),
		tracer:  tracing.NewNoopTracer(),
		subs:    []func(any){},
	}
	for i := range s.smokers {
		s.smokers[i] = syncs.NewSemaphore(0)
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// SmokersTableOpt configures a [SmokersTable].
type SmokersTableOpt func(*SmokersTable)

// WithSmokersTracer traces the run's phases with the given tracer.
func WithSmokersTracer(tracer tracing.Tracer) SmokersTableOpt {
	return func(s *SmokersTable) {
		s.tracer = tracer
	}
}

// Subscribe registers f to receive every event broadcast during Run.
func (s *SmokersTable) Subscribe(f func(any)) {
	s.subs = append(s.subs, f)
}

func (s *SmokersTable) broadcastEvent(evt any) {
	for _, sub := range s.subs {
		sub(evt)
	}
}

// Run spawns the agent and the three smokers, plays the configured number of
// rounds, and joins on completion. The report is valid once Run returns.
func (s *SmokersTable) Run() error {
	runID := uuid.New()
	s.report = SmokersReport{
		RunID:    runID,
		SmokedBy: make(map[Ingredient]int, ingredientCount),
	}

	logger := slog.With(
		slog.String("scenario", "smokers"),
		slog.String("run_id", runID.String()),
	)

	span := s.tracer.StartSpan("smokers_run")
	span.SetBaggageItem("rounds", s.cfg.Rounds)
	defer span.Finish()

	s.broadcastEvent(EventSetTotal(s.cfg.Rounds))

	var g errgroup.Group

	for i := range ingredientCount {
		g.Go(func() error {
			s.smoker(logger, Ingredient(i))

			return nil
		})
	}

	g.Go(func() error {
		s.agentLoop(logger)

		return nil
	})

	err := g.Wait()
	s.broadcastEvent(EventRunDone{Err: err})

	logger.Info("table closed", slog.Int("rounds", s.report.Rounds))

	return err
}

// Report returns the outcome of the last Run.
func (s *SmokersTable) Report() SmokersReport {
	return s.report
}

func (s *SmokersTable) agentLoop(logger *slog.Logger) {
	rng := rand.New(rand.NewPCG(s.cfg.Seed, 0))

	for round := 1; round <= s.cfg.Rounds; round++ {
		s.agent.Acquire()

		missing := Ingredient(rng.IntN(ingredientCount))

		s.table.Acquire()
		s.onTable = complementsOf(missing)
		s.table.Release()

		logger.Debug("ingredients placed",
			slog.Int("round", round),
			slog.String("missing", missing.String()),
		)
		s.broadcastEvent(EventIngredientsPlaced{Round: round, Missing: missing})

		s.smokers[missing].Release(1)
	}

	// Wait for the last smoker to clear the table, then wake every smoker
	// once with an empty table so they all stop.
	s.agent.Acquire()
	s.closing.Set()

	for i := range s.smokers {
		s.smokers[i].Release(1)
	}

	logger.Debug("agent done")
}

func (s *SmokersTable) smoker(logger *slog.Logger, holds Ingredient) {
	for {
		s.smokers[holds].Acquire()

		s.table.Acquire()
		if len(s.onTable) == 0 {
			// Closing time: a genuine signal always finds the table stocked.
			s.table.Release()

			return
		}

		s.onTable = nil
		s.report.Rounds++
		s.report.SmokedBy[holds]++
		round := s.report.Rounds
		s.table.Release()

		if s.cfg.SmokeTime > 0 {
			time.Sleep(s.cfg.SmokeTime)
		}

		logger.Debug("smoker smoked",
			slog.Int("round", round),
			slog.String("smoker", holds.String()),
		)
		s.broadcastEvent(EventSmokerSmoked{Round: round, Smoker: holds})
		s.broadcastEvent(EventProgress{Item: fmt.Sprintf("round-%d (%s)", round, holds)})

		s.agent.Release(1)
	}
}

func complementsOf(missing Ingredient) []Ingredient {
	others := make([]Ingredient, 0, ingredientCount-1)

	for i := range ingredientCount {
		if Ingredient(i) != missing {
			others = append(others, Ingredient(i))
		}
	}

	return others
}
