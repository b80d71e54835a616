package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/borderville/season-stats/internal/domain/goal"
	"github.com/borderville/season-stats/internal/domain/match"
	"github.com/borderville/season-stats/internal/domain/record"
	"github.com/borderville/season-stats/internal/domain/season"
	"github.com/borderville/season-stats/internal/platform/logging"
)

// RecordSource retrieves the three raw record sets from the table store.
type RecordSource interface {
	FetchPlayers(ctx context.Context) ([]record.Record, error)
	FetchMatches(ctx context.Context) ([]record.Record, error)
	FetchGoals(ctx context.Context) ([]record.Record, error)
}

// AggregationService runs one full derivation pass: fetch, normalize,
// fold, encode form, rate, assemble. Every run recomputes from scratch.
type AggregationService struct {
	source     RecordSource
	normalizer *Normalizer
	weights    season.ScoringWeights
	policy     season.RatingPolicy
	year       int
	maxWorkers int
	logger     *logging.Logger
	now        func() time.Time
}

type AggregationConfig struct {
	Fields     FieldMap
	Weights    season.ScoringWeights
	Policy     season.RatingPolicy
	Year       int
	MaxWorkers int
	Logger     *logging.Logger
}

func NewAggregationService(source RecordSource, cfg AggregationConfig) *AggregationService {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 3
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &AggregationService{
		source:     source,
		normalizer: NewNormalizer(cfg.Fields),
		weights:    cfg.Weights,
		policy:     cfg.Policy,
		year:       cfg.Year,
		maxWorkers: cfg.MaxWorkers,
		logger:     cfg.Logger,
		now:        time.Now,
	}
}

// Run executes one aggregation pass and returns the season snapshot.
func (s *AggregationService) Run(ctx context.Context) (*season.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "AggregationService.Run")
	defer span.End()

	started := s.now()

	rawPlayers, rawMatches, rawGoals, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	st := newRunState()

	for _, r := range rawPlayers {
		p := s.normalizer.Player(r)
		st.players[p.ID] = p
	}

	var inYear []match.Match
	matchByID := make(map[string]match.Match, len(rawMatches))
	statsCount := 0
	for _, r := range rawMatches {
		m := s.normalizer.Match(r)
		if !m.InYear(s.year) {
			continue
		}
		inYear = append(inYear, m)
		matchByID[m.ID] = m
		if m.CountsForStats {
			statsCount++
		}
	}

	for _, m := range inYear {
		st.foldMatch(m)
	}

	// The output event list keeps every in-year attributable goal so
	// match pages can render scorelines; totals fold only over
	// stats-counting matches.
	var outGoals []goal.Event
	for _, r := range rawGoals {
		e := s.normalizer.Goal(r)
		if !e.Resolvable() {
			continue
		}
		m, ok := matchByID[e.MatchID]
		if !ok {
			continue
		}
		outGoals = append(outGoals, e)
		if m.CountsForStats {
			st.foldGoal(e)
		}
	}
	if outGoals == nil {
		outGoals = []goal.Event{}
	}

	// Players registered but never referenced still need accumulators so
	// they appear in the cohort with zeroed stats and padded form.
	for id := range st.players {
		st.statsFor(id)
	}

	if err := st.encodeForm(recentStatsMatches(inYear)); err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}

	st.applyRatings(s.weights, s.policy, statsCount)

	snap := st.assemble(inYear, outGoals, s.year, statsCount, s.now())

	s.logger.InfoContext(ctx, "aggregation run complete",
		"year", s.year,
		"players", len(snap.Players),
		"matches_in_year", snap.Meta.MatchesInYear,
		"matches_for_stats", snap.Meta.MatchesCountForStatsInYear,
		"goals", snap.Meta.GoalsIncluded,
		"duration_ms", s.now().Sub(started).Milliseconds(),
	)
	return snap, nil
}

// fetchAll retrieves the three tables concurrently on a bounded pool.
func (s *AggregationService) fetchAll(ctx context.Context) (players, matches, goals []record.Record, err error) {
	pool, perr := ants.NewPool(s.maxWorkers)
	if perr != nil {
		return nil, nil, nil, fmt.Errorf("create worker pool: %w", perr)
	}
	defer pool.Release()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	run := func(name string, fetch func(context.Context) ([]record.Record, error), dst *[]record.Record) {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			recs, ferr := fetch(ctx)
			mu.Lock()
			defer mu.Unlock()
			if ferr != nil {
				errs = append(errs, fmt.Errorf("fetch %s: %w", name, ferr))
				return
			}
			*dst = recs
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("submit %s fetch: %w", name, submitErr))
			mu.Unlock()
		}
	}

	run("players", s.source.FetchPlayers, &players)
	run("matches", s.source.FetchMatches, &matches)
	run("goals", s.source.FetchGoals, &goals)
	wg.Wait()

	if len(errs) > 0 {
		return nil, nil, nil, errs[0]
	}
	return players, matches, goals, nil
}

// recentStatsMatches orders the season's stats-counting matches most
// recent first, stable on source order for equal dates.
func recentStatsMatches(inYear []match.Match) []match.Match {
	out := make([]match.Match, 0, len(inYear))
	for _, m := range inYear {
		if m.CountsForStats {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
