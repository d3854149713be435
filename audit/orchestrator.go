package audit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RunStatus is the only externally observable failure signal besides the
// per-unit failure lists.
type RunStatus string

const (
	RunCompleted RunStatus = "Completed"
	RunFailed    RunStatus = "Failed"
	RunCancelled RunStatus = "Cancelled"
)

var ErrNoEstates = errors.New("no estates configured for audit run")

// RunConfig is the full parameter set for one analysis run. Nothing here is
// hardcoded in the engine: the role table, the compared field list and the
// period-specific verifier status filter all come from the caller.
type RunConfig struct {
	Estates  []string
	FromDate string
	ToDate   string

	RoleTable     RoleTable
	CompareFields []QuantityField

	ApplyVerifierStatusFilter bool
	VerifierStatus            string

	// Workers bounds the estate worker pool. <=1 means sequential. Estates
	// are independent and merging is commutative, so the worker count only
	// changes wall-clock time, never the result.
	Workers int
}

// ProgressFunc receives coarse progress events, one per estate boundary.
type ProgressFunc func(estateIndex, estateCount int, message string)

// AnalysisResult is the grand-total rollup handed to the report layer. The
// engine holds no state once it is returned.
type AnalysisResult struct {
	RunID            string    `json:"RunId"`
	Status           RunStatus `json:"Status"`
	Cancelled        bool      `json:"Cancelled"`
	RoleTableVersion string    `json:"RoleTableVersion"`
	FromDate         string    `json:"FromDate"`
	ToDate           string    `json:"ToDate"`
	GeneratedAt      time.Time `json:"GeneratedAt"`

	Summary
	Estates  []*EstateSummary `json:"Estates"`
	Failures []EstateFailure  `json:"Failures,omitempty"`
}

// Orchestrator runs the reconciliation pipeline across estates.
type Orchestrator struct {
	Source    RecordSource
	Directory EmployeeDirectory
	Logger    *logrus.Logger
}

type estateOutcome struct {
	index   int
	estate  string
	summary *EstateSummary
	err     error
}

// Run executes one analysis: per-estate reconciliation with failure
// isolation, cooperative cancellation checked between estates, and a single
// coordinator merging completed estates into the grand total.
//
// A cancelled run returns the estates that completed plus Cancelled status;
// a partially failed run still completes; only a run in which every estate
// failed reports Failed.
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig, progress ProgressFunc) (*AnalysisResult, error) {
	if len(cfg.Estates) == 0 {
		return nil, ErrNoEstates
	}
	if cfg.RoleTable.Version == "" {
		cfg.RoleTable = DefaultRoleTable()
	}
	if len(cfg.CompareFields) == 0 {
		cfg.CompareFields = DefaultCompareFields()
	}

	result := &AnalysisResult{
		RunID:            uuid.NewString(),
		RoleTableVersion: cfg.RoleTable.Version,
		FromDate:         cfg.FromDate,
		ToDate:           cfg.ToDate,
		GeneratedAt:      time.Now().UTC(),
	}
	result.Employees = make(map[string]*EmployeeMetrics)

	reconciler := &EstateReconciler{Source: o.Source, Directory: o.Directory, Logger: o.Logger}
	total := len(cfg.Estates)

	var outcomes []estateOutcome
	if cfg.Workers > 1 {
		outcomes = o.runPool(ctx, reconciler, cfg, progress)
	} else {
		outcomes = o.runSequential(ctx, reconciler, cfg, progress)
	}

	// Single-coordinator merge keeps the rollup lock-free regardless of how
	// the outcomes were produced.
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].index < outcomes[j].index })
	for _, out := range outcomes {
		if errors.Is(out.err, context.Canceled) || errors.Is(out.err, context.DeadlineExceeded) {
			// Cancellation mid-estate is not an estate failure.
			continue
		}
		if out.err != nil {
			if o.Logger != nil {
				o.Logger.WithFields(logrus.Fields{
					"estate": out.estate,
					"run_id": result.RunID,
				}).Error(out.err.Error())
			}
			result.Failures = append(result.Failures, EstateFailure{Estate: out.estate, Error: out.err.Error()})
			continue
		}
		result.Estates = append(result.Estates, out.summary)
		result.mergeEmployees(out.summary.Employees)
	}

	switch {
	case ctx.Err() != nil:
		result.Cancelled = true
		result.Status = RunCancelled
	case len(result.Estates) == 0 && len(result.Failures) == total:
		result.Status = RunFailed
	default:
		result.Status = RunCompleted
	}

	if progress != nil {
		progress(total, total, fmt.Sprintf("analysis %s: %d estates, %d failures", result.Status, len(result.Estates), len(result.Failures)))
	}
	return result, nil
}

func (o *Orchestrator) runSequential(ctx context.Context, reconciler *EstateReconciler, cfg RunConfig, progress ProgressFunc) []estateOutcome {
	var outcomes []estateOutcome
	for i, estate := range cfg.Estates {
		if ctx.Err() != nil {
			break
		}
		if progress != nil {
			progress(i, len(cfg.Estates), "processing estate "+estate)
		}
		summary, err := reconciler.Reconcile(ctx, estate, cfg)
		outcomes = append(outcomes, estateOutcome{index: i, estate: estate, summary: summary, err: err})
	}
	return outcomes
}

// runPool fans estates out over a bounded worker pool. Each estate is an
// atomic unit: a worker either delivers a complete summary or an error, so
// cancellation never exposes a corrupted partial estate.
func (o *Orchestrator) runPool(ctx context.Context, reconciler *EstateReconciler, cfg RunConfig, progress ProgressFunc) []estateOutcome {
	workers := cfg.Workers
	if workers > len(cfg.Estates) {
		workers = len(cfg.Estates)
	}

	jobs := make(chan int)
	results := make(chan estateOutcome, len(cfg.Estates))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				estate := cfg.Estates[i]
				summary, err := reconciler.Reconcile(ctx, estate, cfg)
				results <- estateOutcome{index: i, estate: estate, summary: summary, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range cfg.Estates {
			if ctx.Err() != nil {
				return
			}
			if progress != nil {
				progress(i, len(cfg.Estates), "processing estate "+cfg.Estates[i])
			}
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var outcomes []estateOutcome
	for out := range results {
		outcomes = append(outcomes, out)
	}
	return outcomes
}
