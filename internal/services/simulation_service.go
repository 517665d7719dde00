package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/epeers/divsim/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SimulationOptions controls how a run treats bad rows and how it schedules work
type SimulationOptions struct {
	// SkipInvalidRows drops rows that fail validation (with a warning)
	// instead of failing the whole run.
	SkipInvalidRows bool
	// Parallel simulates holdings concurrently. Output order is unchanged.
	Parallel bool
}

// SimulationService runs portfolio projections
type SimulationService struct {
	opts SimulationOptions
}

// NewSimulationService creates a new SimulationService
func NewSimulationService(opts SimulationOptions) *SimulationService {
	return &SimulationService{opts: opts}
}

// Run validates the raw holdings table and parameters, then projects the portfolio.
// Parameters are checked before any row is looked at.
func (s *SimulationService) Run(ctx context.Context, rows []models.HoldingRow, params models.SimulationParameters) (*models.SimulationResult, error) {
	defer TrackTime("Run", time.Now())

	if err := ValidateParameters(params); err != nil {
		return nil, err
	}

	ctx, warnings := WithWarnings(ctx)

	holdings := make([]models.HoldingInput, 0, len(rows))
	for _, row := range rows {
		h, recognized, err := ParseHoldingRow(row)
		if err != nil {
			if !s.opts.SkipInvalidRows {
				return nil, err
			}
			Warnf(ctx, models.WarnRowSkipped, "skipped %v", err)
			continue
		}
		if !recognized {
			Warnf(ctx, models.WarnFrequencyDefaulted, "row %d (%s): payout frequency %q not recognized, assuming monthly", row.Row, h.Symbol, row.PayoutFrequency)
		}
		holdings = append(holdings, h)
	}

	result, err := s.project(ctx, holdings, params)
	if err != nil {
		return nil, err
	}
	result.Warnings = finish(warnings, len(rows))
	return result, nil
}

// Simulate projects already typed holdings. Validation and the invalid row
// policy apply exactly as they do for Run.
func (s *SimulationService) Simulate(ctx context.Context, holdings []models.HoldingInput, params models.SimulationParameters) (*models.SimulationResult, error) {
	defer TrackTime("Simulate", time.Now())

	if err := ValidateParameters(params); err != nil {
		return nil, err
	}

	ctx, warnings := WithWarnings(ctx)

	valid := make([]models.HoldingInput, 0, len(holdings))
	for i, h := range holdings {
		if err := ValidateHolding(h); err != nil {
			var inputErr *InvalidInputError
			if errors.As(err, &inputErr) {
				inputErr.Row = i + 1
			}
			if !s.opts.SkipInvalidRows {
				return nil, err
			}
			Warnf(ctx, models.WarnRowSkipped, "skipped %v", err)
			continue
		}
		if h.PayoutFrequency != models.PayoutMonthly && h.PayoutFrequency != models.PayoutQuarterly {
			Warnf(ctx, models.WarnFrequencyDefaulted, "holding %d (%s): payout frequency %d not recognized, assuming monthly", i+1, h.Symbol, h.PayoutFrequency)
			h.PayoutFrequency = models.PayoutMonthly
		}
		valid = append(valid, h)
	}

	result, err := s.project(ctx, valid, params)
	if err != nil {
		return nil, err
	}
	result.Warnings = finish(warnings, len(holdings))
	return result, nil
}

// finish closes out the warnings of a successful run
func finish(warnings *Warnings, inputs int) []models.Warning {
	if skipped := warnings.Count(models.WarnRowSkipped); skipped > 0 {
		log.Infof("Projected %d of %d holdings, %d skipped", inputs-skipped, inputs, skipped)
	}
	return warnings.List()
}

func (s *SimulationService) project(ctx context.Context, holdings []models.HoldingInput, params models.SimulationParameters) (*models.SimulationResult, error) {
	if len(holdings) == 0 {
		return nil, ErrNoHoldings
	}

	series, err := s.simulateAll(ctx, holdings, params)
	if err != nil {
		return nil, err
	}

	summary := AggregatePortfolio(series)
	if err := checkTotals(summary); err != nil {
		return nil, err
	}
	log.Debugf("Projected %d holdings over %d years", len(holdings), params.YearsToSimulate)

	return &models.SimulationResult{
		Parameters: params,
		Holdings:   holdings,
		Details:    FlattenDetails(series),
		Summary:    summary,
		Income:     IncomeSeriesOf(summary),
	}, nil
}

// simulateAll runs every holding. Each result lands in its own slot, so
// the parallel path needs no locking and keeps input order.
func (s *SimulationService) simulateAll(ctx context.Context, holdings []models.HoldingInput, params models.SimulationParameters) ([][]models.YearSnapshot, error) {
	series := make([][]models.YearSnapshot, len(holdings))

	if !s.opts.Parallel {
		for i, h := range holdings {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			snapshots, err := simulateOne(h, params)
			if err != nil {
				return nil, err
			}
			series[i] = snapshots
		}
		return series, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, h := range holdings {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			snapshots, err := simulateOne(h, params)
			if err != nil {
				return err
			}
			series[i] = snapshots
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return series, nil
}

// simulateOne turns a panic inside the engine into an error. In the parallel
// path it runs on an errgroup goroutine, where nothing upstream would recover it.
func simulateOne(h models.HoldingInput, params models.SimulationParameters) (snapshots []models.YearSnapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Recovered panic simulating %s: %v", h.Symbol, r)
			snapshots, err = nil, fmt.Errorf("simulating %s: %v", h.Symbol, r)
		}
	}()
	return simulate(h, params)
}

// simulate is swapped out by tests that need the engine to fail
var simulate = SimulateHolding

// checkTotals rejects a summary whose sums left the float64 range even
// though every holding fit on its own.
func checkTotals(summary []models.PortfolioYearSummary) error {
	for _, s := range summary {
		switch {
		case !finite(s.TotalAnnualIncome):
			return &NumericOverflowError{Year: s.Year, Quantity: "annual income"}
		case !finite(s.TotalRealIncome):
			return &NumericOverflowError{Year: s.Year, Quantity: "real income"}
		case !finite(s.TotalPortfolioValue):
			return &NumericOverflowError{Year: s.Year, Quantity: "portfolio value"}
		}
	}
	return nil
}
