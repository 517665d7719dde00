package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/epeers/divsim/internal/models"
)

func sampleRows() []models.HoldingRow {
	return []models.HoldingRow{
		{Row: 2, Symbol: "T", StartingShares: "100", SharePrice: "10", Dividend: "1.0", PayoutFrequency: "Q"},
		{Row: 3, Symbol: "O", StartingShares: "40", SharePrice: "55", Dividend: "3.1", PayoutFrequency: "m"},
		{Row: 4, Symbol: "KO", StartingShares: "12", SharePrice: "61", Dividend: "1.94", PayoutFrequency: "q"},
	}
}

func TestRun_ProducesAllTables(t *testing.T) {
	svc := NewSimulationService(SimulationOptions{})
	p := params(5, 0.02, 0.01, 1.0, 0.02)

	result, err := svc.Run(context.Background(), sampleRows(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Holdings) != 3 {
		t.Errorf("expected 3 holdings, got %d", len(result.Holdings))
	}
	if len(result.Details) != 15 {
		t.Fatalf("expected 15 detail rows, got %d", len(result.Details))
	}
	if len(result.Summary) != 5 {
		t.Fatalf("expected 5 summary rows, got %d", len(result.Summary))
	}
	if len(result.Income.AnnualIncome) != 5 || len(result.Income.RealIncome) != 5 {
		t.Errorf("expected 5 points per income series, got %+v", result.Income)
	}
	if result.Warnings == nil || len(result.Warnings) != 0 {
		t.Errorf("expected empty, non-nil warnings, got %#v", result.Warnings)
	}
	if result.Parameters != p {
		t.Errorf("expected parameters to be echoed, got %+v", result.Parameters)
	}

	// symbol-major, year-ascending
	wantOrder := []string{"T", "O", "KO"}
	for i, d := range result.Details {
		if d.Symbol != wantOrder[i/5] || d.Year != i%5+1 {
			t.Errorf("detail %d: got %s year %d", i, d.Symbol, d.Year)
		}
	}
}

func TestRun_SingleYearBoundary(t *testing.T) {
	svc := NewSimulationService(SimulationOptions{})
	rows := sampleRows()[:1]

	result, err := svc.Run(context.Background(), rows, params(1, 0, 0, 1.0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Details) != 1 || len(result.Summary) != 1 {
		t.Fatalf("expected one detail and one summary row, got %d and %d", len(result.Details), len(result.Summary))
	}
	want := models.PortfolioYearSummary{Year: 1, TotalAnnualIncome: 110.38, TotalRealIncome: 110.38, TotalPortfolioValue: 1103.81}
	if result.Summary[0] != want {
		t.Errorf("got %+v, want %+v", result.Summary[0], want)
	}
}

func TestRun_UnknownFrequencyWarns(t *testing.T) {
	svc := NewSimulationService(SimulationOptions{})
	rows := []models.HoldingRow{
		{Row: 2, Symbol: "W", StartingShares: "100", SharePrice: "10", Dividend: "1.0", PayoutFrequency: "W"},
	}

	result, err := svc.Run(context.Background(), rows, params(1, 0, 0, 1.0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Holdings[0].PayoutFrequency != models.PayoutMonthly {
		t.Errorf("expected monthly fallback, got %v", result.Holdings[0].PayoutFrequency)
	}
	if result.Details[0].Shares != 110.47 {
		t.Errorf("expected 12 sub-periods (110.47 shares), got %v", result.Details[0].Shares)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code != models.WarnFrequencyDefaulted {
		t.Fatalf("expected one %s warning, got %+v", models.WarnFrequencyDefaulted, result.Warnings)
	}
	if !strings.Contains(result.Warnings[0].Message, `"W"`) {
		t.Errorf("expected warning to quote the token, got %q", result.Warnings[0].Message)
	}
}

func TestRun_InvalidRowAbortsByDefault(t *testing.T) {
	svc := NewSimulationService(SimulationOptions{})
	rows := sampleRows()
	rows[1].SharePrice = "0"

	_, err := svc.Run(context.Background(), rows, params(3, 0, 0, 1.0, 0))
	var inputErr *InvalidInputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if inputErr.Row != 3 || inputErr.Symbol != "O" || inputErr.Field != FieldSharePrice {
		t.Errorf("unexpected error details: %+v", inputErr)
	}
}

func TestRun_InvalidRowSkippedWhenConfigured(t *testing.T) {
	svc := NewSimulationService(SimulationOptions{SkipInvalidRows: true})
	rows := sampleRows()
	rows[1].StartingShares = "-5"

	result, err := svc.Run(context.Background(), rows, params(3, 0, 0, 1.0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Holdings) != 2 || result.Holdings[0].Symbol != "T" || result.Holdings[1].Symbol != "KO" {
		t.Errorf("expected T and KO to remain, got %+v", result.Holdings)
	}
	if len(result.Details) != 6 {
		t.Errorf("expected 6 detail rows, got %d", len(result.Details))
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code != models.WarnRowSkipped {
		t.Fatalf("expected one %s warning, got %+v", models.WarnRowSkipped, result.Warnings)
	}
	if !strings.Contains(result.Warnings[0].Message, "row 3") {
		t.Errorf("expected warning to name the row, got %q", result.Warnings[0].Message)
	}
}

func TestRun_NoUsableRows(t *testing.T) {
	svc := NewSimulationService(SimulationOptions{SkipInvalidRows: true})

	if _, err := svc.Run(context.Background(), nil, models.DefaultSimulationParameters()); !errors.Is(err, ErrNoHoldings) {
		t.Errorf("expected ErrNoHoldings for empty table, got %v", err)
	}

	rows := []models.HoldingRow{{Row: 2, Symbol: "X", StartingShares: "1", SharePrice: "0", Dividend: "1"}}
	if _, err := svc.Run(context.Background(), rows, models.DefaultSimulationParameters()); !errors.Is(err, ErrNoHoldings) {
		t.Errorf("expected ErrNoHoldings when every row is skipped, got %v", err)
	}
}

func TestRun_ParametersCheckedBeforeRows(t *testing.T) {
	svc := NewSimulationService(SimulationOptions{})
	rows := sampleRows()
	rows[0].SharePrice = "0"

	_, err := svc.Run(context.Background(), rows, params(0, 0, 0, 1.0, 0))
	if !errors.Is(err, ErrParameterRange) {
		t.Errorf("expected ErrParameterRange, got %v", err)
	}
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	rows := make([]models.HoldingRow, 0, 40)
	for i := 0; i < 40; i++ {
		r := sampleRows()[i%3]
		r.Row = i + 2
		r.Symbol = r.Symbol + strings.Repeat("X", i)
		rows = append(rows, r)
	}
	p := params(30, 0.03, 0.02, 0.75, 0.025)

	seq, err := NewSimulationService(SimulationOptions{}).Run(context.Background(), rows, p)
	if err != nil {
		t.Fatalf("sequential run failed: %v", err)
	}
	par, err := NewSimulationService(SimulationOptions{Parallel: true}).Run(context.Background(), rows, p)
	if err != nil {
		t.Fatalf("parallel run failed: %v", err)
	}

	if !reflect.DeepEqual(seq, par) {
		t.Error("parallel result differs from sequential result")
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, parallel := range []bool{false, true} {
		svc := NewSimulationService(SimulationOptions{Parallel: parallel})
		if _, err := svc.Run(ctx, sampleRows(), params(2, 0, 0, 1, 0)); !errors.Is(err, context.Canceled) {
			t.Errorf("parallel=%t: expected context.Canceled, got %v", parallel, err)
		}
	}
}

func TestSimulate_TypedHoldings(t *testing.T) {
	holdings := []models.HoldingInput{
		{Symbol: "T", StartingShares: 100, SharePrice: 10, DividendPerShare: 1.0, PayoutFrequency: models.PayoutQuarterly},
		{Symbol: "BAD", StartingShares: 1, SharePrice: -1, DividendPerShare: 1.0},
	}

	_, err := NewSimulationService(SimulationOptions{}).Simulate(context.Background(), holdings, params(1, 0, 0, 1, 0))
	var inputErr *InvalidInputError
	if !errors.As(err, &inputErr) || inputErr.Row != 2 || inputErr.Symbol != "BAD" {
		t.Fatalf("expected InvalidInputError for holding 2, got %v", err)
	}

	result, err := NewSimulationService(SimulationOptions{SkipInvalidRows: true}).Simulate(context.Background(), holdings, params(1, 0, 0, 1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Holdings) != 1 || result.Summary[0].TotalPortfolioValue != 1103.81 {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code != models.WarnRowSkipped {
		t.Errorf("expected a skipped-row warning, got %+v", result.Warnings)
	}
}

func TestRun_OverflowingHoldingIsAnError(t *testing.T) {
	rows := append(sampleRows(), models.HoldingRow{Row: 5, Symbol: "BIG", StartingShares: "1e300", SharePrice: "10", Dividend: "1e10", PayoutFrequency: "Q"})

	for _, parallel := range []bool{false, true} {
		svc := NewSimulationService(SimulationOptions{Parallel: parallel})
		_, err := svc.Run(context.Background(), rows, models.DefaultSimulationParameters())
		var overflow *NumericOverflowError
		if !errors.As(err, &overflow) || overflow.Symbol != "BIG" {
			t.Errorf("parallel=%t: expected overflow for BIG, got %v", parallel, err)
		}
	}
}

func TestRun_OverflowingTotalsIsAnError(t *testing.T) {
	// each holding is worth about 1e308, their sum is not a float64
	rows := []models.HoldingRow{
		{Row: 2, Symbol: "A", StartingShares: "1e154", SharePrice: "1e154", Dividend: "1", PayoutFrequency: "Q"},
		{Row: 3, Symbol: "B", StartingShares: "1e154", SharePrice: "1e154", Dividend: "1", PayoutFrequency: "Q"},
	}

	_, err := NewSimulationService(SimulationOptions{}).Run(context.Background(), rows, params(1, 0, 0, 1, 0))
	var overflow *NumericOverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("expected NumericOverflowError, got %v", err)
	}
	if overflow.Symbol != "" || overflow.Quantity != "portfolio value" || overflow.Year != 1 {
		t.Errorf("unexpected overflow details: %+v", overflow)
	}
}

func TestRun_EnginePanicBecomesError(t *testing.T) {
	orig := simulate
	defer func() { simulate = orig }()
	simulate = func(h models.HoldingInput, p models.SimulationParameters) ([]models.YearSnapshot, error) {
		if h.Symbol == "O" {
			panic("engine failure")
		}
		return orig(h, p)
	}

	for _, parallel := range []bool{false, true} {
		svc := NewSimulationService(SimulationOptions{Parallel: parallel})
		_, err := svc.Run(context.Background(), sampleRows(), params(2, 0, 0, 1, 0))
		if err == nil || !strings.Contains(err.Error(), "simulating O: engine failure") {
			t.Errorf("parallel=%t: expected recovered engine error, got %v", parallel, err)
		}
	}
}

func TestSimulate_UnknownFrequencyWarns(t *testing.T) {
	holdings := []models.HoldingInput{
		{Symbol: "Z", StartingShares: 100, SharePrice: 10, DividendPerShare: 1.0, PayoutFrequency: 7},
	}

	result, err := NewSimulationService(SimulationOptions{}).Simulate(context.Background(), holdings, params(1, 0, 0, 1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Holdings[0].PayoutFrequency != models.PayoutMonthly || result.Details[0].Shares != 110.47 {
		t.Errorf("expected monthly compounding, got %+v", result.Details[0])
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code != models.WarnFrequencyDefaulted {
		t.Errorf("expected a defaulted-frequency warning, got %+v", result.Warnings)
	}
}
