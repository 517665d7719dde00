package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/epeers/divsim/internal/models"
)

var (
	ErrInvalidInput    = errors.New("invalid holding input")
	ErrParameterRange  = errors.New("simulation parameter out of range")
	ErrNoHoldings      = errors.New("no holdings to simulate")
	ErrNumericOverflow = errors.New("projection exceeds the representable range")
)

// Column names of the holdings table, also used as field names in errors
const (
	FieldSymbol          = "Symbol"
	FieldStartingShares  = "Starting Shares"
	FieldSharePrice      = "Share Price"
	FieldDividend        = "Dividend"
	FieldPayoutFrequency = "Payout Frequency"
)

// InvalidInputError reports a holding row that cannot be simulated.
// It matches ErrInvalidInput with errors.Is.
type InvalidInputError struct {
	Row    int
	Symbol string
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	where := fmt.Sprintf("row %d", e.Row)
	if e.Row == 0 {
		where = "holding"
	}
	if e.Symbol != "" {
		where += " (" + e.Symbol + ")"
	}
	return fmt.Sprintf("%s: %s %q %s", where, e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// ParameterRangeError reports a simulation parameter outside its allowed range.
// It matches ErrParameterRange with errors.Is.
type ParameterRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *ParameterRangeError) Error() string {
	return fmt.Sprintf("%s must be between %g and %g, got %g", e.Field, e.Min, e.Max, e.Value)
}

func (e *ParameterRangeError) Unwrap() error {
	return ErrParameterRange
}

// NumericOverflowError reports a projection whose values grow beyond float64.
// Symbol is empty when the overflow happened in the portfolio totals.
// It matches ErrNumericOverflow with errors.Is.
type NumericOverflowError struct {
	Symbol   string
	Year     int
	Quantity string
}

func (e *NumericOverflowError) Error() string {
	who := "portfolio total"
	if e.Symbol != "" {
		who = e.Symbol
	}
	return fmt.Sprintf("%s: %s overflows in year %d", who, e.Quantity, e.Year)
}

func (e *NumericOverflowError) Unwrap() error {
	return ErrNumericOverflow
}

// Parameter ranges
const (
	MinYears      = 1
	MaxYears      = 50
	MaxGrowthRate = 0.10
	MaxReinvest   = 1.0
)

// ValidateParameters rejects any assumption outside its declared range.
// The first offending field is reported.
func ValidateParameters(p models.SimulationParameters) error {
	if p.YearsToSimulate < MinYears || p.YearsToSimulate > MaxYears {
		return &ParameterRangeError{Field: "years_to_simulate", Value: float64(p.YearsToSimulate), Min: MinYears, Max: MaxYears}
	}
	checks := []struct {
		field string
		value float64
		max   float64
	}{
		{"dividend_growth_rate", p.DividendGrowthRate, MaxGrowthRate},
		{"price_growth_rate", p.PriceGrowthRate, MaxGrowthRate},
		{"reinvestment_fraction", p.ReinvestmentFraction, MaxReinvest},
		{"inflation_rate", p.InflationRate, MaxGrowthRate},
	}
	for _, c := range checks {
		// written so that NaN fails too
		if !(c.value >= 0 && c.value <= c.max) {
			return &ParameterRangeError{Field: c.field, Value: c.value, Min: 0, Max: c.max}
		}
	}
	return nil
}

// ParsePayoutFrequency maps an input token to a frequency, ignoring case.
// "M" is monthly and "Q" is quarterly. Any other token, including an empty
// one, falls back to monthly; recognized reports whether that happened.
func ParsePayoutFrequency(token string) (freq models.PayoutFrequency, recognized bool) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "M":
		return models.PayoutMonthly, true
	case "Q":
		return models.PayoutQuarterly, true
	default:
		return models.PayoutMonthly, false
	}
}

// ParseHoldingRow converts one raw table row into a validated HoldingInput.
// freqRecognized is false when the payout frequency fell back to monthly.
func ParseHoldingRow(row models.HoldingRow) (h models.HoldingInput, freqRecognized bool, err error) {
	symbol := strings.TrimSpace(row.Symbol)

	parse := func(field, raw string) (float64, error) {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &InvalidInputError{Row: row.Row, Symbol: symbol, Field: field, Value: raw, Reason: "is not a number"}
		}
		return v, nil
	}

	shares, err := parse(FieldStartingShares, row.StartingShares)
	if err != nil {
		return h, false, err
	}
	price, err := parse(FieldSharePrice, row.SharePrice)
	if err != nil {
		return h, false, err
	}
	dividend, err := parse(FieldDividend, row.Dividend)
	if err != nil {
		return h, false, err
	}
	freq, freqRecognized := ParsePayoutFrequency(row.PayoutFrequency)

	h = models.HoldingInput{
		Symbol:           symbol,
		StartingShares:   shares,
		SharePrice:       price,
		DividendPerShare: dividend,
		PayoutFrequency:  freq,
	}
	if err := validateHolding(row.Row, h); err != nil {
		return models.HoldingInput{}, false, err
	}
	return h, freqRecognized, nil
}

// ValidateHolding checks an already typed holding
func ValidateHolding(h models.HoldingInput) error {
	return validateHolding(0, h)
}

func validateHolding(rowNum int, h models.HoldingInput) error {
	invalid := func(field string, value float64, reason string) error {
		return &InvalidInputError{
			Row:    rowNum,
			Symbol: h.Symbol,
			Field:  field,
			Value:  strconv.FormatFloat(value, 'f', -1, 64),
			Reason: reason,
		}
	}

	if strings.TrimSpace(h.Symbol) == "" {
		return &InvalidInputError{Row: rowNum, Field: FieldSymbol, Value: h.Symbol, Reason: "must not be empty"}
	}
	// Negated comparisons also reject NaN
	if !(h.SharePrice > 0) || math.IsInf(h.SharePrice, 0) {
		return invalid(FieldSharePrice, h.SharePrice, "must be greater than zero")
	}
	if !(h.StartingShares >= 0) || math.IsInf(h.StartingShares, 0) {
		return invalid(FieldStartingShares, h.StartingShares, "must not be negative")
	}
	if !(h.DividendPerShare >= 0) || math.IsInf(h.DividendPerShare, 0) {
		return invalid(FieldDividend, h.DividendPerShare, "must not be negative")
	}
	return nil
}
