package services

import (
	"math"

	"github.com/epeers/divsim/internal/models"
	"github.com/shopspring/decimal"
)

// SimulateHolding projects one holding forward, one snapshot per year.
//
// Each year the dividend is paid out in PayoutsPerYear equal installments and
// ReinvestmentFraction of every installment buys shares at the start-of-year
// price. Income and value are then measured with the post-reinvestment share
// count against the start-of-year dividend and price, real income is
// discounted by (1+inflation)^year, and only after the snapshot is taken do
// the dividend and price grow for the next year.
//
// Rounding applies to the emitted snapshot only; the carried state keeps
// full precision. The holding must have passed validation (SharePrice > 0).
// Inputs that are finite on their own can still overflow float64 once
// multiplied or compounded; that year is reported as a *NumericOverflowError.
func SimulateHolding(h models.HoldingInput, p models.SimulationParameters) ([]models.YearSnapshot, error) {
	payouts := h.PayoutFrequency.PayoutsPerYear()

	shares := h.StartingShares
	dividend := h.DividendPerShare
	price := h.SharePrice

	snapshots := make([]models.YearSnapshot, 0, max(p.YearsToSimulate, 0))
	for year := 1; year <= p.YearsToSimulate; year++ {
		for i := 0; i < payouts; i++ {
			payout := dividend / float64(payouts) * shares
			shares += payout * p.ReinvestmentFraction / price
		}

		annualIncome := shares * dividend
		portfolioValue := shares * price
		realIncome := annualIncome / math.Pow(1+p.InflationRate, float64(year))

		for _, v := range []struct {
			name  string
			value float64
		}{
			{"shares", shares},
			{"dividend", dividend},
			{"share price", price},
			{"annual income", annualIncome},
			{"portfolio value", portfolioValue},
			{"real income", realIncome},
		} {
			if !finite(v.value) {
				return nil, &NumericOverflowError{Symbol: h.Symbol, Year: year, Quantity: v.name}
			}
		}

		snapshots = append(snapshots, models.YearSnapshot{
			Year:             year,
			Symbol:           h.Symbol,
			Shares:           roundTo(shares, 2),
			DividendPerShare: roundTo(dividend, 4),
			SharePrice:       roundTo(price, 2),
			AnnualIncome:     roundTo(annualIncome, 2),
			PortfolioValue:   roundTo(portfolioValue, 2),
			RealIncome:       roundTo(realIncome, 2),
		})

		dividend *= 1 + p.DividendGrowthRate
		price *= 1 + p.PriceGrowthRate
	}
	return snapshots, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// roundTo rounds half away from zero on the shortest decimal form of v,
// so 2.675 becomes 2.68 rather than the 2.67 binary rounding would give.
func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
