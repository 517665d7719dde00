package services

import (
	"sort"

	"github.com/epeers/divsim/internal/models"
	"github.com/shopspring/decimal"
)

type yearTotals struct {
	income decimal.Decimal
	real   decimal.Decimal
	value  decimal.Decimal
}

// AggregatePortfolio sums the snapshots of every holding by year.
// The result has one entry per year present in any series, ascending.
// A series that is missing a year simply contributes nothing to it.
// Sums are exact decimal additions of the already rounded snapshot values.
func AggregatePortfolio(series [][]models.YearSnapshot) []models.PortfolioYearSummary {
	byYear := make(map[int]yearTotals)
	for _, snapshots := range series {
		for _, s := range snapshots {
			t, ok := byYear[s.Year]
			if !ok {
				t = yearTotals{income: decimal.Zero, real: decimal.Zero, value: decimal.Zero}
			}
			byYear[s.Year] = yearTotals{
				income: t.income.Add(decimal.NewFromFloat(s.AnnualIncome)),
				real:   t.real.Add(decimal.NewFromFloat(s.RealIncome)),
				value:  t.value.Add(decimal.NewFromFloat(s.PortfolioValue)),
			}
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	summary := make([]models.PortfolioYearSummary, len(years))
	for i, y := range years {
		t := byYear[y]
		summary[i] = models.PortfolioYearSummary{
			Year:                y,
			TotalAnnualIncome:   t.income.InexactFloat64(),
			TotalRealIncome:     t.real.InexactFloat64(),
			TotalPortfolioValue: t.value.InexactFloat64(),
		}
	}
	return summary
}

// FlattenDetails concatenates per-holding series into the detail table:
// holdings in input order, each holding's years ascending.
func FlattenDetails(series [][]models.YearSnapshot) []models.YearSnapshot {
	n := 0
	for _, s := range series {
		n += len(s)
	}
	details := make([]models.YearSnapshot, 0, n)
	for _, s := range series {
		details = append(details, s...)
	}
	return details
}

// IncomeSeriesOf extracts the (year, income) lines plotted on the income chart
func IncomeSeriesOf(summary []models.PortfolioYearSummary) models.IncomeSeries {
	series := models.IncomeSeries{
		AnnualIncome: make([]models.SeriesPoint, len(summary)),
		RealIncome:   make([]models.SeriesPoint, len(summary)),
	}
	for i, s := range summary {
		series.AnnualIncome[i] = models.SeriesPoint{Year: s.Year, Value: s.TotalAnnualIncome}
		series.RealIncome[i] = models.SeriesPoint{Year: s.Year, Value: s.TotalRealIncome}
	}
	return series
}
