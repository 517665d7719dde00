package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/epeers/divsim/internal/models"
	"github.com/shopspring/decimal"
)

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

func amount(v float64, places int32) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// cash formats v in the given ISO currency, e.g. 1103.81 USD as $1,103.81.
// Unknown codes, and amounts too large for go-money's int64 minor units,
// fall back to plain two-digit amounts.
func cash(v float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return amount(v, 2)
	}
	minor := decimal.NewFromFloat(v).Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return amount(v, 2)
	}
	return cur.Formatter().Format(minor.IntPart())
}

var cellEscaper = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "|", `\|`)

// cell keeps user text from breaking out of a markdown table cell
func cell(s string) string {
	return cellEscaper.Replace(s)
}

func percent(v float64) string {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).String() + "%"
}

// renderResult formats a projection as markdown: assumptions, input preview,
// year-by-year summary, optional detail table and warnings.
func renderResult(r *models.SimulationResult, currency string, withDetails bool) string {
	var b strings.Builder
	p := r.Parameters

	b.WriteString("# Dividend Portfolio Projection\n\n")
	fmt.Fprintf(&b, "%d years, dividend growth %s, price growth %s, reinvestment %s, inflation %s\n\n",
		p.YearsToSimulate, percent(p.DividendGrowthRate), percent(p.PriceGrowthRate),
		percent(p.ReinvestmentFraction), percent(p.InflationRate))

	b.WriteString("## Holdings\n\n")
	b.WriteString("| Symbol | Starting Shares | Share Price | Dividend | Payout Frequency |\n")
	b.WriteString("|---|---:|---:|---:|:---:|\n")
	for _, h := range r.Holdings {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", cell(h.Symbol),
			decimal.NewFromFloat(h.StartingShares).String(), cash(h.SharePrice, currency),
			decimal.NewFromFloat(h.DividendPerShare).String(), h.PayoutFrequency)
	}

	b.WriteString("\n## Year-by-Year Portfolio Summary\n\n")
	b.WriteString("| Year | Annual Income | Real Income | Portfolio Value |\n")
	b.WriteString("|---:|---:|---:|---:|\n")
	for _, s := range r.Summary {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", s.Year,
			cash(s.TotalAnnualIncome, currency), cash(s.TotalRealIncome, currency), cash(s.TotalPortfolioValue, currency))
	}

	if withDetails {
		b.WriteString("\n## Per-Holding Detail\n\n")
		b.WriteString("| Year | Symbol | Shares | Dividend/Share | Share Price | Annual Income | Portfolio Value | Real Income |\n")
		b.WriteString("|---:|---|---:|---:|---:|---:|---:|---:|\n")
		for _, d := range r.Details {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s |\n", d.Year, cell(d.Symbol),
				amount(d.Shares, 2), amount(d.DividendPerShare, 4), cash(d.SharePrice, currency),
				cash(d.AnnualIncome, currency), cash(d.PortfolioValue, currency), cash(d.RealIncome, currency))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- `%s` %s\n", w.Code, w.Message)
		}
	}

	return b.String()
}
