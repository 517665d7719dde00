package models

// PayoutFrequency is the number of dividend distributions per year
type PayoutFrequency int

const (
	PayoutMonthly   PayoutFrequency = 12
	PayoutQuarterly PayoutFrequency = 4
)

// String returns the input token for the frequency ("M" or "Q")
func (f PayoutFrequency) String() string {
	if f == PayoutQuarterly {
		return "Q"
	}
	return "M"
}

// PayoutsPerYear returns the number of payout sub-periods in a year.
// Anything other than quarterly, including the zero value, pays monthly.
func (f PayoutFrequency) PayoutsPerYear() int {
	if f == PayoutQuarterly {
		return 4
	}
	return 12
}

// HoldingRow is one untyped row of the holdings table, exactly as uploaded.
// Row is the line number in the table, counting the header as row 1.
type HoldingRow struct {
	Row             int    `json:"row"`
	Symbol          string `json:"symbol"`
	StartingShares  string `json:"starting_shares"`
	SharePrice      string `json:"share_price"`
	Dividend        string `json:"dividend"`
	PayoutFrequency string `json:"payout_frequency"`
}

// HoldingInput is a validated portfolio position.
// DividendPerShare is the annual rate, split evenly across payouts.
type HoldingInput struct {
	Symbol           string          `json:"symbol"`
	StartingShares   float64         `json:"starting_shares"`
	SharePrice       float64         `json:"share_price"`
	DividendPerShare float64         `json:"dividend_per_share"`
	PayoutFrequency  PayoutFrequency `json:"payout_frequency"`
}

// SimulationParameters are the global assumptions shared by every holding in a run.
// Rates are fractional (0.02 = 2%/year).
type SimulationParameters struct {
	YearsToSimulate      int     `json:"years_to_simulate"`
	DividendGrowthRate   float64 `json:"dividend_growth_rate"`
	PriceGrowthRate      float64 `json:"price_growth_rate"`
	ReinvestmentFraction float64 `json:"reinvestment_fraction"`
	InflationRate        float64 `json:"inflation_rate"`
}

// SimulationRequest is the JSON body of a projection over typed holdings
type SimulationRequest struct {
	Holdings []HoldingInput       `json:"holdings"`
	Params   SimulationParameters `json:"params"`
}

// DefaultSimulationParameters returns the assumptions used when the caller supplies none
func DefaultSimulationParameters() SimulationParameters {
	return SimulationParameters{
		YearsToSimulate:      12,
		DividendGrowthRate:   0.02,
		PriceGrowthRate:      0.01,
		ReinvestmentFraction: 1.0,
		InflationRate:        0.02,
	}
}

// ParametersFromPercent builds parameters from percentage inputs
// (2 = 2%), the way assumptions are usually typed in by a person.
func ParametersFromPercent(years int, divGrowthPct, priceGrowthPct, reinvestPct, inflationPct float64) SimulationParameters {
	return SimulationParameters{
		YearsToSimulate:      years,
		DividendGrowthRate:   divGrowthPct / 100,
		PriceGrowthRate:      priceGrowthPct / 100,
		ReinvestmentFraction: reinvestPct / 100,
		InflationRate:        inflationPct / 100,
	}
}

// YearSnapshot is one holding's state at the end of a simulated year.
// DividendPerShare and SharePrice are the rates in effect at the start of the year.
type YearSnapshot struct {
	Year             int     `json:"year"`
	Symbol           string  `json:"symbol"`
	Shares           float64 `json:"shares"`
	DividendPerShare float64 `json:"dividend_per_share"`
	SharePrice       float64 `json:"share_price"`
	AnnualIncome     float64 `json:"annual_income"`
	PortfolioValue   float64 `json:"portfolio_value"`
	RealIncome       float64 `json:"real_income"`
}

// PortfolioYearSummary is the sum of every holding's snapshot for one year
type PortfolioYearSummary struct {
	Year                int     `json:"year"`
	TotalAnnualIncome   float64 `json:"total_annual_income"`
	TotalRealIncome     float64 `json:"total_real_income"`
	TotalPortfolioValue float64 `json:"total_portfolio_value"`
}

// SeriesPoint is one (year, value) point of a chart series
type SeriesPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// IncomeSeries holds the nominal and inflation-adjusted income lines of the income chart
type IncomeSeries struct {
	AnnualIncome []SeriesPoint `json:"annual_income"`
	RealIncome   []SeriesPoint `json:"real_income"`
}

// SimulationResult is everything produced by a single projection run
type SimulationResult struct {
	Parameters SimulationParameters   `json:"parameters"`
	Holdings   []HoldingInput         `json:"holdings"`
	Details    []YearSnapshot         `json:"details"`
	Summary    []PortfolioYearSummary `json:"summary"`
	Income     IncomeSeries           `json:"income"`
	Warnings   []Warning              `json:"warnings"`
}
