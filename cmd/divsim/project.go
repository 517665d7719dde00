package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/epeers/divsim/internal/export"
	"github.com/epeers/divsim/internal/handlers"
	"github.com/epeers/divsim/internal/models"
	"github.com/epeers/divsim/internal/services"
	"github.com/google/subcommands"
)

// projectCmd holds the flags for the 'project' subcommand.
type projectCmd struct {
	out io.Writer

	input       string
	summaryOut  string
	detailsOut  string
	years       int
	divGrowth   float64
	priceGrowth float64
	reinvest    float64
	inflation   float64
	showDetails bool
	skipInvalid bool
	parallel    bool
	plain       bool
	currency    string
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project dividend income and portfolio value" }
func (*projectCmd) Usage() string {
	return `divsim project -i <holdings.csv> [-years 12] [-div-growth 2] [-price-growth 1] [-reinvest 100] [-inflation 2] [-o <summary.csv>]

  Projects every holding of the input table year by year and prints the
  portfolio summary. Growth, reinvestment and inflation are percentages.
  The input needs the columns Symbol, Starting Shares, Share Price, Dividend
  and Payout Frequency (M or Q).
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	d := models.DefaultSimulationParameters()
	f.StringVar(&c.input, "i", "", "Holdings CSV file to project.")
	f.StringVar(&c.summaryOut, "o", "", "Write the portfolio summary to this CSV file (e.g. "+export.SummaryFilename+").")
	f.StringVar(&c.detailsOut, "details", "", "Write the per-holding detail table to this CSV file.")
	f.IntVar(&c.years, "years", d.YearsToSimulate, "Years to simulate (1-50).")
	f.Float64Var(&c.divGrowth, "div-growth", d.DividendGrowthRate*100, "Annual dividend growth in percent (0-10).")
	f.Float64Var(&c.priceGrowth, "price-growth", d.PriceGrowthRate*100, "Annual price growth in percent (0-10).")
	f.Float64Var(&c.reinvest, "reinvest", d.ReinvestmentFraction*100, "Share of each payout reinvested, in percent (0-100).")
	f.Float64Var(&c.inflation, "inflation", d.InflationRate*100, "Annual inflation in percent (0-10).")
	f.BoolVar(&c.showDetails, "show-details", false, "Also print the per-holding detail table.")
	f.BoolVar(&c.skipInvalid, "skip-invalid", false, "Skip invalid rows instead of failing.")
	f.BoolVar(&c.parallel, "parallel", false, "Simulate holdings concurrently.")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of rendering it for the terminal.")
	f.StringVar(&c.currency, "currency", "USD", "ISO 4217 code used to display amounts.")
}

func (c *projectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.input == "" {
		fmt.Fprintln(os.Stderr, "Error: an input file is required (-i)")
		return subcommands.ExitUsageError
	}

	params := models.ParametersFromPercent(c.years, c.divGrowth, c.priceGrowth, c.reinvest, c.inflation)
	if err := services.ValidateParameters(params); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	file, err := os.Open(c.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.input, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	rows, err := handlers.ParseHoldingsCSV(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", c.input, err)
		return subcommands.ExitFailure
	}

	svc := services.NewSimulationService(services.SimulationOptions{
		SkipInvalidRows: c.skipInvalid,
		Parallel:        c.parallel,
	})
	result, err := svc.Run(ctx, rows, params)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			fmt.Fprintf(os.Stderr, "Invalid holding: %v (use -skip-invalid to ignore such rows)\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return subcommands.ExitFailure
	}

	if c.summaryOut != "" {
		if err := writeFile(c.summaryOut, func(w io.Writer) error { return export.WriteSummaryCSV(w, result.Summary) }); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing summary: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if c.detailsOut != "" {
		if err := writeFile(c.detailsOut, func(w io.Writer) error { return export.WriteDetailsCSV(w, result.Details) }); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing details: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	md := renderResult(result, c.currency, c.showDetails)
	if c.plain {
		fmt.Fprint(c.out, md)
		return subcommands.ExitSuccess
	}
	rendered, err := glamour.Render(md, "auto")
	if err != nil {
		// fall back to the raw markdown, it is readable as is
		fmt.Fprint(c.out, md)
		return subcommands.ExitSuccess
	}
	fmt.Fprint(c.out, rendered)
	return subcommands.ExitSuccess
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
