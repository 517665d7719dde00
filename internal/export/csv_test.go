package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/epeers/divsim/internal/models"
)

func TestSummaryCSV_Format(t *testing.T) {
	summary := []models.PortfolioYearSummary{
		{Year: 1, TotalAnnualIncome: 110.38, TotalRealIncome: 108.22, TotalPortfolioValue: 1103.81},
		{Year: 2, TotalAnnualIncome: 124.4, TotalRealIncome: 119.57, TotalPortfolioValue: 1231.78},
	}

	data, err := SummaryCSV(summary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Year,Annual Income,Real Income,Portfolio Value\n" +
		"1,110.38,108.22,1103.81\n" +
		"2,124.40,119.57,1231.78\n"
	if string(data) != want {
		t.Errorf("unexpected CSV:\n got  %q\n want %q", string(data), want)
	}
}

func TestSummaryCSV_EmptyHasHeader(t *testing.T) {
	data, err := SummaryCSV(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "Year,Annual Income,Real Income,Portfolio Value\n" {
		t.Errorf("expected header only, got %q", string(data))
	}
}

func TestSummaryCSV_RoundTrip(t *testing.T) {
	summary := []models.PortfolioYearSummary{
		{Year: 1, TotalAnnualIncome: 0.3, TotalRealIncome: 0.29, TotalPortfolioValue: 12345678.9},
		{Year: 2, TotalAnnualIncome: 1000000.01, TotalRealIncome: 999999.99, TotalPortfolioValue: 0},
		{Year: 3, TotalAnnualIncome: 2.68, TotalRealIncome: 2.5, TotalPortfolioValue: 77.07},
	}

	data, err := SummaryCSV(summary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parsed, err := ParseSummaryCSV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to parse exported CSV: %v", err)
	}
	if len(parsed) != len(summary) {
		t.Fatalf("expected %d rows, got %d", len(summary), len(parsed))
	}
	for i := range summary {
		if parsed[i] != summary[i] {
			t.Errorf("row %d:\n got  %+v\n want %+v", i, parsed[i], summary[i])
		}
	}
}

func TestDetailsCSV_Format(t *testing.T) {
	details := []models.YearSnapshot{
		{Year: 1, Symbol: "T", Shares: 110.38, DividendPerShare: 1, SharePrice: 10, AnnualIncome: 110.38, PortfolioValue: 1103.81, RealIncome: 108.22},
		{Year: 2, Symbol: "T", Shares: 121.96, DividendPerShare: 1.02, SharePrice: 10.1, AnnualIncome: 124.4, PortfolioValue: 1231.78, RealIncome: 119.57},
		{Year: 1, Symbol: "A,B", Shares: 1, DividendPerShare: 0.0375, SharePrice: 3, AnnualIncome: 0.04, PortfolioValue: 3, RealIncome: 0.04},
	}

	data, err := DetailsCSV(details)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("exported details are not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(DetailsHeader, ",") {
		t.Errorf("unexpected header: %v", records[0])
	}
	wantRow := []string{"2", "T", "121.96", "1.0200", "10.10", "124.40", "1231.78", "119.57"}
	if strings.Join(records[2], "|") != strings.Join(wantRow, "|") {
		t.Errorf("unexpected row:\n got  %v\n want %v", records[2], wantRow)
	}
	if records[3][1] != "A,B" || records[3][3] != "0.0375" {
		t.Errorf("expected quoted symbol and 4dp dividend, got %v", records[3])
	}
}

func TestParseSummaryCSV_MissingColumn(t *testing.T) {
	_, err := ParseSummaryCSV(strings.NewReader("Year,Annual Income,Portfolio Value\n1,2,3\n"))
	if err == nil {
		t.Fatal("expected error for missing column")
	}
	if !strings.Contains(err.Error(), "Real Income") {
		t.Errorf("expected error to name the missing column, got: %s", err.Error())
	}
}

func TestParseSummaryCSV_ReorderedColumns(t *testing.T) {
	input := "portfolio value, YEAR ,real income,annual income\n1103.81,1,108.22,110.38\n"
	summary, err := ParseSummaryCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.PortfolioYearSummary{Year: 1, TotalAnnualIncome: 110.38, TotalRealIncome: 108.22, TotalPortfolioValue: 1103.81}
	if len(summary) != 1 || summary[0] != want {
		t.Errorf("got %+v, want %+v", summary, want)
	}
}

func TestParseSummaryCSV_InvalidValue(t *testing.T) {
	_, err := ParseSummaryCSV(strings.NewReader("Year,Annual Income,Real Income,Portfolio Value\n1,abc,1,1\n"))
	if err == nil {
		t.Fatal("expected error for invalid amount")
	}
	if !strings.Contains(err.Error(), "row 2") || !strings.Contains(err.Error(), "Annual Income") {
		t.Errorf("expected error to name row and column, got: %s", err.Error())
	}
}

func TestFormatAmount_NonFinite(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1103.8, "1103.80"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.in, 2); got != tt.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
