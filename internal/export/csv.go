// Package export serializes projection tables for download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/epeers/divsim/internal/models"
	"github.com/shopspring/decimal"
)

const (
	SummaryFilename = "Portfolio_Summary.csv"
	DetailsFilename = "Portfolio_Details.csv"
	MediaType       = "text/csv"
)

var (
	SummaryHeader = []string{"Year", "Annual Income", "Real Income", "Portfolio Value"}
	DetailsHeader = []string{"Year", "Symbol", "Shares", "Dividend/Share", "Share Price", "Annual Income", "Portfolio Value", "Real Income"}
)

// formatAmount writes v as plain decimal text with a fixed number of fractional digits.
// Non-finite values have no decimal form and are written as Go formats them.
func formatAmount(v float64, places int32) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// WriteSummaryCSV writes the portfolio summary table, one row per year
func WriteSummaryCSV(w io.Writer, summary []models.PortfolioYearSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, s := range summary {
		record := []string{
			strconv.Itoa(s.Year),
			formatAmount(s.TotalAnnualIncome, 2),
			formatAmount(s.TotalRealIncome, 2),
			formatAmount(s.TotalPortfolioValue, 2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("year %d: failed to write CSV record: %w", s.Year, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SummaryCSV returns the UTF-8 encoded summary table
func SummaryCSV(summary []models.PortfolioYearSummary) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSummaryCSV(&buf, summary); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDetailsCSV writes the per-holding table, rows in the given order
func WriteDetailsCSV(w io.Writer, details []models.YearSnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DetailsHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, d := range details {
		record := []string{
			strconv.Itoa(d.Year),
			d.Symbol,
			formatAmount(d.Shares, 2),
			formatAmount(d.DividendPerShare, 4),
			formatAmount(d.SharePrice, 2),
			formatAmount(d.AnnualIncome, 2),
			formatAmount(d.PortfolioValue, 2),
			formatAmount(d.RealIncome, 2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("%s year %d: failed to write CSV record: %w", d.Symbol, d.Year, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DetailsCSV returns the UTF-8 encoded per-holding table
func DetailsCSV(details []models.YearSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDetailsCSV(&buf, details); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseSummaryCSV reads a table written by WriteSummaryCSV back into summaries.
// Header names are matched case-insensitively; column order may differ.
func ParseSummaryCSV(r io.Reader) ([]models.PortfolioYearSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int)
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range SummaryHeader {
		if _, ok := colIdx[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var summary []models.PortfolioYearSummary
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to read CSV record: %w", rowNum+1, err)
		}
		rowNum++

		field := func(col string) string {
			return strings.TrimSpace(record[colIdx[strings.ToLower(col)]])
		}

		year, err := strconv.Atoi(field("Year"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid Year %q", rowNum, field("Year"))
		}
		var values [3]float64
		for i, col := range SummaryHeader[1:] {
			v, err := strconv.ParseFloat(field(col), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s %q", rowNum, col, field(col))
			}
			values[i] = v
		}

		summary = append(summary, models.PortfolioYearSummary{
			Year:                year,
			TotalAnnualIncome:   values[0],
			TotalRealIncome:     values[1],
			TotalPortfolioValue: values[2],
		})
	}

	return summary, nil
}
