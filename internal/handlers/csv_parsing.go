package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/epeers/divsim/internal/models"
	"github.com/epeers/divsim/internal/services"
)

// holdingColumns are the required columns of a holdings upload, in table order
var holdingColumns = []string{
	services.FieldSymbol,
	services.FieldStartingShares,
	services.FieldSharePrice,
	services.FieldDividend,
	services.FieldPayoutFrequency,
}

// ParseHoldingsCSV parses a holdings CSV into raw rows, preserving row order.
// Required columns: Symbol, Starting Shares, Share Price, Dividend, Payout Frequency.
// Header matching is case-insensitive and ignores surrounding whitespace; extra
// columns are ignored. Values are not interpreted here: numeric checks belong
// to services.ParseHoldingRow so that a bad row can be skipped by policy.
func ParseHoldingsCSV(r io.Reader) ([]models.HoldingRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int)
	for i, col := range header {
		if i == 0 {
			// spreadsheet exports often start with a byte order mark
			col = strings.TrimPrefix(col, "\ufeff")
		}
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range holdingColumns {
		if _, ok := colIdx[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var rows []models.HoldingRow
	rowNum := 1 // header is row 1, data starts at row 2
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to read CSV record: %w", rowNum+1, err)
		}
		rowNum++

		col := func(name string) string {
			return strings.TrimSpace(record[colIdx[strings.ToLower(name)]])
		}

		rows = append(rows, models.HoldingRow{
			Row:             rowNum,
			Symbol:          col(services.FieldSymbol),
			StartingShares:  col(services.FieldStartingShares),
			SharePrice:      col(services.FieldSharePrice),
			Dividend:        col(services.FieldDividend),
			PayoutFrequency: col(services.FieldPayoutFrequency),
		})
	}

	return rows, nil
}
