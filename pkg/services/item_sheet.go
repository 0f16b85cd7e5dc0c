package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"dalal-chat-api/pkg/apierr"
	"dalal-chat-api/pkg/models"

	"github.com/xuri/excelize/v2"
)

// ParseItemSheet reads item rows from an .xlsx (first sheet) or .csv file.
// The first row names the item fields. Blank cells are left out of the item
// so validation reports them as missing; numeric cells become float64.
func ParseItemSheet(filename string, r io.Reader) ([]models.Item, error) {
	var rows [][]string

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, apierr.Validation("Failed to read Excel file", "file")
		}
		defer f.Close()
		rows, err = f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, apierr.Validation("Failed to read Excel rows", "file")
		}
	case ".csv":
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		var err error
		rows, err = cr.ReadAll()
		if err != nil {
			return nil, apierr.Validation(fmt.Sprintf("Failed to read CSV file: %v", err), "file")
		}
	default:
		return nil, apierr.Validation("Unsupported file type, upload .xlsx or .csv", "file")
	}

	if len(rows) < 2 {
		return nil, apierr.Validation("No items provided", "items")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	items := make([]models.Item, 0, len(rows)-1)
	for _, row := range rows[1:] {
		item := models.Item{}
		for i, name := range header {
			if name == "" || i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			item[name] = coerceCell(cell)
		}
		if len(item) == 0 {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func coerceCell(cell string) any {
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	switch strings.ToLower(cell) {
	case "true":
		return 1.0
	case "false":
		return 0.0
	}
	return cell
}
