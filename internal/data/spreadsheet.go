package data

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"battery-arbitrage/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Expected column headers of the price sheet.
const (
	ColumnDateTime = "Date Time"
	ColumnPrice    = "EUR per kWh"
)

var zipMagic = []byte("PK\x03\x04")

// Load parses a price spreadsheet (xlsx, first sheet, or CSV) into a Dataset.
// The returned dataset has no ID or source; the caller owns those.
func Load(raw []byte) (*model.Dataset, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, loadErr(CodeUnreadableFile, 0, nil, "file is empty")
	}

	var (
		rows [][]string
		opts cellFormat
		err  error
	)
	if bytes.HasPrefix(raw, zipMagic) {
		rows, err = readXLSX(raw)
		opts.serialDates = true
	} else {
		delim := sniffDelimiter(raw)
		rows, err = readCSV(raw, delim)
		opts.decimalComma = delim == ';'
	}
	if err != nil {
		return nil, err
	}

	records, err := parseRows(rows, opts)
	if err != nil {
		return nil, err
	}
	return &model.Dataset{Records: records}, nil
}

func readXLSX(raw []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, loadErr(CodeUnreadableFile, 0, err, "cannot open spreadsheet")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, loadErr(CodeUnreadableFile, 0, nil, "spreadsheet has no sheets")
	}
	// Raw values keep prices unformatted and dates as serial numbers.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, loadErr(CodeUnreadableFile, 0, err, "cannot read sheet %q", sheets[0])
	}
	return rows, nil
}

func readCSV(raw []byte, delim rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, loadErr(CodeUnreadableFile, 0, err, "cannot parse file as tabular data")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// sniffDelimiter picks ';' for European exports whose header has no commas.
func sniffDelimiter(raw []byte) rune {
	header, _, _ := bytes.Cut(raw, []byte("\n"))
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}

// cellFormat carries what the container format says about cell values.
type cellFormat struct {
	serialDates  bool // bare numbers in the date column are Excel serials (xlsx only)
	decimalComma bool // "0,25" is a decimal (semicolon-delimited CSV)
}

func parseRows(rows [][]string, opts cellFormat) ([]model.PriceRecord, error) {
	headerIdx := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, loadErr(CodeEmptyDataset, 0, nil, "file has no rows")
	}

	header := rows[headerIdx]
	tsCol := findColumn(header, ColumnDateTime)
	if tsCol < 0 {
		return nil, loadErr(CodeMissingColumn, 0, nil, "missing required column %q", ColumnDateTime)
	}
	priceCol := findColumn(header, ColumnPrice)
	if priceCol < 0 {
		return nil, loadErr(CodeMissingColumn, 0, nil, "missing required column %q", ColumnPrice)
	}

	records := make([]model.PriceRecord, 0, len(rows)-headerIdx-1)
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		line := i + 1

		ts, err := parseTimestamp(cell(row, tsCol), opts.serialDates)
		if err != nil {
			return nil, loadErr(CodeBadTimestamp, line, err, "cannot parse %q", ColumnDateTime)
		}
		price, err := parsePrice(cell(row, priceCol), opts.decimalComma)
		if err != nil {
			return nil, loadErr(CodeBadPrice, line, err, "cannot parse %q", ColumnPrice)
		}
		records = append(records, model.PriceRecord{Timestamp: ts, Price: price})
	}

	if len(records) == 0 {
		return nil, loadErr(CodeEmptyDataset, 0, nil, "file has a header but no price rows")
	}
	return records, nil
}

func findColumn(header []string, name string) int {
	want := normalizeHeader(name)
	for i, h := range header {
		if normalizeHeader(h) == want {
			return i
		}
	}
	return -1
}

func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parsePrice accepts "0.1234" and, when decimalComma is set or the value
// cannot be a thousands group, "0,1234". Values like "1,234" in a comma
// delimited file are rejected rather than guessed.
func parsePrice(raw string, decimalComma bool) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") || strings.Count(s, ",") > 1 {
			return decimal.Decimal{}, fmt.Errorf("ambiguous number %q", raw)
		}
		whole, frac, _ := strings.Cut(s, ",")
		if !decimalComma && len(frac) == 3 && strings.TrimLeft(whole, "+-0") != "" {
			return decimal.Decimal{}, fmt.Errorf("%q may use a thousands separator", raw)
		}
		s = whole + "." + frac
	}
	return decimal.NewFromString(s)
}
