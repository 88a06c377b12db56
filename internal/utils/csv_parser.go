package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"home-energy-audit/internal/models"
)

// CSVParser errors
var (
	ErrEmptyCSV       = errors.New("CSV content is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("CSV file contains no data rows")
)

// RequiredColumns defines the columns that must be present in the CSV.
var RequiredColumns = []string{
	"square_feet",
	"zip_code",
}

// ColumnAliases maps alternative column names to standard names.
var ColumnAliases = map[string]string{
	// home_id aliases
	"id":          "home_id",
	"homeid":      "home_id",
	"home id":     "home_id",
	"property_id": "home_id",
	"address":     "home_id",

	// square_feet aliases
	"sqft":        "square_feet",
	"sq_ft":       "square_feet",
	"squarefeet":  "square_feet",
	"square feet": "square_feet",
	"area":        "square_feet",

	// zip_code aliases
	"zip":         "zip_code",
	"zipcode":     "zip_code",
	"zip code":    "zip_code",
	"postal_code": "zip_code",
	"postalcode":  "zip_code",

	// year_built aliases
	"year":       "year_built",
	"yearbuilt":  "year_built",
	"year built": "year_built",
	"built":      "year_built",

	// occupants aliases
	"occupancy": "occupants",
	"residents": "occupants",
	"household": "occupants",
	"people":    "occupants",

	// equipment and envelope aliases
	"home type":        "home_type",
	"hometype":         "home_type",
	"type":             "home_type",
	"heating":          "heating_type",
	"heat_type":        "heating_type",
	"fuel":             "heating_fuel",
	"heat_fuel":        "heating_fuel",
	"furnace_age":      "heating_age",
	"cooling":          "cooling_type",
	"ac":               "cooling_type",
	"ac_age":           "cooling_age",
	"water_heater":     "water_heater_type",
	"wh_type":          "water_heater_type",
	"wh_age":           "water_heater_age",
	"windows":          "window_type",
	"lighting":         "lighting_type",
	"insulation_level": "insulation",

	// monthly_bill aliases
	"bill":         "monthly_bill",
	"monthlybill":  "monthly_bill",
	"monthly bill": "monthly_bill",
	"utility_bill": "monthly_bill",
	"annual_bill":  "monthly_bill", // Will divide by 12
	"annualbill":   "monthly_bill",
	"annual bill":  "monthly_bill",

	// remaining aliases
	"income":        "income_bracket",
	"orientation":   "solar_orientation",
	"roof":          "solar_orientation",
	"mail":          "email",
	"email_address": "email",
}

// ProfileRow is one parsed CSV line.
type ProfileRow struct {
	Line   int
	HomeID string
	Input  models.HomeProfileInput
}

// CSVParser handles parsing of home profile CSV files.
type CSVParser struct {
	columnMapping   map[string]int
	originalHeaders map[string]string // Maps normalized column name to original header
}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{
		columnMapping:   make(map[string]int),
		originalHeaders: make(map[string]string),
	}
}

// ParseProfiles parses CSV content into raw audit inputs. Value validation
// is left to the normalizer; only syntax errors are reported here.
func (p *CSVParser) ParseProfiles(content string) ([]ProfileRow, []error) {
	if strings.TrimSpace(content) == "" {
		return nil, []error{ErrEmptyCSV}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}

	if err := p.buildColumnMapping(header); err != nil {
		return nil, []error{err}
	}

	var rows []ProfileRow
	var parseErrors []error
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		input, err := p.parseRow(record)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		homeID := p.value(record, "home_id")
		if homeID == "" {
			homeID = fmt.Sprintf("line-%d", lineNum)
		}

		rows = append(rows, ProfileRow{Line: lineNum, HomeID: homeID, Input: *input})
	}

	if len(rows) == 0 && len(parseErrors) > 0 {
		return nil, append([]error{ErrNoDataRows}, parseErrors...)
	}

	return rows, parseErrors
}

// buildColumnMapping creates a mapping of standard column names to their indices.
func (p *CSVParser) buildColumnMapping(header []string) error {
	p.columnMapping = make(map[string]int)
	p.originalHeaders = make(map[string]string)

	for i, col := range header {
		normalized := normalizeHeader(col)
		original := normalized

		if alias, ok := ColumnAliases[normalized]; ok {
			normalized = alias
		}

		p.columnMapping[normalized] = i
		p.originalHeaders[normalized] = original
	}

	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := p.columnMapping[required]; !ok {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

// value returns the trimmed cell for a column, or "" when absent.
func (p *CSVParser) value(record []string, column string) string {
	idx, ok := p.columnMapping[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseRow parses a single CSV row into a HomeProfileInput.
func (p *CSVParser) parseRow(record []string) (*models.HomeProfileInput, error) {
	input := &models.HomeProfileInput{
		ZipCode:          p.value(record, "zip_code"),
		HomeType:         p.value(record, "home_type"),
		HeatingType:      p.value(record, "heating_type"),
		HeatingFuel:      p.value(record, "heating_fuel"),
		CoolingType:      p.value(record, "cooling_type"),
		WaterHeaterType:  p.value(record, "water_heater_type"),
		Insulation:       p.value(record, "insulation"),
		WindowType:       p.value(record, "window_type"),
		LightingType:     p.value(record, "lighting_type"),
		IncomeBracket:    p.value(record, "income_bracket"),
		SolarOrientation: p.value(record, "solar_orientation"),
		Email:            p.value(record, "email"),
	}

	sqft, err := parseFloat(p.value(record, "square_feet"))
	if err != nil {
		return nil, fmt.Errorf("invalid square_feet: %w", err)
	}
	input.SquareFeet = sqft

	// Leading zeros are dropped by spreadsheets.
	if n := len(input.ZipCode); n > 0 && n < 5 && isDigits(input.ZipCode) {
		input.ZipCode = strings.Repeat("0", 5-n) + input.ZipCode
	}

	intFields := []struct {
		column string
		target **int
	}{
		{"year_built", &input.YearBuilt},
		{"occupants", &input.Occupants},
		{"heating_age", &input.HeatingAge},
		{"cooling_age", &input.CoolingAge},
		{"water_heater_age", &input.WaterHeaterAge},
	}
	for _, f := range intFields {
		raw := p.value(record, f.column)
		if raw == "" {
			continue
		}
		v, err := parseInt(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", f.column, err)
		}
		*f.target = &v
	}

	if raw := p.value(record, "monthly_bill"); raw != "" {
		bill, err := parseFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid monthly_bill: %w", err)
		}
		if strings.Contains(p.originalHeaders["monthly_bill"], "annual") {
			bill = bill / 12.0
		}
		input.MonthlyBill = &bill
	}

	return input, nil
}

func normalizeHeader(col string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// parseFloat parses a string to float64, handling common formats.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}

	// Remove commas and currency symbols
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)

	return strconv.ParseFloat(s, 64)
}

// parseInt parses a string to int, handling common formats.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// Handle float strings (e.g., "1985.0")
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return int(f), nil
	}

	return strconv.Atoi(s)
}

// ValidateCSVStructure performs a quick validation of CSV structure without full parsing.
func ValidateCSVStructure(content string) (*CSVValidationResult, error) {
	result := &CSVValidationResult{
		Columns:        []string{},
		MissingColumns: []string{},
		Errors:         []string{},
	}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, "empty file")
		return result, nil
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read header: %v", err))
		return result, nil
	}

	normalizedColumns := make(map[string]bool)
	for _, col := range header {
		normalized := normalizeHeader(col)
		if alias, ok := ColumnAliases[normalized]; ok {
			normalized = alias
		}
		normalizedColumns[normalized] = true
		result.Columns = append(result.Columns, col)
	}

	for _, required := range RequiredColumns {
		if !normalizedColumns[required] {
			result.MissingColumns = append(result.MissingColumns, required)
		}
	}

	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row error: %v", err))
			continue
		}
		result.RowCount++
	}

	result.Valid = len(result.MissingColumns) == 0 && result.RowCount > 0

	return result, nil
}

// CSVValidationResult contains the results of CSV validation.
type CSVValidationResult struct {
	Valid          bool     `json:"valid"`
	RowCount       int      `json:"row_count"`
	Columns        []string `json:"columns"`
	MissingColumns []string `json:"missing_columns"`
	Errors         []string `json:"errors"`
}
