package stock

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	custom_error "github.com/jeremynbs/LumiPro-Inventory/pkg/errors"
)

// Data rows are numbered from 2: the header occupies row 1, matching the
// line numbers a user sees in their spreadsheet.
const firstDataRow = 2

// BulkAddRow is one parsed line of a bulk-add upload.
type BulkAddRow struct {
	RowNum       int
	SerialNumber string
	MfgDate      string
}

// BulkUpdateRow is one parsed line of a bulk-update upload. All values are
// raw strings exactly as they appeared in the file, already trimmed.
type BulkUpdateRow struct {
	RowNum        int
	SerialNumber  string
	Status        string
	MfgDate       string
	InstallDate   string
	WarehouseName string
	ClientName    string
	FixtureName   string
}

// headerIndex maps column names (case-sensitive, as the upload contract
// requires) to their positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

func cell(record []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ParseBulkAddCSV reads a bulk-add file. The whole file is rejected before
// any row is processed when the serial_number header is missing or the file
// is unreadable.
func ParseBulkAddCSV(r io.Reader) ([]BulkAddRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, custom_error.NewMalformedInputError("empty or unreadable CSV file")
	}

	idx := headerIndex(header)
	if _, ok := idx["serial_number"]; !ok {
		return nil, custom_error.NewMalformedInputError("invalid CSV format, required headers: serial_number")
	}

	var rows []BulkAddRow
	for rowNum := firstDataRow; ; rowNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, custom_error.NewMalformedInputError(fmt.Sprintf("unreadable CSV row %d", rowNum))
		}

		rows = append(rows, BulkAddRow{
			RowNum:       rowNum,
			SerialNumber: cell(record, idx, "serial_number"),
			MfgDate:      cell(record, idx, "mfg_date"),
		})
	}

	return rows, nil
}

// ParseBulkUpdateCSV reads a bulk-update file. serial_number and status
// headers are both required; the optional columns default to empty strings.
func ParseBulkUpdateCSV(r io.Reader) ([]BulkUpdateRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, custom_error.NewMalformedInputError("empty or unreadable CSV file")
	}

	idx := headerIndex(header)
	if _, ok := idx["serial_number"]; !ok {
		return nil, custom_error.NewMalformedInputError("CSV missing required columns: serial_number, status")
	}
	if _, ok := idx["status"]; !ok {
		return nil, custom_error.NewMalformedInputError("CSV missing required columns: serial_number, status")
	}

	var rows []BulkUpdateRow
	for rowNum := firstDataRow; ; rowNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, custom_error.NewMalformedInputError(fmt.Sprintf("unreadable CSV row %d", rowNum))
		}

		rows = append(rows, BulkUpdateRow{
			RowNum:        rowNum,
			SerialNumber:  cell(record, idx, "serial_number"),
			Status:        cell(record, idx, "status"),
			MfgDate:       cell(record, idx, "mfg_date"),
			InstallDate:   cell(record, idx, "install_date"),
			WarehouseName: cell(record, idx, "warehouse_name"),
			ClientName:    cell(record, idx, "client_name"),
			FixtureName:   cell(record, idx, "fixture_name"),
		})
	}

	return rows, nil
}

// ExportHeader is the fixed column order of the stock export.
var ExportHeader = []string{
	"serial_number",
	"fixture_name",
	"status",
	"mfg_date",
	"warehouse_name",
	"client_name",
	"install_date",
}

// ExportFilename is the attachment name served to the browser.
const ExportFilename = "lumi_stock_export.csv"

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
