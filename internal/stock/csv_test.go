package stock

import (
	"strings"
	"testing"

	custom_error "github.com/jeremynbs/LumiPro-Inventory/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestParseBulkAddCSV(t *testing.T) {
	input := "serial_number,mfg_date\nSN-001,2023-01-15\nSN-002,\n,03/04/2023\n"

	rows, err := ParseBulkAddCSV(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].RowNum)
	assert.Equal(t, "SN-001", rows[0].SerialNumber)
	assert.Equal(t, "2023-01-15", rows[0].MfgDate)

	assert.Equal(t, 3, rows[1].RowNum)
	assert.Equal(t, "", rows[1].MfgDate)

	assert.Equal(t, 4, rows[2].RowNum)
	assert.Equal(t, "", rows[2].SerialNumber)
	assert.Equal(t, "03/04/2023", rows[2].MfgDate)
}

func TestParseBulkAddCSVTrimsCells(t *testing.T) {
	input := "serial_number , mfg_date\n  SN-001  , 2023-01-15 \n"

	rows, err := ParseBulkAddCSV(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "SN-001", rows[0].SerialNumber)
	assert.Equal(t, "2023-01-15", rows[0].MfgDate)
}

func TestParseBulkAddCSVMissingSerialHeader(t *testing.T) {
	input := "serial,mfg_date\nSN-001,2023-01-15\n"

	rows, err := ParseBulkAddCSV(strings.NewReader(input))
	assert.Nil(t, rows)
	assert.Error(t, err)
	assert.IsType(t, &custom_error.MalformedInputError{}, err)
}

func TestParseBulkAddCSVEmptyFile(t *testing.T) {
	rows, err := ParseBulkAddCSV(strings.NewReader(""))
	assert.Nil(t, rows)
	assert.IsType(t, &custom_error.MalformedInputError{}, err)
}

func TestParseBulkUpdateCSV(t *testing.T) {
	input := "serial_number,status,warehouse_name,client_name,fixture_name,mfg_date,install_date\n" +
		"SN-001,sold,,Acme Corp,,,15/03/2023\n" +
		"SN-002,IN WAREHOUSE,Main WH,,,,\n"

	rows, err := ParseBulkUpdateCSV(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].RowNum)
	assert.Equal(t, "SN-001", rows[0].SerialNumber)
	assert.Equal(t, "sold", rows[0].Status)
	assert.Equal(t, "Acme Corp", rows[0].ClientName)
	assert.Equal(t, "15/03/2023", rows[0].InstallDate)

	assert.Equal(t, 3, rows[1].RowNum)
	assert.Equal(t, "Main WH", rows[1].WarehouseName)
	assert.Equal(t, "", rows[1].ClientName)
}

func TestParseBulkUpdateCSVOptionalColumnsAbsent(t *testing.T) {
	input := "serial_number,status\nSN-001,SOLD\n"

	rows, err := ParseBulkUpdateCSV(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].WarehouseName)
	assert.Equal(t, "", rows[0].ClientName)
	assert.Equal(t, "", rows[0].FixtureName)
	assert.Equal(t, "", rows[0].MfgDate)
	assert.Equal(t, "", rows[0].InstallDate)
}

func TestParseBulkUpdateCSVMissingRequiredHeaders(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"no status", "serial_number,warehouse_name\nSN-001,Main WH\n"},
		{"no serial", "status,client_name\nSOLD,Acme\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := ParseBulkUpdateCSV(strings.NewReader(tc.input))
			assert.Nil(t, rows)
			assert.IsType(t, &custom_error.MalformedInputError{}, err)
		})
	}
}

func TestParseBulkUpdateCSVShortRecord(t *testing.T) {
	// A record with fewer cells than the header still parses; missing
	// trailing columns read as empty.
	input := "serial_number,status,warehouse_name\nSN-001,SOLD\n"

	rows, err := ParseBulkUpdateCSV(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "SOLD", rows[0].Status)
	assert.Equal(t, "", rows[0].WarehouseName)
}
