package stock

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBatchOps struct {
	mock.Mock
}

func (m *MockBatchOps) InsertUnit(params InsertUnitParams) (bool, error) {
	args := m.Called(params)
	return args.Bool(0), args.Error(1)
}

func (m *MockBatchOps) FindUnitIDBySerial(serial string) (int, bool, error) {
	args := m.Called(serial)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockBatchOps) FindWarehouseIDByName(name string) (int, bool, error) {
	args := m.Called(name)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockBatchOps) CreateWarehouse(name string) (int, error) {
	args := m.Called(name)
	return args.Int(0), args.Error(1)
}

func (m *MockBatchOps) FindClientIDByName(name string) (int, bool, error) {
	args := m.Called(name)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockBatchOps) CreateClient(name string) (int, error) {
	args := m.Called(name)
	return args.Int(0), args.Error(1)
}

func (m *MockBatchOps) FindFixtureIDByName(name string) (int, bool, error) {
	args := m.Called(name)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockBatchOps) UpdateUnitFromImport(id int, update ImportUpdate) error {
	args := m.Called(id, update)
	return args.Error(0)
}

// stubBatchRepo satisfies StockRepository for service tests; only RunBatch is
// exercised, handing the mock ops straight to the batch function.
type stubBatchRepo struct {
	ops BatchOps
}

func (s *stubBatchRepo) GetStock() ([]models.StockUnit, error)         { return nil, nil }
func (s *stubBatchRepo) GetStockUnit(id int) (*models.StockUnit, error) { return nil, nil }
func (s *stubBatchRepo) PersistStockUnit(unit *models.StockUnit) error { return nil }
func (s *stubBatchRepo) UpdateStockUnit(id int, update UnitUpdate) error {
	return nil
}
func (s *stubBatchRepo) DeleteStockUnit(id int) error      { return nil }
func (s *stubBatchRepo) ExportRows() ([]ExportRow, error)  { return nil, nil }
func (s *stubBatchRepo) RunBatch(fn func(ops BatchOps) error) error {
	return fn(s.ops)
}

func newTestCSVService(ops BatchOps) *CSVService {
	return NewCSVService(&stubBatchRepo{ops: ops})
}

func strRef(s string) *string { return &s }

func TestBulkAddCountsImportsAndDuplicates(t *testing.T) {
	ops := new(MockBatchOps)
	ops.On("InsertUnit", InsertUnitParams{
		FixtureID:    7,
		WarehouseID:  2,
		SerialNumber: "SN-001",
		MfgDate:      strRef("2023-01-15"),
		Status:       models.StatusForSale,
	}).Return(true, nil)
	ops.On("InsertUnit", InsertUnitParams{
		FixtureID:    7,
		WarehouseID:  2,
		SerialNumber: "SN-002",
		Status:       models.StatusForSale,
	}).Return(false, nil)

	service := newTestCSVService(ops)
	result, err := service.BulkAdd(7, 2, []BulkAddRow{
		{RowNum: 2, SerialNumber: "SN-001", MfgDate: "15/01/2023"},
		{RowNum: 3, SerialNumber: "SN-002"},
		{RowNum: 4, SerialNumber: ""},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "already exists")
	assert.Contains(t, result.Errors[1], "Row 4")
	ops.AssertNumberOfCalls(t, "InsertUnit", 2)
}

func TestBulkAddStorageFailureAbortsBatch(t *testing.T) {
	ops := new(MockBatchOps)
	ops.On("InsertUnit", mock.Anything).Return(false, errors.New("connection reset"))

	service := newTestCSVService(ops)
	result, err := service.BulkAdd(1, 1, []BulkAddRow{
		{RowNum: 2, SerialNumber: "SN-001"},
	})

	assert.Error(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Empty(t, result.Errors)
}

func TestBulkUpdateRewritesUnit(t *testing.T) {
	ops := new(MockBatchOps)
	ops.On("FindUnitIDBySerial", "SN-001").Return(41, true, nil)
	ops.On("FindClientIDByName", "Acme Corp").Return(9, true, nil)
	ops.On("UpdateUnitFromImport", 41, ImportUpdate{
		Status:      "SOLD",
		InstallDate: strRef("2023-03-15"),
		ClientID:    intRef(9),
	}).Return(nil)

	service := newTestCSVService(ops)
	result, err := service.BulkUpdate([]BulkUpdateRow{
		{RowNum: 2, SerialNumber: "SN-001", Status: "sold", ClientName: "Acme Corp", InstallDate: "15/03/2023"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.NewClients)
	assert.Empty(t, result.Errors)
	ops.AssertExpectations(t)
}

func TestBulkUpdateCreatesMissingWarehouseAndClient(t *testing.T) {
	ops := new(MockBatchOps)
	ops.On("FindUnitIDBySerial", "SN-001").Return(41, true, nil)
	ops.On("FindWarehouseIDByName", "North WH").Return(0, false, nil)
	ops.On("CreateWarehouse", "North WH").Return(12, nil)
	ops.On("FindClientIDByName", "New Client").Return(0, false, nil)
	ops.On("CreateClient", "New Client").Return(33, nil)
	ops.On("UpdateUnitFromImport", 41, ImportUpdate{
		Status:      "IN WAREHOUSE",
		WarehouseID: intRef(12),
		ClientID:    intRef(33),
	}).Return(nil)

	service := newTestCSVService(ops)
	result, err := service.BulkUpdate([]BulkUpdateRow{
		{RowNum: 2, SerialNumber: "SN-001", Status: "in warehouse", WarehouseName: "North WH", ClientName: "New Client"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.NewWarehouses)
	assert.Equal(t, 1, result.NewClients)
	ops.AssertExpectations(t)
}

func TestBulkUpdateUnknownSerialIsRowError(t *testing.T) {
	ops := new(MockBatchOps)
	ops.On("FindUnitIDBySerial", "GHOST").Return(0, false, nil)

	service := newTestCSVService(ops)
	result, err := service.BulkUpdate([]BulkUpdateRow{
		{RowNum: 2, SerialNumber: "GHOST", Status: "SOLD"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Updated)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "GHOST")
	ops.AssertNotCalled(t, "UpdateUnitFromImport", mock.Anything, mock.Anything)
}

func TestBulkUpdateUnknownFixtureSkipsRow(t *testing.T) {
	ops := new(MockBatchOps)
	ops.On("FindUnitIDBySerial", "SN-001").Return(41, true, nil)
	ops.On("FindFixtureIDByName", "Phantom Spot").Return(0, false, nil)

	service := newTestCSVService(ops)
	result, err := service.BulkUpdate([]BulkUpdateRow{
		{RowNum: 2, SerialNumber: "SN-001", Status: "SOLD", FixtureName: "Phantom Spot"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Updated)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Phantom Spot")
	ops.AssertNotCalled(t, "UpdateUnitFromImport", mock.Anything, mock.Anything)
}

func TestBulkUpdateBlankSerialSkippedSilently(t *testing.T) {
	ops := new(MockBatchOps)

	service := newTestCSVService(ops)
	result, err := service.BulkUpdate([]BulkUpdateRow{
		{RowNum: 2, SerialNumber: "", Status: "SOLD"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Updated)
	assert.Empty(t, result.Errors)
	ops.AssertNotCalled(t, "FindUnitIDBySerial", mock.Anything)
}

func intRef(i int) *int { return &i }

// Re-importing an unmodified export must write back exactly the exported
// values: references resolve to the same rows, nothing is created, and a
// blank exported mfg_date stays nil so the stored value is kept.
func TestExportReimportRoundTrip(t *testing.T) {
	exportRepo := new(MockStockRepository)
	handler, _, c, w := setupHandlerTest(exportRepo)

	exportRepo.On("ExportRows").Return([]ExportRow{
		{
			SerialNumber: "SN-001",
			FixtureName:  "Aurora Wash 300",
			Status:       "SOLD",
			MfgDate:      strRef("2023-01-15"),
			ClientName:   strRef("Acme Corp"),
			InstallDate:  strRef("2023-03-15"),
		},
		{
			SerialNumber:  "SN-002",
			FixtureName:   "Aurora Wash 300",
			Status:        "IN WAREHOUSE",
			WarehouseName: strRef("Main WH"),
		},
	}, nil)

	c.Request = httptest.NewRequest("GET", "/stock/export", nil)
	handler.ExportCSV(c)
	assert.Equal(t, http.StatusOK, w.Code)

	rows, err := ParseBulkUpdateCSV(w.Body)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	ops := new(MockBatchOps)
	ops.On("FindUnitIDBySerial", "SN-001").Return(41, true, nil)
	ops.On("FindUnitIDBySerial", "SN-002").Return(42, true, nil)
	ops.On("FindClientIDByName", "Acme Corp").Return(9, true, nil)
	ops.On("FindWarehouseIDByName", "Main WH").Return(12, true, nil)
	ops.On("FindFixtureIDByName", "Aurora Wash 300").Return(7, true, nil)
	ops.On("UpdateUnitFromImport", 41, ImportUpdate{
		Status:      "SOLD",
		MfgDate:     strRef("2023-01-15"),
		InstallDate: strRef("2023-03-15"),
		ClientID:    intRef(9),
		FixtureID:   intRef(7),
	}).Return(nil)
	ops.On("UpdateUnitFromImport", 42, ImportUpdate{
		Status:      "IN WAREHOUSE",
		WarehouseID: intRef(12),
		FixtureID:   intRef(7),
	}).Return(nil)

	service := newTestCSVService(ops)
	result, err := service.BulkUpdate(rows)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 0, result.NewClients)
	assert.Equal(t, 0, result.NewWarehouses)
	assert.Empty(t, result.Errors)
	ops.AssertExpectations(t)
}
