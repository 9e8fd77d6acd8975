package stock

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jeremynbs/LumiPro-Inventory/pkg/auditlog"
	custom_error "github.com/jeremynbs/LumiPro-Inventory/pkg/errors"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) GetStock() ([]models.StockUnit, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StockUnit), args.Error(1)
}

func (m *MockStockRepository) GetStockUnit(id int) (*models.StockUnit, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockUnit), args.Error(1)
}

func (m *MockStockRepository) PersistStockUnit(unit *models.StockUnit) error {
	args := m.Called(unit)
	return args.Error(0)
}

func (m *MockStockRepository) UpdateStockUnit(id int, update UnitUpdate) error {
	args := m.Called(id, update)
	return args.Error(0)
}

func (m *MockStockRepository) DeleteStockUnit(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStockRepository) ExportRows() ([]ExportRow, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ExportRow), args.Error(1)
}

func (m *MockStockRepository) RunBatch(fn func(ops BatchOps) error) error {
	args := m.Called(fn)
	return args.Error(0)
}

// stubLogStore collects audit entries on a channel so tests can wait for the
// asynchronous write without sleeping.
type stubLogStore struct {
	entries chan models.AuditLog
}

func newStubLogStore() *stubLogStore {
	return &stubLogStore{entries: make(chan models.AuditLog, 8)}
}

func (s *stubLogStore) PersistLog(entry models.AuditLog, data interface{}) error {
	s.entries <- entry
	return nil
}

func setupHandlerTest(repo StockRepository) (*Handler, *stubLogStore, *gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	logStore := newStubLogStore()
	handler := NewHandler(repo, NewCSVService(repo), auditlog.NewAuditLog(logStore), nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", "1")
	c.Set("role", "admin")
	return handler, logStore, c, w
}

func TestCreateStockUnitRequiresFixtureAndSerial(t *testing.T) {
	mockRepo := new(MockStockRepository)
	handler, _, c, w := setupHandlerTest(mockRepo)

	body, _ := json.Marshal(map[string]interface{}{"serial_number": "SN-001"})
	c.Request = httptest.NewRequest("POST", "/stock", bytes.NewBuffer(body))

	handler.CreateStockUnit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "PersistStockUnit", mock.Anything)
}

func TestCreateStockUnitDuplicateSerial(t *testing.T) {
	mockRepo := new(MockStockRepository)
	handler, _, c, w := setupHandlerTest(mockRepo)

	mockRepo.On("PersistStockUnit", mock.Anything).
		Return(custom_error.WrapDBError("duplicate serial", "23505"))

	body, _ := json.Marshal(map[string]interface{}{"fixture_id": 3, "serial_number": "SN-001"})
	c.Request = httptest.NewRequest("POST", "/stock", bytes.NewBuffer(body))

	handler.CreateStockUnit(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestCreateStockUnitSuccess(t *testing.T) {
	mockRepo := new(MockStockRepository)
	handler, logStore, c, w := setupHandlerTest(mockRepo)

	mockRepo.On("PersistStockUnit", mock.MatchedBy(func(unit *models.StockUnit) bool {
		return unit.SerialNumber == "SN-001" && unit.FixtureID == 3 && unit.Status == models.StatusForSale
	})).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{"fixture_id": 3, "serial_number": "SN-001"})
	c.Request = httptest.NewRequest("POST", "/stock", bytes.NewBuffer(body))

	handler.CreateStockUnit(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	entry := <-logStore.entries
	assert.Equal(t, "create", entry.Action)
	assert.Equal(t, "stock_unit", entry.ResourceType)
	mockRepo.AssertExpectations(t)
}

func TestDeleteStockUnitSuccess(t *testing.T) {
	mockRepo := new(MockStockRepository)
	handler, logStore, c, w := setupHandlerTest(mockRepo)

	mockRepo.On("DeleteStockUnit", 7).Return(nil)

	c.Request = httptest.NewRequest("DELETE", "/stock/7", nil)
	c.Params = []gin.Param{{Key: "id", Value: "7"}}

	handler.DeleteStockUnit(c)

	assert.Equal(t, http.StatusOK, w.Code)

	entry := <-logStore.entries
	assert.Equal(t, "delete", entry.Action)
	assert.Equal(t, 7, entry.ResourceID)
	mockRepo.AssertExpectations(t)
}

func TestUpdateStockUnitRequiresStatus(t *testing.T) {
	mockRepo := new(MockStockRepository)
	handler, _, c, w := setupHandlerTest(mockRepo)

	body, _ := json.Marshal(map[string]interface{}{"warehouse_id": 2})
	c.Request = httptest.NewRequest("PUT", "/stock/1", bytes.NewBuffer(body))
	c.Params = []gin.Param{{Key: "id", Value: "1"}}

	handler.UpdateStockUnit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "UpdateStockUnit", mock.Anything, mock.Anything)
}

func TestGetStockUnitNotFound(t *testing.T) {
	mockRepo := new(MockStockRepository)
	handler, _, c, w := setupHandlerTest(mockRepo)

	mockRepo.On("GetStockUnit", 999).Return(nil, custom_error.NewNotFoundError("stock unit", "999"))

	c.Request = httptest.NewRequest("GET", "/stock/999", nil)
	c.Params = []gin.Param{{Key: "id", Value: "999"}}

	handler.GetStockUnit(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestExportCSVStreamsRows(t *testing.T) {
	mockRepo := new(MockStockRepository)
	handler, _, c, w := setupHandlerTest(mockRepo)

	warehouse := "Main WH"
	mfg := "2023-01-15"
	mockRepo.On("ExportRows").Return([]ExportRow{
		{SerialNumber: "SN-001", FixtureName: "Aurora Wash 300", Status: "FOR SALE", MfgDate: &mfg, WarehouseName: &warehouse},
		{SerialNumber: "SN-002", FixtureName: "Aurora Wash 300", Status: "SOLD"},
	}, nil)

	c.Request = httptest.NewRequest("GET", "/stock/export", nil)

	handler.ExportCSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ExportFilename)

	records, err := csv.NewReader(w.Body).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, ExportHeader, records[0])
	assert.Equal(t, []string{"SN-001", "Aurora Wash 300", "FOR SALE", "2023-01-15", "Main WH", "", ""}, records[1])
	assert.Equal(t, []string{"SN-002", "Aurora Wash 300", "SOLD", "", "", "", ""}, records[2])
	mockRepo.AssertExpectations(t)
}
