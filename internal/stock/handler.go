package stock

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/jeremynbs/LumiPro-Inventory/internal/rate_limiter"
	"github.com/jeremynbs/LumiPro-Inventory/internal/repository"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/auditlog"
	custom_error "github.com/jeremynbs/LumiPro-Inventory/pkg/errors"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"

	"github.com/gin-gonic/gin"
)

// How many row errors a bulk-update response spells out; the rest are
// reported as a count only.
const surfacedErrorLimit = 3

type Handler struct {
	repo     StockRepository
	csv      *CSVService
	auditLog *auditlog.Auditlog
	logs     *repository.Repository
}

func NewHandler(repo StockRepository, csvService *CSVService, a *auditlog.Auditlog, r *repository.Repository) *Handler {
	return &Handler{
		repo:     repo,
		csv:      csvService,
		auditLog: a,
		logs:     r,
	}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository, a *auditlog.Auditlog, authorized gin.HandlerFunc) {
	repo := NewRepository(r)
	handler := NewHandler(repo, NewCSVService(repo), a, r)

	bulkLimiter := rate_limiter.NewRateLimiter(6, time.Minute)

	router.GET("/stock", handler.ListStock)
	router.GET("/stock/export", handler.ExportCSV)
	router.GET("/stock/:id", handler.GetStockUnit)
	router.GET("/stock/:id/history", handler.GetStockUnitHistory)
	router.POST("/stock", authorized, handler.CreateStockUnit)
	router.PUT("/stock/:id", authorized, handler.UpdateStockUnit)
	router.DELETE("/stock/:id", authorized, handler.DeleteStockUnit)
	router.POST("/stock/bulk-upload", authorized, bulkLimiter.Middleware(), handler.BulkUpload)
	router.POST("/stock/bulk-update", authorized, bulkLimiter.Middleware(), handler.BulkUpdate)
}

func (h *Handler) ListStock(c *gin.Context) {
	units, err := h.repo.GetStock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list stock", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, units)
}

func (h *Handler) GetStockUnit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock unit id"})
		return
	}

	unit, err := h.repo.GetStockUnit(id)
	if err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock unit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get stock unit", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, unit)
}

func (h *Handler) GetStockUnitHistory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock unit id"})
		return
	}

	logs, err := h.logs.GetLogsForResource("stock_unit", id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load unit history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}

type createStockRequest struct {
	FixtureID    int     `json:"fixture_id"`
	SerialNumber string  `json:"serial_number"`
	WarehouseID  *int    `json:"warehouse_id"`
	MfgDate      *string `json:"mfg_date"`
}

func (h *Handler) CreateStockUnit(c *gin.Context) {
	var req createStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.FixtureID == 0 || req.SerialNumber == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "fixture_id and serial_number are required"})
		return
	}

	unit := models.StockUnit{
		FixtureID:    req.FixtureID,
		SerialNumber: req.SerialNumber,
		WarehouseID:  req.WarehouseID,
		Status:       models.StatusForSale,
		MfgDate:      req.MfgDate,
	}
	if err := h.repo.PersistStockUnit(&unit); err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Serial number must be unique"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stock unit"})
		return
	}

	go h.auditLog.Log(
		"create",
		map[string]interface{}{
			"serial_number": unit.SerialNumber,
			"fixture_id":    unit.FixtureID,
			"warehouse_id":  unit.WarehouseID,
			"msg":           "Register stock unit in inventory",
		},
		&unit,
	)

	c.JSON(http.StatusCreated, unit)
}

type updateStockRequest struct {
	Status      string  `json:"status"`
	WarehouseID *int    `json:"warehouse_id"`
	ClientID    *int    `json:"client_id"`
	InstallDate *string `json:"install_date"`
}

func (h *Handler) UpdateStockUnit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock unit id"})
		return
	}

	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.Status == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	update := UnitUpdate{
		Status:      req.Status,
		WarehouseID: req.WarehouseID,
		ClientID:    req.ClientID,
		InstallDate: req.InstallDate,
	}
	if err := h.repo.UpdateStockUnit(id, update); err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock unit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock unit", "details": err.Error()})
		return
	}

	go h.auditLog.Log(
		"update",
		map[string]interface{}{
			"status":       models.CanonicalStatus(req.Status),
			"warehouse_id": req.WarehouseID,
			"client_id":    req.ClientID,
			"msg":          "Unit status updated",
		},
		&models.StockUnit{ID: id},
	)

	c.JSON(http.StatusOK, gin.H{"message": "Unit status updated"})
}

func (h *Handler) DeleteStockUnit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock unit id"})
		return
	}

	if err := h.repo.DeleteStockUnit(id); err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock unit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete stock unit", "details": err.Error()})
		return
	}

	go h.auditLog.Log(
		"delete",
		map[string]interface{}{"msg": "Unit removed from inventory"},
		&models.StockUnit{ID: id},
	)

	c.JSON(http.StatusOK, gin.H{"message": "Unit removed from inventory"})
}

// batchAudit is the audit-log subject for whole CSV batches, which have no
// single resource id.
type batchAudit struct{}

func (batchAudit) CreateLogView() models.AuditLog {
	return models.AuditLog{ResourceType: "stock_batch"}
}

func (h *Handler) BulkUpload(c *gin.Context) {
	fixtureID, err := strconv.Atoi(c.PostForm("fixture_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Please select both a fixture model and a target warehouse"})
		return
	}
	warehouseID, err := strconv.Atoi(c.PostForm("warehouse_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Please select both a fixture model and a target warehouse"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unable to read uploaded file"})
		return
	}
	defer file.Close()

	rows, err := ParseBulkAddCSV(file)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.csv.BulkAdd(fixtureID, warehouseID, rows)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error while importing stock", "details": err.Error()})
		return
	}

	go h.auditLog.Log(
		"bulk_import",
		map[string]interface{}{
			"imported":     result.Imported,
			"error_count":  len(result.Errors),
			"fixture_id":   fixtureID,
			"warehouse_id": warehouseID,
		},
		batchAudit{},
	)

	c.JSON(http.StatusOK, gin.H{
		"imported":    result.Imported,
		"error_count": len(result.Errors),
		"errors":      result.Errors,
	})
}

func (h *Handler) BulkUpdate(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unable to read uploaded file"})
		return
	}
	defer file.Close()

	rows, err := ParseBulkUpdateCSV(file)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.csv.BulkUpdate(rows)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error while updating stock", "details": err.Error()})
		return
	}

	surfaced := result.Errors
	if len(surfaced) > surfacedErrorLimit {
		surfaced = surfaced[:surfacedErrorLimit]
	}

	go h.auditLog.Log(
		"bulk_update",
		map[string]interface{}{
			"updated":        result.Updated,
			"new_clients":    result.NewClients,
			"new_warehouses": result.NewWarehouses,
			"error_count":    len(result.Errors),
		},
		batchAudit{},
	)

	c.JSON(http.StatusOK, gin.H{
		"updated":        result.Updated,
		"new_clients":    result.NewClients,
		"new_warehouses": result.NewWarehouses,
		"error_count":    len(result.Errors),
		"errors":         surfaced,
	})
}

// ExportCSV streams the full stock list as a spreadsheet-editable CSV, the
// counterpart of BulkUpdate.
func (h *Handler) ExportCSV(c *gin.Context) {
	rows, err := h.repo.ExportRows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to export stock", "details": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+ExportFilename)

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(ExportHeader); err != nil {
		return
	}
	for _, row := range rows {
		record := []string{
			row.SerialNumber,
			row.FixtureName,
			row.Status,
			derefOrEmpty(row.MfgDate),
			derefOrEmpty(row.WarehouseName),
			derefOrEmpty(row.ClientName),
			derefOrEmpty(row.InstallDate),
		}
		if err := writer.Write(record); err != nil {
			return
		}
		writer.Flush()
	}
	writer.Flush()
}
