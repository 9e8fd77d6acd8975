package warehouses

import (
	"net/http"
	"strconv"

	"github.com/jeremynbs/LumiPro-Inventory/internal/repository"
	custom_error "github.com/jeremynbs/LumiPro-Inventory/pkg/errors"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo WarehouseRepository
}

func NewHandler(repo WarehouseRepository) *Handler {
	return &Handler{repo: repo}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository, authorized gin.HandlerFunc) {
	handler := NewHandler(NewRepository(r))

	router.GET("/warehouses", handler.ListWarehouses)
	router.GET("/warehouses/:id", handler.GetWarehouse)
	router.POST("/warehouses", authorized, handler.CreateWarehouse)
	router.PUT("/warehouses/:id", authorized, handler.UpdateWarehouse)
	router.DELETE("/warehouses/:id", authorized, handler.DeleteWarehouse)
}

type warehouseRequest struct {
	Name     string  `json:"name"`
	Location *string `json:"location"`
}

func (h *Handler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.repo.GetWarehouses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list warehouses", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, warehouses)
}

func (h *Handler) GetWarehouse(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid warehouse id"})
		return
	}

	warehouse, err := h.repo.GetWarehouse(id)
	if err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Warehouse not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get warehouse", "details": err.Error()})
		return
	}

	units, err := h.repo.GetWarehouseUnits(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list warehouse units", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"warehouse": warehouse, "units": units})
}

func (h *Handler) CreateWarehouse(c *gin.Context) {
	var req warehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Warehouse name is required"})
		return
	}

	warehouse := models.Warehouse{Name: req.Name, Location: req.Location}
	if err := h.repo.PersistWarehouse(&warehouse); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create warehouse"})
		return
	}

	c.JSON(http.StatusCreated, warehouse)
}

func (h *Handler) UpdateWarehouse(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid warehouse id"})
		return
	}

	var req warehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Warehouse name is required"})
		return
	}

	warehouse := models.Warehouse{Name: req.Name, Location: req.Location}
	if err := h.repo.UpdateWarehouse(id, &warehouse); err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Warehouse not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update warehouse", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Warehouse updated"})
}

func (h *Handler) DeleteWarehouse(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid warehouse id"})
		return
	}

	if err := h.repo.DeleteWarehouse(id); err != nil {
		switch err.(type) {
		case *custom_error.ReferentialIntegrityError:
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete warehouse: it still contains stock units"})
			return
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": "Warehouse not found"})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete warehouse", "details": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Warehouse removed"})
}
