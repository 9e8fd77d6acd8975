package suppliers

import (
	"net/http"
	"strconv"

	"github.com/jeremynbs/LumiPro-Inventory/internal/repository"
	custom_error "github.com/jeremynbs/LumiPro-Inventory/pkg/errors"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo SupplierRepository
}

func NewHandler(repo SupplierRepository) *Handler {
	return &Handler{repo: repo}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository, authorized gin.HandlerFunc) {
	handler := NewHandler(NewRepository(r))

	router.GET("/suppliers", handler.ListSuppliers)
	router.GET("/suppliers/:id", handler.GetSupplier)
	router.POST("/suppliers", authorized, handler.CreateSupplier)
	router.PUT("/suppliers/:id", authorized, handler.UpdateSupplier)
	router.DELETE("/suppliers/:id", authorized, handler.DeleteSupplier)
}

type supplierRequest struct {
	Name          string  `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
}

func (h *Handler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.repo.GetSuppliers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list suppliers", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, suppliers)
}

func (h *Handler) GetSupplier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier id"})
		return
	}

	supplier, err := h.repo.GetSupplier(id)
	if err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get supplier", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, supplier)
}

func (h *Handler) CreateSupplier(c *gin.Context) {
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Supplier name is required"})
		return
	}

	supplier := models.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
	}
	if err := h.repo.PersistSupplier(&supplier); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier"})
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

func (h *Handler) UpdateSupplier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier id"})
		return
	}

	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Supplier name is required"})
		return
	}

	supplier := models.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
	}
	if err := h.repo.UpdateSupplier(id, &supplier); err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update supplier", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier information updated"})
}

func (h *Handler) DeleteSupplier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier id"})
		return
	}

	if err := h.repo.DeleteSupplier(id); err != nil {
		switch err.(type) {
		case *custom_error.ReferentialIntegrityError:
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete supplier: linked fixture profiles exist"})
			return
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete supplier", "details": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted"})
}
