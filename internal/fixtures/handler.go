package fixtures

import (
	"net/http"
	"strconv"

	"github.com/jeremynbs/LumiPro-Inventory/internal/repository"
	custom_error "github.com/jeremynbs/LumiPro-Inventory/pkg/errors"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	repo FixtureRepository
}

func NewHandler(repo FixtureRepository) *Handler {
	return &Handler{repo: repo}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository, authorized gin.HandlerFunc) {
	handler := NewHandler(NewRepository(r))

	router.GET("/fixture-types", handler.ListFixtureTypes)
	router.POST("/fixture-types", authorized, handler.CreateFixtureType)
	router.PUT("/fixture-types/:id", authorized, handler.UpdateFixtureType)
	router.DELETE("/fixture-types/:id", authorized, handler.DeleteFixtureType)

	router.GET("/fixtures", handler.ListFixtures)
	router.GET("/fixtures/:id", handler.GetFixture)
	router.POST("/fixtures", authorized, handler.CreateFixture)
	router.PUT("/fixtures/:id", authorized, handler.UpdateFixture)
	router.DELETE("/fixtures/:id", authorized, handler.DeleteFixture)
}

func (h *Handler) ListFixtureTypes(c *gin.Context) {
	types, err := h.repo.GetFixtureTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list fixture types", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, types)
}

func (h *Handler) CreateFixtureType(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Category name cannot be empty"})
		return
	}

	fixtureType := models.FixtureType{Name: req.Name}
	if err := h.repo.PersistFixtureType(&fixtureType); err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "This category already exists"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fixture type"})
		return
	}

	c.JSON(http.StatusCreated, fixtureType)
}

func (h *Handler) UpdateFixtureType(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fixture type id"})
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Category name cannot be empty"})
		return
	}

	if err := h.repo.UpdateFixtureType(id, req.Name); err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.JSON(http.StatusConflict, gin.H{"error": "This category already exists"})
			return
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": "Fixture type not found"})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update fixture type", "details": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

func (h *Handler) DeleteFixtureType(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fixture type id"})
		return
	}

	if err := h.repo.DeleteFixtureType(id); err != nil {
		switch err.(type) {
		case *custom_error.ReferentialIntegrityError:
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete: category is still assigned to fixture models"})
			return
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": "Fixture type not found"})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete fixture type", "details": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category removed"})
}

type fixtureRequest struct {
	Name             string              `json:"name"`
	ModelName        *string             `json:"model_name"`
	FactoryModelName *string             `json:"factory_model_name"`
	SKU              *string             `json:"sku"`
	TypeID           *int                `json:"type_id"`
	SupplierID       *int                `json:"supplier_id"`
	PowerWatts       *float64            `json:"power_watts"`
	Color            *string             `json:"color"`
	BeamAngle        *string             `json:"beam_angle"`
	IPRating         *string             `json:"ip_rating"`
	WeightKg         *float64            `json:"weight_kg"`
	Cost             decimal.NullDecimal `json:"cost"`
	PriceSGD         decimal.NullDecimal `json:"price_sgd"`
	PriceUSD         decimal.NullDecimal `json:"price_usd"`
	Remarks          *string             `json:"remarks"`
}

func (req *fixtureRequest) toModel() models.Fixture {
	return models.Fixture{
		Name:             req.Name,
		ModelName:        req.ModelName,
		FactoryModelName: req.FactoryModelName,
		SKU:              req.SKU,
		TypeID:           req.TypeID,
		SupplierID:       req.SupplierID,
		PowerWatts:       req.PowerWatts,
		Color:            req.Color,
		BeamAngle:        req.BeamAngle,
		IPRating:         req.IPRating,
		WeightKg:         req.WeightKg,
		Cost:             req.Cost,
		PriceSGD:         req.PriceSGD,
		PriceUSD:         req.PriceUSD,
		Remarks:          req.Remarks,
	}
}

func (h *Handler) ListFixtures(c *gin.Context) {
	fixtures, err := h.repo.GetFixtures()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list fixtures", "details": err.Error()})
		return
	}

	distribution, err := h.repo.GetStockDistribution()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load stock distribution", "details": err.Error()})
		return
	}

	distMap := make(map[int][]StockDistribution)
	for _, row := range distribution {
		distMap[row.FixtureID] = append(distMap[row.FixtureID], row)
	}

	c.JSON(http.StatusOK, gin.H{"fixtures": fixtures, "distribution": distMap})
}

func (h *Handler) GetFixture(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fixture id"})
		return
	}

	fixture, err := h.repo.GetFixture(id)
	if err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fixture model not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get fixture", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, fixture)
}

func (h *Handler) CreateFixture(c *gin.Context) {
	var req fixtureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Fixture name is required"})
		return
	}

	fixture := req.toModel()
	if err := h.repo.PersistFixture(&fixture); err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "SKU must be unique"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fixture"})
		return
	}

	c.JSON(http.StatusCreated, fixture)
}

func (h *Handler) UpdateFixture(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fixture id"})
		return
	}

	var req fixtureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Fixture name is required"})
		return
	}

	fixture := req.toModel()
	if err := h.repo.UpdateFixture(id, &fixture); err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.JSON(http.StatusConflict, gin.H{"error": "SKU must be unique"})
			return
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": "Fixture model not found"})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update fixture", "details": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fixture model updated"})
}

func (h *Handler) DeleteFixture(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fixture id"})
		return
	}

	if err := h.repo.DeleteFixture(id); err != nil {
		switch err.(type) {
		case *custom_error.ReferentialIntegrityError:
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete: inventory units exist for this model"})
			return
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": "Fixture model not found"})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete fixture", "details": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fixture model removed"})
}
