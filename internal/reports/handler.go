package reports

import (
	"net/http"

	"github.com/jeremynbs/LumiPro-Inventory/internal/repository"

	"github.com/gin-gonic/gin"
)

// Handler serves the read-only reporting endpoints backing the dashboard.
type Handler struct {
	repo ReportRepository
}

func NewHandler(repo ReportRepository) *Handler {
	return &Handler{repo: repo}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository) {
	handler := NewHandler(NewRepository(r))

	router.GET("/reports/summary", handler.GetSummary)
	router.GET("/reports/distribution", handler.GetDistribution)
	router.GET("/reports/logistics", handler.GetLogistics)
	router.GET("/reports/sales", handler.GetSales)
}

func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.repo.GetSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) GetDistribution(c *gin.Context) {
	rows, err := h.repo.GetDistribution()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load distribution", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *Handler) GetLogistics(c *gin.Context) {
	rows, err := h.repo.GetLogistics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load logistics report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *Handler) GetSales(c *gin.Context) {
	report, err := h.repo.GetSales()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load sales report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
