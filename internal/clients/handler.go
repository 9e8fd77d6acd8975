package clients

import (
	"net/http"
	"strconv"

	"github.com/jeremynbs/LumiPro-Inventory/internal/repository"
	custom_error "github.com/jeremynbs/LumiPro-Inventory/pkg/errors"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo ClientRepository
}

func NewHandler(repo ClientRepository) *Handler {
	return &Handler{repo: repo}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository, authorized gin.HandlerFunc) {
	handler := NewHandler(NewRepository(r))

	router.GET("/clients", handler.ListClients)
	router.GET("/clients/:id", handler.GetClient)
	router.POST("/clients", authorized, handler.CreateClient)
	router.PUT("/clients/:id", authorized, handler.UpdateClient)
	router.DELETE("/clients/:id", authorized, handler.DeleteClient)
}

type clientRequest struct {
	Name        string  `json:"name"`
	ContactInfo *string `json:"contact_info"`
}

func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.repo.GetClients()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list clients", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, clients)
}

func (h *Handler) GetClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client id"})
		return
	}

	client, err := h.repo.GetClient(id)
	if err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get client", "details": err.Error()})
		return
	}

	units, err := h.repo.GetClientUnits(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list client units", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client, "units": units})
}

func (h *Handler) CreateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Client name is required"})
		return
	}

	client := models.Client{Name: req.Name, ContactInfo: req.ContactInfo}
	if err := h.repo.PersistClient(&client); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, client)
}

func (h *Handler) UpdateClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client id"})
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Client name is required"})
		return
	}

	client := models.Client{Name: req.Name, ContactInfo: req.ContactInfo}
	if err := h.repo.UpdateClient(id, &client); err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client information updated"})
}

func (h *Handler) DeleteClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client id"})
		return
	}

	if err := h.repo.DeleteClient(id); err != nil {
		switch err.(type) {
		case *custom_error.ReferentialIntegrityError:
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete client: reassign or remove their equipment first"})
			return
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client", "details": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}
