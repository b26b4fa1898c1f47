package gym

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateGym godoc
// @Summary      Create gym
// @Description  Creates a new gym. Admin only.
// @Tags         gyms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateGymRequest  true  "Gym data"
// @Success      201      {object}  Gym
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/gyms [post]
func (h *Handler) CreateGym(c *gin.Context) {
	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gym, err := h.service.CreateGym(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidTimezone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timezone"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create gym"})
		return
	}

	c.JSON(http.StatusCreated, gym)
}

// ListGyms godoc
// @Summary      List gyms
// @Tags         gyms
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Gym
// @Failure      500  {object}  gin.H
// @Router       /gyms [get]
func (h *Handler) ListGyms(c *gin.Context) {
	gyms, err := h.service.GetAllGyms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gyms"})
		return
	}

	c.JSON(http.StatusOK, gyms)
}

// GetGym godoc
// @Summary      Gym detail
// @Description  Returns one gym; served from the detail cache when warm.
// @Tags         gyms
// @Security     BearerAuth
// @Produce      json
// @Param        gymID  path      int  true  "Gym ID"
// @Success      200    {object}  Gym
// @Failure      400    {object}  gin.H
// @Failure      404    {object}  gin.H
// @Router       /gyms/{gymID} [get]
func (h *Handler) GetGym(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
		return
	}

	gym, err := h.service.GetGymByID(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gym not found"})
		return
	}

	c.JSON(http.StatusOK, gym)
}
