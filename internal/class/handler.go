package class

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fitclub/internal/auth"
	"fitclub/internal/gym"
	"fitclub/internal/logger"
	"fitclub/internal/schedule"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateClass godoc
// @Summary      Create class
// @Description  Schedules a new class at a gym. Admin only.
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        gymID    path      int                 true  "Gym ID"
// @Param        request  body      CreateClassRequest  true  "Class data"
// @Success      201      {object}  Class
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/gyms/{gymID}/classes [post]
func (h *Handler) CreateClass(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
		return
	}

	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateClass(c.Request.Context(), gymID, req)
	if err != nil {
		switch {
		case errors.Is(err, gym.ErrGymNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Gym not found"})
		case errors.Is(err, ErrClassInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class times or capacity"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListClasses godoc
// @Summary      List classes for a gym
// @Description  Returns classes, optionally limited to a from/to range.
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        gymID  path      int     true   "Gym ID"
// @Param        from   query     string  false  "Range start (RFC3339)"
// @Param        to     query     string  false  "Range end (RFC3339)"
// @Success      200    {array}   Class
// @Failure      400    {object}  gin.H
// @Failure      404    {object}  gin.H
// @Failure      500    {object}  gin.H
// @Router       /gyms/{gymID}/classes [get]
func (h *Handler) ListClasses(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
		return
	}

	from := time.Now()
	to := from.AddDate(0, 0, schedule.MaxDayOffset+1)

	if v := c.Query("from"); v != "" {
		from, err = time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from format, use RFC3339"})
			return
		}
	}
	if v := c.Query("to"); v != "" {
		to, err = time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to format, use RFC3339"})
			return
		}
	}

	classes, err := h.service.GetClasses(c.Request.Context(), gymID, from, to)
	if err != nil {
		if errors.Is(err, gym.ErrGymNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Gym not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch classes"})
		return
	}

	c.JSON(http.StatusOK, classes)
}

// GetSchedule godoc
// @Summary      Day schedule for a gym
// @Description  Returns sessions for today+day, grouped by activity type,
// @Description  with computed status and bookability. An empty groups array
// @Description  means no classes that day.
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        gymID  path      int  true   "Gym ID"
// @Param        day    query     int  false  "Day offset 0-6 (default 0)"
// @Success      200    {object}  DaySchedule
// @Failure      400    {object}  gin.H
// @Failure      404    {object}  gin.H
// @Failure      500    {object}  gin.H
// @Router       /gyms/{gymID}/schedule [get]
func (h *Handler) GetSchedule(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
		return
	}

	dayOffset := 0
	if v := c.Query("day"); v != "" {
		dayOffset, err = strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day offset"})
			return
		}
	}

	view, err := h.service.GetSchedule(c.Request.Context(), gymID, dayOffset, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDayOffset):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gym.ErrGymNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Gym not found"})
		default:
			logger.Error("Failed to build schedule", "gym_id", gymID, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build schedule"})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetClass godoc
// @Summary      Class detail
// @Description  Returns one class with availability, roster, status and
// @Description  bookability for the current user.
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      200      {object}  SessionView
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /classes/{classID} [get]
func (h *Handler) GetClass(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	view, err := h.service.GetSession(c.Request.Context(), classID, userID)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch class"})
		return
	}

	c.JSON(http.StatusOK, view)
}
