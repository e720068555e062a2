package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/pistanero/storefront/internal/models"
)

// EventHandler manages the club news/announcements board.
type EventHandler struct {
	DB *gorm.DB
}

type eventRequest struct {
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Tag       string `json:"tag"`
	DateLabel string `json:"date_label"`
	ImageURL  string `json:"image_url"`
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	var events []models.Event
	if err := h.DB.Order("created_at DESC").Find(&events).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	event := models.Event{
		Title:     strings.TrimSpace(req.Title),
		Excerpt:   strings.TrimSpace(req.Excerpt),
		Tag:       req.Tag,
		DateLabel: strings.TrimSpace(req.DateLabel),
		ImageURL:  strings.TrimSpace(req.ImageURL),
		CreatedAt: time.Now(),
	}
	if err := h.DB.Create(&event).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	var event models.Event
	if err := h.DB.First(&event, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	event.Title = strings.TrimSpace(req.Title)
	event.Excerpt = strings.TrimSpace(req.Excerpt)
	event.Tag = req.Tag
	event.DateLabel = strings.TrimSpace(req.DateLabel)
	event.ImageURL = strings.TrimSpace(req.ImageURL)

	if err := h.DB.Save(&event).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if err := h.DB.Delete(&models.Event{}, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.NoContent(http.StatusNoContent)
}
