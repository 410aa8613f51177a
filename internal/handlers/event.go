package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/constants"
	"github.com/kinship-app/kinship/internal/dto"
	"github.com/kinship-app/kinship/internal/middleware"
	"github.com/kinship-app/kinship/internal/services"
)

// EventHandler coordinates family-event HTTP handlers.
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

type eventRequestBody struct {
	Title       string    `json:"title" binding:"required,max=255"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date" binding:"required"`
	Location    string    `json:"location"`
}

// CreateEvent creates a family event.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req eventRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.CreateEvent(c.Param("familyId"), userID, services.EventInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Location:    req.Location,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventDTO(*event))
}

// ListEvents returns the family's events, optionally only upcoming ones.
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if raw := c.Query("upcoming"); raw != "" {
		upcoming, err := strconv.ParseBool(raw)
		if err != nil {
			apperrors.BadRequest(c, "Invalid upcoming filter")
			return
		}
		if upcoming {
			days := constants.EventWindowDays
			if rawDays := c.Query("days"); rawDays != "" {
				days, err = strconv.Atoi(rawDays)
				if err != nil || days < 1 {
					apperrors.BadRequest(c, "Invalid days parameter")
					return
				}
			}
			events, err := h.eventService.ListUpcomingEvents(c.Param("familyId"), userID, days)
			if err != nil {
				apperrors.Respond(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"events": dto.ToEventDTOs(events)})
			return
		}
	}

	events, err := h.eventService.ListEvents(c.Param("familyId"), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": dto.ToEventDTOs(events)})
}

// UpdateEvent edits an event.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		apperrors.BadRequest(c, "Invalid event ID")
		return
	}

	var req eventRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.UpdateEvent(c.Param("familyId"), eventID, userID, services.EventInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Location:    req.Location,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// DeleteEvent removes an event.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		apperrors.BadRequest(c, "Invalid event ID")
		return
	}

	if err := h.eventService.DeleteEvent(c.Param("familyId"), eventID, userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
