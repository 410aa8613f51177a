package dto

import (
	"time"

	"github.com/kinship-app/kinship/internal/models"
)

// EventDTO represents a family event in API responses
type EventDTO struct {
	ID          uint64    `json:"id"`
	FamilyID    string    `json:"family_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	Location    string    `json:"location"`
	CreatedBy   uint64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToEventDTO converts an Event model to EventDTO
func ToEventDTO(e models.Event) EventDTO {
	return EventDTO{
		ID:          e.ID,
		FamilyID:    e.FamilyID,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate,
		Location:    e.Location,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

// ToEventDTOs converts a slice of events
func ToEventDTOs(events []models.Event) []EventDTO {
	dtos := make([]EventDTO, len(events))
	for i, e := range events {
		dtos[i] = ToEventDTO(e)
	}
	return dtos
}
