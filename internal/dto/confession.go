package dto

import (
	"time"

	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/utils"
)

// ConfessionDTO represents a confession in API responses. The author is
// omitted for anonymous confessions.
type ConfessionDTO struct {
	ID          uint64    `json:"id"`
	FamilyID    string    `json:"family_id"`
	Author      *UserDTO  `json:"author,omitempty"`
	Content     string    `json:"content"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConfessionListResponse represents a paginated list of confessions
type ConfessionListResponse struct {
	Confessions []ConfessionDTO          `json:"confessions"`
	Pagination  utils.PaginationResponse `json:"pagination"`
}

// ToConfessionDTO converts a Confession model to ConfessionDTO
func ToConfessionDTO(c models.Confession) ConfessionDTO {
	d := ConfessionDTO{
		ID:          c.ID,
		FamilyID:    c.FamilyID,
		Content:     c.Content,
		IsAnonymous: c.IsAnonymous,
		CreatedAt:   c.CreatedAt,
	}
	if !c.IsAnonymous {
		author := ToUserDTO(c.Author)
		d.Author = &author
	}
	return d
}

// ToConfessionDTOs converts a slice of confessions
func ToConfessionDTOs(confessions []models.Confession) []ConfessionDTO {
	dtos := make([]ConfessionDTO, len(confessions))
	for i, c := range confessions {
		dtos[i] = ToConfessionDTO(c)
	}
	return dtos
}
