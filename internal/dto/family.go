package dto

import (
	"time"

	"github.com/kinship-app/kinship/internal/models"
)

// FamilyDTO represents a family in API responses
type FamilyDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AdminID     uint64    `json:"admin_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// FamilyMembershipDTO represents a user belonging to a family
type FamilyMembershipDTO struct {
	User     UserDTO   `json:"user"`
	JoinedAt time.Time `json:"joined_at"`
	IsAdmin  bool      `json:"is_admin"`
}

// FamilyDetailDTO represents a family with its user roster
type FamilyDetailDTO struct {
	FamilyDTO
	Members []FamilyMembershipDTO `json:"members"`
}

// JoinRequestDTO represents a pending or handled join request
type JoinRequestDTO struct {
	ID           uint64               `json:"id"`
	FamilyID     string               `json:"family_id"`
	User         UserDTO              `json:"user"`
	Message      string               `json:"message"`
	Status       models.RequestStatus `json:"status"`
	ApprovalData *models.ApprovalData `json:"approval_data,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	RespondedAt  *time.Time           `json:"responded_at"`
}

// ToFamilyDTO converts a Family model to FamilyDTO
func ToFamilyDTO(family models.Family) FamilyDTO {
	return FamilyDTO{
		ID:          family.ID,
		Name:        family.Name,
		Description: family.Description,
		AdminID:     family.AdminID,
		CreatedAt:   family.CreatedAt,
	}
}

// ToFamilyDetailDTO converts a family with memberships to detailed DTO
func ToFamilyDetailDTO(family models.Family, memberships []models.FamilyMembership) FamilyDetailDTO {
	membershipDTOs := make([]FamilyMembershipDTO, len(memberships))
	for i, m := range memberships {
		membershipDTOs[i] = FamilyMembershipDTO{
			User:     ToUserDTO(m.User),
			JoinedAt: m.JoinedAt,
			IsAdmin:  m.UserID == family.AdminID,
		}
	}

	return FamilyDetailDTO{
		FamilyDTO: ToFamilyDTO(family),
		Members:   membershipDTOs,
	}
}

// ToJoinRequestDTO converts a join request to DTO
func ToJoinRequestDTO(request models.FamilyJoinRequest) JoinRequestDTO {
	return JoinRequestDTO{
		ID:           request.ID,
		FamilyID:     request.FamilyID,
		User:         ToUserDTO(request.User),
		Message:      request.Message,
		Status:       request.Status,
		ApprovalData: request.ApprovalData,
		CreatedAt:    request.CreatedAt,
		RespondedAt:  request.RespondedAt,
	}
}

// ToJoinRequestDTOs converts a slice of join requests
func ToJoinRequestDTOs(requests []models.FamilyJoinRequest) []JoinRequestDTO {
	dtos := make([]JoinRequestDTO, len(requests))
	for i, r := range requests {
		dtos[i] = ToJoinRequestDTO(r)
	}
	return dtos
}
