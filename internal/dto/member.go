package dto

import (
	"time"

	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/services"
)

// MemberSummaryDTO represents a family member in list responses
type MemberSummaryDTO struct {
	ID            uint64               `json:"id"`
	Name          string               `json:"name"`
	Gender        models.Gender        `json:"gender"`
	Generation    int                  `json:"generation"`
	BirthDate     *time.Time           `json:"birth_date"`
	DeathDate     *time.Time           `json:"death_date"`
	MaritalStatus models.MaritalStatus `json:"marital_status"`
	FatherID      *uint64              `json:"father_id"`
	MotherID      *uint64              `json:"mother_id"`
	SpouseID      *uint64              `json:"spouse_id"`
	LinkedUserID  *uint64              `json:"linked_user_id"`
	IsVerified    bool                 `json:"is_verified"`
	IsDeleted     bool                 `json:"is_deleted"`
}

// MemberDetailDTO represents a member with its kinship neighborhood
type MemberDetailDTO struct {
	MemberSummaryDTO
	MarriageDate *time.Time                 `json:"marriage_date"`
	Occupation   string                     `json:"occupation"`
	Address      string                     `json:"address"`
	Email        string                     `json:"email"`
	ChildOrder   *int                       `json:"child_order"`
	Father       *MemberSummaryDTO          `json:"father"`
	Mother       *MemberSummaryDTO          `json:"mother"`
	Spouse       *MemberSummaryDTO          `json:"spouse"`
	Children     []MemberSummaryDTO         `json:"children"`
	Siblings     []MemberSummaryDTO         `json:"siblings"`
	MyOrder      int                        `json:"my_order"`
	Achievements []models.MemberAchievement `json:"achievements,omitempty"`
}

// ToMemberSummaryDTO converts a FamilyMember model to MemberSummaryDTO
func ToMemberSummaryDTO(m models.FamilyMember) MemberSummaryDTO {
	return MemberSummaryDTO{
		ID:            m.ID,
		Name:          m.Name,
		Gender:        m.Gender,
		Generation:    m.Generation,
		BirthDate:     m.BirthDate,
		DeathDate:     m.DeathDate,
		MaritalStatus: m.MaritalStatus,
		FatherID:      m.FatherID,
		MotherID:      m.MotherID,
		SpouseID:      m.SpouseID,
		LinkedUserID:  m.LinkedUserID,
		IsVerified:    m.IsVerified,
		IsDeleted:     m.IsDeleted,
	}
}

// ToMemberSummaryDTOs converts a slice of members
func ToMemberSummaryDTOs(members []models.FamilyMember) []MemberSummaryDTO {
	dtos := make([]MemberSummaryDTO, len(members))
	for i, m := range members {
		dtos[i] = ToMemberSummaryDTO(m)
	}
	return dtos
}

// ToMemberDetailDTO converts a member detail view to DTO
func ToMemberDetailDTO(detail services.MemberDetail) MemberDetailDTO {
	d := MemberDetailDTO{
		MemberSummaryDTO: ToMemberSummaryDTO(detail.Member),
		MarriageDate:     detail.Member.MarriageDate,
		Occupation:       detail.Member.Occupation,
		Address:          detail.Member.Address,
		Email:            detail.Member.Email,
		ChildOrder:       detail.Member.ChildOrder,
		Children:         ToMemberSummaryDTOs(detail.Children),
		Siblings:         ToMemberSummaryDTOs(detail.Siblings),
		MyOrder:          detail.MyOrder,
		Achievements:     detail.Member.Achievements,
	}
	if detail.Father != nil {
		father := ToMemberSummaryDTO(*detail.Father)
		d.Father = &father
	}
	if detail.Mother != nil {
		mother := ToMemberSummaryDTO(*detail.Mother)
		d.Mother = &mother
	}
	if detail.Spouse != nil {
		spouse := ToMemberSummaryDTO(*detail.Spouse)
		d.Spouse = &spouse
	}
	return d
}
