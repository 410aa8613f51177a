package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/dto"
	"github.com/kinship-app/kinship/internal/middleware"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/repository"
	"github.com/kinship-app/kinship/internal/services"
)

// MemberHandler coordinates family-member HTTP handlers.
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

type memberRequestBody struct {
	Name          string                `json:"name" binding:"required,max=255"`
	Gender        models.Gender         `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	Generation    int                   `json:"generation"`
	BirthDate     *time.Time            `json:"birth_date"`
	DeathDate     *time.Time            `json:"death_date"`
	MarriageDate  *time.Time            `json:"marriage_date"`
	Occupation    string                `json:"occupation"`
	Address       string                `json:"address"`
	Email         string                `json:"email"`
	MaritalStatus models.MaritalStatus  `json:"marital_status" binding:"omitempty,oneof=SINGLE MARRIED DIVORCED WIDOWED"`
	ChildOrder    *int                  `json:"child_order"`
	FatherID      *uint64               `json:"father_id"`
	MotherID      *uint64               `json:"mother_id"`
	SpouseID      *uint64               `json:"spouse_id"`
	IsMe          bool                  `json:"is_me"`
}

// ListMembers returns the family's members with optional filters.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	filter := repository.MemberFilter{
		FamilyID:     c.Param("familyId"),
		NameContains: c.Query("name"),
	}
	if raw := c.Query("alive"); raw != "" {
		alive, err := strconv.ParseBool(raw)
		if err != nil {
			apperrors.BadRequest(c, "Invalid alive filter")
			return
		}
		filter.Alive = &alive
	}
	if raw := c.Query("generation"); raw != "" {
		generation, err := strconv.Atoi(raw)
		if err != nil {
			apperrors.BadRequest(c, "Invalid generation filter")
			return
		}
		filter.Generation = &generation
	}
	if raw := c.Query("gender"); raw != "" {
		gender := models.Gender(raw)
		filter.Gender = &gender
	}
	if raw := c.Query("include_deleted"); raw != "" {
		includeDeleted, err := strconv.ParseBool(raw)
		if err != nil {
			apperrors.BadRequest(c, "Invalid include_deleted filter")
			return
		}
		filter.IncludeDeleted = includeDeleted
	}

	members, err := h.memberService.GetFamilyMembers(userID, filter)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToMemberSummaryDTOs(members)})
}

// CreateMember adds a member to the family tree.
func (h *MemberHandler) CreateMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req memberRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.memberService.CreateMember(services.CreateMemberInput{
		FamilyID:      c.Param("familyId"),
		ActorID:       userID,
		Name:          req.Name,
		Gender:        req.Gender,
		Generation:    req.Generation,
		BirthDate:     req.BirthDate,
		DeathDate:     req.DeathDate,
		MarriageDate:  req.MarriageDate,
		Occupation:    req.Occupation,
		Address:       req.Address,
		Email:         req.Email,
		MaritalStatus: req.MaritalStatus,
		ChildOrder:    req.ChildOrder,
		FatherID:      req.FatherID,
		MotherID:      req.MotherID,
		SpouseID:      req.SpouseID,
		IsMe:          req.IsMe,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemberSummaryDTO(*member))
}

// GetMember returns a member with its kinship neighborhood.
func (h *MemberHandler) GetMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		apperrors.BadRequest(c, "Invalid member ID")
		return
	}

	detail, err := h.memberService.GetMemberByID(c.Param("familyId"), memberID, userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDetailDTO(*detail))
}

// UpdateMember applies a partial update to a member.
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	type UpdateMemberRequest struct {
		Name          *string               `json:"name"`
		Gender        *models.Gender        `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
		Generation    *int                  `json:"generation"`
		BirthDate     *time.Time            `json:"birth_date"`
		DeathDate     *time.Time            `json:"death_date"`
		MarriageDate  *time.Time            `json:"marriage_date"`
		Occupation    *string               `json:"occupation"`
		Address       *string               `json:"address"`
		Email         *string               `json:"email"`
		MaritalStatus *models.MaritalStatus `json:"marital_status" binding:"omitempty,oneof=SINGLE MARRIED DIVORCED WIDOWED"`
		ChildOrder    *int                  `json:"child_order"`
		FatherID      *uint64               `json:"father_id"`
		MotherID      *uint64               `json:"mother_id"`
		SpouseID      *uint64               `json:"spouse_id"`
		ClearFather   bool                  `json:"clear_father"`
		ClearMother   bool                  `json:"clear_mother"`
		ClearSpouse   bool                  `json:"clear_spouse"`
	}

	userID, _ := middleware.GetUserID(c)

	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		apperrors.BadRequest(c, "Invalid member ID")
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.memberService.UpdateMember(c.Param("familyId"), memberID, userID, services.UpdateMemberInput{
		Name:          req.Name,
		Gender:        req.Gender,
		Generation:    req.Generation,
		BirthDate:     req.BirthDate,
		DeathDate:     req.DeathDate,
		MarriageDate:  req.MarriageDate,
		Occupation:    req.Occupation,
		Address:       req.Address,
		Email:         req.Email,
		MaritalStatus: req.MaritalStatus,
		ChildOrder:    req.ChildOrder,
		FatherID:      req.FatherID,
		MotherID:      req.MotherID,
		SpouseID:      req.SpouseID,
		ClearFather:   req.ClearFather,
		ClearMother:   req.ClearMother,
		ClearSpouse:   req.ClearSpouse,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberSummaryDTO(*member))
}

// DeleteMember soft-deletes a member, detaching its kinship edges.
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		apperrors.BadRequest(c, "Invalid member ID")
		return
	}

	if err := h.memberService.DeleteMember(c.Param("familyId"), memberID, userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}

// RestoreMember undoes a soft delete, reattaching eligible edges.
func (h *MemberHandler) RestoreMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		apperrors.BadRequest(c, "Invalid member ID")
		return
	}

	member, err := h.memberService.RestoreMember(c.Param("familyId"), memberID, userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberSummaryDTO(*member))
}

// PermanentlyDeleteMember purges a soft-deleted member for good.
func (h *MemberHandler) PermanentlyDeleteMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		apperrors.BadRequest(c, "Invalid member ID")
		return
	}

	if err := h.memberService.PermanentlyDeleteMember(c.Param("familyId"), memberID, userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member permanently deleted"})
}

// GetYearlyReport aggregates the family's achievements per year.
func (h *MemberHandler) GetYearlyReport(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	fromYear, ok := parseYearQuery(c, "from_year")
	if !ok {
		apperrors.BadRequest(c, "Invalid from_year")
		return
	}
	toYear, ok := parseYearQuery(c, "to_year")
	if !ok {
		apperrors.BadRequest(c, "Invalid to_year")
		return
	}

	report, err := h.memberService.GetYearlyReport(c.Param("familyId"), userID, fromYear, toYear)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// CreateAchievement adds an achievement to a member.
func (h *MemberHandler) CreateAchievement(c *gin.Context) {
	type AchievementRequest struct {
		Title       string `json:"title" binding:"required,max=255"`
		Description string `json:"description"`
		Year        int    `json:"year" binding:"required"`
	}

	userID, _ := middleware.GetUserID(c)

	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		apperrors.BadRequest(c, "Invalid member ID")
		return
	}

	var req AchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	achievement, err := h.memberService.CreateAchievement(c.Param("familyId"), memberID, userID, services.AchievementInput{
		Title:       req.Title,
		Description: req.Description,
		Year:        req.Year,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, achievement)
}

// ListAchievements lists a member's achievements, optionally by year range.
func (h *MemberHandler) ListAchievements(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		apperrors.BadRequest(c, "Invalid member ID")
		return
	}

	fromYear, ok := parseYearQuery(c, "from_year")
	if !ok {
		apperrors.BadRequest(c, "Invalid from_year")
		return
	}
	toYear, ok := parseYearQuery(c, "to_year")
	if !ok {
		apperrors.BadRequest(c, "Invalid to_year")
		return
	}

	achievements, err := h.memberService.ListAchievements(c.Param("familyId"), memberID, userID, fromYear, toYear)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

// UpdateAchievement edits an achievement.
func (h *MemberHandler) UpdateAchievement(c *gin.Context) {
	type AchievementRequest struct {
		Title       string `json:"title" binding:"required,max=255"`
		Description string `json:"description"`
		Year        int    `json:"year" binding:"required"`
	}

	userID, _ := middleware.GetUserID(c)

	achievementID, ok := parseIDParam(c, "achievementId")
	if !ok {
		apperrors.BadRequest(c, "Invalid achievement ID")
		return
	}

	var req AchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	achievement, err := h.memberService.UpdateAchievement(c.Param("familyId"), achievementID, userID, services.AchievementInput{
		Title:       req.Title,
		Description: req.Description,
		Year:        req.Year,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, achievement)
}

// DeleteAchievement removes an achievement.
func (h *MemberHandler) DeleteAchievement(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	achievementID, ok := parseIDParam(c, "achievementId")
	if !ok {
		apperrors.BadRequest(c, "Invalid achievement ID")
		return
	}

	if err := h.memberService.DeleteAchievement(c.Param("familyId"), achievementID, userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Achievement deleted successfully"})
}
