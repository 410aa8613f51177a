package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/dto"
	"github.com/kinship-app/kinship/internal/middleware"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/services"
)

// FamilyHandler coordinates family and join-request HTTP handlers.
type FamilyHandler struct {
	familyService *services.FamilyService
}

// NewFamilyHandler creates a new FamilyHandler.
func NewFamilyHandler(familyService *services.FamilyService) *FamilyHandler {
	return &FamilyHandler{
		familyService: familyService,
	}
}

// CreateFamily creates a family with the caller as admin.
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	type CreateFamilyRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.AbortUnauthorized(c, "Not authenticated")
		return
	}

	var req CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	family, err := h.familyService.CreateFamily(services.CreateFamilyInput{
		Name:        req.Name,
		Description: req.Description,
		AdminID:     userID,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToFamilyDTO(*family))
}

// ListMyFamilies returns all families the caller belongs to.
func (h *FamilyHandler) ListMyFamilies(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.AbortUnauthorized(c, "Not authenticated")
		return
	}

	memberships, err := h.familyService.ListFamiliesForUser(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	families := make([]dto.FamilyDTO, len(memberships))
	for i, m := range memberships {
		families[i] = dto.ToFamilyDTO(m.Family)
	}
	c.JSON(http.StatusOK, gin.H{"families": families})
}

// GetFamily returns a family with its user roster.
func (h *FamilyHandler) GetFamily(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	family, memberships, err := h.familyService.GetFamily(c.Param("familyId"), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFamilyDetailDTO(*family, memberships))
}

// UpdateFamily updates the family's name or description.
func (h *FamilyHandler) UpdateFamily(c *gin.Context) {
	type UpdateFamilyRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	userID, _ := middleware.GetUserID(c)

	var req UpdateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	family, err := h.familyService.UpdateFamily(c.Param("familyId"), userID, services.UpdateFamilyInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFamilyDTO(*family))
}

// DeleteFamily removes the family and everything scoped to it.
func (h *FamilyHandler) DeleteFamily(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.familyService.DeleteFamily(c.Param("familyId"), userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Family deleted successfully"})
}

// TransferAdmin hands the admin role to another family user.
func (h *FamilyHandler) TransferAdmin(c *gin.Context) {
	type TransferAdminRequest struct {
		NewAdminID uint64 `json:"new_admin_id" binding:"required"`
	}

	userID, _ := middleware.GetUserID(c)

	var req TransferAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	family, err := h.familyService.TransferAdmin(c.Param("familyId"), userID, req.NewAdminID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFamilyDTO(*family))
}

// LeaveFamily removes the caller's membership.
func (h *FamilyHandler) LeaveFamily(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.familyService.LeaveFamily(c.Param("familyId"), userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left the family"})
}

// CreateJoinRequest files a request to join a family by its code.
func (h *FamilyHandler) CreateJoinRequest(c *gin.Context) {
	type JoinRequestRequest struct {
		Message string `json:"message" binding:"max=500"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.AbortUnauthorized(c, "Not authenticated")
		return
	}

	var req JoinRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.familyService.CreateJoinRequest(c.Param("familyId"), userID, req.Message)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJoinRequestDTO(*request))
}

// ListJoinRequests lists the family's join requests, optionally by status.
func (h *FamilyHandler) ListJoinRequests(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var status *models.RequestStatus
	if raw := c.Query("status"); raw != "" {
		s := models.RequestStatus(raw)
		status = &s
	}

	requests, err := h.familyService.ListJoinRequests(c.Param("familyId"), userID, status)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": dto.ToJoinRequestDTOs(requests)})
}

// GetJoinRequestSuggestions scores the requester against unlinked members.
func (h *FamilyHandler) GetJoinRequestSuggestions(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		apperrors.BadRequest(c, "Invalid request ID")
		return
	}

	suggestions, err := h.familyService.GetJoinRequestSuggestions(c.Param("familyId"), requestID, userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

// ApproveJoinRequest approves a join request with a chosen link option.
func (h *FamilyHandler) ApproveJoinRequest(c *gin.Context) {
	type ApproveRequest struct {
		LinkOption models.LinkOption `json:"link_option" binding:"required,oneof=AUTO MANUAL NEW"`
		MemberID   *uint64           `json:"member_id"`
	}

	userID, _ := middleware.GetUserID(c)

	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		apperrors.BadRequest(c, "Invalid request ID")
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.familyService.HandleJoinRequestWithLink(c.Param("familyId"), requestID, userID, services.HandleJoinRequestInput{
		LinkOption: req.LinkOption,
		MemberID:   req.MemberID,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJoinRequestDTO(*request))
}

// RejectJoinRequest declines a pending join request.
func (h *FamilyHandler) RejectJoinRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		apperrors.BadRequest(c, "Invalid request ID")
		return
	}

	request, err := h.familyService.RejectJoinRequest(c.Param("familyId"), requestID, userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJoinRequestDTO(*request))
}

// GetStatistics returns per-year birth, marriage and death counts.
func (h *FamilyHandler) GetStatistics(c *gin.Context) {
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

	stats, err := h.familyService.GetFamilyStatistics(c.Param("familyId"), userID, fromYear, toYear)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
