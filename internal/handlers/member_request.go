package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/middleware"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/services"
)

// MemberRequestHandler coordinates proposed-mutation HTTP handlers.
type MemberRequestHandler struct {
	requestService *services.MemberRequestService
}

// NewMemberRequestHandler creates a new MemberRequestHandler.
func NewMemberRequestHandler(requestService *services.MemberRequestService) *MemberRequestHandler {
	return &MemberRequestHandler{
		requestService: requestService,
	}
}

// CreateRequest files a proposed add, edit or delete of a member.
func (h *MemberRequestHandler) CreateRequest(c *gin.Context) {
	type CreateRequestBody struct {
		Action   models.MemberRequestAction `json:"action" binding:"required,oneof=ADD EDIT DELETE"`
		MemberID *uint64                    `json:"member_id"`
		Mutation *services.MemberMutation   `json:"mutation"`
	}

	userID, _ := middleware.GetUserID(c)

	var req CreateRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.requestService.CreateRequest(services.CreateMemberRequestInput{
		FamilyID:    c.Param("familyId"),
		RequesterID: userID,
		Action:      req.Action,
		MemberID:    req.MemberID,
		Mutation:    req.Mutation,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ListRequests lists the family's member requests, optionally by status.
func (h *MemberRequestHandler) ListRequests(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var status *models.RequestStatus
	if raw := c.Query("status"); raw != "" {
		s := models.RequestStatus(raw)
		status = &s
	}

	requests, err := h.requestService.ListRequests(c.Param("familyId"), userID, status)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ApproveRequest executes the embedded mutation and closes the request.
func (h *MemberRequestHandler) ApproveRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		apperrors.BadRequest(c, "Invalid request ID")
		return
	}

	request, err := h.requestService.ApproveRequest(c.Param("familyId"), requestID, userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// RejectRequest declines a pending member request.
func (h *MemberRequestHandler) RejectRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		apperrors.BadRequest(c, "Invalid request ID")
		return
	}

	request, err := h.requestService.RejectRequest(c.Param("familyId"), requestID, userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
