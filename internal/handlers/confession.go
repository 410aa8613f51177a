package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/dto"
	"github.com/kinship-app/kinship/internal/middleware"
	"github.com/kinship-app/kinship/internal/services"
	"github.com/kinship-app/kinship/internal/utils"
)

// ConfessionHandler coordinates confession HTTP handlers.
type ConfessionHandler struct {
	confessionService *services.ConfessionService
}

// NewConfessionHandler creates a new ConfessionHandler.
func NewConfessionHandler(confessionService *services.ConfessionService) *ConfessionHandler {
	return &ConfessionHandler{
		confessionService: confessionService,
	}
}

// CreateConfession posts a confession to the family feed.
func (h *ConfessionHandler) CreateConfession(c *gin.Context) {
	type CreateConfessionRequest struct {
		Content     string `json:"content" binding:"required,max=2000"`
		IsAnonymous bool   `json:"is_anonymous"`
	}

	userID, _ := middleware.GetUserID(c)

	var req CreateConfessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	confession, err := h.confessionService.CreateConfession(services.CreateConfessionInput{
		FamilyID:    c.Param("familyId"),
		AuthorID:    userID,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToConfessionDTO(*confession))
}

// ListConfessions returns the family feed, newest first.
func (h *ConfessionHandler) ListConfessions(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	params := utils.GetPaginationParams(c)
	confessions, total, err := h.confessionService.ListConfessions(c.Param("familyId"), userID, params)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ConfessionListResponse{
		Confessions: dto.ToConfessionDTOs(confessions),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// DeleteConfession removes a confession. Author or admin only.
func (h *ConfessionHandler) DeleteConfession(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	confessionID, ok := parseIDParam(c, "confessionId")
	if !ok {
		apperrors.BadRequest(c, "Invalid confession ID")
		return
	}

	if err := h.confessionService.DeleteConfession(c.Param("familyId"), confessionID, userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Confession deleted successfully"})
}
