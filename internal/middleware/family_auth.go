package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kinship-app/kinship/internal/constants"
	"github.com/kinship-app/kinship/internal/database"
	"github.com/kinship-app/kinship/internal/models"
)

// RequireFamilyAccess checks if the user is a member of the family
func RequireFamilyAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		familyID := c.Param("familyId")
		if len(familyID) != 4 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid family ID",
			})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		var family models.Family
		if err := database.GetDB().First(&family, "id = ?", familyID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Family not found",
			})
			c.Abort()
			return
		}

		// Return 404 instead of 403 to avoid leaking family existence
		var membership models.FamilyMembership
		err := database.GetDB().Where("family_id = ? AND user_id = ?", familyID, userID).First(&membership).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Family not found",
			})
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyFamily, family)
		c.Set(constants.ContextKeyMember, membership)
		c.Next()
	}
}

// RequireFamilyAdmin checks if the user is the admin of the family
// (must run after RequireFamilyAccess)
func RequireFamilyAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		familyInterface, exists := c.Get(constants.ContextKeyFamily)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Family access required",
			})
			c.Abort()
			return
		}

		family, ok := familyInterface.(models.Family)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Invalid family data",
			})
			c.Abort()
			return
		}

		userID, _ := GetUserID(c)
		if family.AdminID != userID {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the family admin can perform this action",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetFamily retrieves the family stored by RequireFamilyAccess
func GetFamily(c *gin.Context) (models.Family, bool) {
	familyInterface, exists := c.Get(constants.ContextKeyFamily)
	if !exists {
		return models.Family{}, false
	}
	family, ok := familyInterface.(models.Family)
	return family, ok
}
