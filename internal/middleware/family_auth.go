package middleware

import (
	"net/http"
	"strconv"

	"github.com/altomira/chorequest-api/internal/database"
	"github.com/altomira/chorequest-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireFamilyAccess checks if the user is a member of the family
func RequireFamilyAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		familyIDStr := c.Param("id")
		familyID, err := strconv.ParseUint(familyIDStr, 10, 64)
		if err != nil {
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
		if err := database.GetDB().First(&family, familyID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Family not found",
			})
			c.Abort()
			return
		}

		var member models.FamilyMember
		err = database.GetDB().Where("family_id = ? AND user_id = ?", familyID, userID).First(&member).Error
		if err != nil {
			// Return 404 instead of 403 to avoid leaking family existence
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Family not found",
			})
			c.Abort()
			return
		}

		c.Set("family", family)
		c.Set("family_member", member)
		c.Next()
	}
}

// RequireFamilyOwner checks if the user is an owner of the family
func RequireFamilyOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set by RequireFamilyAccess
		memberInterface, exists := c.Get("family_member")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Family access required",
			})
			c.Abort()
			return
		}

		member, ok := memberInterface.(models.FamilyMember)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Invalid family member data",
			})
			c.Abort()
			return
		}

		if member.Role != models.RoleOwner {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only family owners can perform this action",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetFamilyID retrieves the family ID resolved by RequireFamilyAccess
func GetFamilyID(c *gin.Context) (uint64, bool) {
	familyInterface, exists := c.Get("family")
	if !exists {
		return 0, false
	}
	family, ok := familyInterface.(models.Family)
	if !ok {
		return 0, false
	}
	return family.ID, true
}
