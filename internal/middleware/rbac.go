package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-activities-api/internal/access"
	"github.com/noah-isme/campus-activities-api/internal/models"
	"github.com/noah-isme/campus-activities-api/pkg/response"
)

// RequireRoles rejects requests whose principal holds none of roles. It must
// run after JWT.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := access.Require(PrincipalFrom(c), roles...); err != nil {
			response.Abort(c, err)
			return
		}
		c.Next()
	}
}
