package middleware

import (
	"net/http"

	"shiftleave/internal/shared/contextutil"
	"shiftleave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExtractUserID validates the user_id placed by AuthMiddleware and attaches it
// to the request context for downstream services and logs.
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get("user_id")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User tidak terautentikasi", nil)
			c.Abort()
			return
		}

		userID, ok := raw.(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User tidak terautentikasi", nil)
			c.Abort()
			return
		}

		if _, err := uuid.Parse(userID); err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "User ID tidak valid", nil)
			c.Abort()
			return
		}

		c.Set("user_id_validated", userID)

		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
