package middleware

import (
	"shiftleave/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CallerFrom membangun Caller dari context yang sudah diisi AuthMiddleware.
// Role yang tidak dikenal diperlakukan sebagai EMPLOYEE, tidak pernah ADMIN.
func CallerFrom(c *gin.Context) (domain.Caller, bool) {
	userID := c.GetString("user_id_validated")
	if userID == "" {
		userID = c.GetString("user_id")
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.Caller{}, false
	}

	role, ok := domain.ParseRole(c.GetString("role"))
	if !ok {
		role = domain.RoleEmployee
	}

	return domain.Caller{ID: id, Role: role}, true
}
