package middleware

import (
	"net/http"
	"strings"

	"abrino-storage/backend/common"
	apierrors "abrino-storage/backend/common/errors"
	"abrino-storage/backend/model"
	"abrino-storage/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// authHelper accepts either a server-side session (web UI) or a bearer token.
// Whichever succeeds puts user_id, email and role into the request context.
func authHelper(c *gin.Context, minRole int) {
	session := sessions.Default(c)
	id := session.Get("id")
	role := session.Get("role")
	status := session.Get("status")
	email := session.Get("email")
	authByToken := false
	if id == nil {
		claims, ok := bearerClaims(c)
		if !ok {
			common.RespErrorStr(c, http.StatusUnauthorized, "not logged in or token is invalid")
			c.Abort()
			return
		}
		id = claims.UserID
		role = claims.Role
		email = claims.Email
		status = common.UserStatusEnabled
		authByToken = true
	}
	if status.(int) == common.UserStatusDisabled {
		common.RespErrorCode(c, http.StatusUnauthorized, apierrors.ErrUserDisabled, "user has been disabled")
		c.Abort()
		return
	}
	if role.(int) < minRole {
		common.RespErrorStr(c, http.StatusUnauthorized, "insufficient privileges")
		c.Abort()
		return
	}
	c.Set("user_id", id)
	c.Set("email", email)
	c.Set("role", role)
	c.Set("authByToken", authByToken)
	c.Next()
}

func bearerClaims(c *gin.Context) (*service.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}
	claims, err := service.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	// A verified token can still belong to a user disabled since issuance.
	user, err := model.GetUserById(claims.UserID)
	if err != nil || user.Status != common.UserStatusEnabled {
		return nil, false
	}
	return claims, true
}

func UserAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHelper(c, common.RoleCommonUser)
	}
}

func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHelper(c, common.RoleAdminUser)
	}
}

func RootAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHelper(c, common.RoleRootUser)
	}
}
