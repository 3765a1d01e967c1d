package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"teamhub.app/server/common/logger"
	"teamhub.app/server/internal/apperr"
	"teamhub.app/server/internal/model"
	"teamhub.app/server/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// Authenticator resolves a bearer token to its live user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// RequireAuth rejects requests without a usable bearer token: 401 when it is
// missing, 403 when it does not verify and 404 when its user is gone.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			status := apperr.StatusOf(err)
			if status >= http.StatusInternalServerError {
				status = http.StatusForbidden
				err = service.ErrInvalidToken
			}
			c.AbortWithStatusJSON(status, gin.H{"error": apperr.MessageOf(err)})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userContextKey, user)
		ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &user.ID})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetUser returns the authenticated user, or nil outside RequireAuth.
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// WithUser attaches user to ctx the way RequireAuth does.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
