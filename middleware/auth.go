package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cpclub/clubhub/utils"
)

// contextPrincipalKey stores the authenticated principal in the Gin context.
const contextPrincipalKey = "principal"

// Principal is the acting identity every gated action receives. It is
// rebuilt from the token on each request; nothing is cached across calls.
type Principal struct {
	UserID uint
	Name   string
	Email  string
	Role   string
}

// AuthRequired ensures the request is authenticated via JWT and places the
// principal into the request context.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Fail(ctx, http.StatusUnauthorized, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Fail(ctx, http.StatusUnauthorized, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Fail(ctx, http.StatusUnauthorized, "empty bearer token")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Fail(ctx, http.StatusUnauthorized, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Fail(ctx, http.StatusUnauthorized, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(contextPrincipalKey, Principal{
			UserID: claims.UserID,
			Name:   claims.Name,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		ctx.Next()
	}
}

// CurrentPrincipal extracts the authenticated principal from the context.
func CurrentPrincipal(ctx *gin.Context) (Principal, bool) {
	value, exists := ctx.Get(contextPrincipalKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}

// SetPrincipal injects a principal directly; test helper for handler tests.
func SetPrincipal(ctx *gin.Context, p Principal) {
	ctx.Set(contextPrincipalKey, p)
}
