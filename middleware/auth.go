package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/excelanalytics/models"
	"github.com/cppla/excelanalytics/utils"
)

const (
	// ContextClaimsKey holds the verified *utils.Claims in the gin context.
	ContextClaimsKey = "claims"
	// ContextTokenKey holds the raw bearer token, used by logout.
	ContextTokenKey = "token"
)

// AuthRequired ensures the request carries a valid, unrevoked bearer token.
// A missing or malformed header is 401; a token that fails verification or was revoked is 403.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Fail(ctx, utils.NewAppError(utils.KindUnauthenticated, 40101, "authorization header missing"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Fail(ctx, utils.NewAppError(utils.KindUnauthenticated, 40102, "invalid authorization header format"))
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Fail(ctx, utils.NewAppError(utils.KindUnauthenticated, 40103, "empty bearer token"))
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Fail(ctx, utils.NewAppError(utils.KindForbidden, 40301, "invalid or expired token"))
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Fail(ctx, utils.NewAppError(utils.KindForbidden, 40302, "token revoked"))
			return
		}

		ctx.Set(ContextClaimsKey, claims)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Next()
	}
}

// AdminRequired must run after AuthRequired and lets only admins through.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := CurrentClaims(ctx)
		if !ok {
			utils.Fail(ctx, utils.NewAppError(utils.KindUnauthenticated, 40104, "authentication required"))
			return
		}
		switch claims.Role {
		case models.RoleAdmin:
			ctx.Next()
		case models.RoleUser:
			fallthrough
		default:
			utils.Fail(ctx, utils.NewAppError(utils.KindAdminRequired, 40303, "admin access required"))
		}
	}
}

// CurrentClaims returns the claims stored by AuthRequired.
func CurrentClaims(ctx *gin.Context) (*utils.Claims, bool) {
	v, ok := ctx.Get(ContextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok && claims != nil
}

// WithClaims adapts a handler that needs the caller's identity.
func WithClaims(handler func(*gin.Context, *utils.Claims)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := CurrentClaims(ctx)
		if !ok {
			utils.Fail(ctx, utils.NewAppError(utils.KindUnauthenticated, 40104, "authentication required"))
			return
		}
		handler(ctx, claims)
	}
}
