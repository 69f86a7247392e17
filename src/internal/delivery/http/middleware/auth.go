package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"

	"dispatch-service/src/pkg/token"
	"dispatch-service/src/pkg/utils"

	httpError "dispatch-service/src/pkg/http-error"
)

const userContextKey = "auth:user"

// VerifyBearer validates the HS256 bearer token and stores the caller's
// identity in the request locals.
func VerifyBearer(config *viper.Viper) fiber.Handler {
	secret := []byte(config.GetString("jwt.secret"))

	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "missing bearer token"
			return utils.ResponseError(errObj, ctx)
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !parsed.Valid {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "invalid token"
			return utils.ResponseError(errObj, ctx)
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "invalid token claims"
			return utils.ResponseError(errObj, ctx)
		}

		metadata := token.Metadata{}
		if m, ok := claims["metadata"].(map[string]interface{}); ok {
			metadata.UserID, _ = m["user_id"].(string)
			metadata.FullName, _ = m["full_name"].(string)
			metadata.Role, _ = m["role"].(string)
		}
		if metadata.UserID == "" {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "token has no subject"
			return utils.ResponseError(errObj, ctx)
		}

		ctx.Locals(userContextKey, metadata)
		return ctx.Next()
	}
}

// RequireRole gates a route group to one role.
func RequireRole(role string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if GetUser(ctx).Role != role {
			errObj := httpError.NewForbidden()
			errObj.Message = "insufficient role"
			return utils.ResponseError(errObj, ctx)
		}
		return ctx.Next()
	}
}

// GetUser returns the identity VerifyBearer stored for this request.
func GetUser(ctx *fiber.Ctx) token.Metadata {
	if metadata, ok := ctx.Locals(userContextKey).(token.Metadata); ok {
		return metadata
	}
	return token.Metadata{}
}
