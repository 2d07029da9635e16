package httpbase

import (
	"github.com/gin-gonic/gin"
)

const (
	CurrentUserUUIDCtxVar   = "currentUserUUID"
	AuthTypeCtxVar          = "authType"
	CurrentUserUUIDQueryVar = "current_user_uuid"
	HeaderLanguageKey       = "Accept-Language"
)

type AuthType string

const (
	AuthTypeApiKey AuthType = "ApiKey"
)

// GetCurrentUserUUID returns the acting user's uuid from the context.
//
// The uuid is set by the authenticator middleware from the gateway-injected
// header or query string.
func GetCurrentUserUUID(ctx *gin.Context) string {
	return ctx.GetString(CurrentUserUUIDCtxVar)
}

func SetCurrentUserUUID(ctx *gin.Context, userUUID string) {
	ctx.Set(CurrentUserUUIDCtxVar, userUUID)
}

func GetAuthType(ctx *gin.Context) AuthType {
	return AuthType(ctx.GetString(AuthTypeCtxVar))
}

func SetAuthType(ctx *gin.Context, t AuthType) {
	ctx.Set(AuthTypeCtxVar, string(t))
}

func GetCurrentUserLanguage(ctx *gin.Context) string {
	return ctx.GetHeader(HeaderLanguageKey)
}
