package middlewares

// Keys stored on *gin.Context.
const (
	CtxRequestID = "request_id"
	CtxUserID    = "auth.userID"
	CtxClaims    = "auth.claims"
	CtxUser      = "auth.user"
)

// TokenCookie carries the session token for browser clients.
const TokenCookie = "token"
