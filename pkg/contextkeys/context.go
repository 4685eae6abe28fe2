package contextkeys

type contextKey string

// Keys for values stored on the request context or the gin context.
const (
	SessionKey    = contextKey("session")
	NavigatorKey  = contextKey("navigator")
	ServicesKey   = contextKey("services")
	SessionEndKey = contextKey("session_end")
	StoredUserKey = "stored_user"
	RequestIDKey  = "request_id"
)
