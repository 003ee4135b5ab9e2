package usercontext

// Locals keys shared between the middleware and the controllers.
const (
	KeyUserContext   = "USER_CONTEXT"
	KeyFromProtected = "from_protected"
	KeyIsAdmin       = "isAdmin"
)
