package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/khudpay/onboard/app/repository"
	"github.com/khudpay/onboard/internal/pkg/editor"
	"github.com/khudpay/onboard/internal/pkg/session"
)

// Session keys shared between the auth controller and the middleware.
const (
	AUTH_KEY      string = "authenticated"
	USER_ID       string = "user_id"
	USER_NAME     string = "username"
	USER_IS_ADMIN string = "isAdmin"
)

var draftStore *editor.Store

// InitializeControllers wires the shared draft store. Called once from the
// router.
func InitializeControllers(store *editor.Store) {
	draftStore = store
}

// DraftStore returns the shared draft store (tests swap it via
// InitializeControllers).
func DraftStore() *editor.Store {
	return draftStore
}

// sessionID returns the caller's session id used to key draft state.
func sessionID(c *fiber.Ctx) string {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return ""
	}
	return sess.ID()
}

func clientRepo() repository.ClientRepository {
	return repository.GetGlobalRepositories().Client
}

func userRepo() repository.UserRepository {
	return repository.GetGlobalRepositories().User
}

// csrfToken reads the token the CSRF middleware stored for this request.
func csrfToken(c *fiber.Ctx) string {
	if v, ok := c.Locals("csrf").(string); ok {
		return v
	}
	return ""
}

// paramInt64 parses a numeric route parameter, 0 on failure.
func paramInt64(c *fiber.Ctx, name string) int64 {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// paramIndex parses a positional route parameter, -1 on failure so bounds
// checks downstream reject it.
func paramIndex(c *fiber.Ctx, name string) int {
	v, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return -1
	}
	return v
}
