package serverutils

import (
	"user-directory-be/pkg/form"

	"github.com/gofiber/fiber/v2"
)

const SessionHeader = "X-Form-Session"

// sessionLocal is the fiber Locals key holding the request's form session id.
const sessionLocal = "session_id"

// FormSessionMiddleware picks up the caller's form session id, if any, so
// notifications raised while serving the request reach that operator only.
// Requests without one produce broadcast notifications.
func FormSessionMiddleware(ctx *fiber.Ctx) error {
	sessionID := ctx.Get(SessionHeader)
	if sessionID == "" {
		sessionID = ctx.Query("session")
	}
	if sessionID == "" {
		return ctx.Next()
	}

	ctx.Locals(sessionLocal, sessionID)
	ctx.SetUserContext(form.WithSessionID(ctx.UserContext(), sessionID))
	return ctx.Next()
}
