package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the response header carrying the request's RayID.
const Header = "X-Ray-Id"

// New returns a middleware that assigns a unique RayID to every request.
// The ID is stored in the context locals under "ray_id" and echoed in the
// response headers so clients can reference it in support requests.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Honor an incoming ID so upstream proxies can correlate
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.New().String()
		}

		c.Locals("ray_id", rid)
		c.Set(Header, rid)

		return c.Next()
	}
}
