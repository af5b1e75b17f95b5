package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"

	"github.com/fadilmartias/jobmate-ml-api/internal/util"
)

const MsgUnauthorized = "Unauthorized"

// BearerAuth rejects every request whose Authorization header is not exactly
// "Bearer <token>", except CORS preflights and the given public paths.
// Rejections are answered before any handler runs.
func BearerAuth(token string, publicPaths ...string) fiber.Handler {
	expected := []byte("Bearer " + token)
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}

	return keyauth.New(keyauth.Config{
		KeyLookup: "header:" + fiber.HeaderAuthorization,
		Next: func(c *fiber.Ctx) bool {
			if c.Method() == fiber.MethodOptions {
				return true
			}
			_, ok := public[c.Path()]
			return ok
		},
		Validator: func(c *fiber.Ctx, _ string) (bool, error) {
			got := []byte(c.Get(fiber.HeaderAuthorization))
			if subtle.ConstantTimeCompare(got, expected) == 1 {
				return true, nil
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: MsgUnauthorized,
			})
		},
	})
}
