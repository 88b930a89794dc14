package middleware

import (
	"errors"

	"go-reporting/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNoOrganization = errors.New("organization id missing")

// OrganizationID resolves the tenant for the request. The JWT claim wins;
// the X-Organization-ID header is the dev/skip-auth fallback. Controllers
// pass the resolved id explicitly into every service call.
func OrganizationID(c *fiber.Ctx) (primitive.ObjectID, error) {
	if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok && claims.OrganizationID != "" {
		return primitive.ObjectIDFromHex(claims.OrganizationID)
	}
	if header := c.Get("X-Organization-ID"); header != "" {
		return primitive.ObjectIDFromHex(header)
	}
	return primitive.NilObjectID, ErrNoOrganization
}
