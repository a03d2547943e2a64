// file: internals/helpers/actor.go
package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ErrNoActor = errors.New("user id tidak ditemukan di request")

// GetUserIDFromHeader mengambil identitas operator dari X-User-Id.
// Autentikasi dilakukan gateway di depan; service ini hanya butuh actor id
// untuk lease assignment & jejak audit.
func GetUserIDFromHeader(c *fiber.Ctx) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Get("X-User-Id"))
	if raw == "" {
		if v, ok := c.Locals("user_id").(string); ok {
			raw = strings.TrimSpace(v)
		}
	}
	if raw == "" {
		return uuid.Nil, ErrNoActor
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrNoActor
	}
	return id, nil
}
