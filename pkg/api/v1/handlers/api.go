// Package handlers provides HTTP request handlers for the API
package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/mintenance/mintenance/internal/db/models"
)

// ownerID resolves the owner scope for a request. Requests without an
// explicit owner are treated as administrative.
func ownerID(c *fiber.Ctx) uint {
	id := c.QueryInt("owner_id", 0)
	if id <= 0 {
		return models.AdminID
	}
	return uint(id)
}
