package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/dto"
)

// Static self-service entries shown before a requester opens a ticket.
var kbArticles = []dto.KBArticleResponse{
	{
		Slug:  "printer-error",
		Title: "Printer shows an error light",
		Body:  "Turn the printer off, wait ten seconds and turn it back on. Check that paper is loaded and no sheet is jammed in the rear tray. If the error persists, note the blinking pattern and open a ticket with category Printer.",
	},
	{
		Slug:  "wifi-issues",
		Title: "WiFi keeps disconnecting",
		Body:  "Forget the office network on your device and reconnect with your account credentials. Move closer to an access point to rule out coverage gaps. If colleagues nearby are affected too, open a ticket with category Network so we can check the access point.",
	},
	{
		Slug:  "password-reset",
		Title: "I forgot my workstation password",
		Body:  "Workstation passwords can only be reset by IT staff. Open a ticket with category Account from a colleague's machine or your phone and we will contact you at your desk.",
	},
}

// KBHandler serves the static knowledge base.
type KBHandler struct{}

// NewKBHandler constructs handler.
func NewKBHandler() *KBHandler {
	return &KBHandler{}
}

// ListArticles GET /kb/articles.
func (h *KBHandler) ListArticles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": kbArticles})
}
