// internal/domain/chat/whatsapp.go
package chat

import (
	"net/url"
	"strings"
	"unicode"
)

// WhatsAppURL builds a wa.me deep link for number, with an optional prefilled message
func WhatsAppURL(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, number)

	link := "https://wa.me/" + digits
	if message != "" {
		// wa.me expects %20 for spaces
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	return link
}
