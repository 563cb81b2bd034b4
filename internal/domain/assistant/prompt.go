// internal/domain/assistant/prompt.go
package assistant

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nuvella/storefront-api/internal/config"
)

// historyWindow is how many earlier turns are quoted in the primary prompt
const historyWindow = 6

// minReplyLength is the shortest primary-model reply that is accepted
const minReplyLength = 10

var (
	assistantPrefix = regexp.MustCompile(`(?i)^Assistant:\s*`)
	rolePrefix      = regexp.MustCompile(`^\w+:\s*`)
)

// SystemPrompt builds the customer-service persona for the store
func SystemPrompt(store config.StoreProfile) string {
	return fmt.Sprintf(`Anda adalah asisten customer service AI untuk toko online yang ramah dan membantu. 

Tugas Anda:
- Membantu pelanggan dengan pertanyaan produk, harga, stok, dan pengiriman
- Memberikan informasi yang akurat dan berguna tentang toko
- Merespons dalam bahasa Indonesia yang sopan dan profesional
- Jika tidak memiliki informasi pasti, arahkan ke customer service manusia
- Berikan jawaban yang singkat namun informatif

Informasi Toko:
- Nama: %s
- Pengiriman: %s
- Metode Pembayaran: %s
- Kebijakan Retur: %s
- Customer Service: %s
- Jam Operasional: %s

Gaya Komunikasi:
- Ramah dan profesional
- Gunakan sapaan yang hangat
- Akhiri dengan tawaran bantuan lebih lanjut
- Jangan berikan informasi yang tidak pasti`,
		store.Name, store.Shipping, store.Payment, store.Returns, store.Contact, store.Hours)
}

// BuildPrompt assembles the primary-model prompt from the persona, the last
// few turns and the new message
func BuildPrompt(system, message string, history []Turn) string {
	var b strings.Builder
	b.WriteString(system)

	if len(history) > 0 {
		if len(history) > historyWindow {
			history = history[len(history)-historyWindow:]
		}
		lines := make([]string, len(history))
		for i, turn := range history {
			role := "Assistant"
			if turn.IsUser {
				role = "Pelanggan"
			}
			lines[i] = role + ": " + turn.Text
		}
		b.WriteString("\nPercakapan sebelumnya:\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\nPelanggan: ")
	b.WriteString(message)
	b.WriteString("\nAssistant:")
	return b.String()
}

// BackupPrompt is the short prompt used with backup models
func BackupPrompt(message string) string {
	return "Anda adalah customer service toko online. Jawab dalam bahasa Indonesia yang ramah dan profesional.\n\nPelanggan: " +
		message + "\nJawaban:"
}

// CleanReply trims the model output and strips a leading role label
func CleanReply(raw string) string {
	reply := strings.TrimSpace(raw)
	reply = assistantPrefix.ReplaceAllString(reply, "")
	reply = rolePrefix.ReplaceAllString(reply, "")
	return strings.TrimSpace(reply)
}

func replyLength(s string) int {
	return utf8.RuneCountInString(s)
}
