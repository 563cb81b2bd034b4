// internal/domain/assistant/fallback.go
package assistant

import (
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// keywordGroup maps a primary keyword and its synonyms to a canned reply
type keywordGroup struct {
	Key      string
	Synonyms []string
	Reply    string
}

// Fallback answers without a model, from keyword groups or a deflection
type Fallback struct {
	groups      []keywordGroup
	deflections []string
	pick        func(n int) int
}

// NewFallback builds the canned replies for the given WhatsApp number
func NewFallback(whatsapp string) *Fallback {
	return &Fallback{
		groups:      cannedGroups(whatsapp),
		deflections: deflections(whatsapp),
		pick:        rand.IntN,
	}
}

// WithPicker replaces the random deflection picker
func (f *Fallback) WithPicker(pick func(n int) int) *Fallback {
	f.pick = pick
	return f
}

// Reply returns the first matching canned reply in group order, or a
// deflection when nothing matches
func (f *Fallback) Reply(message string) string {
	if reply, ok := f.match(message); ok {
		return reply
	}

	i := f.pick(len(f.deflections))
	if i < 0 || i >= len(f.deflections) {
		i = 0
	}
	return f.deflections[i]
}

func (f *Fallback) match(message string) (string, bool) {
	// Casers keep state, so each call gets its own
	lowered := cases.Lower(language.Indonesian).String(message)

	for _, group := range f.groups {
		if strings.Contains(lowered, group.Key) {
			return group.Reply, true
		}
		for _, synonym := range group.Synonyms {
			if strings.Contains(lowered, synonym) {
				return group.Reply, true
			}
		}
	}
	return "", false
}

func cannedGroups(whatsapp string) []keywordGroup {
	return []keywordGroup{
		{
			Key:   "harga",
			Reply: "Untuk informasi harga produk, silakan kirim nama atau kode produk yang Anda maksud. Tim kami akan segera memberikan informasi harga terbaru. 💰",
		},
		{
			Key:      "pengiriman",
			Synonyms: []string{"ongkir", "shipping"},
			Reply:    "Kami menyediakan pengiriman ke seluruh Indonesia dengan estimasi 2-5 hari kerja. Ongkos kirim dihitung berdasarkan berat dan tujuan pengiriman. 🚚",
		},
		{
			Key:      "pembayaran",
			Synonyms: []string{"bayar", "payment"},
			Reply:    "Kami menerima pembayaran melalui:\n• Transfer bank\n• COD (Cash on Delivery)\n• E-wallet: GoPay, OVO, Dana, ShopeePay 💳",
		},
		{
			Key:      "retur",
			Synonyms: []string{"return", "kembali"},
			Reply:    "Kami menerima retur barang dalam 7 hari dengan syarat:\n• Barang masih dalam kondisi baik\n• Kemasan asli masih utuh\n• Disertai bukti pembelian 📦",
		},
		{
			Key:      "stok",
			Synonyms: []string{"stock", "tersedia"},
			Reply:    "Untuk pengecekan stok produk, silakan kirim nama atau kode produk. Tim kami akan segera mengecek ketersediaan untuk Anda. 📋",
		},
		{
			Key:      "promo",
			Synonyms: []string{"diskon", "sale"},
			Reply:    "Kami sering mengadakan promo menarik! Follow media sosial kami atau hubungi WhatsApp " + whatsapp + " untuk info promo terbaru. 🎉",
		},
		{
			Key:      "kontak",
			Synonyms: []string{"cs", "customer service"},
			Reply:    "Hubungi customer service kami:\n📞 WhatsApp: " + whatsapp + "\n⏰ Jam operasional: 08:00-22:00 WIB\n📅 Senin-Minggu",
		},
		{
			Key:      "jam",
			Synonyms: []string{"buka"},
			Reply:    "Jam operasional toko:\n🕐 Senin-Minggu: 08:00-22:00 WIB\n📞 Customer service 24/7 via WhatsApp: " + whatsapp,
		},
	}
}

func deflections(whatsapp string) []string {
	return []string{
		"Halo! Terima kasih telah menghubungi kami. Tim customer service siap membantu Anda melalui WhatsApp di " + whatsapp + ". Ada yang bisa saya bantu? 😊",
		"Pertanyaan Anda sangat penting bagi kami! Untuk bantuan lebih detail, silakan hubungi customer service kami di WhatsApp " + whatsapp + " (24/7). 🙏",
		"Tim support kami siap membantu Anda kapan saja melalui WhatsApp " + whatsapp + ". Jam operasional toko: 08:00-22:00 WIB. Ada pertanyaan lain? 💬",
		"Saya akan bantu sebisa mungkin! Untuk informasi lebih lengkap tentang produk dan layanan, hubungi WhatsApp CS kami di " + whatsapp + ". 🛍️",
	}
}
