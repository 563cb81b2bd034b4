// internal/config/store.go
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// StoreProfile holds the shop facts the assistant is allowed to quote
type StoreProfile struct {
	Name         string `toml:"name"`
	Shipping     string `toml:"shipping"`
	Payment      string `toml:"payment"`
	Returns      string `toml:"returns"`
	Contact      string `toml:"contact"`
	Hours        string `toml:"hours"`
	DefaultStore string `toml:"default_store"`
	Welcome      string `toml:"welcome"`
}

// DefaultStoreProfile returns the built-in store facts for the given WhatsApp number
func DefaultStoreProfile(whatsapp string) StoreProfile {
	return StoreProfile{
		Name:         "Toko Online Nuxt",
		Shipping:     "Seluruh Indonesia, estimasi 2-5 hari kerja",
		Payment:      "Transfer bank, COD, e-wallet (GoPay, OVO, Dana, ShopeePay)",
		Returns:      "7 hari dengan syarat barang dalam kondisi baik",
		Contact:      fmt.Sprintf("WhatsApp %s (24/7)", whatsapp),
		Hours:        "Senin-Minggu 08:00-22:00 WIB",
		DefaultStore: "NUVELLA STORE",
		Welcome:      "Halo! Selamat datang di Toko Online Nuxt. Ada yang bisa saya bantu? 😊",
	}
}

// LoadStoreProfile reads a TOML store profile on top of the defaults.
// An empty path returns the defaults unchanged.
func LoadStoreProfile(path, whatsapp string) (StoreProfile, error) {
	profile := DefaultStoreProfile(whatsapp)
	if path == "" {
		return profile, nil
	}

	// Fields missing from the file keep their default values
	if _, err := toml.DecodeFile(path, &profile); err != nil {
		return StoreProfile{}, fmt.Errorf("failed to read store profile %s: %w", path, err)
	}

	return profile, nil
}
