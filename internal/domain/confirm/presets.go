// internal/domain/confirm/presets.go
package confirm

import (
	"fmt"

	"github.com/nuvella/storefront-api/internal/pkg/currency"
)

// ConfirmDelete asks before removing one named product or several selected ones
func ConfirmDelete(itemName string, count int) Request {
	req := Request{
		Type:        TypeDanger,
		Title:       "Hapus Produk",
		Details:     []Detail{},
		ConfirmText: "Ya, Hapus",
		CancelText:  "Batal",
	}

	if count == 1 {
		req.Message = fmt.Sprintf("Apakah Anda yakin ingin menghapus \"%s\" dari keranjang?", itemName)
	} else {
		req.Message = fmt.Sprintf("Apakah Anda yakin ingin menghapus %d produk yang dipilih?", count)
	}

	if count > 1 {
		req.Details = []Detail{
			{Label: "Jumlah produk", Value: fmt.Sprintf("%d item", count)},
			{Label: "Aksi", Value: "Hapus permanen"},
		}
	}

	return req
}

// ConfirmClearCart asks before emptying the cart
func ConfirmClearCart(itemCount int) Request {
	return Request{
		Type:    TypeWarning,
		Title:   "Kosongkan Keranjang",
		Message: "Apakah Anda yakin ingin mengosongkan seluruh keranjang belanja?",
		Details: []Detail{
			{Label: "Total produk", Value: fmt.Sprintf("%d item", itemCount)},
			{Label: "Aksi", Value: "Hapus semua produk"},
		},
		ConfirmText: "Ya, Kosongkan",
		CancelText:  "Batal",
	}
}

// ConfirmCheckout asks before leaving for payment
func ConfirmCheckout(selectedCount int, totalPrice float64) Request {
	return Request{
		Type:    TypeInfo,
		Title:   "Konfirmasi Checkout",
		Message: "Apakah Anda yakin ingin melanjutkan ke halaman pembayaran?",
		Details: []Detail{
			{Label: "Produk dipilih", Value: fmt.Sprintf("%d item", selectedCount)},
			{Label: "Total pembayaran", Value: currency.FormatRupiah(totalPrice)},
		},
		ConfirmText: "Ya, Checkout",
		CancelText:  "Periksa Lagi",
	}
}
