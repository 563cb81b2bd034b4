// internal/domain/confirm/entity.go
package confirm

// Dialog types
const (
	TypeWarning = "warning"
	TypeDanger  = "danger"
	TypeInfo    = "info"
)

// Detail is one label/value row shown in the dialog
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Request describes a confirmation dialog
type Request struct {
	Type               string   `json:"type"`
	Title              string   `json:"title"`
	Message            string   `json:"message"`
	Details            []Detail `json:"details"`
	ConfirmText        string   `json:"confirmText"`
	CancelText         string   `json:"cancelText"`
	AllowBackdropClose bool     `json:"allowBackdropClose"`
}

// Pending is an outstanding request as shown to the client
type Pending struct {
	ID      string  `json:"id"`
	Request Request `json:"request"`
}

// withDefaults fills the fields a caller left empty
func (r Request) withDefaults() Request {
	if r.Type == "" {
		r.Type = TypeWarning
	}
	if r.Title == "" {
		r.Title = "Konfirmasi"
	}
	if r.ConfirmText == "" {
		r.ConfirmText = "Ya, Lanjutkan"
	}
	if r.CancelText == "" {
		r.CancelText = "Batal"
	}
	if r.Details == nil {
		r.Details = []Detail{}
	}
	return r
}
