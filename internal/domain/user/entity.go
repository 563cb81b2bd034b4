// internal/domain/user/entity.go
package user

import "time"

// Profile is the signed-in shopper as the storefront remembers them
type Profile struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateProfileRequest represents the editable profile fields
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName" binding:"omitempty,max=100"`
	PhotoURL    *string `json:"photoURL" binding:"omitempty,url,max=500"`
}
