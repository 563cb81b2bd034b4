// internal/domain/user/service.go
package user

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nuvella/storefront-api/internal/infrastructure/storage"
	"github.com/nuvella/storefront-api/internal/pkg/auth"
	"github.com/sirupsen/logrus"
)

// Service keeps one serialized profile per user under "user:<uid>"
type Service struct {
	kv  storage.Store
	log logrus.FieldLogger
	now func() time.Time
}

// NewService creates a new user service
func NewService(kv storage.Store, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{kv: kv, log: log, now: time.Now}
}

// KeyFor returns the storage key for a user
func KeyFor(uid string) string {
	return "user:" + uid
}

// Get loads the stored profile. Absent or malformed data yields nil without an error.
func (s *Service) Get(ctx context.Context, uid string) (*Profile, error) {
	raw, ok, err := s.kv.Get(ctx, KeyFor(uid))
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var profile Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		s.log.WithError(err).WithField("uid", uid).Warn("Discarding unreadable stored profile")
		return nil, nil
	}
	if profile.UID == "" {
		return nil, nil
	}
	return &profile, nil
}

// Sync returns the stored profile, creating it from the token claims on first sight
func (s *Service) Sync(ctx context.Context, claims *auth.Claims) (*Profile, error) {
	profile, err := s.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	profile = &Profile{
		UID:         claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}
	if err := s.save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile applies the editable fields to the stored profile
func (s *Service) UpdateProfile(ctx context.Context, claims *auth.Claims, req UpdateProfileRequest) (*Profile, error) {
	profile, err := s.Sync(ctx, claims)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.PhotoURL != nil {
		profile.PhotoURL = *req.PhotoURL
	}

	if err := s.save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Forget removes the stored profile
func (s *Service) Forget(ctx context.Context, uid string) error {
	if err := s.kv.Delete(ctx, KeyFor(uid)); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, profile *Profile) error {
	profile.UpdatedAt = s.now().UTC()

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.kv.Set(ctx, KeyFor(profile.UID), string(data)); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
