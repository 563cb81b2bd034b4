// internal/domain/assistant/backup.go
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/nuvella/storefront-api/internal/pkg/ollama"
)

// Attempt records one backup model that did not produce a usable reply
type Attempt struct {
	Model string
	Err   error
}

// BackupError is returned when every backup model failed
type BackupError struct {
	Attempts []Attempt
}

func (e *BackupError) Error() string {
	if len(e.Attempts) == 0 {
		return "All backup models failed: no backup models configured"
	}

	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Model, a.Err)
	}
	return "All backup models failed (" + strings.Join(parts, "; ") + ")"
}

// Unwrap exposes the individual attempt errors to errors.Is and errors.As
func (e *BackupError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Err
	}
	return errs
}

func (s *Service) callBackups(ctx context.Context, message string) (string, error) {
	prompt := BackupPrompt(message)
	failure := &BackupError{}

	for _, model := range s.backups {
		resp, err := s.generator.Generate(ctx, ollama.GenerateRequest{
			Model:   model,
			Prompt:  prompt,
			Options: &ollama.Options{Temperature: s.temperature, MaxTokens: backupMaxTokens},
		})
		if err != nil {
			s.log.WithError(err).WithField("model", model).Warn("Backup model failed, trying next")
			failure.Attempts = append(failure.Attempts, Attempt{Model: model, Err: err})
			continue
		}

		reply := strings.TrimSpace(resp.Response)
		if replyLength(reply) <= minReplyLength {
			s.log.WithField("model", model).Warn("Backup model reply too short, trying next")
			failure.Attempts = append(failure.Attempts, Attempt{Model: model, Err: ErrShortReply})
			continue
		}

		s.log.WithField("model", model).Info("Successfully used backup model")
		return reply, nil
	}

	return "", failure
}
