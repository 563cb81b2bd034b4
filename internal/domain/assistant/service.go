// internal/domain/assistant/service.go
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nuvella/storefront-api/internal/config"
	"github.com/nuvella/storefront-api/internal/pkg/ollama"
	"github.com/sirupsen/logrus"
)

// statusTimeout bounds the reachability check
const statusTimeout = 5 * time.Second

// backupMaxTokens caps backup-model replies
const backupMaxTokens = 250

// ErrShortReply is returned when the primary model answers with too little text
var ErrShortReply = errors.New("empty or too short response from model")

// Generator is the part of the model client the service needs
type Generator interface {
	Generate(ctx context.Context, req ollama.GenerateRequest) (*ollama.GenerateResponse, error)
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)
}

// Service answers shopper questions through the model with a canned fallback
type Service struct {
	generator   Generator
	endpoint    string
	model       string
	backups     []string
	maxTokens   int
	temperature float64
	static      bool
	system      string
	fallback    *Fallback
	log         logrus.FieldLogger
}

// NewService creates the assistant service
func NewService(cfg *config.Config, generator Generator, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Service{
		generator:   generator,
		endpoint:    cfg.Ollama.URL,
		model:       cfg.Ollama.Model,
		backups:     cfg.Ollama.BackupModels,
		maxTokens:   cfg.Ollama.MaxTokens,
		temperature: cfg.Ollama.Temperature,
		static:      !cfg.AIEnabled(),
		system:      SystemPrompt(cfg.Store),
		fallback:    NewFallback(cfg.Chat.WhatsAppNumber),
		log:         log.WithField("component", "assistant"),
	}
}

// Fallback exposes the canned responder
func (s *Service) Fallback() *Fallback {
	return s.fallback
}

// Handle produces the envelope for one proxy request. It never fails: any
// model error degrades to a canned reply.
func (s *Service) Handle(ctx context.Context, req Request) Envelope {
	if s.static || s.generator == nil {
		return Envelope{Success: true, Message: s.fallback.Reply(req.Message), Provider: ProviderStatic}
	}

	reply, err := s.generate(ctx, req)
	if err != nil {
		s.log.WithError(err).WithField("model", s.model).Warn("Model call failed, using canned response")
		return Envelope{
			Success:  false,
			Message:  s.fallback.Reply(req.Message),
			Provider: ProviderFallback,
			Error:    err.Error(),
		}
	}

	return Envelope{Success: true, Message: reply, Provider: ProviderOllama}
}

// Ask lets the service act as an in-process chat responder
func (s *Service) Ask(ctx context.Context, req Request) (Envelope, error) {
	return s.Handle(ctx, req), nil
}

// Status checks the model endpoint by listing its models
func (s *Service) Status(ctx context.Context) Status {
	status := Status{Endpoint: s.endpoint, Model: s.model}
	if s.static || s.generator == nil {
		status.Error = "model endpoint disabled"
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	models, err := s.generator.ListModels(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.Available = true
	for _, m := range models {
		status.Models = append(status.Models, m.Name)
	}
	return status
}

func (s *Service) generate(ctx context.Context, req Request) (string, error) {
	reply, err := s.callPrimary(ctx, req)
	if err == nil {
		return reply, nil
	}

	if !s.shouldRetry(err) {
		return "", err
	}

	s.log.WithError(err).Info("Trying backup models")
	return s.callBackups(ctx, req.Message)
}

func (s *Service) callPrimary(ctx context.Context, req Request) (string, error) {
	resp, err := s.generator.Generate(ctx, ollama.GenerateRequest{
		Model:  s.model,
		Prompt: BuildPrompt(s.system, req.Message, req.ConversationHistory),
		Options: &ollama.Options{
			Temperature:   s.temperature,
			MaxTokens:     s.maxTokens,
			TopP:          0.9,
			RepeatPenalty: 1.1,
			Seed:          42,
		},
	})
	if err != nil {
		return "", fmt.Errorf("primary model call failed: %w", err)
	}

	reply := CleanReply(resp.Response)
	if replyLength(reply) < minReplyLength {
		return "", ErrShortReply
	}
	return reply, nil
}

func (s *Service) shouldRetry(err error) bool {
	if ollama.IsModelNotFound(err) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "model not found") || (s.model != "" && strings.Contains(msg, s.model))
}
