// Package narrative turns a finished report into a short plain-language
// text with an LLM. It is optional: the report is complete without it.
package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/happykids/kidsdiag/internal/llm"
	"github.com/happykids/kidsdiag/internal/profile"
	"github.com/happykids/kidsdiag/internal/quality"
)

// ErrNoHistory is returned for reports built without any records.
var ErrNoHistory = errors.New("no game history to describe")

// Narrative is the generated text for one report.
type Narrative struct {
	Summary        string    `json:"summary"`
	ParentTips     []string  `json:"parent_tips"`
	ClinicianNotes string    `json:"clinician_notes"`
	Model          string    `json:"model"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Service generates narratives.
type Service struct {
	provider llm.Provider
	cfg      Config
	quality  quality.Config
	logger   *slog.Logger
}

// NewService creates a narrative service. qcfg supplies the axis labels.
func NewService(provider llm.Provider, cfg Config, qcfg quality.Config, logger *slog.Logger) *Service {
	if cfg.MaxTips <= 0 {
		cfg.MaxTips = DefaultConfig().MaxTips
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, cfg: cfg, quality: qcfg, logger: logger}
}

type narrativeOutput struct {
	Summary        string   `json:"summary"`
	ParentTips     []string `json:"parent_tips"`
	ClinicianNotes string   `json:"clinician_notes"`
}

// Generate asks the provider for a narrative of r.
func (s *Service) Generate(ctx context.Context, r *profile.Report) (*Narrative, error) {
	if r == nil || r.Insufficient() {
		return nil, ErrNoHistory
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeNarrative)

	req := llm.UserPrompt(systemPrompt, buildUserMessage(r, s.quality, s.cfg.MaxTips))
	req.Schema = Schema(s.cfg.MaxTips)
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("narrative generation: %w", err)
	}

	var out narrativeOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse narrative response: %w", err)
	}

	tips := out.ParentTips[:0]
	for _, t := range out.ParentTips {
		if t = strings.TrimSpace(t); t != "" {
			tips = append(tips, t)
		}
	}
	return &Narrative{
		Summary:        strings.TrimSpace(out.Summary),
		ParentTips:     tips,
		ClinicianNotes: strings.TrimSpace(out.ClinicianNotes),
		Model:          resp.Model,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// Describe is Generate for callers that treat the narrative as optional:
// failures are logged and yield nil.
func (s *Service) Describe(ctx context.Context, r *profile.Report) *Narrative {
	n, err := s.Generate(ctx, r)
	if err != nil {
		if !errors.Is(err, ErrNoHistory) {
			s.logger.Warn("narrative unavailable", "child", r.ChildID, "err", err)
		}
		return nil
	}
	return n
}
