package drops

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
	"github.com/merchdrop/storefront-gateway/pkg/logger"
	"github.com/merchdrop/storefront-gateway/pkg/upstream"
)

type dropsClient interface {
	ListActiveDrops(ctx context.Context) ([]upstream.Drop, error)
	GetDrop(ctx context.Context, dropID string) (*upstream.Drop, error)
	SubmitLead(ctx context.Context, dropID, email string) error
}

// Summary is the public view of a drop. The quiz answer never leaves the
// gateway; only the question does.
type Summary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ArtistID     string `json:"artistId,omitempty"`
	StartsAt     string `json:"startsAt,omitempty"`
	EndsAt       string `json:"endsAt,omitempty"`
	Gated        bool   `json:"gated"`
	QuizQuestion string `json:"quizQuestion,omitempty"`
}

// ClaimRequest is the payload for a lead-capture attempt.
type ClaimRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Answer string `json:"answer"`
}

// Service exposes the quiz-gated lead capture flow for limited releases.
type Service struct {
	client dropsClient
	logg   *logger.Logger
}

func NewService(client dropsClient, logg *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("drops client required")
	}
	return &Service{client: client, logg: logg}, nil
}

// ListActive returns the running drops with their quiz answers stripped.
func (s *Service) ListActive(ctx context.Context) ([]Summary, error) {
	drops, err := s.client.ListActiveDrops(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(drops))
	for _, drop := range drops {
		summaries = append(summaries, summarize(drop))
	}
	return summaries, nil
}

// Claim validates the quiz gate and forwards the lead upstream. A wrong
// answer blocks the claim; an ungated drop accepts any answer, including none.
func (s *Service) Claim(ctx context.Context, dropID string, req ClaimRequest) (*Summary, error) {
	drop, err := s.client.GetDrop(ctx, dropID)
	if err != nil {
		return nil, err
	}

	if drop.Gated() && !answerMatches(req.Answer, drop.QuizAnswer) {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "drop_id", drop.ID), "drops.claim.wrong_answer")
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wrong answer, try again")
	}

	if err := s.client.SubmitLead(ctx, drop.ID, req.Email); err != nil {
		return nil, err
	}

	summary := summarize(*drop)
	return &summary, nil
}

func answerMatches(provided, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(provided), strings.TrimSpace(expected))
}

func summarize(drop upstream.Drop) Summary {
	return Summary{
		ID:           drop.ID,
		Title:        drop.Title,
		ArtistID:     drop.ArtistID,
		StartsAt:     drop.StartsAt,
		EndsAt:       drop.EndsAt,
		Gated:        drop.Gated(),
		QuizQuestion: strings.TrimSpace(drop.QuizQuestion),
	}
}
