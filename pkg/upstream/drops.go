package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Drop is a time-boxed limited release, optionally gated behind a quiz.
type Drop struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ArtistID     string `json:"artistId"`
	StartsAt     string `json:"startsAt"`
	EndsAt       string `json:"endsAt"`
	QuizQuestion string `json:"quizQuestion"`
	QuizAnswer   string `json:"quizAnswer"`
}

// Gated reports whether the drop requires a quiz answer before lead capture.
func (d Drop) Gated() bool {
	return strings.TrimSpace(d.QuizAnswer) != ""
}

// ListActiveDrops fetches the currently running drops.
func (c *Client) ListActiveDrops(ctx context.Context) ([]Drop, error) {
	var raw struct {
		Drops []Drop `json:"drops"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/drops?status=active", "", nil, &raw); err != nil {
		return nil, err
	}
	if raw.Drops == nil {
		raw.Drops = []Drop{}
	}
	return raw.Drops, nil
}

// GetDrop fetches a single drop, including its quiz gate when present.
func (c *Client) GetDrop(ctx context.Context, dropID string) (*Drop, error) {
	var drop Drop
	path := "/v1/drops/" + url.PathEscape(strings.TrimSpace(dropID))
	if err := c.do(ctx, http.MethodGet, path, "", nil, &drop); err != nil {
		return nil, err
	}
	return &drop, nil
}

// SubmitLead forwards a captured lead for the given drop.
func (c *Client) SubmitLead(ctx context.Context, dropID, email string) error {
	body := map[string]any{"email": email}
	path := "/v1/drops/" + url.PathEscape(strings.TrimSpace(dropID)) + "/leads"
	return c.do(ctx, http.MethodPost, path, "", body, nil)
}
