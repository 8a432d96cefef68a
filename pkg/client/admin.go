package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/naveenspark/museum/pkg/domain"
)

// Admin endpoints require a token whose user has is_admin set.

// CreateTemple adds a temple.
func (c *Client) CreateTemple(ctx context.Context, in domain.TempleInput) (*domain.Temple, error) {
	if err := domain.Validate(in); err != nil {
		return nil, fmt.Errorf("client.CreateTemple: %w", err)
	}
	var t domain.Temple
	if err := c.post(ctx, "/admin/temples", in, &t); err != nil {
		return nil, fmt.Errorf("client.CreateTemple: %w", err)
	}
	return &t, nil
}

// UpdateTemple replaces a temple.
func (c *Client) UpdateTemple(ctx context.Context, id int, in domain.TempleInput) (*domain.Temple, error) {
	if err := domain.Validate(in); err != nil {
		return nil, fmt.Errorf("client.UpdateTemple: %w", err)
	}
	var t domain.Temple
	if err := c.doRequest(ctx, http.MethodPut, "/admin/temples/"+strconv.Itoa(id), in, &t); err != nil {
		return nil, fmt.Errorf("client.UpdateTemple: %w", err)
	}
	return &t, nil
}

// CreateWeapon adds a weapon.
func (c *Client) CreateWeapon(ctx context.Context, in domain.WeaponInput) (*domain.Weapon, error) {
	if err := domain.Validate(in); err != nil {
		return nil, fmt.Errorf("client.CreateWeapon: %w", err)
	}
	var w domain.Weapon
	if err := c.post(ctx, "/admin/weapons", in, &w); err != nil {
		return nil, fmt.Errorf("client.CreateWeapon: %w", err)
	}
	return &w, nil
}

// UpdateWeapon replaces a weapon.
func (c *Client) UpdateWeapon(ctx context.Context, id int, in domain.WeaponInput) (*domain.Weapon, error) {
	if err := domain.Validate(in); err != nil {
		return nil, fmt.Errorf("client.UpdateWeapon: %w", err)
	}
	var w domain.Weapon
	if err := c.doRequest(ctx, http.MethodPut, "/admin/weapons/"+strconv.Itoa(id), in, &w); err != nil {
		return nil, fmt.Errorf("client.UpdateWeapon: %w", err)
	}
	return &w, nil
}

// CreateFossil adds a fossil.
func (c *Client) CreateFossil(ctx context.Context, in domain.FossilInput) (*domain.Fossil, error) {
	if err := domain.Validate(in); err != nil {
		return nil, fmt.Errorf("client.CreateFossil: %w", err)
	}
	var f domain.Fossil
	if err := c.post(ctx, "/admin/fossils", in, &f); err != nil {
		return nil, fmt.Errorf("client.CreateFossil: %w", err)
	}
	return &f, nil
}

// UpdateFossil replaces a fossil.
func (c *Client) UpdateFossil(ctx context.Context, id int, in domain.FossilInput) (*domain.Fossil, error) {
	if err := domain.Validate(in); err != nil {
		return nil, fmt.Errorf("client.UpdateFossil: %w", err)
	}
	var f domain.Fossil
	if err := c.doRequest(ctx, http.MethodPut, "/admin/fossils/"+strconv.Itoa(id), in, &f); err != nil {
		return nil, fmt.Errorf("client.UpdateFossil: %w", err)
	}
	return &f, nil
}

// DeleteExhibit removes one exhibit of the given kind.
func (c *Client) DeleteExhibit(ctx context.Context, kind domain.Kind, id int) error {
	if _, ok := domain.ParseKind(string(kind)); !ok {
		return fmt.Errorf("client.DeleteExhibit: unknown kind %q", kind)
	}
	if err := c.doRequest(ctx, http.MethodDelete, "/admin/"+string(kind)+"/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteExhibit: %w", err)
	}
	return nil
}

// VisitStats returns aggregate room visit counts.
func (c *Client) VisitStats(ctx context.Context) (*domain.VisitStats, error) {
	var stats domain.VisitStats
	if err := c.get(ctx, "/admin/visits/stats", &stats); err != nil {
		return nil, fmt.Errorf("client.VisitStats: %w", err)
	}
	return &stats, nil
}

// AdminLeaderboard returns top scores through the admin endpoint.
func (c *Client) AdminLeaderboard(ctx context.Context, gameMode string, limit int) ([]domain.HighScore, error) {
	params := url.Values{}
	if gameMode != "" {
		params.Set("game_mode", gameMode)
	}
	params.Set("limit", strconv.Itoa(limit))

	var resp struct {
		Leaderboard []domain.HighScore `json:"leaderboard"`
	}
	if err := c.get(ctx, "/admin/leaderboard?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("client.AdminLeaderboard: %w", err)
	}
	return resp.Leaderboard, nil
}

// AllFeedback returns the most recent feedback from every user.
func (c *Client) AllFeedback(ctx context.Context, limit int) ([]domain.Feedback, error) {
	var resp struct {
		Feedback []domain.Feedback `json:"feedback"`
	}
	if err := c.get(ctx, "/admin/feedback?limit="+strconv.Itoa(limit), &resp); err != nil {
		return nil, fmt.Errorf("client.AllFeedback: %w", err)
	}
	return resp.Feedback, nil
}
