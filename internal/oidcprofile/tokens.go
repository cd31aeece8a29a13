package oidcprofile

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/kcprofile/kcprofile/internal/db/controller/profile"
	"github.com/kcprofile/kcprofile/internal/db/models"
	"github.com/kcprofile/kcprofile/internal/keycloak"
)

// UpdateOrCreateFromCode exchanges an authorization code, reconciles the
// returned ID token and stores the token set on the profile.
func (s *Service) UpdateOrCreateFromCode(
	ctx context.Context,
	c *keycloak.Client,
	code, redirectURI string,
) (*models.OIDCProfile, error) {
	initiatedAt := s.now()

	token, err := c.OpenID.Exchange(ctx, code, redirectURI)
	if err != nil {
		return nil, err
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, ErrNoIDToken
	}

	p, err := s.GetOrCreateFromIDToken(ctx, c, rawIDToken)
	if err != nil {
		return nil, err
	}

	if err = s.UpdateTokens(ctx, p, token, initiatedAt); err != nil {
		return nil, err
	}

	return p, nil
}

// UpdateTokens stores token on p. Expiry instants are computed from the
// lifetimes in the response relative to initiatedAt, the moment the token
// request was sent.
func (s *Service) UpdateTokens(ctx context.Context, p *models.OIDCProfile, token *oauth2.Token, initiatedAt time.Time) error {
	p.AccessToken = token.AccessToken
	p.ExpiresBefore = expiresBefore(token, initiatedAt)

	if token.RefreshToken != "" {
		p.RefreshToken = token.RefreshToken
	}

	p.RefreshExpiresBefore = nil
	if seconds := extraSeconds(token, "refresh_expires_in"); seconds > 0 {
		t := initiatedAt.Add(time.Duration(seconds) * time.Second)
		p.RefreshExpiresBefore = &t
	}

	if err := profile.SaveTokens(s.db.WithContext(ctx), p); err != nil {
		return fmt.Errorf("failed to store tokens of oidc profile %s: %w", p.Sub, err)
	}

	return nil
}

// GetActiveAccessToken returns the stored access token of p, refreshing it
// first when it has expired.
func (s *Service) GetActiveAccessToken(ctx context.Context, c *keycloak.Client, p *models.OIDCProfile) (string, error) {
	if p.AccessToken == "" || p.ExpiresBefore == nil {
		return "", ErrTokenNotFound
	}

	now := s.now()
	if now.Before(*p.ExpiresBefore) {
		return p.AccessToken, nil
	}

	if p.RefreshToken == "" {
		return "", ErrTokenExpired
	}

	if p.RefreshExpiresBefore != nil && !now.Before(*p.RefreshExpiresBefore) {
		return "", ErrTokenExpired
	}

	token, err := c.OpenID.RefreshToken(ctx, p.RefreshToken)
	if err != nil {
		refreshes.WithLabelValues("error").Inc()

		return "", err
	}

	if err = s.UpdateTokens(ctx, p, token, now); err != nil {
		return "", err
	}

	refreshes.WithLabelValues("ok").Inc()

	log.Debug().Str("sub", p.Sub).Time("expires_before", *p.ExpiresBefore).Msg("refreshed access token")

	return p.AccessToken, nil
}

func expiresBefore(token *oauth2.Token, initiatedAt time.Time) *time.Time {
	seconds := token.ExpiresIn
	if seconds <= 0 {
		seconds = extraSeconds(token, "expires_in")
	}

	if seconds > 0 {
		t := initiatedAt.Add(time.Duration(seconds) * time.Second)
		return &t
	}

	if !token.Expiry.IsZero() {
		t := token.Expiry
		return &t
	}

	return nil
}

// extraSeconds reads a lifetime in seconds from the raw token response.
func extraSeconds(token *oauth2.Token, key string) int64 {
	switch v := token.Extra(key).(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}
