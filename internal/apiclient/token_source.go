package apiclient

import (
	"context"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"contacts-admin/internal/config"
	"contacts-admin/internal/utils"
)

const serviceTokenTTL = 15 * time.Minute

// JWTTokenSource mints short-lived HS256 service tokens signed with the
// shared API secret.
type JWTTokenSource struct {
	Secret   string
	Username string
	TTL      time.Duration
}

func (s JWTTokenSource) Token() (*oauth2.Token, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = serviceTokenTTL
	}
	username := s.Username
	if username == "" {
		username = "contacts-importer"
	}

	signed, err := utils.GenerateToken(0, username, "service", s.Secret, ttl)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(ttl),
	}, nil
}

// TokenSourceFromConfig picks the credential provider for the contacts API:
// oauth2 client credentials when a client id and token URL are set, the
// static token when one is set, otherwise a locally minted JWT.
func TokenSourceFromConfig(ctx context.Context, cfg *config.Config) oauth2.TokenSource {
	switch {
	case cfg.ContactAPIClientID != "" && cfg.ContactAPITokenURL != "":
		cc := clientcredentials.Config{
			ClientID:     cfg.ContactAPIClientID,
			ClientSecret: cfg.ContactAPIClientSecret,
			TokenURL:     cfg.ContactAPITokenURL,
		}
		return cc.TokenSource(ctx)
	case strings.TrimSpace(cfg.ContactAPIToken) != "":
		return oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: strings.TrimSpace(cfg.ContactAPIToken),
			TokenType:   "Bearer",
		})
	default:
		return oauth2.ReuseTokenSource(nil, JWTTokenSource{Secret: cfg.JWTSecret})
	}
}
