package iam

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNoToken is returned when no usable token was supplied and none could be minted.
var ErrNoToken = errors.New("no usable token: provide a token or a username and password")

// TokenNamePrefix tags every token minted by scanctl.
const TokenNamePrefix = "scanctl"

// TokenRequest is the payload for minting a new token.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"token_name"`
	Scope    string `json:"token_scope"`
	Expire   string `json:"token_expire"`
}

// Minter mints tokens.
type Minter interface {
	// MintToken returns the value of the Authorization field of the reply.
	MintToken(ctx context.Context, req TokenRequest) (string, error)
}

// TokenProvider hands out bearer tokens.
type TokenProvider struct {
	Minter Minter
	// Now defaults to time.Now.
	Now func() time.Time
}

// Obtain returns the token of creds if there is one. Otherwise it mints a new token that is valid for validityDays.
func (p *TokenProvider) Obtain(ctx context.Context, creds Credentials, scope string, validityDays int) (string, error) {
	if creds.HasToken() {
		log.Debug().Msg("Using supplied token.")
		return creds.Token, nil
	}
	if !creds.CanMint() {
		return "", ErrNoToken
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	t := now()

	req := TokenRequest{
		Username: creds.Username,
		Password: creds.Password,
		Name:     fmt.Sprintf("%s_%d", TokenNamePrefix, t.Unix()),
		Scope:    scope,
		Expire:   t.Add(time.Duration(validityDays) * 24 * time.Hour).Format("2006-01-02"),
	}
	log.Debug().Str("name", req.Name).Str("expire", req.Expire).Msg("Minting token.")

	auth, err := p.Minter.MintToken(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to mint token: %w", err)
	}

	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(auth), "Bearer "))
	if token == "" || token == "null" {
		return "", ErrNoToken
	}

	return token, nil
}
