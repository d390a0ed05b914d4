package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/scanflow/scanctl/internal/iam"
)

type tokenResponse struct {
	Authorization string `json:"Authorization"`
}

// MintToken creates a new API token for the user in req.
func (c *Client) MintToken(ctx context.Context, req iam.TokenRequest) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	reply, err := c.Execute(ctx, Request{
		Method:      http.MethodPost,
		Path:        "tokens",
		Body:        bytes.NewReader(b),
		ContentType: "application/json",
	})
	if err != nil {
		return "", err
	}

	var tr tokenResponse
	if err := reply.Decode(&tr); err != nil {
		return "", err
	}
	return tr.Authorization, nil
}

// Authorize makes all further requests of c authenticate with token.
func (c *Client) Authorize(token string) {
	c.Token = token
}
