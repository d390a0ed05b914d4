package http

import (
	"context"
	"net/http"
)

// ServerInfo describes the scan service.
type ServerInfo struct {
	Version string `json:"version"`
}

// ServerInfo returns the version of the scan service API.
func (c *Client) ServerInfo(ctx context.Context) (ServerInfo, error) {
	reply, err := c.Execute(ctx, Request{Method: http.MethodGet, Path: "version"})
	if err != nil {
		return ServerInfo{}, err
	}

	var info ServerInfo
	if err := reply.Decode(&info); err != nil {
		return ServerInfo{}, err
	}
	return info, nil
}
