package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/scanflow/scanctl/internal/folder"
)

// Folders lists all folders visible to the caller.
func (c *Client) Folders(ctx context.Context) ([]folder.Folder, error) {
	reply, err := c.Execute(ctx, Request{Method: http.MethodGet, Path: "folders"})
	if err != nil {
		return nil, err
	}

	var folders []folder.Folder
	if err := reply.Decode(&folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// CreateFolder creates the folder name underneath parentID.
func (c *Client) CreateFolder(ctx context.Context, parentID int, name string) error {
	_, err := c.Execute(ctx, Request{
		Method: http.MethodPost,
		Path:   "folders",
		Header: http.Header{
			"parentFolder":      []string{strconv.Itoa(parentID)},
			"folderName":        []string{name},
			"folderDescription": []string{"created by scanctl"},
		},
	})
	return err
}
