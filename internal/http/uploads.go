package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/scanflow/scanctl/internal/multipartext"
	"github.com/scanflow/scanctl/internal/upload"
)

// UploadFile uploads content as a new upload named filename and returns the id of the upload.
func (c *Client) UploadFile(ctx context.Context, meta upload.Meta, filename string, content io.ReadSeeker) (int, error) {
	body, contentType, err := multipartext.NewMultipartReader("fileInput", filename, content)
	if err != nil {
		return 0, err
	}

	return c.createUpload(ctx, uploadHeader(meta, "file"), body, contentType)
}

// UploadVCS lets the service clone the repository in vcs and returns the id of the upload.
func (c *Client) UploadVCS(ctx context.Context, meta upload.Meta, vcs upload.VCS) (int, error) {
	b, err := json.Marshal(vcs)
	if err != nil {
		return 0, err
	}

	return c.createUpload(ctx, uploadHeader(meta, "vcs"), bytes.NewReader(b), "application/json")
}

func (c *Client) createUpload(ctx context.Context, header http.Header, body io.Reader, contentType string) (int, error) {
	reply, err := c.Execute(ctx, Request{
		Method:      http.MethodPost,
		Path:        "uploads",
		Header:      header,
		Body:        body,
		ContentType: contentType,
	})
	if err != nil {
		return 0, err
	}

	// On success, the message field carries the id of the new upload.
	return reply.ID()
}

func uploadHeader(meta upload.Meta, uploadType string) http.Header {
	h := http.Header{
		"folderId":          []string{strconv.Itoa(meta.FolderID)},
		"uploadDescription": []string{meta.Description},
		"public":            []string{meta.Public},
		"ignoreScm":         []string{strconv.FormatBool(meta.IgnoreSCM)},
		"uploadType":        []string{uploadType},
	}
	if meta.GroupID != nil {
		h["groupId"] = []string{strconv.Itoa(*meta.GroupID)}
	}
	return h
}
