package http

import (
	"context"
	"net/http"

	"github.com/scanflow/scanctl/internal/upload"
)

type searchResult struct {
	Upload struct {
		ID         int    `json:"id"`
		FolderID   int    `json:"folderid"`
		UploadName string `json:"uploadname"`
	} `json:"upload"`
	UploadTreeID int    `json:"uploadTreeId"`
	Filename     string `json:"filename"`
}

// Search returns the uploads containing a file named filename, in the order the service lists them.
func (c *Client) Search(ctx context.Context, filename string) ([]upload.Hit, error) {
	reply, err := c.Execute(ctx, Request{
		Method: http.MethodGet,
		Path:   "search",
		Header: http.Header{
			"searchType": []string{"allfiles"},
			"filename":   []string{filename},
		},
	})
	if err != nil {
		return nil, err
	}

	var results []searchResult
	if err := reply.Decode(&results); err != nil {
		return nil, err
	}

	hits := make([]upload.Hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, upload.Hit{
			UploadID: r.Upload.ID,
			FolderID: r.Upload.FolderID,
			Name:     r.Upload.UploadName,
			ItemID:   r.UploadTreeID,
		})
	}
	return hits, nil
}
