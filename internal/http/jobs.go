package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/scanflow/scanctl/internal/job"
	"github.com/scanflow/scanctl/internal/scan"
)

type jobResponse struct {
	ID       json.Number     `json:"id"`
	Name     string          `json:"name"`
	UploadID json.Number     `json:"uploadId"`
	GroupID  json.Number     `json:"groupId"`
	Status   string          `json:"status"`
	ETA      json.RawMessage `json:"eta"`
}

// Jobs returns the jobs of the upload with the given id.
func (c *Client) Jobs(ctx context.Context, uploadID int) ([]job.Job, error) {
	reply, err := c.Execute(ctx, Request{
		Method: http.MethodGet,
		Path:   "jobs",
		Query:  url.Values{"upload": []string{strconv.Itoa(uploadID)}},
	})
	if err != nil {
		return nil, err
	}

	var resp []jobResponse
	if err := reply.Decode(&resp); err != nil {
		return nil, err
	}

	jobs := make([]job.Job, 0, len(resp))
	for _, j := range resp {
		jobs = append(jobs, job.Job{
			ID:       numberValue(j.ID),
			Name:     j.Name,
			UploadID: numberValue(j.UploadID),
			GroupID:  numberValue(j.GroupID),
			Status:   j.Status,
			ETA:      rawText(j.ETA),
		})
	}
	return jobs, nil
}

// StartScan schedules a scan of uploadID in folderID, configured by opts.
func (c *Client) StartScan(ctx context.Context, folderID, uploadID int, opts scan.Options) error {
	b, err := json.Marshal(opts)
	if err != nil {
		return err
	}

	_, err = c.Execute(ctx, Request{
		Method: http.MethodPost,
		Path:   "jobs",
		Header: http.Header{
			"folderId": []string{strconv.Itoa(folderID)},
			"uploadId": []string{strconv.Itoa(uploadID)},
		},
		Body:        bytes.NewReader(b),
		ContentType: "application/json",
	})
	return err
}

func numberValue(n json.Number) int {
	i, err := n.Int64()
	if err != nil {
		return 0
	}
	return int(i)
}
