package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanflow/scanctl/internal/folder"
	"github.com/scanflow/scanctl/internal/iam"
	"github.com/scanflow/scanctl/internal/job"
	"github.com/scanflow/scanctl/internal/scan"
	"github.com/scanflow/scanctl/internal/upload"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c := NewClient(ts.URL, 5*time.Second)
	c.Token = "token"
	return c
}

func TestClient_MintToken(t *testing.T) {
	var got iam.TokenRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tokens", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"Authorization":"Bearer eyJ0"}`))
	})

	req := iam.TokenRequest{Username: "fossy", Password: "fossy", Name: "scanctl_1", Scope: "write", Expire: "2024-01-02"}
	auth, err := c.MintToken(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Bearer eyJ0", auth)
	assert.Equal(t, req, got)
}

func TestClient_Folders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Software Repository","description":"Top Folder","parent":null},` +
			`{"id":3,"name":"Sandbox","description":"","parent":1}]`))
	})

	folders, err := c.Folders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []folder.Folder{
		{ID: 1, Name: "Software Repository", Description: "Top Folder"},
		{ID: 3, Name: "Sandbox", Parent: 1},
	}, folders)
}

func TestClient_CreateFolder(t *testing.T) {
	var header http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"code":201,"message":"Folder \"001\" created","type":"INFO"}`))
	})

	require.NoError(t, c.CreateFolder(context.Background(), 3, "001"))
	assert.Equal(t, "3", header.Get("parentFolder"))
	assert.Equal(t, "001", header.Get("folderName"))
}

func TestClient_UploadFile(t *testing.T) {
	var header http.Header
	var filename, content string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header
		reader, err := r.MultipartReader()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":400,"message":"not multipart"}`))
			return
		}
		p, err := reader.NextPart()
		if !assert.NoError(t, err) {
			return
		}
		filename = p.FileName()
		b, _ := io.ReadAll(p)
		content = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"code":201,"message":17,"type":"INFO"}`))
	})

	group := 2
	meta := upload.Meta{FolderID: 5, GroupID: &group, Description: "desc", Public: "private", IgnoreSCM: true}
	id, err := c.UploadFile(context.Background(), meta, "app.zip", bytes.NewReader([]byte("zip")))
	require.NoError(t, err)

	assert.Equal(t, 17, id)
	assert.Equal(t, "app.zip", filename)
	assert.Equal(t, "zip", content)
	assert.Equal(t, "5", header.Get("folderId"))
	assert.Equal(t, "2", header.Get("groupId"))
	assert.Equal(t, "private", header.Get("public"))
	assert.Equal(t, "true", header.Get("ignoreScm"))
	assert.Equal(t, "file", header.Get("uploadType"))
	assert.Equal(t, "desc", header.Get("uploadDescription"))
}

func TestClient_UploadVCS(t *testing.T) {
	var header http.Header
	var got upload.VCS
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"code":201,"message":"18","type":"INFO"}`))
	})

	vcs := upload.VCS{Type: "git", URL: "https://github.com/org/repo.git", Name: "repo"}
	id, err := c.UploadVCS(context.Background(), upload.Meta{FolderID: 5}, vcs)
	require.NoError(t, err)

	assert.Equal(t, 18, id)
	assert.Equal(t, vcs, got)
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.Equal(t, "vcs", header.Get("uploadType"))
	assert.Empty(t, header.Get("groupId"))
}

func TestClient_UploadFile_BadID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":201,"message":"Upload queued","type":"INFO"}`))
	})

	_, err := c.UploadFile(context.Background(), upload.Meta{}, "app.zip", bytes.NewReader(nil))
	assert.ErrorContains(t, err, "is not an id")
}

func TestClient_Search(t *testing.T) {
	var header http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header
		_, _ = w.Write([]byte(`[{"upload":{"id":3,"folderid":5,"uploadname":"app.zip"},"uploadTreeId":30,"filename":"app.zip"},` +
			`{"upload":{"id":4,"folderid":5,"uploadname":"app.zip"},"uploadTreeId":40,"filename":"app.zip"}]`))
	})

	hits, err := c.Search(context.Background(), "app.zip")
	require.NoError(t, err)
	assert.Equal(t, []upload.Hit{
		{UploadID: 3, FolderID: 5, Name: "app.zip", ItemID: 30},
		{UploadID: 4, FolderID: 5, Name: "app.zip", ItemID: 40},
	}, hits)
	assert.Equal(t, "app.zip", header.Get("filename"))
	assert.Equal(t, "allfiles", header.Get("searchType"))
}

func TestClient_Jobs(t *testing.T) {
	var query string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"id":9,"name":"app.zip","uploadId":"17","groupId":2,"eta":0,"status":"Processing"}]`))
	})

	jobs, err := c.Jobs(context.Background(), 17)
	require.NoError(t, err)
	assert.Equal(t, "upload=17", query)
	assert.Equal(t, []job.Job{{ID: 9, Name: "app.zip", UploadID: 17, GroupID: 2, Status: "Processing", ETA: "0"}}, jobs)
}

func TestClient_StartScan(t *testing.T) {
	var header http.Header
	var got scan.Options
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"code":201,"message":11,"type":"INFO"}`))
	})

	opts := scan.DefaultOptions()
	require.NoError(t, c.StartScan(context.Background(), 5, 17, opts))
	assert.Equal(t, opts, got)
	assert.Equal(t, "5", header.Get("folderId"))
	assert.Equal(t, "17", header.Get("uploadId"))
}

func TestClient_ServerInfo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/version", r.URL.Path)
		_, _ = w.Write([]byte(`{"version":"1.4.3"}`))
	})

	info, err := c.ServerInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.4.3", info.Version)
}
