package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/scanflow/scanctl/internal/apierr"
)

// Client talks to the JSON REST API of the scan service. Every reply is an envelope that signals success or
// failure through its "code" field, see Execute.
type Client struct {
	HTTPClient *retryablehttp.Client
	URL        string
	// Token is sent as bearer token once set.
	Token string
}

// NewClient returns a new client for the REST API at url.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		HTTPClient: NewRetryableClient(timeout),
		URL:        url,
	}
}

// Request describes a single call against the REST API.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        io.Reader
	ContentType string
}

// Reply is the parsed response of a successful call.
type Reply struct {
	// Code is the envelope code, 0 if the reply did not carry one.
	Code int
	// Message is the envelope message. Some endpoints use it to return the id of a newly created entity.
	Message string
	// Doc is the JSON document of the reply.
	Doc    json.RawMessage
	Header http.Header
}

// Decode unmarshals the reply document into v.
func (r Reply) Decode(v interface{}) error {
	return json.Unmarshal(r.Doc, v)
}

// ID interprets the envelope message as a numeric id.
func (r Reply) ID() (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(r.Message))
	if err != nil {
		return 0, fmt.Errorf("reply message %q is not an id", r.Message)
	}
	return id, nil
}

// Execute sends r to the service and classifies the reply.
//
// A failed exchange yields an *apierr.TransportError, a reply whose first line is not JSON an
// *apierr.ProtocolError and an envelope with a non-success code an *apierr.ApplicationError.
func (c *Client) Execute(ctx context.Context, r Request) (Reply, error) {
	op := r.Method + " " + r.Path
	uri := strings.TrimSuffix(c.URL, "/") + "/" + strings.TrimPrefix(r.Path, "/")
	if len(r.Query) > 0 {
		uri += "?" + r.Query.Encode()
	}

	req, err := NewRetryableRequestWithContext(ctx, r.Method, uri, r.Body)
	if err != nil {
		return Reply{}, err
	}
	for k, vv := range r.Header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	log.Debug().Str("method", r.Method).Str("url", uri).Msg("Sending request.")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Reply{}, &apierr.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, &apierr.TransportError{Op: op, Err: err}
	}
	log.Trace().Int("status", resp.StatusCode).Bytes("body", body).Msgf("Received reply for %s.", op)

	reply, err := parseReply(op, body)
	if err != nil {
		return Reply{}, err
	}
	reply.Header = resp.Header

	return reply, nil
}

// parseReply extracts the envelope from the first line of body.
func parseReply(op string, body []byte) (Reply, error) {
	line, _, _ := bytes.Cut(body, []byte("\n"))
	line = bytes.TrimSpace(line)
	if !json.Valid(line) {
		return Reply{}, &apierr.ProtocolError{Op: op, Reason: fmt.Sprintf("reply is not JSON: %q", truncate(line, 120))}
	}

	reply := Reply{Doc: json.RawMessage(line)}

	var envelope struct {
		Code    json.RawMessage `json:"code"`
		Message json.RawMessage `json:"message"`
	}
	// Listings are arrays and carry no envelope.
	if line[0] != '{' {
		return reply, nil
	}
	if err := json.Unmarshal(line, &envelope); err != nil {
		return Reply{}, &apierr.ProtocolError{Op: op, Reason: err.Error()}
	}

	code := rawText(envelope.Code)
	if code == "" {
		code = "0"
	}
	reply.Message = rawText(envelope.Message)
	reply.Code = codeValue(code)

	if !IsSuccessCode(code) {
		return Reply{}, &apierr.ApplicationError{Code: reply.Code, Message: reply.Message}
	}

	return reply, nil
}

// IsSuccessCode reports whether the decimal representation of an envelope code denotes success, i.e. whether it
// starts with "0" or "2".
func IsSuccessCode(code string) bool {
	return strings.HasPrefix(code, "0") || strings.HasPrefix(code, "2")
}

// rawText returns the text of a JSON scalar. Strings are unquoted, null yields an empty string and everything else is
// returned as written.
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func codeValue(code string) int {
	f, err := strconv.ParseFloat(code, 64)
	if err != nil {
		return -1
	}
	return int(f)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
