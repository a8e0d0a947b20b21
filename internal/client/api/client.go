// Package api is a typed HTTP client for the job service.
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/artistkatta/jobservice/internal/server/models"
)

// Client talks to one job service instance.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a client for baseURL. An empty token sends no Authorization header.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   token,
	}
}

// StatusError is returned for non-2xx responses. It unwraps to the common
// sentinel matching the status code.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == http.StatusBadRequest, e.Status == http.StatusRequestEntityTooLarge:
		return common.ErrValidation
	case e.Status == http.StatusNotFound:
		return common.ErrNotFound
	case e.Status == http.StatusConflict:
		return common.ErrVersionConflict
	case e.Status == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return common.ErrForbidden
	case e.Status == http.StatusBadGateway:
		return common.ErrUpload
	case e.Status >= 500:
		return common.ErrInternal
	default:
		return nil
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", common.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &e)
		return &StatusError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

type jobEnvelope struct {
	Job *models.Job `json:"job"`
}

func (c *Client) CreateJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	var out jobEnvelope
	if err := c.do(ctx, http.MethodPost, "/jobs", job, &out); err != nil {
		return nil, err
	}
	return out.Job, nil
}

func (c *Client) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	var out jobEnvelope
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(jobID), nil, &out); err != nil {
		return nil, err
	}
	return out.Job, nil
}

// EditJob sends only the fields set in patch.
func (c *Client) EditJob(ctx context.Context, jobID, postedDate string, patch models.JobPatch) (*models.Job, error) {
	body := patch.Fields()
	body["postedDate"] = postedDate
	if patch.ExpectedVersion != nil {
		body["expectedVersion"] = *patch.ExpectedVersion
	}

	var out jobEnvelope
	if err := c.do(ctx, http.MethodPut, "/jobs/"+url.PathEscape(jobID), body, &out); err != nil {
		return nil, err
	}
	return out.Job, nil
}

func (c *Client) ListJobsByDateRange(ctx context.Context, start, end string) ([]*models.Job, error) {
	q := url.Values{"start": {start}, "end": {end}}
	var out struct {
		Jobs []*models.Job `json:"jobs"`
	}
	if err := c.do(ctx, http.MethodGet, "/jobs/date-range?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

type userEnvelope struct {
	User *models.User `json:"user"`
}

func (c *Client) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// EditUser sends userId plus exactly the fields present in patch.
func (c *Client) EditUser(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	body := make(map[string]any, len(patch.Fields)+2)
	for k, v := range patch.Fields {
		body[k] = v
	}
	body["userId"] = patch.UserID
	if patch.ExpectedVersion != nil {
		body["expectedVersion"] = *patch.ExpectedVersion
	}

	var out userEnvelope
	if err := c.do(ctx, http.MethodPut, "/users", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// SetToken replaces the bearer token sent with later requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Upload sends data base64 encoded and returns its public URL.
func (c *Client) Upload(ctx context.Context, folder, filename, contentType string, data []byte) (string, error) {
	body := map[string]string{
		"file":        base64.StdEncoding.EncodeToString(data),
		"folder":      folder,
		"filename":    filename,
		"contentType": contentType,
	}
	var out struct {
		PublicURL string `json:"publicUrl"`
	}
	if err := c.do(ctx, http.MethodPost, "/uploads", body, &out); err != nil {
		return "", err
	}
	return out.PublicURL, nil
}
