package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"demodeck/internal/jsonutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Path is the proxy route every action goes through.
const Path = "/api/vercel"

// Actions accepted by the proxy.
const (
	ActionTeams    = "teams"
	ActionProjects = "projects"
	ActionProject  = "project"
	ActionEnv      = "env"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

const maxBodyBytes = 1 << 20

// API is the set of calls the Store depends on.
type API interface {
	ListTeams(ctx context.Context) ([]Team, error)
	ListProjects(ctx context.Context, teamID string) ([]Project, error)
	GetProject(ctx context.Context, projectID string) (Project, error)
	ListEnv(ctx context.Context, projectID string) ([]EnvVar, error)
	CreateEnv(ctx context.Context, projectID string, req CreateEnvRequest) (EnvVar, error)
}

// Client calls the /api/vercel proxy.
type Client struct {
	base   *url.URL
	http   *http.Client
	tracer oteltrace.Tracer
}

var _ API = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// NewClient returns a client rooted at baseURL (scheme and host, e.g.
// "http://localhost:3000").
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse base url: %q needs scheme and host", baseURL)
	}
	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: DefaultTimeout},
		tracer: otel.Tracer("demodeck/vercel"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListTeams implements API.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	var out struct {
		Teams []Team `json:"teams"`
	}
	if err := c.do(ctx, http.MethodGet, ActionTeams, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Teams, nil
}

// ListProjects implements API. An empty teamID lists every project.
func (c *Client) ListProjects(ctx context.Context, teamID string) ([]Project, error) {
	var params url.Values
	if teamID != "" {
		params = url.Values{"teamId": {teamID}}
	}
	var out struct {
		Projects []Project `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, ActionProjects, params, nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// GetProject implements API.
func (c *Client) GetProject(ctx context.Context, projectID string) (Project, error) {
	var out Project
	err := c.do(ctx, http.MethodGet, ActionProject, url.Values{"projectId": {projectID}}, nil, &out)
	return out, err
}

// ListEnv implements API.
func (c *Client) ListEnv(ctx context.Context, projectID string) ([]EnvVar, error) {
	var out struct {
		Envs []EnvVar `json:"envs"`
	}
	if err := c.do(ctx, http.MethodGet, ActionEnv, url.Values{"projectId": {projectID}}, nil, &out); err != nil {
		return nil, err
	}
	return out.Envs, nil
}

// CreateEnv implements API.
func (c *Client) CreateEnv(ctx context.Context, projectID string, req CreateEnvRequest) (EnvVar, error) {
	var out struct {
		Created EnvVar `json:"created"`
	}
	err := c.do(ctx, http.MethodPost, ActionEnv, url.Values{"projectId": {projectID}}, req, &out)
	return out.Created, err
}

func (c *Client) endpoint(action string, params url.Values) string {
	q := url.Values{"action": {action}}
	for k, vs := range params {
		q[k] = vs
	}
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + Path
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) do(ctx context.Context, method, action string, params url.Values, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "vercel."+action, oteltrace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("vercel.action", action),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", action, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(action, params), reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", action, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", action, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := jsonutil.ErrorField(data)
		if msg == "" {
			msg = httpMessage(resp.StatusCode)
		}
		return &APIError{Action: action, Status: resp.StatusCode, Message: msg}
	}
	return jsonutil.UnmarshalWithContext(data, out, "decode "+action+" response")
}
