// Package httpclient is the token-bearing wrapper every API call goes through.
// It attaches the bearer token, applies the fixed request timeout, decodes the
// response envelope into typed values and, when the API rejects the token with
// a 401, evicts the persisted credentials so the next guard evaluation sees a
// logged-out session.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/user/labconsole/apperror"
	"github.com/user/labconsole/config"
)

// Credentials supplies the bearer token and forgets it when the API rejects it.
type Credentials interface {
	Token(ctx context.Context) (string, error)
	Evict(ctx context.Context) error
}

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the lab reservation API.
type Client struct {
	baseURL *url.URL
	timeout time.Duration
	http    Doer
	creds   Credentials
	log     *logrus.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// New creates a Client for cfg.BaseURL. creds may be nil for anonymous use.
func New(cfg *config.APIConfig, creds Credentials, log *logrus.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, apperror.NewConfigError("invalid API base URL", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	c := &Client{
		baseURL: base,
		timeout: timeout,
		http:    &http.Client{},
		creds:   creds,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	// Query is url.Values or a struct with `url` tags.
	Query any
	// Body is encoded as JSON. Ignored when Form is set.
	Body any
	Form *Multipart
	// Anonymous marks endpoints that authenticate the caller themselves
	// (login, register, reset). A 401 from them does not evict credentials.
	Anonymous bool
}

// response is a fully read HTTP response.
type response struct {
	status int
	header http.Header
	body   []byte
}

// Do performs req and decodes the envelope's data into T.
func Do[T any](ctx context.Context, c *Client, req Request) (*Envelope[T], error) {
	resp, err := c.send(ctx, req, "application/json")
	if err != nil {
		return nil, err
	}
	env := new(Envelope[T])
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(resp.body, env); err != nil {
		appErr := apperror.NewExternalServiceError("malformed API response", err)
		appErr.HTTPStatus = resp.status
		return nil, appErr
	}
	if env.Code >= http.StatusBadRequest {
		return nil, apperror.NewAPIError(resp.status, env.Code, env.Message)
	}
	return env, nil
}

// DoJSON performs req and decodes the whole body into T, for the few
// endpoints that answer without the envelope.
func DoJSON[T any](ctx context.Context, c *Client, req Request) (*T, error) {
	resp, err := c.send(ctx, req, "application/json")
	if err != nil {
		return nil, err
	}
	out := new(T)
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		appErr := apperror.NewExternalServiceError("malformed API response", err)
		appErr.HTTPStatus = resp.status
		return nil, appErr
	}
	return out, nil
}

// Attachment is a binary download.
type Attachment struct {
	ContentType string
	Filename    string
	Data        []byte
}

// Download performs req and returns the raw body.
func (c *Client) Download(ctx context.Context, req Request) (*Attachment, error) {
	resp, err := c.send(ctx, req, "*/*")
	if err != nil {
		return nil, err
	}
	att := &Attachment{
		ContentType: resp.header.Get("Content-Type"),
		Data:        resp.body,
	}
	if cd := resp.header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			att.Filename = params["filename"]
		}
	}
	return att, nil
}

func (c *Client) buildURL(req Request) (string, error) {
	u := c.baseURL.JoinPath(req.Path)
	switch q := req.Query.(type) {
	case nil:
	case url.Values:
		u.RawQuery = q.Encode()
	default:
		values, err := query.Values(q)
		if err != nil {
			return "", apperror.NewInternalError("cannot encode query", err)
		}
		u.RawQuery = values.Encode()
	}
	return u.String(), nil
}

func (c *Client) buildBody(req Request) (io.Reader, string, error) {
	if req.Form != nil {
		buf, contentType, err := req.Form.encode()
		if err != nil {
			return nil, "", apperror.NewBadRequestError("cannot build upload", err)
		}
		return buf, contentType, nil
	}
	if req.Body == nil {
		return nil, "", nil
	}
	if err := Validate(req.Body); err != nil {
		return nil, "", err
	}
	b, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", apperror.NewInternalError("cannot encode request body", err)
	}
	return bytes.NewReader(b), "application/json", nil
}

func (c *Client) send(ctx context.Context, req Request, accept string) (*response, error) {
	target, err := c.buildURL(req)
	if err != nil {
		return nil, err
	}
	body, contentType, err := c.buildBody(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, apperror.NewInternalError("cannot build request", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("X-Request-ID", requestID)
	httpReq.Header.Set("User-Agent", "labconsole")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.creds != nil {
		token, err := c.creds.Token(ctx)
		if err != nil {
			return nil, apperror.NewStorageError("cannot read session token", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	entry := c.log.WithFields(logrus.Fields{
		"method":     req.Method,
		"path":       req.Path,
		"request_id": requestID,
	})
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		entry.WithError(err).Debug("api request failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.NewTransportError(fmt.Sprintf("%s %s timed out after %s", req.Method, req.Path, c.timeout), err)
		}
		return nil, apperror.NewTransportError(fmt.Sprintf("%s %s failed", req.Method, req.Path), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewTransportError(fmt.Sprintf("%s %s: reading response", req.Method, req.Path), err)
	}
	entry.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("api request")

	if resp.StatusCode == http.StatusUnauthorized && !req.Anonymous && c.creds != nil {
		// Use a fresh context: the request's own may be near its deadline.
		if err := c.creds.Evict(context.WithoutCancel(ctx)); err != nil {
			entry.WithError(err).Warn("failed to evict credentials after 401")
		} else {
			entry.Info("credentials evicted after 401")
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errorFromBody(resp.StatusCode, resp.Header.Get("Content-Type"), raw)
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: raw}, nil
}

// errorFromBody reads the envelope of a failed response when there is one.
func errorFromBody(status int, contentType string, body []byte) *apperror.AppError {
	var env struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if strings.Contains(contentType, "json") || json.Valid(body) {
		_ = json.Unmarshal(body, &env)
	}
	msg := env.Message
	if msg == "" {
		msg = env.Error
	}
	return apperror.NewAPIError(status, env.Code, msg)
}
