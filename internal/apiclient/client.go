// Package apiclient is a thin typed wrapper over the task API.
// It never returns transport failures as Go errors to callers: every call
// yields a Result carrying the status (0 when no response arrived) and,
// on failure, an *Error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/middleware"
	"taskPlanner/internal/notify"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const DefaultBaseURL = "http://127.0.0.1:8000"

const defaultSignInPath = "/auth/sign-in"

const unreachableMessage = "Network error: Unable to reach the server. Please check if the backend is running."

// TokenSource - источник bearer-токена (сохранённая сессия клиента).
type TokenSource interface {
	Token() string
	ClearToken()
}

type Redirector interface {
	Redirect(ctx context.Context, path string)
}

type Result struct {
	Status  int
	HasData bool
	Err     error
}

func (r Result) OK() bool {
	return r.Err == nil
}

type Client struct {
	baseURL    string
	http       *http.Client
	timeout    time.Duration
	tokens     TokenSource
	redirector Redirector
	signInPath string
	notifier   notify.Notifier
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout: 0 оставляет поведение транспорта по умолчанию.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithCredentials(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

func WithRedirector(r Redirector, signInPath string) Option {
	return func(c *Client) {
		c.redirector = r
		if signInPath != "" {
			c.signInPath = signInPath
		}
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

func New(baseURL string, options ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		signInPath: defaultSignInPath,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.timeout > 0 {
		// клиент из WithHTTPClient принадлежит вызывающему, меняем копию
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, out any) Result {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) Result {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) Result {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) Result {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) Result {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) Do(ctx context.Context, method, path string, body, out any) Result {
	start := time.Now()

	requestID := middleware.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return c.fail(ctx, method, path, requestID, start, &Error{
				Kind:    KindNetwork,
				Message: fmt.Sprintf("Network error: encode request: %v", err),
				Err:     err,
			})
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return c.fail(ctx, method, path, requestID, start, &Error{
			Kind:    KindNetwork,
			Message: fmt.Sprintf("Network error: %v", err),
			Err:     err,
		})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(ctx, method, path, requestID, start, networkError(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(ctx, method, path, requestID, start, networkError(err))
	}

	status := resp.StatusCode
	if status == http.StatusUnauthorized {
		c.logout(ctx)
		return c.fail(ctx, method, path, requestID, start, newUnauthorized())
	}

	success := status >= 200 && status < 300

	if !isJSON(resp.Header.Get("Content-Type")) {
		if !success {
			return c.fail(ctx, method, path, requestID, start, newHTTPError(status, ""))
		}
		c.logDone(method, path, requestID, status, start)
		return Result{Status: status}
	}

	if !success {
		if !json.Valid(data) {
			return c.fail(ctx, method, path, requestID, start, newMalformed(status, errors.New("invalid JSON body")))
		}
		return c.fail(ctx, method, path, requestID, start, newHTTPError(status, messageFromBody(data)))
	}

	hasData, err := decode(data, out)
	if err != nil {
		return c.fail(ctx, method, path, requestID, start, newMalformed(status, err))
	}

	c.logDone(method, path, requestID, status, start)
	return Result{Status: status, HasData: hasData}
}

func decode(data []byte, out any) (bool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return false, errors.New("empty body")
	}
	if out == nil {
		if !json.Valid(trimmed) {
			return false, errors.New("invalid JSON body")
		}
		return !bytes.Equal(trimmed, []byte("null")), nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return false, err
	}
	return !bytes.Equal(trimmed, []byte("null")), nil
}

// logout: сброс токена и один редирект на страницу входа на каждый запрос с 401.
func (c *Client) logout(ctx context.Context) {
	if c.tokens != nil {
		c.tokens.ClearToken()
	}
	if c.redirector != nil {
		c.redirector.Redirect(ctx, c.signInPath)
	}
}

func (c *Client) fail(ctx context.Context, method, path, requestID string, start time.Time, apiErr *Error) Result {
	logger.Log(
		logger.LevelForStatus(apiErr.Status),
		"HTTP_OUT: Ошибка запроса к API",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", apiErr.Status),
		zap.String("kind", string(apiErr.Kind)),
		zap.String("error", apiErr.Message),
		zap.Duration("ms", time.Since(start)),
	)
	if c.notifier != nil {
		c.notifier.Notify(notify.LevelError, apiErr.Message)
	}
	return Result{Status: apiErr.Status, Err: apiErr}
}

func (c *Client) logDone(method, path, requestID string, status int, start time.Time) {
	logger.Log(
		logger.LevelForStatus(status),
		"HTTP_OUT: Ответ API получен",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("ms", time.Since(start)),
	)
}

func networkError(err error) *Error {
	var (
		message string
		netErr  net.Error
		opErr   *net.OpError
		dnsErr  *net.DNSError
	)
	switch {
	case errors.Is(err, context.Canceled):
		message = "Network error: request cancelled"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		message = "Network error: request timed out"
	case errors.As(err, &opErr), errors.As(err, &dnsErr):
		message = unreachableMessage
	default:
		message = fmt.Sprintf("Network error: %v", err)
	}
	return &Error{Kind: KindNetwork, Status: 0, Message: message, Err: err}
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
