// Package apiclient talks to a remote lesson REST API and serves it to the
// viewer as a viewer.Source.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lexstudy_backend/internal/util"
	"lexstudy_backend/internal/viewer"
	"lexstudy_backend/pkg/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// StatusError is a non-2xx response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Body)
}

// TokenFunc returns the bearer token to send on behalf of userID. Reads that
// are not user specific pass 0.
type TokenFunc func(ctx context.Context, userID uint) (string, error)

// SignedTokens issues short lived HS256 tokens with the shared secret.
func SignedTokens(secret string, ttl time.Duration) TokenFunc {
	return func(_ context.Context, userID uint) (string, error) {
		return util.GenerateJWT(userID, "", secret, ttl)
	}
}

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenFunc
}

func New(baseURL string, timeout time.Duration, token TokenFunc) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   token,
	}
}

var _ viewer.Source = (*Client)(nil)

func (c *Client) Lesson(ctx context.Context, lessonID string) (*viewer.Lesson, error) {
	var lesson viewer.Lesson
	if err := c.do(ctx, http.MethodGet, "/api/lessons/"+url.PathEscape(lessonID), 0, nil, &lesson); err != nil {
		return nil, err
	}
	if lesson.ID == "" {
		return nil, fmt.Errorf("lesson %s: %w", lessonID, viewer.ErrNotFound)
	}
	return &lesson, nil
}

func (c *Client) Subsections(ctx context.Context, lessonID string) ([]viewer.SubsectionRecord, error) {
	var records []viewer.SubsectionRecord
	err := c.do(ctx, http.MethodGet, "/api/subsections/lesson/"+url.PathEscape(lessonID), 0, nil, &records)
	return records, err
}

func (c *Client) Progress(ctx context.Context, userID uint, lessonID string) ([]viewer.ProgressRecord, error) {
	var records []viewer.ProgressRecord
	err := c.do(ctx, http.MethodGet, "/api/progress/lesson/"+url.PathEscape(lessonID), userID, nil, &records)
	return records, err
}

func (c *Client) MarkComplete(ctx context.Context, userID uint, lessonID, subsectionID string) error {
	body := map[string]string{"lessonId": lessonID, "subsectionId": subsectionID}
	return c.do(ctx, http.MethodPost, "/api/progress/complete", userID, body, nil)
}

func (c *Client) MarkIncomplete(ctx context.Context, userID uint, subsectionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/progress/incomplete/"+url.PathEscape(subsectionID), userID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, userID uint, in, out any) error {
	ctx, span := tracing.Tracer.Start(ctx, "apiclient "+method, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	))
	defer span.End()

	err := c.send(ctx, method, path, userID, in, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path string, userID uint, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}
	var token string
	if c.token != nil {
		t, err := c.token(ctx, userID)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		token = t
	}

	resp, err := doWithRetry(ctx, c.http, func() (*http.Request, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
		return req, nil
	})
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	return decodeEnvelope(raw, out)
}

func classify(err error) error {
	var se *StatusError
	if !errors.As(err, &se) {
		return err
	}
	switch se.Status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", viewer.ErrNotFound, err)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", util.ErrUnauthorized, err)
	}
	return err
}

// decodeEnvelope accepts both {code,message,data} envelopes and bare bodies.
func decodeEnvelope(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '{' {
		var env struct {
			Code *int            `json:"code"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err == nil && env.Code != nil {
			if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
				return nil
			}
			raw = env.Data
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
