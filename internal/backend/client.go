// Package backend is the HTTP client of the TechConnect REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "techconnect/backend"

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 4 << 20

type Client struct {
	baseURL    string
	adminToken string
	http       *http.Client
	tracer     trace.Tracer
	log        *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client, e.g. with httptest's.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAdminToken sets the bearer token sent on /admin calls.
func WithAdminToken(token string) Option {
	return func(c *Client) { c.adminToken = token }
}

// New builds a client for baseURL. A zero timeout leaves requests bounded
// only by their context.
func New(baseURL string, timeout time.Duration, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tracer:  otel.Tracer(tracerName),
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	op          string
	method      string
	path        string
	body        io.Reader
	contentType string
	admin       bool
}

// do sends req and decodes a 2xx body into out, unwrapping a {"data": ...}
// envelope when present.
func (c *Client) do(ctx context.Context, req request, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "backend."+req.op, trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("http.method", req.method),
		attribute.String("backend.endpoint", req.path),
	)

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.admin && c.adminToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.adminToken)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn("backend request failed", zap.String("op", req.op), zap.Duration("latency", time.Since(start)), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrUnreachable, req.op, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read %s response: %w", ErrUnreachable, req.op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(unwrapData(raw), out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, req.op, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, admin bool, out any) error {
	return c.do(ctx, request{op: op, method: http.MethodGet, path: path, admin: admin}, out)
}

func (c *Client) sendJSON(ctx context.Context, op, method, path string, admin bool, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s body: %w", op, err)
	}
	return c.do(ctx, request{
		op:          op,
		method:      method,
		path:        path,
		body:        bytes.NewReader(body),
		contentType: "application/json",
		admin:       admin,
	}, out)
}

type formFile struct {
	field       string
	fileName    string
	contentType string
	data        []byte
}

func (c *Client) sendMultipart(ctx context.Context, op, path string, fields map[string]string, files []formFile, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("build %s form: %w", op, err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.fileName))
		ct := f.contentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return fmt.Errorf("build %s form: %w", op, err)
		}
		if _, err := part.Write(f.data); err != nil {
			return fmt.Errorf("build %s form: %w", op, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("build %s form: %w", op, err)
	}
	return c.do(ctx, request{
		op:          op,
		method:      http.MethodPost,
		path:        path,
		body:        &buf,
		contentType: w.FormDataContentType(),
	}, out)
}

func unwrapData(raw []byte) []byte {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw
	}
	if data, ok := env["data"]; ok && len(data) > 0 && string(data) != "null" {
		return data
	}
	return raw
}

func decodeAPIError(status int, raw []byte) error {
	apiErr := &APIError{Status: status}
	var body struct {
		Message string          `json:"message"`
		Code    string          `json:"code"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	apiErr.Message = body.Message
	apiErr.Code = body.Code
	if len(body.Error) > 0 {
		var nested struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		var plain string
		switch {
		case json.Unmarshal(body.Error, &nested) == nil:
			if apiErr.Message == "" {
				apiErr.Message = nested.Message
			}
			if apiErr.Code == "" {
				apiErr.Code = nested.Code
			}
		case json.Unmarshal(body.Error, &plain) == nil && apiErr.Message == "":
			apiErr.Message = plain
		}
	}
	return apiErr
}
