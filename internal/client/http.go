package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HTTPClient talks to the admin REST API.
type HTTPClient struct {
	baseURL    string
	token      func() string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTokenSource sets the function consulted for a bearer token before
// every request. The session store owns the token; the client only reads it.
func WithTokenSource(fn func() string) Option {
	return func(c *HTTPClient) { c.token = fn }
}

// WithTimeout sets the overall per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:5000/api").
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      func() string { return "" },
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// Health checks the API's health endpoint.
func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	env, err := c.doJSON(ctx, http.MethodGet, "/health", nil, &resp)
	if err != nil {
		return "", err
	}
	if resp.Status == "" {
		return env.Status, nil
	}
	return resp.Status, nil
}

// --- internal helpers ---

// doJSON performs a request with an optional JSON body and decodes the
// envelope's data into result. If result is nil the data is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) (*envelope, error) {
	var (
		bodyReader  io.Reader
		contentType string
	)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, bodyReader, contentType, result)
}

// doMultipart sends fields as form values next to the given files. Scalar
// fields are written as their plain text; nested values are JSON encoded.
func (c *HTTPClient) doMultipart(ctx context.Context, method, path string, fields any, files []File, result any) (*envelope, error) {
	values, err := flattenFields(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, values[k]); err != nil {
			return nil, fmt.Errorf("writing field %s: %w", k, err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("creating part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("writing part %s: %w", f.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}
	return c.do(ctx, method, path, &buf, mw.FormDataContentType(), result)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, result any) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"request_id": requestID,
		"elapsed":    time.Since(start).String(),
	}).Debug("api request")

	// 204 No Content: success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return &envelope{Status: StatusSuccess}, nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, respBody)
	}

	env := decodeEnvelope(respBody)
	if env.Status == StatusError {
		return nil, decodeError(resp.StatusCode, respBody)
	}

	if result != nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
	}
	return env, nil
}

// decodeEnvelope parses body as an envelope. Bodies without a status
// discriminator are treated as bare data.
func decodeEnvelope(body []byte) *envelope {
	var env envelope
	if json.Unmarshal(body, &env) == nil && env.Status != "" {
		return &env
	}
	return &envelope{Status: StatusSuccess, Data: body}
}

// decodeError builds a *ValidationError when the body carries a non-empty
// field list and an *APIError otherwise.
func decodeError(statusCode int, body []byte) error {
	var errResp struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Data    json.RawMessage `json:"data"`
	}
	if json.Unmarshal(body, &errResp) != nil {
		return &APIError{StatusCode: statusCode, Message: strings.TrimSpace(string(body))}
	}
	msg := errResp.Message
	if msg == "" {
		msg = errResp.Error
	}
	var fields []FieldError
	if len(errResp.Data) > 0 && json.Unmarshal(errResp.Data, &fields) == nil {
		kept := fields[:0]
		for _, f := range fields {
			if f.Field != "" {
				kept = append(kept, f)
			}
		}
		if len(kept) > 0 {
			return &ValidationError{StatusCode: statusCode, Message: msg, Fields: kept}
		}
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}

func flattenFields(fields any) (map[string]string, error) {
	out := map[string]string{}
	if fields == nil {
		return out, nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshaling form fields: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("form fields must encode as a JSON object: %w", err)
	}
	for k, v := range m {
		switch tv := v.(type) {
		case nil:
		case string:
			out[k] = tv
		case json.Number:
			out[k] = tv.String()
		case bool:
			out[k] = strconv.FormatBool(tv)
		default:
			nested, err := json.Marshal(tv)
			if err != nil {
				return nil, fmt.Errorf("encoding field %s: %w", k, err)
			}
			out[k] = string(nested)
		}
	}
	return out, nil
}
