// Package client is the Taist API client used by the wizards and taistctl.
// Every call returns a Response; remote and transport failures are reported
// through Success == 0 rather than a Go error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/franciscosanchezn/taist-api/internal/draft"
	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// FallbackMessage replaces the cause of any transport failure.
const FallbackMessage = "Some problems occurred. please try again."

// APIKeyHeader carries the static application key.
const APIKeyHeader = "apikey"

// Environment selects the base URL.
type Environment string

const (
	Local      Environment = "local"
	Staging    Environment = "staging"
	Production Environment = "production"
)

var baseURLs = map[Environment]string{
	Local:      "http://localhost:8080/",
	Staging:    "https://staging.taist.app/",
	Production: "https://api.taist.app/",
}

// Config configures a Client. BaseURL overrides the environment's URL.
type Config struct {
	Environment Environment
	BaseURL     string
	APIKey      string
	Tokens      TokenStore
	HTTPClient  *http.Client
}

// Client wraps the REST-like API.
type Client struct {
	baseURL string
	apiKey  string
	tokens  TokenStore
	http    *http.Client
	encoder *schema.Encoder
}

// New builds a client. Unknown environments fall back to Local.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		var ok bool
		if base, ok = baseURLs[cfg.Environment]; !ok {
			base = baseURLs[Local]
		}
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	tokens := cfg.Tokens
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	enc := schema.NewEncoder()
	enc.SetAliasTag("form")
	enc.RegisterEncoder(draft.IdSet{}, func(v reflect.Value) string {
		return v.Interface().(draft.IdSet).ToWireFormat()
	})

	return &Client{
		baseURL: base + "api/",
		apiKey:  cfg.APIKey,
		tokens:  tokens,
		http:    httpClient,
		encoder: enc,
	}
}

// Tokens exposes the token store so callers can log out.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Success int             `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (r Response) OK() bool {
	return r.Success == 1
}

// ErrorMessage is the text to show the user for a failed response.
func (r Response) ErrorMessage() string {
	switch {
	case r.Message != "":
		return r.Message
	case r.Error != "":
		return r.Error
	default:
		return FallbackMessage
	}
}

// Decode unmarshals Data into v.
func (r Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("response has no data")
	}
	return json.Unmarshal(r.Data, v)
}

func failed() Response {
	return Response{Success: 0, Message: FallbackMessage}
}

// Form is a POST body. Files maps field names to local paths and forces a
// multipart encoding.
type Form struct {
	Fields url.Values
	Files  map[string]string
}

// Encode turns a struct with form tags into fields.
func (c *Client) Encode(v any) (url.Values, error) {
	values := url.Values{}
	if err := c.encoder.Encode(v, values); err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	return values, nil
}

// GET issues a GET for path with an optional query.
func (c *Client) GET(ctx context.Context, path string, query url.Values) Response {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("Failed to build request")
		return failed()
	}
	return c.do(req, path)
}

// POST sends body as a form. body may be url.Values, Form, *Form, nil, or a
// struct with form tags.
func (c *Client) POST(ctx context.Context, path string, body any) Response {
	form, err := c.toForm(body)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("Failed to encode request body")
		return failed()
	}

	var (
		payload     io.Reader
		contentType string
	)
	if len(form.Files) > 0 {
		buf, ct, err := multipartBody(form)
		if err != nil {
			log.WithError(err).WithField("path", path).Error("Failed to build multipart body")
			return failed()
		}
		payload, contentType = buf, ct
	} else {
		payload = strings.NewReader(form.Fields.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("Failed to build request")
		return failed()
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, path)
}

// DELETE issues a DELETE for path.
func (c *Client) DELETE(ctx context.Context, path string) Response {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("Failed to build request")
		return failed()
	}
	return c.do(req, path)
}

func (c *Client) toForm(body any) (Form, error) {
	switch b := body.(type) {
	case nil:
		return Form{Fields: url.Values{}}, nil
	case url.Values:
		return Form{Fields: b}, nil
	case Form:
		if b.Fields == nil {
			b.Fields = url.Values{}
		}
		return b, nil
	case *Form:
		return c.toForm(*b)
	default:
		fields, err := c.Encode(body)
		if err != nil {
			return Form{}, err
		}
		return Form{Fields: fields}, nil
	}
}

func multipartBody(form Form) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for key, values := range form.Fields {
		for _, v := range values {
			if err := w.WriteField(key, v); err != nil {
				return nil, "", err
			}
		}
	}
	for field, path := range form.Files {
		if path == "" {
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("open %s: %w", field, err)
		}
		part, err := w.CreateFormFile(field, filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func (c *Client) do(req *http.Request, path string) Response {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger := log.WithFields(logrus.Fields{"method": req.Method, "path": path})
	resp, err := c.http.Do(req)
	if err != nil {
		logger.WithError(err).Warn("Request failed")
		return failed()
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithError(err).Warn("Failed to read response body")
		return failed()
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.WithFields(logrus.Fields{"status": resp.StatusCode, "error": err.Error()}).
			Warn("Response is not a JSON envelope")
		return failed()
	}
	logger.WithFields(logrus.Fields{"status": resp.StatusCode, "success": out.Success}).Debug("Request completed")
	return out
}
