// Package filesapi is the HTTP client for the Files API that owns categories
// and documents. Responses are returned raw so handlers can forward the
// upstream status and body unchanged.
package filesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/Skotchmaster/docs_gateway/internal/domain"
)

const maxResponseBytes = 16 << 20

// ErrResponseTooLarge is returned instead of a truncated upstream body.
var ErrResponseTooLarge = errors.New("files api response exceeds size limit")

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Result is an upstream reply. Body is always valid JSON: non-JSON replies
// are wrapped as a JSON string.
type Result struct {
	Status int
	Body   json.RawMessage
}

func (r *Result) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	maxBody    int64
}

func NewClient(baseURL string) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 60 * time.Second,
			}).DialContext,
			MaxIdleConns:          200,
			MaxIdleConnsPerHost:   20,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	})
}

func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: hc, maxBody: maxResponseBytes}
}

// Category is passed through to the Files API as-is.
type Category map[string]any

type categoryRequest struct {
	Category Category    `json:"category"`
	Role     domain.Role `json:"role"`
}

func (c *Client) ListCategories(ctx context.Context) (*Result, error) {
	return c.do(ctx, http.MethodGet, "/category/get-all", nil, nil, "")
}

func (c *Client) CreateCategory(ctx context.Context, category Category, role domain.Role) (*Result, error) {
	return c.doJSON(ctx, http.MethodPost, "/category/create", categoryRequest{Category: category, Role: role})
}

func (c *Client) UpdateCategory(ctx context.Context, category Category, role domain.Role) (*Result, error) {
	return c.doJSON(ctx, http.MethodPut, "/category/update", categoryRequest{Category: category, Role: role})
}

func (c *Client) DeleteCategory(ctx context.Context, id string, role domain.Role) (*Result, error) {
	q := url.Values{"id": {id}, "role": {string(role)}}
	return c.do(ctx, http.MethodDelete, "/category/delete", q, nil, "")
}

// FileMeta travels next to the document in the multipart body.
type FileMeta struct {
	FileID      string `json:"file_id,omitempty"`
	Description string `json:"description"`
	UserID      string `json:"user_id"`
	CategoryID  string `json:"category_id,omitempty"`
}

// Document is an uploaded file. A nil Content means "metadata only".
type Document struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

func (c *Client) UploadFile(ctx context.Context, doc Document, meta FileMeta) (*Result, error) {
	return c.doMultipart(ctx, http.MethodPost, "/files/upload", nil, doc, meta)
}

func (c *Client) UpdateFile(ctx context.Context, fileID string, doc Document, meta FileMeta) (*Result, error) {
	meta.FileID = fileID
	return c.doMultipart(ctx, http.MethodPut, "/files/update", url.Values{"file_id": {fileID}}, doc, meta)
}

func (c *Client) DeleteFile(ctx context.Context, userID, fileID string) (*Result, error) {
	q := url.Values{"user_id": {userID}, "file_id": {fileID}}
	return c.do(ctx, http.MethodDelete, "/files/delete", q, nil, "")
}

func (c *Client) GetFile(ctx context.Context, fileID string, role domain.Role) (*Result, error) {
	q := url.Values{"file_id": {fileID}, "role": {string(role)}}
	return c.do(ctx, http.MethodGet, "/files/get", q, nil, "")
}

func (c *Client) ListFiles(ctx context.Context, role domain.Role) (*Result, error) {
	return c.do(ctx, http.MethodGet, "/files/get-all", url.Values{"role": {string(role)}}, nil, "")
}

func (c *Client) ListUserFiles(ctx context.Context, userID string) (*Result, error) {
	return c.do(ctx, http.MethodGet, "/files/get-user-id", url.Values{"user_id": {userID}}, nil, "")
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, method, path, nil, bytes.NewReader(body), "application/json")
}

// doMultipart writes the document under the "file" field followed by the
// metadata JSON under a second "file" field, which is the layout the Files
// API expects.
func (c *Client) doMultipart(ctx context.Context, method, path string, q url.Values, doc Document, meta FileMeta) (*Result, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if doc.Content != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(doc.Filename)))
		h.Set("Content-Type", doc.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, doc.Content); err != nil {
			return nil, fmt.Errorf("copy file: %w", err)
		}
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	if err := w.WriteField("file", string(metaJSON)); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	return c.do(ctx, method, path, q, &buf, w.FormDataContentType())
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader, contentType string) (*Result, error) {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(raw)) > c.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, c.maxBody)
	}

	return &Result{Status: resp.StatusCode, Body: asJSON(raw)}, nil
}

func asJSON(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(string(trimmed))
	return quoted
}
