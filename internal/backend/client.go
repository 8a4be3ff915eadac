// Package backend is the HTTP client for the remote document-QA service.
// The service owns all ingestion, indexing and answering; this client only
// moves payloads back and forth.
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

	"github.com/docfront/docfront/internal/domain"
)

// Backend endpoints, fixed relative to the base URL.
const (
	pathInfo     = "/vector-db/info"
	pathUpload   = "/vector-db/add-document"
	pathDelete   = "/vector-db/delete-document/"
	pathChat     = "/chat"
	uploadField  = "file"
	uploadType   = "application/octet-stream"
	msgNoFile    = "No file selected"
	prefixNet    = "Network error: "
	prefixUpload = "Upload error: "
)

// Client talks to the QA backend. All calls are single blocking round trips;
// info, upload and delete report failures as error-valued Results rather than
// Go errors so the UI layer never needs failure branching of its own.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Info fetches the current index snapshot.
func (c *Client) Info(ctx context.Context) (*domain.IndexInfo, error) {
	raw, err := c.fetchInfo(ctx)
	if err != nil {
		return nil, err
	}
	var info domain.IndexInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("parse info response: %w", err)
	}
	return &info, nil
}

// InfoValue fetches the index snapshot for direct display, keeping all
// backend-defined fields and folding any failure into an error-valued
// payload instead of returning an error.
func (c *Client) InfoValue(ctx context.Context) map[string]any {
	raw, err := c.fetchInfo(ctx)
	if err != nil {
		return errorValue(err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return errorValue(err)
	}
	return payload
}

func (c *Client) fetchInfo(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathInfo, nil)
	if err != nil {
		return nil, fmt.Errorf("build info request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("info request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read info response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("info response status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

// Upload sends one document to the backend as a multipart body under its
// original filename. A nil reader or empty filename short-circuits to an
// error Result without any network call.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) domain.Result {
	if r == nil || filename == "" {
		return domain.ErrorResult(msgNoFile)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := createFilePart(mw, filename)
	if err != nil {
		return domain.ErrorResult(prefixUpload + err.Error())
	}
	if _, err := io.Copy(part, r); err != nil {
		return domain.ErrorResult(prefixUpload + err.Error())
	}
	if err := mw.Close(); err != nil {
		return domain.ErrorResult(prefixUpload + err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathUpload, &body)
	if err != nil {
		return domain.ErrorResult(prefixUpload + err.Error())
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ErrorResult(prefixNet + err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ErrorResult(prefixUpload + err.Error())
	}
	if resp.StatusCode >= 300 {
		return domain.ErrorResult(prefixNet + fmt.Sprintf("backend status %d: %s", resp.StatusCode, string(raw)))
	}

	var result domain.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.ErrorResult(prefixUpload + err.Error())
	}
	return result
}

// Delete removes one document by its backend identifier.
func (c *Client) Delete(ctx context.Context, fileID string) domain.Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+pathDelete+fileID, nil)
	if err != nil {
		return domain.ErrorResult(err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ErrorResult(err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ErrorResult(err.Error())
	}
	if resp.StatusCode >= 300 {
		return domain.ErrorResult(fmt.Sprintf("backend status %d: %s", resp.StatusCode, string(raw)))
	}

	var result domain.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.ErrorResult(err.Error())
	}
	return result
}

// Chat submits one turn with the full prior history. Unlike the other calls
// this returns a Go error: the chat session folds failures into the
// transcript itself.
func (c *Client) Chat(ctx context.Context, query string, history []domain.ChatMessage) (*domain.ChatAnswer, error) {
	if history == nil {
		history = []domain.ChatMessage{}
	}
	reqBody, err := json.Marshal(domain.ChatRequest{Query: query, History: history})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathChat, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("chat response status %d: %s", resp.StatusCode, string(raw))
	}

	var answer domain.ChatAnswer
	if err := json.Unmarshal(raw, &answer); err != nil {
		return nil, fmt.Errorf("parse chat response: %w", err)
	}
	return &answer, nil
}

// createFilePart opens the multipart section for the document body. The part
// carries an explicit octet-stream content type; the backend sniffs the real
// format itself.
func createFilePart(mw *multipart.Writer, filename string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadField, filename))
	h.Set("Content-Type", uploadType)
	return mw.CreatePart(h)
}

func errorValue(err error) map[string]any {
	return map[string]any{"status": domain.StatusError, "message": err.Error()}
}
