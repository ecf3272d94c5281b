package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"trip-planner-service/internal/platform/logger"
	"trip-planner-service/internal/ports"
)

const (
	placeholderDeploymentID = "IHRE_DEPLOYMENT_ID"
	connectionCheckTimeout  = 5 * time.Second
	previewLength           = 200

	msgNotConfigured = "cloud sync not configured (APPS_SCRIPT_URL missing)"
	msgNotJSON       = "response is not JSON (check script deployment, URL and access)"
)

// AppsScriptClient talks to the spreadsheet-backed sync web app. Every
// failure comes back as a response with status "error".
type AppsScriptClient struct {
	session *http.Client
	url     string
}

func NewAppsScriptClient(endpoint string, client *http.Client) *AppsScriptClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &AppsScriptClient{session: client, url: strings.TrimSpace(endpoint)}
}

// Configured reports whether a real deployment URL is set.
func (c *AppsScriptClient) Configured() bool {
	return c.url != "" && !strings.Contains(c.url, placeholderDeploymentID)
}

func (c *AppsScriptClient) GetAll(ctx context.Context) ports.CloudResponse {
	return c.get(ctx, "getAll")
}

func (c *AppsScriptClient) GetNotes(ctx context.Context) ports.CloudResponse {
	return c.get(ctx, "getNotes")
}

func (c *AppsScriptClient) GetDocument(ctx context.Context) ports.CloudResponse {
	return c.get(ctx, "getDocument")
}

func (c *AppsScriptClient) SaveNote(ctx context.Context, day, note, user string) ports.CloudResponse {
	return c.post(ctx, url.Values{
		"action": {"saveNote"},
		"day":    {day},
		"note":   {note},
		"user":   {user},
	})
}

func (c *AppsScriptClient) SaveDocument(ctx context.Context, paragraphs []string, user string) ports.CloudResponse {
	if paragraphs == nil {
		paragraphs = []string{}
	}
	encoded, err := json.Marshal(paragraphs)
	if err != nil {
		return errorResponse(fmt.Sprintf("encode paragraphs: %v", err))
	}
	return c.post(ctx, url.Values{
		"action":     {"saveDocument"},
		"paragraphs": {string(encoded)},
		"user":       {user},
	})
}

func (c *AppsScriptClient) DeleteNote(ctx context.Context, day string) ports.CloudResponse {
	return c.post(ctx, url.Values{
		"action": {"deleteNote"},
		"day":    {day},
	})
}

// CheckConnection does a full read with a short timeout and requires a
// JSON success reply, so login pages and HTML errors count as offline.
func (c *AppsScriptClient) CheckConnection(ctx context.Context) bool {
	if !c.Configured() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, connectionCheckTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, "getAll", nil)
	if err != nil {
		return false
	}
	resp, err := c.session.Do(req)
	if err != nil {
		logger.Warn("cloud connection failed", map[string]interface{}{"error": err.Error()})
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}
	return readResponse(resp).Success()
}

func (c *AppsScriptClient) get(ctx context.Context, action string) ports.CloudResponse {
	if !c.Configured() {
		return errorResponse(msgNotConfigured)
	}

	req, err := c.newRequest(ctx, http.MethodGet, action, nil)
	if err != nil {
		return errorResponse(err.Error())
	}
	return c.do(req, action)
}

func (c *AppsScriptClient) post(ctx context.Context, form url.Values) ports.CloudResponse {
	if !c.Configured() {
		return errorResponse(msgNotConfigured)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "", strings.NewReader(form.Encode()))
	if err != nil {
		return errorResponse(err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, form.Get("action"))
}

func (c *AppsScriptClient) newRequest(ctx context.Context, method, action string, body io.Reader) (*http.Request, error) {
	target := c.url
	if action != "" {
		u, err := url.Parse(c.url)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		q := u.Query()
		q.Set("action", action)
		u.RawQuery = q.Encode()
		target = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *AppsScriptClient) do(req *http.Request, action string) ports.CloudResponse {
	resp, err := c.session.Do(req)
	if err != nil {
		logger.Warn("cloud request failed", map[string]interface{}{"action": action, "error": err.Error()})
		return errorResponse(err.Error())
	}
	defer resp.Body.Close()

	out := readResponse(resp)
	logger.Debug("cloud request done", map[string]interface{}{"action": action, "status": out.Status})
	return out
}

// readResponse decodes the body, degrading non-JSON payloads to an error
// response that carries the HTTP status and a short preview.
func readResponse(resp *http.Response) ports.CloudResponse {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorResponse(fmt.Sprintf("read body: %v", err))
	}

	var out ports.CloudResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return ports.CloudResponse{
			Status:     "error",
			Message:    msgNotJSON,
			HTTPStatus: resp.StatusCode,
			Preview:    preview(string(body)),
		}
	}
	return out
}

func preview(s string) string {
	if len(s) <= previewLength {
		return s
	}
	s = s[:previewLength]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

func errorResponse(msg string) ports.CloudResponse {
	return ports.CloudResponse{Status: "error", Message: msg}
}
