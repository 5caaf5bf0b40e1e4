// ABOUTME: HTTP client for the SuperNote cloud file API.
// ABOUTME: Covers login, folder listing, upload, and delete with an explicit session handle.
package supernote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIURL is the default SuperNote cloud API endpoint.
const DefaultAPIURL = "https://cloud.supernote.com/api"

var (
	// ErrAuthFailed means the login credentials were rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrAuthExpired means the session token is no longer accepted.
	ErrAuthExpired = errors.New("session expired")

	// ErrQuotaExceeded means the cloud account is out of storage.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Client talks to the SuperNote cloud API. It holds no credentials;
// authenticated calls go through a Session obtained from Login.
type Client struct {
	apiURL string
	client *http.Client
}

// NewClient creates a SuperNote client for the given API base URL.
func NewClient(apiURL string) *Client {
	apiURL = strings.TrimRight(apiURL, "/")
	return &Client{
		apiURL: apiURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Session is an authenticated handle to the cloud account. It is passed
// explicitly to everything that needs the account, so tests can substitute a
// session pointed at a fake server.
type Session struct {
	client *Client
	token  string
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	ErrorMsg string `json:"errorMsg"`
}

// Login authenticates with the cloud and returns a session on success.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL+"/official/user/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: server returned %d", ErrAuthFailed, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("login returned %d: %s", resp.StatusCode, string(respBody))
	}

	var loginResp loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	if !loginResp.Success || loginResp.Token == "" {
		return nil, fmt.Errorf("%w: %s", ErrAuthFailed, loginResp.ErrorMsg)
	}

	return &Session{client: c, token: loginResp.Token}, nil
}

// File is one entry in a cloud directory listing.
type File struct {
	ID         string `json:"id"`
	Name       string `json:"fileName"`
	Size       int64  `json:"size"`
	IsFolder   bool   `json:"isFolder"`
	UpdateTime int64  `json:"updateTime"` // unix milliseconds
}

// ModTime returns the file's reported modification time.
func (f File) ModTime() time.Time {
	return time.UnixMilli(f.UpdateTime)
}

type listResponse struct {
	Success  bool   `json:"success"`
	ErrorMsg string `json:"errorMsg"`
	Files    []File `json:"fileList"`
}

// List returns the entries of a cloud directory. A missing directory is an
// error distinct from an empty one.
func (s *Session) List(ctx context.Context, dir string) ([]File, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.client.apiURL+"/file/list", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	s.setAuth(req)

	q := req.URL.Query()
	q.Set("path", dir)
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var listResp listResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}
	if !listResp.Success {
		return nil, fmt.Errorf("list failed: %s", listResp.ErrorMsg)
	}
	return listResp.Files, nil
}

type mkdirRequest struct {
	Path string `json:"path"`
}

// Mkdir creates a cloud directory. Creating a directory that already exists
// is not an error.
func (s *Session) Mkdir(ctx context.Context, dir string) error {
	body, err := json.Marshal(mkdirRequest{Path: dir})
	if err != nil {
		return fmt.Errorf("failed to marshal mkdir request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.client.apiURL+"/file/folder", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	s.setAuth(req)

	resp, err := s.client.client.Do(req)
	if err != nil {
		return fmt.Errorf("mkdir request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusConflict {
		return nil
	}
	return checkResponse(resp)
}

// Upload stores a file in the given cloud directory. Auth expiry and quota
// exhaustion surface as distinct errors so the caller can report them apart
// from plain network failures.
func (s *Session) Upload(ctx context.Context, dir, filename string, data []byte) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("path", dir); err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.client.apiURL+"/file/upload", &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	s.setAuth(req)

	resp, err := s.client.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return checkResponse(resp)
}

type deleteRequest struct {
	Path string `json:"path"`
}

// Delete removes a file from the cloud by full path.
func (s *Session) Delete(ctx context.Context, path string) error {
	body, err := json.Marshal(deleteRequest{Path: path})
	if err != nil {
		return fmt.Errorf("failed to marshal delete request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.client.apiURL+"/file/delete", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	s.setAuth(req)

	resp, err := s.client.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return checkResponse(resp)
}

func (s *Session) setAuth(req *http.Request) {
	req.Header.Set("x-access-token", s.token)
}

type apiResponse struct {
	Success  bool   `json:"success"`
	ErrorMsg string `json:"errorMsg"`
}

// checkResponse maps HTTP error statuses and then verifies the JSON envelope.
// A 200 carrying success=false is still a failure; an operation is never
// treated as done on status alone.
func checkResponse(resp *http.Response) error {
	if err := checkStatus(resp); err != nil {
		return err
	}
	var env apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("cloud API refused the request: %s", env.ErrorMsg)
	}
	return nil
}

// checkStatus maps HTTP error statuses onto the typed error taxonomy.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuthExpired
	case resp.StatusCode == http.StatusInsufficientStorage:
		return ErrQuotaExceeded
	case resp.StatusCode >= 400:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("cloud API returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// JoinPath joins cloud path segments with forward slashes regardless of OS.
func JoinPath(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, "/")
}
