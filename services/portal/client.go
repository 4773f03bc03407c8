package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"tenderdesk/models"
)

const requestTimeout = 30 * time.Second

// Client talks to the procurement portal's REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a portal API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithHTTP creates a client with a caller-supplied http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// LoginResponse is the body returned by POST /auth/login.
type LoginResponse struct {
	Token     string      `json:"token"`
	UserID    int64       `json:"user_id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
}

// User converts the flat login payload into a models.User.
func (r LoginResponse) User() *models.User {
	return &models.User{
		ID:        r.UserID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      r.Role,
	}
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"first_name,omitempty"`
	LastName  string      `json:"last_name,omitempty"`
	Role      models.Role `json:"role,omitempty"`
}

// registerResponse is the body returned by POST /auth/register.
type registerResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ProfileUpdate is the body for PATCH /auth/profile. Nil fields are left
// unchanged by the backend.
type ProfileUpdate struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// changePasswordResponse is the body returned by POST /auth/change-password.
// The backend may rotate the bearer token on password change.
type changePasswordResponse struct {
	Token string `json:"token,omitempty"`
}

// setHeaders adds the headers every portal request carries.
func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// Login authenticates with username/password and returns the bearer token
// and resolved user. Backend rejections come back as *APIError carrying the
// backend's own message.
func (c *Client) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	payload := map[string]string{
		"username": username,
		"password": password,
	}
	var resp LoginResponse
	if err := c.postJSON(ctx, "/auth/login", "", payload, &resp); err != nil {
		return "", nil, err
	}
	return resp.Token, resp.User(), nil
}

// Logout asks the backend to invalidate the bearer token.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.postJSON(ctx, "/auth/logout", token, nil, nil)
}

// Register creates a new portal account and returns the issued token and user.
func (c *Client) Register(ctx context.Context, reg RegisterRequest) (string, *models.User, error) {
	var resp registerResponse
	if err := c.postJSON(ctx, "/auth/register", "", reg, &resp); err != nil {
		return "", nil, err
	}
	return resp.Token, resp.User, nil
}

// Profile fetches the current user. This doubles as the session liveness probe.
func (c *Client) Profile(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile patches the current user's profile and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPatch, "/auth/profile", token, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword changes the current user's password. The returned token is
// non-empty when the backend rotated the bearer credential.
func (c *Client) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) (string, error) {
	payload := map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	}
	var resp changePasswordResponse
	if err := c.postJSON(ctx, "/auth/change-password", token, payload, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// SecureDownloadLink requests a fresh short-lived signed URL for one document.
// An HTML body comes back as *HTMLResponseError, a bad status as *APIError,
// and a JSON body without download_url as ErrMissingDownloadURL.
func (c *Client) SecureDownloadLink(ctx context.Context, token string, docType models.DocumentType, id int64) (models.DownloadLink, error) {
	path := fmt.Sprintf("/%ss/%d/secure-download-link/", docType, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return models.DownloadLink{}, fmt.Errorf("build link request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.DownloadLink{}, fmt.Errorf("link request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.DownloadLink{}, fmt.Errorf("read link response: %w", err)
	}

	// HTML detection runs before the status check: auth middlewares serve
	// login pages with a 200.
	if isHTML(resp.Header.Get("Content-Type"), body) {
		return models.DownloadLink{}, &HTMLResponseError{PageTitle: pageTitle(body)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.DownloadLink{}, &APIError{StatusCode: resp.StatusCode, Message: apiMessage(body)}
	}

	var link models.DownloadLink
	if err := json.Unmarshal(body, &link); err != nil {
		return models.DownloadLink{}, fmt.Errorf("decode link response: %w", err)
	}
	if link.URL == "" {
		return models.DownloadLink{}, ErrMissingDownloadURL
	}

	return link, nil
}

// ListTenders fetches the tender list as the current user.
func (c *Client) ListTenders(ctx context.Context, token string) ([]models.Tender, error) {
	return list[models.Tender](c, ctx, "/tenders/", token)
}

// ListOffers fetches the current user's offers.
func (c *Client) ListOffers(ctx context.Context, token string) ([]models.Offer, error) {
	return list[models.Offer](c, ctx, "/offers/", token)
}

// ListNotifications fetches the current user's notifications.
func (c *Client) ListNotifications(ctx context.Context, token string) ([]models.Notification, error) {
	return list[models.Notification](c, ctx, "/notifications/", token)
}

// MarkAllNotificationsRead flags every notification as read on the backend.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, token string) error {
	return c.postJSON(ctx, "/notifications/mark-all-read/", token, nil, nil)
}

// list fetches path and decodes whichever list envelope the backend used.
func list[T any](c *Client, ctx context.Context, path, token string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("portal request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if isHTML(resp.Header.Get("Content-Type"), body) {
		return nil, &HTMLResponseError{PageTitle: pageTitle(body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: apiMessage(body)}
	}

	return decodeList[T](body)
}

// postJSON sends a POST with an optional JSON payload and decodes the
// response into out when out is non-nil.
func (c *Client) postJSON(ctx context.Context, path, token string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, token, payload, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, payload, out any) error {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("portal request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if isHTML(resp.Header.Get("Content-Type"), body) {
		return &HTMLResponseError{PageTitle: pageTitle(body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: apiMessage(body)}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// isHTML reports whether a response is an HTML page rather than JSON, by
// content-type header first and body sniffing second.
func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	if len(body) == 0 {
		return false
	}
	return mimetype.Detect(body).Is("text/html")
}

// pageTitle extracts the <title> of an HTML page for error messages.
func pageTitle(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(string(tokenizer.Text()))
				}
				return ""
			}
		}
	}
}

// apiMessage pulls the human-readable message out of an error body. The
// backend has used several field names over time.
func apiMessage(body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, msg := range []string{envelope.Error, envelope.Detail, envelope.Message} {
			if msg != "" {
				return msg
			}
		}
	}
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return trimmed
}
