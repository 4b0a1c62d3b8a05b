//go:generate go run go.uber.org/mock/mockgen -source=client.go -destination=../mocks/mock_client.go -package=mocks

// Package api wraps the backend's REST endpoints in stateless request
// functions. One method maps to one endpoint; there is no retry, batching,
// deduplication, or caching, and each call carries its own context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"group-chat/domain"
)

type IChatService interface {
	SignIn(ctx context.Context, email, password string) (AuthResult, error)
	SignUp(ctx context.Context, user domain.User, password string) (AuthResult, error)
	CreateGroup(ctx context.Context, name string, memberIDs []domain.UserID, createdBy, role string) (domain.Group, error)
	ListGroups(ctx context.Context, email string) ([]domain.Group, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListMessages(ctx context.Context, groupID domain.GroupID) ([]domain.Message, error)
	SendMessage(ctx context.Context, groupID domain.GroupID, senderEmail, body string) (domain.Message, error)
}

// AuthResult is what the auth endpoints return: the user, plus a bearer
// token when the backend issues one (optional, older deployments omit it).
type AuthResult struct {
	User  domain.User
	Token string
}

// RemoteError is any non-success response from the backend, carrying the
// optional server-provided detail string.
type RemoteError struct {
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Detail)
}

// TokenSource supplies the current bearer token, or "" when signed out.
type TokenSource func() string

// Client talks JSON over HTTP to the group-chat backend.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	log         *slog.Logger
	tokenSource TokenSource
}

func NewClient(httpClient *http.Client, baseURL string, log *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		log:        log,
	}
}

// WithTokenSource makes the client attach a bearer token to every request
// for which the source returns a non-empty value.
func (c *Client) WithTokenSource(source TokenSource) *Client {
	c.tokenSource = source
	return c
}

// Wire shapes. Request bodies use the backend's camelCase keys, responses
// its snake_case keys; neither leaks outside this package.

type userWire struct {
	ID           int64  `json:"user_id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	MobileNumber string `json:"mobile_number"`
	Role         string `json:"user_role"`
}

type groupWire struct {
	ID        int64   `json:"group_id"`
	Name      string  `json:"group_name"`
	CreatedBy string  `json:"created_by"`
	UserIDs   []int64 `json:"user_ids"`
	Role      string  `json:"user_role"`
}

type messageWire struct {
	ID          int64  `json:"message_id"`
	GroupID     int64  `json:"group_id"`
	SenderEmail string `json:"sender_email"`
	Body        string `json:"message_text"`
	CreatedAt   string `json:"created_at"`
}

type authResponse struct {
	User  userWire `json:"user"`
	Token string   `json:"token,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", nil, body, &resp); err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: toUser(resp.User), Token: resp.Token}, nil
}

func (c *Client) SignUp(ctx context.Context, user domain.User, password string) (AuthResult, error) {
	body := map[string]string{
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"mobileNumber": user.MobileNumber,
		"email":        user.Email,
		"password":     password,
		"userRole":     user.Role,
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", nil, body, &resp); err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: toUser(resp.User), Token: resp.Token}, nil
}

func (c *Client) CreateGroup(ctx context.Context, name string, memberIDs []domain.UserID, createdBy, role string) (domain.Group, error) {
	body := map[string]any{
		"groupName": name,
		"userIds":   lo.Map(memberIDs, func(id domain.UserID, _ int) int64 { return int64(id) }),
		"createdBy": createdBy,
		"userRole":  role,
	}
	var resp groupWire
	if err := c.do(ctx, http.MethodPost, "/api/group/creategroup", nil, body, &resp); err != nil {
		return domain.Group{}, err
	}
	return toGroup(resp), nil
}

func (c *Client) ListGroups(ctx context.Context, email string) ([]domain.Group, error) {
	query := url.Values{"email": []string{email}}
	var resp []groupWire
	if err := c.do(ctx, http.MethodGet, "/api/group/groups", query, nil, &resp); err != nil {
		return nil, err
	}
	return lo.Map(resp, func(g groupWire, _ int) domain.Group { return toGroup(g) }), nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var resp []userWire
	if err := c.do(ctx, http.MethodGet, "/api/user/users", nil, nil, &resp); err != nil {
		return nil, err
	}
	return lo.Map(resp, func(u userWire, _ int) domain.User { return toUser(u) }), nil
}

func (c *Client) ListMessages(ctx context.Context, groupID domain.GroupID) ([]domain.Message, error) {
	var resp []messageWire
	path := fmt.Sprintf("/api/messages/%d", groupID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return lo.Map(resp, func(m messageWire, _ int) domain.Message { return toMessage(m) }), nil
}

func (c *Client) SendMessage(ctx context.Context, groupID domain.GroupID, senderEmail, body string) (domain.Message, error) {
	payload := map[string]any{
		"groupId":     int64(groupID),
		"senderEmail": senderEmail,
		"messageText": body,
	}
	var resp messageWire
	if err := c.do(ctx, http.MethodPost, "/api/messages", nil, payload, &resp); err != nil {
		return domain.Message{}, err
	}
	return toMessage(resp), nil
}

// do issues one request and decodes the response into out (ignored when nil).
// Every call gets a fresh X-Request-Id so client and backend logs correlate.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("building request URL: %w", err)
	}
	if query != nil {
		reqURL.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error(fmt.Sprintf("Request %s %s failed: %v", method, path, err))
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		remote := &RemoteError{Status: resp.StatusCode}
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil {
			remote.Detail = detail.Message
		}
		c.log.Warn(fmt.Sprintf("Request %s %s (id %s) rejected: %v", method, path, requestID, remote))
		return remote
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response of %s %s: %w", method, path, err)
	}
	return nil
}

func toUser(w userWire) domain.User {
	return domain.User{
		ID:           domain.UserID(w.ID),
		Email:        w.Email,
		FirstName:    w.FirstName,
		LastName:     w.LastName,
		MobileNumber: w.MobileNumber,
		Role:         w.Role,
	}
}

func toGroup(w groupWire) domain.Group {
	return domain.Group{
		ID:        domain.GroupID(w.ID),
		Name:      w.Name,
		CreatedBy: w.CreatedBy,
		MemberIDs: lo.Map(w.UserIDs, func(id int64, _ int) domain.UserID { return domain.UserID(id) }),
		Role:      w.Role,
	}
}

func toMessage(w messageWire) domain.Message {
	return domain.Message{
		ID:          domain.MessageID(w.ID),
		GroupID:     domain.GroupID(w.GroupID),
		SenderEmail: w.SenderEmail,
		Body:        w.Body,
		CreatedAt:   w.CreatedAt,
	}
}
