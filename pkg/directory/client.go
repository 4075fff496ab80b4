// Package directory fetches the public user directory used to seed the
// record store at startup.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultEndpoint = "https://jsonplaceholder.typicode.com/users"

var (
	// ErrNetwork covers transport failures, timeouts and non-2xx replies.
	ErrNetwork = errors.New("directory unreachable")

	// ErrMalformedResponse is returned when the body is not a list of users.
	ErrMalformedResponse = errors.New("directory response malformed")
)

// ImportedUser is one element of the directory payload. Unknown fields are
// ignored.
type ImportedUser struct {
	Id      int      `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Company *Company `json:"company,omitempty"`
}

type Company struct {
	Name string `json:"name"`
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetch issues a single GET against the directory. It never retries.
func (c *Client) Fetch(ctx context.Context) ([]ImportedUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}

	return decode(body)
}

type rawUser struct {
	Id      int      `json:"id"`
	Name    *string  `json:"name"`
	Email   string   `json:"email"`
	Company *Company `json:"company"`
}

func decode(body []byte) ([]ImportedUser, error) {
	var raw []rawUser
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedResponse)
	}

	users := make([]ImportedUser, 0, len(raw))
	for i, r := range raw {
		if r.Name == nil {
			return nil, fmt.Errorf("%w: element %d has no name", ErrMalformedResponse, i)
		}
		users = append(users, ImportedUser{
			Id:      r.Id,
			Name:    *r.Name,
			Email:   r.Email,
			Company: r.Company,
		})
	}
	return users, nil
}
