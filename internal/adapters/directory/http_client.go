package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
	"github.com/nutrisnap/backend/internal/domain/providers"
)

// HTTPClient lists users from the directory service's REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a user directory client.
func NewHTTPClient(baseURL string) providers.UserDirectory {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type listUsersResponse struct {
	Users         []entities.User `json:"users"`
	NextPageToken string          `json:"next_page_token"`
}

// ListUsers pages through the directory and returns every account.
func (c *HTTPClient) ListUsers(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	pageToken := ""

	for {
		endpoint := fmt.Sprintf("%s/v1/users", c.baseURL)
		if pageToken != "" {
			endpoint = fmt.Sprintf("%s?page_token=%s", endpoint, url.QueryEscape(pageToken))
		}

		page := &listUsersResponse{}
		if err := c.doJSON(ctx, http.MethodGet, endpoint, page); err != nil {
			return nil, err
		}

		users = append(users, page.Users...)
		if page.NextPageToken == "" {
			return users, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("user directory returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}

	return nil
}
