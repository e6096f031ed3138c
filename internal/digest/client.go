package digest

import (
	"context"
	"deadlineMate/internal/handlers/dto"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client читает баннер и дашборд из API DeadlineMate
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Notifications(ctx context.Context) (dto.NotificationsResponse, error) {
	var out dto.NotificationsResponse
	err := c.get(ctx, "/notifications", &out)
	return out, err
}

func (c *Client) Dashboard(ctx context.Context) (dto.DashboardResponse, error) {
	var out dto.DashboardResponse
	err := c.get(ctx, "/dashboard", &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("запрос %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("запрос %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("запрос %s: статус %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("разбор ответа %s: %w", path, err)
	}
	return nil
}
