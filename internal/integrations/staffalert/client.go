package staffalert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент webhook-а оповещения персонала
type Client struct {
	url        string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента. Пустой url отключает оповещения
func NewClient(url string, timeout time.Duration, log Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Enabled true, если адрес оповещений задан
func (c *Client) Enabled() bool {
	return c.url != ""
}

// Notify отправляет уведомление о переводе звонка
func (c *Client) Notify(ctx context.Context, alert Alert) error {
	if !c.Enabled() {
		c.log.Info("Staff alert skipped (no url configured): call_id=%s, reason=%q", alert.CallID, alert.Reason)
		return nil
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal alert: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	c.log.Info("Staff alert sent: call_id=%s, reason=%q", alert.CallID, alert.Reason)
	return nil
}
