// Пакет telegram реализует минимальный клиент Telegram Bot API:
// проверку токена (getMe) и отправку сообщений (sendMessage)
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL — адрес Telegram Bot API
const DefaultBaseURL = "https://api.telegram.org"

// Таймауты внешних вызовов: превышение считается ошибкой
const (
	sendTimeout   = 10 * time.Second
	verifyTimeout = 5 * time.Second
)

// ParseMode — режим разметки исходящих сообщений
const ParseMode = "HTML"

// Client выполняет HTTPS-запросы к Telegram Bot API
// BaseURL переопределяется в тестах на локальный httptest-сервер
type Client struct {
	baseURL      string
	sendClient   *http.Client
	verifyClient *http.Client
}

// NewClient создает клиент с боевым адресом API
func NewClient() *Client {
	return NewClientWithBaseURL(DefaultBaseURL)
}

// NewClientWithBaseURL создает клиент с заданным адресом API
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL:      baseURL,
		sendClient:   &http.Client{Timeout: sendTimeout},
		verifyClient: &http.Client{Timeout: verifyTimeout},
	}
}

// apiResponse — общий конверт ответа Telegram Bot API
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// VerifyToken проверяет токен вызовом getMe.
// Сетевая ошибка, таймаут и отказ провайдера одинаково означают негодный токен.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	url := fmt.Sprintf("%s/bot%s/getMe", c.baseURL, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build getMe request: %w", err)
	}
	resp, err := c.verifyClient.Do(req)
	if err != nil {
		return fmt.Errorf("getMe request failed: %w", err)
	}
	defer resp.Body.Close()
	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode getMe response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !body.OK {
		return fmt.Errorf("telegram rejected token: %s", body.Description)
	}
	return nil
}

// SendMessage отправляет сообщение text в чат chatID с разметкой HTML
func (c *Client) SendMessage(ctx context.Context, token, chatID, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, token)
	payload, err := json.Marshal(map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": ParseMode,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sendMessage payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.sendClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendMessage request failed: %w", err)
	}
	defer resp.Body.Close()
	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode sendMessage response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !body.OK {
		return fmt.Errorf("telegram rejected message: %s", body.Description)
	}
	return nil
}
