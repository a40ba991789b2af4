package profileservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с ProfileService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента ProfileService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProfile получает профиль коучингового центра по ID
func (c *Client) GetProfile(ctx context.Context, profileID int64) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/internal/profiles/%d", c.baseURL, profileID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrProfileNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &profile, nil
}

// GetProfilesByCity получает все профили коучинговых центров в указанном городе
// Используется для фильтрации публичного каталога демо-сессий по городу
func (c *Client) GetProfilesByCity(ctx context.Context, city string) ([]Profile, error) {
	endpoint := fmt.Sprintf("%s/internal/profiles?city=%s", c.baseURL, url.QueryEscape(city))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var payload struct {
		Profiles []Profile `json:"profiles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return payload.Profiles, nil
}

// GetProfileWithGracefulDegradation получает профиль с graceful degradation
// При недоступности ProfileService возвращает ErrServiceDegraded, что позволяет
// каталогу отдавать сессии без названия организации вместо полного отказа
func (c *Client) GetProfileWithGracefulDegradation(ctx context.Context, profileID int64) (*Profile, error) {
	profile, err := c.GetProfile(ctx, profileID)
	if err != nil {
		// Критичная бизнес-ошибка пробрасывается как есть
		if err == ErrProfileNotFound {
			c.log.Warn("Profile id=%d not found", profileID)
			return nil, err
		}

		// Для остальных ошибок (недоступность, timeout, ошибки парсинга)
		// применяем graceful degradation
		c.log.Error("ProfileService unavailable, applying graceful degradation for profile_id=%d: %v", profileID, err)
		return nil, fmt.Errorf("%w: profile_id=%d, error=%v", ErrServiceDegraded, profileID, err)
	}

	return profile, nil
}
