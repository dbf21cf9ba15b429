package turnosapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/pkg/userctx"
)

// HeaderUserID заголовок с ID аутентифицированного пользователя
const HeaderUserID = "X-User-ID"

// Options параметры клиента
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// Retries число повторов чтения при недоступности бэкенда; мутации не повторяются
	Retries int
	Backoff time.Duration
	// RateLimit запросов в секунду, 0 - без ограничения
	RateLimit float64
	RateBurst int
}

// Client клиент удалённого бэкенда турнов
type Client struct {
	baseURL    string
	token      string
	retries    int
	backoff    time.Duration
	limiter    *rate.Limiter
	httpClient *http.Client
	metrics    Metrics
	log        Logger
}

// NewClient создает новый экземпляр клиента бэкенда
func NewClient(opts Options, metrics Metrics, log Logger) *Client {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		retries: opts.Retries,
		backoff: opts.Backoff,
		limiter: limiter,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		metrics: metrics,
		log:     log,
	}
}

// get выполняет чтение с повторами при ErrRemoteUnavailable
func (c *Client) get(ctx context.Context, op, path string, out interface{}) error {
	var err error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<(attempt-1))
			c.log.Warn("turnosapi: %s attempt %d failed, retrying in %s: %v", op, attempt, wait, err)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %s: %v", domain.ErrRemoteUnavailable, op, ctx.Err())
			case <-time.After(wait):
			}
		}

		err = c.do(ctx, op, http.MethodGet, path, nil, out)
		if err == nil || !errors.Is(err, domain.ErrRemoteUnavailable) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

// send выполняет мутацию ровно один раз
func (c *Client) send(ctx context.Context, op, method, path string, body, out interface{}) error {
	return c.do(ctx, op, method, path, body, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	start := time.Now()
	result := "ok"
	defer func() {
		c.metrics.ObserveBackend(op, result, time.Since(start).Seconds())
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			result = "throttled"
			return fmt.Errorf("%w: %s %s: rate limiter: %v", domain.ErrRemoteUnavailable, method, path, err)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			result = "error"
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		result = "error"
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if userID, ok := userctx.UserID(ctx); ok {
		req.Header.Set(HeaderUserID, strconv.FormatInt(userID, 10))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result = "unavailable"
		return fmt.Errorf("%w: %s %s: %v", domain.ErrRemoteUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result = strconv.Itoa(resp.StatusCode)
		return c.statusError(method, path, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		result = "invalid"
		return fmt.Errorf("%w: %w: %s %s: failed to decode response: %v",
			domain.ErrRemoteUnavailable, ErrInvalidResponse, method, path, err)
	}

	return nil
}

// statusError переводит статус ответа бэкенда в доменную ошибку
func (c *Client) statusError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body ErrorResponse
	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		message = body.Message
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s: %s", domain.ErrNotFound, method, path, message)
	case resp.StatusCode == http.StatusConflict && body.Code == codeInvalidTransition:
		return fmt.Errorf("%w: %s", domain.ErrInvalidTransition, message)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrSlotUnavailable, message)
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: backend rejected %s %s: %s", domain.ErrInvalidInput, method, path, message)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: backend denied %s %s: %s", domain.ErrAccessDenied, method, path, message)
	default:
		c.log.Error("turnosapi: unexpected status %d for %s %s: %s", resp.StatusCode, method, path, message)
		return fmt.Errorf("%w: unexpected status code %d: %s", domain.ErrRemoteUnavailable, resp.StatusCode, message)
	}
}

type nopMetrics struct{}

func (nopMetrics) ObserveBackend(string, string, float64) {}
