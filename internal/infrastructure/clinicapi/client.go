// Package clinicapi is the resty-based client of the clinic REST API.
package clinicapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/ayursutra/clinic/internal/core/domain"
	"github.com/ayursutra/clinic/internal/core/ports"
	"github.com/ayursutra/clinic/internal/pkg/metrics"
)

const (
	defaultTimeout = 10 * time.Second

	collectionPatients      = "patients"
	collectionTherapies     = "therapies"
	collectionNotifications = "notifications"
	actionSendEmail         = "send-email"
)

// TransportError is a failed exchange with the clinic API: either the request
// never completed (Err set) or the server answered with a non-2xx status.
type TransportError struct {
	Method     string
	Path       string
	Status     int
	StatusText string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return "API error: " + e.StatusText
	}
	if e.Err != nil {
		return "API error: " + e.Err.Error()
	}
	return "API error"
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrTransport}
	}
	return []error{domain.ErrTransport, e.Err}
}

// Client implements ports.ClinicAPI. Requests are never retried.
type Client struct {
	http *resty.Client
	log  zerolog.Logger

	patients      *collection[domain.Patient]
	therapies     *collection[domain.Therapy]
	notifications *collection[domain.Notification]
}

// New builds a client rooted at baseURL, e.g. http://localhost:5000/api.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	c := &Client{http: httpClient, log: log}
	c.patients = &collection[domain.Patient]{client: c, name: collectionPatients}
	c.therapies = &collection[domain.Therapy]{client: c, name: collectionTherapies}
	c.notifications = &collection[domain.Notification]{client: c, name: collectionNotifications}
	return c
}

var _ ports.ClinicAPI = (*Client)(nil)

func (c *Client) Patients() ports.Collection[domain.Patient]           { return c.patients }
func (c *Client) Therapies() ports.Collection[domain.Therapy]          { return c.therapies }
func (c *Client) Notifications() ports.Collection[domain.Notification] { return c.notifications }

// SendEmail posts to the send-email action. A {success:false} body is
// returned as-is; only transport failures produce an error.
func (c *Client) SendEmail(ctx context.Context, email domain.Email) (domain.Result, error) {
	var res domain.Result
	if err := c.do(ctx, actionSendEmail, http.MethodPost, "/"+actionSendEmail, email, &res); err != nil {
		return domain.Result{}, err
	}
	return res, nil
}

// Ping reports whether the API answers a therapy listing.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, collectionTherapies, http.MethodGet, "/"+collectionTherapies, nil, nil)
}

func (c *Client) do(ctx context.Context, coll, method, path string, body, out any) error {
	start := time.Now()
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	metrics.ClinicAPIRequestDuration.WithLabelValues(coll, method).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ClinicAPIRequestsTotal.WithLabelValues(coll, method, "transport_error").Inc()
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("clinic api unreachable")
		return &TransportError{Method: method, Path: path, Err: err}
	}

	if !resp.IsSuccess() {
		metrics.ClinicAPIRequestsTotal.WithLabelValues(coll, method, "transport_error").Inc()
		c.log.Warn().
			Int("status_code", resp.StatusCode()).
			Str("method", method).
			Str("path", path).
			Msg("clinic api returned error status")
		return &TransportError{
			Method:     method,
			Path:       path,
			Status:     resp.StatusCode(),
			StatusText: http.StatusText(resp.StatusCode()),
		}
	}

	metrics.ClinicAPIRequestsTotal.WithLabelValues(coll, method, "ok").Inc()
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// IsTransport reports whether err came from a failed exchange.
func IsTransport(err error) bool {
	return errors.Is(err, domain.ErrTransport)
}

type collection[T any] struct {
	client *Client
	name   string
}

func (c *collection[T]) path(id string) string {
	if id == "" {
		return "/" + c.name
	}
	return "/" + c.name + "/" + id
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := c.client.do(ctx, c.name, http.MethodGet, c.path(""), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (c *collection[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := c.client.do(ctx, c.name, http.MethodGet, c.path(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *collection[T]) Create(ctx context.Context, fields any) (*T, error) {
	var raw json.RawMessage
	if err := c.client.do(ctx, c.name, http.MethodPost, c.path(""), fields, &raw); err != nil {
		return nil, err
	}
	return decodeRecord[T](raw)
}

func (c *collection[T]) Update(ctx context.Context, id string, fields any) (*T, error) {
	var raw json.RawMessage
	if err := c.client.do(ctx, c.name, http.MethodPut, c.path(id), fields, &raw); err != nil {
		return nil, err
	}
	return decodeRecord[T](raw)
}

// decodeRecord accepts either the record itself or a {success:false} wrapper.
func decodeRecord[T any](raw json.RawMessage) (*T, error) {
	var wrapper struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Success != nil && !*wrapper.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrRejected, wrapper.Error)
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode record: %v", domain.ErrTransport, err)
	}
	return &out, nil
}

func (c *collection[T]) Delete(ctx context.Context, id string) (domain.Result, error) {
	var res domain.Result
	if err := c.client.do(ctx, c.name, http.MethodDelete, c.path(id), nil, &res); err != nil {
		return domain.Result{}, err
	}
	return res, nil
}
