package acl

import (
	"context"
	"io"
	"net/http"

	"github.com/jsamuelsen/daily-quote/internal/adapters/clients"
	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// BaseAdapter is embedded by adapters that call one remote receiver.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{client: client, serviceName: serviceName}
}

func (a *BaseAdapter) Client() *clients.Client { return a.client }

func (a *BaseAdapter) ServiceName() string { return a.serviceName }

// Post sends body as JSON and returns the response body for the caller to
// close. Failures come back as domain errors naming operation.
func (a *BaseAdapter) Post(ctx context.Context, path string, body []byte, operation string) (io.ReadCloser, error) {
	resp, err := a.client.Do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation)
	}

	return resp.Body, nil
}

// requireField is a ValidationError when value is empty.
func requireField(value, field string) error {
	if value == "" {
		return domain.NewValidationError(field, "is required")
	}

	return nil
}
