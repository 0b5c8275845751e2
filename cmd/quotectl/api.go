package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/daily-quote/internal/adapters/clients"
	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-quote/internal/platform/config"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

const apiPrefix = "/api/v1"

// apiError is a non-2xx response from the service.
type apiError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	for k, v := range e.Details {
		msg += fmt.Sprintf("\n  %s: %s", k, v)
	}

	return msg
}

// apiClient issues requests against the service API.
type apiClient struct {
	client *clients.Client
}

func newAPIClient(opts *globalOptions) (*apiClient, error) {
	logger := slog.New(slog.DiscardHandler)
	if opts.verbose {
		logger = logging.NewWithWriter(&logging.Config{Level: "debug", Format: "pretty"}, os.Stderr)
	}

	client, err := clients.New(&clients.Config{
		BaseURL:     opts.server,
		ServiceName: "daily-quote",
		ClientConfig: config.ClientConfig{
			Timeout: opts.timeout,
			Retry: config.RetryConfig{
				MaxAttempts:     1,
				InitialInterval: config.DefaultClientRetryInitialInterval,
				MaxInterval:     config.DefaultClientRetryMaxInterval,
				Multiplier:      config.DefaultClientRetryMultiplier,
			},
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxFailures:   config.DefaultClientCircuitMaxFailures,
				Timeout:       config.DefaultClientCircuitTimeout,
				HalfOpenLimit: config.DefaultClientCircuitHalfOpenLimit,
			},
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return &apiClient{client: client}, nil
}

// call sends body (JSON encoded unless nil) and decodes a successful
// response into out when out is non-nil.
func (a *apiClient) call(ctx context.Context, method, path string, body, out any) error {
	var raw []byte

	if body != nil {
		var err error

		raw, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	resp, err := a.client.Do(ctx, method, apiPrefix+path, raw)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func decodeError(resp *http.Response) error {
	var errResp dto.ErrorResponse

	err := json.NewDecoder(resp.Body).Decode(&errResp)
	if err != nil || errResp.Error.Code == "" {
		return &apiError{Status: resp.StatusCode, Code: "HTTP_ERROR", Message: resp.Status}
	}

	return &apiError{
		Status:  resp.StatusCode,
		Code:    errResp.Error.Code,
		Message: errResp.Error.Message,
		Details: errResp.Error.Details,
	}
}

// isNotFound reports whether err is a 404 from the service.
func isNotFound(err error) bool {
	var apiErr *apiError

	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// printJSON writes v indented to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
