package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

// errMalformed marks responses whose shape could not be parsed, so searchErr
// can classify them separately from network failures.
var errMalformed = errors.New("malformed response")

// searchErr classifies err into the provider error taxonomy, keyed by the
// provider's id. Anti-bot statuses (403, 429) count as blocked; everything
// else network-shaped is unavailable.
func searchErr(provider string, err error) error {
	kind := model.ProviderUnavailable
	var httpErr *model.HTTPError
	switch {
	case errors.As(err, &httpErr) &&
		(httpErr.StatusCode == http.StatusForbidden || httpErr.StatusCode == http.StatusTooManyRequests):
		kind = model.ProviderBlocked
	case errors.Is(err, errMalformed):
		kind = model.ProviderParseError
	}
	return &model.ProviderError{Provider: provider, Kind: kind, Err: err}
}

// get issues a GET with the shared User-Agent and converts non-200 statuses
// into *model.HTTPError so retry logic can inspect them. The caller owns the
// response body.
func get(ctx context.Context, client *http.Client, userAgent, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		resp.Body.Close()
		return nil, &model.HTTPError{StatusCode: resp.StatusCode, RetryAfter: retryAfter}
	}
	return resp, nil
}

// getJSON fetches url and decodes the response body into v.
func getJSON(ctx context.Context, client *http.Client, userAgent, url string, v any) error {
	resp, err := get(ctx, client, userAgent, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	return nil
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
