package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

// GoogleMapsProvider is the default Provider implementation: a single
// Google Maps Directions API call, retried with exponential backoff on
// transient transport failures.
//
// Retries are grounded on the example pack's MKuranowski-WarsawGTFS,
// which wires cenkalti/backoff/v4 around exactly this shape of flaky
// upstream HTTP call.
type GoogleMapsProvider struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	MaxRetries uint64
}

// NewGoogleMapsProvider builds a provider with sane defaults: a 10s HTTP
// client timeout and up to 3 retries on transport/5xx failures.
func NewGoogleMapsProvider(apiKey string) *GoogleMapsProvider {
	return &GoogleMapsProvider{
		APIKey:     apiKey,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		MaxRetries: 3,
	}
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
	ErrorMessage string `json:"error_message"`
}

// Route implements Provider.
func (p *GoogleMapsProvider) Route(ctx context.Context, origin, destination string, departAt *time.Time) (int, int, error) {
	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("key", p.APIKey)
	if departAt != nil {
		q.Set("departure_time", strconv.FormatInt(departAt.Unix(), 10))
	}
	reqURL := p.BaseURL + "?" + q.Encode()

	var body directionsResponse

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: build request: %v", ErrProviderError, err))
		}

		resp, err := p.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProviderError, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: upstream status %d", ErrProviderError, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("%w: upstream status %d", ErrProviderError, resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: decode response: %v", ErrProviderError, err))
		}
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.MaxRetries)
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return 0, 0, err
	}

	if body.Status != "OK" || len(body.Routes) == 0 || len(body.Routes[0].Legs) == 0 {
		return 0, 0, fmt.Errorf("%w: status=%s message=%s", ErrNoRoute, body.Status, body.ErrorMessage)
	}

	leg := body.Routes[0].Legs[0]
	return leg.Distance.Value, leg.Duration.Value, nil
}
