package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// makeRequest performs a GET with exponential backoff, decoding the response
// body into target.
func makeRequest(ctx context.Context, client *http.Client, url string, headers map[string]string, target interface{}, logger *logrus.Logger) error {
	const attempts = 3
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		resp, err := client.Do(req)
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode != http.StatusOK:
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		default:
			defer resp.Body.Close()
			return json.NewDecoder(resp.Body).Decode(target)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == attempts-1 {
			break
		}

		waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
		logger.Warnf("Request failed (attempt %d), waiting %v: %v", attempt+1, waitTime, lastErr)
		select {
		case <-time.After(waitTime):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("request failed after retries: %w", lastErr)
}
