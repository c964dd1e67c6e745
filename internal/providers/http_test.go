package providers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRequestRetriesThenSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name": "ok"}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	var target struct {
		Name string `json:"name"`
	}
	err := makeRequest(context.Background(), server.Client(), server.URL, nil, &target, logger)
	require.NoError(t, err)
	assert.Equal(t, "ok", target.Name)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// The retry warning names the rejected status rather than a nil error.
	assert.Contains(t, buf.String(), "unexpected status code: 500")
	assert.NotContains(t, buf.String(), "<nil>")
}

func TestMakeRequestReportsStatusAfterRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	var target map[string]string
	err := makeRequest(context.Background(), server.Client(), server.URL, nil, &target, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 503")
	assert.True(t, strings.HasPrefix(err.Error(), "request failed after retries"))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.NotContains(t, buf.String(), "<nil>")
}

func TestMakeRequestHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var target map[string]string
	err := makeRequest(ctx, server.Client(), server.URL, nil, &target, logrus.New())
	assert.ErrorIs(t, err, context.Canceled)
}
