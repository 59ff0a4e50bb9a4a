package metric

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port
}

func TestNewServer_Defaults(t *testing.T) {
	server := NewServer(0, "", NewRegistry())

	assert.Equal(t, "http://localhost:9282/metrics", server.Address())
}

func TestServer_StopBeforeStart(t *testing.T) {
	server := NewServer(9282, "/metrics", NewRegistry())

	// Idempotent release: stopping an unstarted server must not fail
	assert.NoError(t, server.Stop())
	assert.NoError(t, server.Stop())
}

func TestServer_StartWithoutRegistry(t *testing.T) {
	server := NewServer(9282, "/metrics", nil)

	err := server.Start()
	require.Error(t, err)
}

func TestServer_ServesScrapeEndpoint(t *testing.T) {
	registry := NewRegistry()
	counter := NewCounter("scrape_total", "Scrape test counter")
	require.NoError(t, registry.RegisterCounter(counter))
	counter.Add(5)

	port := freePort(t)
	server := NewServer(port, "/metrics", registry)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	t.Cleanup(func() { _ = server.Stop() })

	// Wait for the listener to come up
	url := fmt.Sprintf("http://127.0.0.1:%d/metrics", port)
	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "scrape_total 5")

	// Health endpoint responds alongside the scrape path
	health, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
	require.NoError(t, err)
	defer func() { _ = health.Body.Close() }()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	require.NoError(t, server.Stop())
	assert.ErrorIs(t, <-errCh, http.ErrServerClosed)
}
