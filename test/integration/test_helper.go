package integration

import (
	"os"
	"testing"
)

// BaseURL points the integration tests at a running API instance.
var BaseURL = "http://localhost:8080"

func TestMain(m *testing.M) {
	if url := os.Getenv("API_BASE_URL"); url != "" {
		BaseURL = url
	}
	os.Exit(m.Run())
}

// requireServer skips the test unless an API instance was configured.
func requireServer(t *testing.T) {
	t.Helper()
	if os.Getenv("API_BASE_URL") == "" {
		t.Skip("API_BASE_URL not set, skipping integration test")
	}
}
