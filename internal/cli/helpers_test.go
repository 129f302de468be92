package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"migwatch/internal/testutil"
)

// writeWatchConfig writes a config pointing at url with short poll intervals.
func writeWatchConfig(t *testing.T, url string) string {
	t.Helper()
	body := "version: 1\n" +
		"endpoint:\n  url: " + url + "\n  timeout_ms: 1000\n" +
		"poll:\n  fast_ms: 20\n  slow_ms: 40\n" +
		"view:\n  ui: plain\n  no_color: true\n"
	path := filepath.Join(t.TempDir(), ".migwatch.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// chdir switches the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func runWithTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	ctx := testutil.Context(t, timeout)
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-ctx.Done():
		t.Fatalf("test timed out")
	case <-done:
	}
}
