package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/followwaypoints/logging"
)

func TestMainWithArgs(t *testing.T) {
	logger := logging.NewTestLogger(t)

	t.Run("missing config", func(t *testing.T) {
		err := mainWithArgs(context.Background(), []string{"follow-waypoints"}, logger)
		test.That(t, err, test.ShouldNotBeNil)

		err = mainWithArgs(context.Background(), []string{"follow-waypoints", filepath.Join(t.TempDir(), "nope.json")}, logger)
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("runs until cancelled", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "follower.json")
		logFile := filepath.Join(t.TempDir(), "follower.log")
		cfg := `{"udp": {"listen_addr": "127.0.0.1:0", "visualization_addr": "127.0.0.1:9"}, ` +
			`"receive_timeout_sec": 0.01, "log_file": "` + logFile + `"}`
		test.That(t, os.WriteFile(path, []byte(cfg), 0o600), test.ShouldBeNil)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		err := mainWithArgs(ctx, []string{"follow-waypoints", "-debug", path}, logging.NewBlankLogger("follow-waypoints"))
		test.That(t, err, test.ShouldBeNil)

		contents, err := os.ReadFile(logFile)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, string(contents), test.ShouldContainSubstring, "connected to navigator")
	})

	t.Run("missing bag", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "follower.json")
		test.That(t, os.WriteFile(path, []byte(`{"udp": {"listen_addr": "127.0.0.1:0"}}`), 0o600), test.ShouldBeNil)
		err := mainWithArgs(context.Background(), []string{"follow-waypoints", "-bag", filepath.Join(t.TempDir(), "none.bag"), path}, logger)
		test.That(t, err, test.ShouldNotBeNil)
	})
}
