package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/plankhq/plank/internal/api"
)

func TestVersionCommand(t *testing.T) {
	oldStdout := os.Stdout
	defer func() { os.Stdout = oldStdout }()

	t.Run("plain text version output", func(t *testing.T) {
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatalf("Failed to create pipe: %v", err)
		}
		os.Stdout = w
		jsonOutput = false

		versionCmd.Run(versionCmd, []string{})

		w.Close()
		var buf bytes.Buffer
		buf.ReadFrom(r)
		output := buf.String()

		if !strings.Contains(output, "plank version") {
			t.Errorf("Expected output to contain 'plank version', got: %s", output)
		}
		if !strings.Contains(output, api.ClientVersion) {
			t.Errorf("Expected output to contain version %s, got: %s", api.ClientVersion, output)
		}
	})

	t.Run("json version output", func(t *testing.T) {
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatalf("Failed to create pipe: %v", err)
		}
		os.Stdout = w
		jsonOutput = true
		defer func() { jsonOutput = false }()

		versionCmd.Run(versionCmd, []string{})

		w.Close()
		var buf bytes.Buffer
		buf.ReadFrom(r)

		var parsed map[string]string
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("Expected valid JSON, got error: %v", err)
		}
		if parsed["version"] != api.ClientVersion {
			t.Errorf("Expected version %s, got %s", api.ClientVersion, parsed["version"])
		}
		if parsed["build"] == "" {
			t.Error("Expected build to be set")
		}
	})
}
