//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	RootURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       string
	BeerPath     string
	Verbose      bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		RootURL:      os.Getenv("BEER_ROOT_URL"),
		TokenURL:     os.Getenv("BEER_TOKEN_URL"),
		ClientID:     os.Getenv("BEER_CLIENT_ID"),
		ClientSecret: os.Getenv("BEER_CLIENT_SECRET"),
		Scopes:       os.Getenv("BEER_SCOPES"),
		BeerPath:     getBeerPath(),
		Verbose:      os.Getenv("BEER_VERBOSE") == "true",
	}
}

// getBeerPath determines the path to the beer binary
func getBeerPath() string {
	if path := os.Getenv("BEER_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../beer",
		"./beer",
		"../beer",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "beer" // Fallback to PATH
}

// SkipIfMissingConfig skips the test unless a server and credentials are configured
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.RootURL == "" || config.TokenURL == "" {
		t.Skip("BEER_ROOT_URL or BEER_TOKEN_URL not set, skipping integration test")
	}

	if config.ClientID == "" || config.ClientSecret == "" {
		t.Skip("BEER_CLIENT_ID or BEER_CLIENT_SECRET not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips the test when the beer binary cannot be found
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.BeerPath); err != nil {
		t.Skipf("beer binary not found at %s, skipping integration test", config.BeerPath)
	}
}

// CommandRunner provides utilities for running beer commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a beer command with the test credentials and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.BeerPath, args...)
	cmd.Env = append(os.Environ(),
		"BEER_ROOT_URL="+runner.config.RootURL,
		"BEER_TOKEN_URL="+runner.config.TokenURL,
		"BEER_CLIENT_ID="+runner.config.ClientID,
		"BEER_CLIENT_SECRET="+runner.config.ClientSecret,
		"BEER_SCOPES="+runner.config.Scopes,
	)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BeerPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunJSON executes a beer command with JSON output and decodes it into v
func (runner *CommandRunner) RunJSON(v interface{}, args ...string) error {
	stdout, stderr, err := runner.Run(append(args, "--output", "json")...)
	if err != nil {
		return fmt.Errorf("%w: %s", err, stderr)
	}

	return json.Unmarshal([]byte(stdout), v)
}

// CleanupBeer attempts to delete a test beer
func (runner *CommandRunner) CleanupBeer(id string) {
	stdout, stderr, err := runner.Run("delete", id)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for beer %s: %s\nStderr: %s", id, stdout, stderr)
	}
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	if !json.Valid([]byte(strings.TrimSpace(output))) {
		t.Errorf("Output is not valid JSON: %s", output)
	}
}
