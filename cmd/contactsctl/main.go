// Command contactsctl is the operator tool for the contacts database and
// session tokens.
package main

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ericfisherdev/contacts/internal/config"
)

func main() {
	logger := newLogger(os.Stderr)

	envFile := os.Getenv("CONTACTS_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := config.LoadEnvFile(envFile); err != nil {
		logger.Fatal("failed to load env file", "path", envFile, "err", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger, Output: os.Stdout})
	if err := runner.app().Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("contactsctl: %v", err)
	}
}

// newLogger creates a charm logger with timestamps, writing to w.
func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{ReportTimestamp: true, Prefix: "contactsctl"})
}
