// Package reporting forwards unexpected server errors to Sentry.
// Every function is a no-op until Init succeeds with a DSN.
package reporting

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Belphemur/SuperCaptions/internal/config"
)

// Init configures the Sentry client. An empty DSN leaves reporting disabled.
func Init(cfg *config.Config, release string) (bool, error) {
	if cfg.Sentry.DSN == "" {
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		Release:          release,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, err
	}

	logger := config.GetLogger()
	logger.Info().Str("environment", cfg.Sentry.Environment).Msg("Sentry error reporting enabled")
	return true, nil
}

// CaptureError reports err with the given tags attached to its scope.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}

// Flush waits up to timeout for buffered events to be sent.
func Flush(timeout time.Duration) bool {
	if sentry.CurrentHub().Client() == nil {
		return true
	}
	return sentry.Flush(timeout)
}
