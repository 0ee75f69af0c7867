package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/match-scoreboard/internal/config"
	"github.com/riskibarqy/match-scoreboard/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// InitUptrace configures global OpenTelemetry providers for Uptrace and, when
// UPTRACE_LOGS_ENABLED is set, mirrors info-and-above logs into it.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if reason := uptraceDisabledReason(cfg); reason != "" {
		logging.SetMirror(nil)
		logger.Info("uptrace disabled", "reason", reason)
		return func(context.Context) error { return nil }, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(scoreboardResource(cfg)...),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)
	if cfg.UptraceLogsEnabled {
		logging.SetMirror(newUptraceLogMirror(cfg.ServiceVersion, cfg.LogLevel))
	} else {
		logging.SetMirror(nil)
	}

	logger.Info("uptrace enabled",
		"environment", cfg.AppEnv,
		"logs_enabled", cfg.UptraceLogsEnabled,
	)

	return func(ctx context.Context) error {
		logging.SetMirror(nil)
		return uptrace.Shutdown(ctx)
	}, nil
}

func uptraceDisabledReason(cfg config.Config) string {
	switch {
	case !cfg.UptraceEnabled:
		return "UPTRACE_ENABLED=false"
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		return "UPTRACE_DSN empty"
	default:
		return ""
	}
}

// scoreboardResource tags every span and log with the match it belongs to, so
// two scoreboards reporting to one project stay apart.
func scoreboardResource(cfg config.Config) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(cfg.Teams)+1)
	attrs = append(attrs, attribute.String("scoreboard.storage_driver", cfg.StorageDriver))
	for _, item := range cfg.Teams {
		attrs = append(attrs, attribute.String("scoreboard."+string(item.Slot)+".name", item.Name))
	}
	return attrs
}
