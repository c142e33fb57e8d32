package config

import (
	"os"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	EnableBallotEligibilityGate bool
	EnableStatusWriteThrough    bool
	EnableTallyPublication      bool
	EnableExpenseApprovalEvents bool
	EnableOutboxRelay           bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "amicale"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		EnableBallotEligibilityGate: envBool("ENABLE_BALLOT_ELIGIBILITY_GATE", true),
		EnableStatusWriteThrough:    envBool("ENABLE_STATUS_WRITE_THROUGH", true),
		EnableTallyPublication:      envBool("ENABLE_TALLY_PUBLICATION", true),
		EnableExpenseApprovalEvents: envBool("ENABLE_EXPENSE_APPROVAL_EVENTS", true),
		EnableOutboxRelay:           envBool("ENABLE_OUTBOX_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
