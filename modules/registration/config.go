package registration

import "time"

// Config tunes the registration flow. Defaults match production
// behavior; tests lower the advance interval to keep runs fast.
type Config struct {
	AdvanceAttempts uint64        `env:"WIZARD_ADVANCE_ATTEMPTS" envDefault:"20"`
	AdvanceInterval time.Duration `env:"WIZARD_ADVANCE_INTERVAL" envDefault:"100ms"`
	CatalogPath     string        `env:"TIERS_CATALOG_PATH"`
}
