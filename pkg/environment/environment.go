package environment

import "strings"

// Environment names the deployment stage a process runs in.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Staging     Environment = "staging"
)

// Config reads the environment from APP_ENV.
type Config struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

// Parse maps a name, including the short forms dev, prod and stage, to an
// Environment. Anything unrecognised is Development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Production), "prod":
		return Production
	case string(Staging), "stage":
		return Staging
	default:
		return Development
	}
}

// Environment returns the parsed APP_ENV value.
func (c Config) Environment() Environment { return Parse(c.Env) }

func (e Environment) String() string { return string(e) }

func (e Environment) IsProduction() bool { return e == Production }

func (e Environment) IsStaging() bool { return e == Staging }

// IsDevelopment reports true for Development and for any value that is not
// production or staging.
func (e Environment) IsDevelopment() bool { return !e.IsProduction() && !e.IsStaging() }
