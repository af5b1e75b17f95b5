package config

const (
	EnvProduction = "production"

	// DefaultAPIToken is accepted when API_TOKEN is unset. Deployments are
	// expected to override it.
	DefaultAPIToken = "default_token"
)

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	APIToken string
	LogJSON  bool
	Debug    bool
}

func (c AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

// Addr is the listen address for Port.
func (c AppConfig) Addr() string {
	return ":" + c.Port
}

// UsesDefaultToken reports whether the bearer secret was left at its default.
func (c AppConfig) UsesDefaultToken() bool {
	return c.APIToken == DefaultAPIToken
}
