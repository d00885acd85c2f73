package stub

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const DefaultApiRoot = "/term-server-rest"

// Config of the stub server, read from environment variables.
type Config struct {
	Port     string        `env:"CURATE_STUB_PORT"      envDefault:"8080"`
	ApiRoot  string        `env:"CURATE_STUB_API_ROOT"  envDefault:"/term-server-rest"`
	Secret   string        `env:"CURATE_STUB_SECRET"`
	TokenTTL time.Duration `env:"CURATE_STUB_TOKEN_TTL" envDefault:"8h"`

	// Fixture is the path to a yaml fixture. When empty, the demo fixture is served.
	Fixture string `env:"CURATE_STUB_FIXTURE"`

	LogLevel string `env:"CURATE_STUB_LOGLEVEL" envDefault:"info"`
	Cert     string `env:"CURATE_STUB_CERT"`
	CertKey  string `env:"CURATE_STUB_CERT_KEY"`
}

// LoadConfig reads Config from environ, a map of environment variables.
func LoadConfig(environ map[string]string) (Config, error) {
	conf := Config{}
	if err := env.ParseWithOptions(&conf, env.Options{Environment: environ}); err != nil {
		return Config{}, err
	}
	if conf.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("CURATE_STUB_TOKEN_TTL should be positive: %s", conf.TokenTTL)
	}
	if (conf.Cert == "") != (conf.CertKey == "") {
		return Config{}, fmt.Errorf("CURATE_STUB_CERT and CURATE_STUB_CERT_KEY should be set together")
	}
	return conf, nil
}

// LoadFixture loads the fixture of the config.
func (c Config) LoadFixture() (Fixture, error) {
	if c.Fixture == "" {
		return Demo()
	}
	return LoadFixture(c.Fixture)
}
