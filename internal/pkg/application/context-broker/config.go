package contextbroker

import (
	"io"

	yaml "gopkg.in/yaml.v2"
)

type Tenant struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// Database overrides the database name derived from the tenant id
	Database string `yaml:"database"`
}

type Config struct {
	Tenants []Tenant `yaml:"tenants"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	return cfg, err
}
