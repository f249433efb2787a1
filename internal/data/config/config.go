package config

import (
	"fmt"
	"time"
)

// Config represents optional data-layer configuration. Both collaborators
// are optional; an empty section leaves the corresponding client nil.
type Config struct {
	Neo4j *Neo4j `mapstructure:"neo4j"`
	Redis *Redis `mapstructure:"redis"`
}

// Neo4j represents graph database configuration
type Neo4j struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// Redis represents cache configuration
type Redis struct {
	Addr         string        `mapstructure:"addr"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	Db           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Validate validates the data-layer configuration
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Neo4j != nil && c.Neo4j.URI != "" && c.Neo4j.Username == "" {
		return fmt.Errorf("neo4j username is required when a URI is set")
	}
	return nil
}
