package config

import (
	"github.com/dagnet/noded/internal/infra/discovery"
	"github.com/dagnet/noded/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig     `yaml:"server"`
	Node     NodeConfig       `yaml:"node"`
	Redis    discovery.Config `yaml:"redis"`
	Logging  LoggingConfig    `yaml:"logging"`
	Database postgres.Config  `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// NodeConfig holds the node's own identity and network settings.
type NodeConfig struct {
	// Standalone marks a single-node deployment; peer and bootstrap
	// connectivity checks are always considered satisfied.
	Standalone bool `yaml:"standalone"`

	// ValidatorPublicKey is the hex-encoded public key this node signs
	// blocks with. Empty for a pure observer node.
	ValidatorPublicKey string `yaml:"validator_public_key"`

	// Bootstrap lists the configured bootstrap node addresses as
	// host:port pairs.
	Bootstrap []string `yaml:"bootstrap"`
}
