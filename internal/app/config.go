package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Emit formats for converting a graph without running it.
const (
	EmitJSON = "json"
	EmitHCL  = "hcl"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath string // .hcl or .json graph file

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	OTLPEndpoint string // empty disables tracing
	ServiceName  string

	// Emit prints the graph in the given format instead of folding it.
	Emit string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	switch ext := strings.ToLower(filepath.Ext(cfg.GraphPath)); ext {
	case ".hcl", ".json":
	default:
		return nil, fmt.Errorf("unsupported graph file extension %q: use .hcl or .json", ext)
	}
	switch cfg.Emit {
	case "", EmitJSON, EmitHCL:
	default:
		return nil, fmt.Errorf("invalid emit format %q: must be '%s' or '%s'", cfg.Emit, EmitJSON, EmitHCL)
	}
	if cfg.HealthcheckPort < 0 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "conduit"
	}
	return &cfg, nil
}
