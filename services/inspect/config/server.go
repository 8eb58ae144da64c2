// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the inspection server configuration and the
// per-language rule files that filter and rewrite diagnostics.
//
// Server settings come from a YAML file, INSPECT_* environment variables
// and command-line flags (in increasing precedence). Rule files are YAML
// documents keyed by check id; defaults for Python and kotlin are embedded.
//
// Thread Safety:
//
//	Loaded values are immutable and safe for concurrent reads.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Failure policies for a check that errors during a request.
const (
	FailurePolicyFailFast = "fail-fast"
	FailurePolicyIsolate  = "isolate"
)

// EnvPrefix prefixes every environment override (INSPECT_PORT, ...).
const EnvPrefix = "INSPECT"

// ServerConfig is the process startup configuration.
type ServerConfig struct {
	// Port is the gRPC listen port.
	Port int `mapstructure:"port" validate:"min=1,max=65535"`

	// HTTPPort is the HTTP gateway port. 0 disables the gateway.
	HTTPPort int `mapstructure:"http_port" validate:"min=0,max=65535"`

	// Languages is the fixed set of language ids served by this process.
	Languages []string `mapstructure:"languages" validate:"required,min=1,unique,dive,required"`

	// TemplatesPath is the root of per-language project templates. Empty
	// means sessions start with empty text.
	TemplatesPath string `mapstructure:"templates_path"`

	// RulesDir overrides the embedded rule files with <dir>/<language>.yaml.
	RulesDir string `mapstructure:"rules_dir"`

	// FailurePolicy is "fail-fast" (default) or "isolate".
	FailurePolicy string `mapstructure:"failure_policy" validate:"oneof=fail-fast isolate"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// RateLimitConfig throttles inbound requests before they are queued.
// RPS 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" validate:"min=0"`
	Burst int     `mapstructure:"burst" validate:"min=0"`
}

// LogConfig controls process logging.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`

	// Format is "auto" (JSON unless stderr is a terminal), "text" or "json".
	Format string `mapstructure:"format" validate:"oneof=auto text json"`

	// Dir enables an additional JSON log file in this directory.
	Dir string `mapstructure:"dir"`
}

// TelemetryConfig selects OpenTelemetry exporters.
type TelemetryConfig struct {
	TraceExporter  string `mapstructure:"trace_exporter" validate:"oneof=otlp stdout none"`
	MetricExporter string `mapstructure:"metric_exporter" validate:"oneof=prometheus stdout none"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
}

var defaults = map[string]any{
	"port":                      8080,
	"http_port":                 0,
	"languages":                 []string{"Python"},
	"templates_path":            "",
	"rules_dir":                 "",
	"failure_policy":            FailurePolicyFailFast,
	"rate_limit.rps":            0,
	"rate_limit.burst":          0,
	"log.level":                 "info",
	"log.format":                "auto",
	"log.dir":                   "",
	"telemetry.trace_exporter":  "none",
	"telemetry.metric_exporter": "prometheus",
	"telemetry.otlp_endpoint":   "localhost:4317",
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"port":           "port",
	"http-port":      "http_port",
	"languages":      "languages",
	"templates-path": "templates_path",
	"rules-dir":      "rules_dir",
	"failure-policy": "failure_policy",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"log-dir":        "log.dir",
}

// LoadServerConfig builds the server configuration.
//
// Description:
//
//	Precedence, highest first: flags that were set on the command line,
//	INSPECT_* environment variables (INSPECT_RATE_LIMIT_RPS for
//	rate_limit.rps), the YAML file at path, built-in defaults. The result is
//	validated with struct tags.
//
// Inputs:
//
//	path - Optional YAML file. Empty skips the file.
//	flags - Optional flag set; only flags listed in flagKeys are bound.
//
// Outputs:
//
//	*ServerConfig - The validated configuration.
//	error - A *LoadError (errors.Is ErrConfigLoad) on any failure.
func LoadServerConfig(path string, flags *pflag.FlagSet) (*ServerConfig, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
				bindErr = v.BindPFlag(key, f)
			}
		})
		if bindErr != nil {
			return nil, &LoadError{Path: path, Err: bindErr}
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct-tag constraints.
func (c *ServerConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid %s: failed %q constraint", verrs[0].Namespace(), verrs[0].Tag())
		}
		return err
	}
	return nil
}
