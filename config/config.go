// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.

// Package config loads the resolved settings the Secure Core library is
// handed at startup. The library itself never reads the environment or a
// config file on its hot paths; the caller resolves a Config once and
// passes it in.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the fully resolved Secure Core configuration.
type Config struct {
	Environment string        `yaml:"environment" json:"environment"`
	Storage     StorageConfig `yaml:"storage" json:"storage"`
	KDF         KDFConfig     `yaml:"kdf" json:"kdf"`
	Logging     LoggingConfig `yaml:"logging" json:"logging"`
	Metrics     MetricsConfig `yaml:"metrics" json:"metrics"`
}

// StorageConfig locates the append-only encrypted log and the device
// registry file on disk.
type StorageConfig struct {
	// LogRoot is the process-scoped directory append-only logs are
	// rooted under. Set once at process startup (see storage.InitRoot).
	LogRoot string `yaml:"log_root" json:"log_root"`
	// DeviceRegistryFile is the fixed-size identity record's filename,
	// relative to LogRoot.
	DeviceRegistryFile string `yaml:"device_registry_file" json:"device_registry_file"`
	// KillMarkerFile is the append-only, existence-based kill marker's
	// filename, relative to LogRoot.
	KillMarkerFile string `yaml:"kill_marker_file" json:"kill_marker_file"`
	// ReplayLogFile is the raw u64 replay-token log's filename,
	// relative to LogRoot.
	ReplayLogFile string `yaml:"replay_log_file" json:"replay_log_file"`
}

// KDFConfig bounds the Argon2id parameters used for recovery-phrase
// derivation. Bounds mirror the invariants in crypto/kdf.
type KDFConfig struct {
	MemoryKiB   uint32 `yaml:"memory_kib" json:"memory_kib"`
	TimeCost    uint32 `yaml:"time_cost" json:"time_cost"`
	Parallelism uint8  `yaml:"parallelism" json:"parallelism"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// MetricsConfig represents Prometheus exporter configuration.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}

	setDefaults(cfg)
	return cfg, nil
}

// SaveToFile saves configuration to a file, using the extension to pick a
// format.
func SaveToFile(cfg *Config, path string) error {
	var data []byte
	var err error

	if len(path) > 5 && path[len(path)-5:] == ".json" {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setDefaults fills zero-valued fields with the library's recommended
// defaults (these satisfy crypto/kdf's parameter bounds).
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Storage.LogRoot == "" {
		cfg.Storage.LogRoot = ".securecore"
	}
	if cfg.Storage.DeviceRegistryFile == "" {
		cfg.Storage.DeviceRegistryFile = "device.identity"
	}
	if cfg.Storage.KillMarkerFile == "" {
		cfg.Storage.KillMarkerFile = "kill.marker"
	}
	if cfg.Storage.ReplayLogFile == "" {
		cfg.Storage.ReplayLogFile = "kill.replay"
	}

	if cfg.KDF.MemoryKiB == 0 {
		cfg.KDF.MemoryKiB = 64 * 1024 // 64 MiB
	}
	if cfg.KDF.TimeCost == 0 {
		cfg.KDF.TimeCost = 3
	}
	if cfg.KDF.Parallelism == 0 {
		cfg.KDF.Parallelism = 2
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// KDFParamsDuration is a convenience accessor used by admin tooling that
// reports expected KDF latency in log lines; it is not used by the core
// derivation path itself.
func KDFParamsDuration(cfg KDFConfig) time.Duration {
	// Rough linear estimate: ~1ms per MiB per time-cost pass, used only
	// for operator-facing progress hints.
	mib := time.Duration(cfg.MemoryKiB / 1024)
	return mib * time.Duration(cfg.TimeCost) * time.Millisecond
}
