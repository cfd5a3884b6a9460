// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(LoaderOptions{
		ConfigDir:      ".",
		Environment:    "development",
		SkipValidation: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.NotEmpty(t, cfg.Storage.LogRoot)
}

func TestLoadForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "staging", "production", "local"} {
		t.Run(env, func(t *testing.T) {
			cfg, err := Load(LoaderOptions{
				ConfigDir:      ".",
				Environment:    env,
				SkipValidation: true,
			})
			require.NoError(t, err)
			assert.Equal(t, env, cfg.Environment)
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	os.Setenv("SECURECORE_LOG_ROOT", "/tmp/override-root")
	os.Setenv("SECURECORE_LOG_LEVEL", "debug")
	defer os.Unsetenv("SECURECORE_LOG_ROOT")
	defer os.Unsetenv("SECURECORE_LOG_LEVEL")

	cfg, err := Load(LoaderOptions{
		ConfigDir:      ".",
		Environment:    "development",
		SkipValidation: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/override-root", cfg.Storage.LogRoot)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadWithCustomConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	testConfig := `
environment: test
logging:
  level: info
  format: json
`
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0644))

	cfg, err := Load(LoaderOptions{
		ConfigDir:      tmpDir,
		Environment:    "test",
		SkipValidation: true,
	})
	require.NoError(t, err)
	require.NotNil(t, cfg)
}

func TestDefaultLoaderOptions(t *testing.T) {
	opts := DefaultLoaderOptions()

	assert.Equal(t, "config", opts.ConfigDir)
	assert.False(t, opts.SkipEnvSubstitution)
	assert.False(t, opts.SkipValidation)
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ".securecore", cfg.Storage.LogRoot)
	assert.Equal(t, uint32(64*1024), cfg.KDF.MemoryKiB)
	assert.Equal(t, uint32(3), cfg.KDF.TimeCost)
	assert.Equal(t, uint8(2), cfg.KDF.Parallelism)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	assert.NoError(t, Validate(cfg))

	cfg.Logging.Level = "not-a-level"
	assert.Error(t, Validate(cfg))

	cfg.Logging.Level = "info"
	cfg.KDF.MemoryKiB = 1
	assert.Error(t, Validate(cfg))
}
