/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads adbc's CLI configuration from flags, environment
// variables, and an optional config file, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is adbc's runtime configuration.
type Config struct {
	// DeviceAddr is the host:port the device transport dials.
	DeviceAddr string `mapstructure:"device_addr"`

	// SystemIdentity is the banner string sent as the CNXN handshake's
	// system identity, e.g. "host::" or "host::myapp".
	SystemIdentity string `mapstructure:"system_identity"`

	// ConnectTimeout bounds how long Connect waits for the TCP dial. The
	// CNXN handshake that follows the dial is not bounded by it.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`

	// HostServiceAddr is the local adb server's host-service address.
	HostServiceAddr string `mapstructure:"host_service_addr"`

	// LogLevel is the minimum zerolog level name (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`
}

const envPrefix = "ADBC"

// Defaults returns the configuration used when no file, flag, or
// environment variable overrides a field.
func Defaults() Config {
	return Config{
		DeviceAddr:      "127.0.0.1:5555",
		SystemIdentity:  "host::",
		ConnectTimeout:  5 * time.Second,
		HostServiceAddr: "127.0.0.1:5037",
		LogLevel:        "info",
	}
}

// Load reads configuration from, in ascending precedence: built-in
// defaults, an optional config file (configPath, or $HOME/.adbc.yaml if
// configPath is empty), and ADBC_-prefixed environment variables. CLI flags
// are not read here; callers apply flag overrides to the returned Config.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".adbc")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("device_addr", d.DeviceAddr)
	v.SetDefault("system_identity", d.SystemIdentity)
	v.SetDefault("connect_timeout", d.ConnectTimeout)
	v.SetDefault("host_service_addr", d.HostServiceAddr)
	v.SetDefault("log_level", d.LogLevel)
}

// DefaultPath returns the conventional per-user config file location,
// $HOME/.adbc.yaml, or "" if the home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".adbc.yaml")
}
