// Package config loads named risk profiles from a YAML file. Selecting which
// profile is active for an operating mode (research, paper, live) happens
// here, outside the engine: the pipeline only ever consumes the one
// configuration it is handed.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/atlas-desktop/risk-engine/internal/risk"
)

// File is the parsed configuration file: one risk profile per mode name.
type File struct {
	Profiles map[string]*risk.Config `mapstructure:"profiles"`
}

// Load reads and validates the configuration file. Every profile is
// validated up front so a malformed live profile cannot hide behind an
// unused mode until switchover.
func Load(logger *zap.Logger, path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("RISK_ENGINE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if len(f.Profiles) == 0 {
		return nil, fmt.Errorf("config %s defines no risk profiles", path)
	}

	for name, cfg := range f.Profiles {
		if cfg == nil {
			return nil, fmt.Errorf("profile %q is empty", name)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
	}

	logger.Info("Risk profiles loaded",
		zap.String("path", path),
		zap.Strings("profiles", f.Names()),
	)

	return &f, nil
}

// Names returns the sorted profile names.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile returns the named profile.
func (f *File) Profile(name string) (*risk.Config, error) {
	cfg, ok := f.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown risk profile %q (available: %s)",
			name, strings.Join(f.Names(), ", "))
	}
	return cfg, nil
}
