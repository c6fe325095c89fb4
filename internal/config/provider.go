// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions narrows where configuration is read from. The zero value
	// walks the normal resolution order: <config dir>/config.cue, then
	// ./config.cue, then built-in defaults.
	LoadOptions struct {
		// ConfigFilePath, when set, is the only file consulted. Loading
		// fails if it does not exist (the --config flag plumbs into this).
		ConfigFilePath string
		// ConfigDirPath replaces the platform config directory in the
		// resolution order.
		ConfigDirPath string
	}

	// Provider resolves the effective benchmark configuration. The
	// production implementation reads the CUE config file surface;
	// CLI code depends on this interface so tests can substitute
	// canned configs.
	Provider interface {
		// Load returns the validated configuration.
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
		// Resolve is Load plus the path of the config file the values
		// came from. The path is "" when running on built-in defaults.
		Resolve(ctx context.Context, opts LoadOptions) (*Config, string, error)
	}

	cueFileProvider struct{}
)

// NewProvider returns the CUE-file-backed Provider.
func NewProvider() Provider {
	return cueFileProvider{}
}

func (cueFileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cueFileProvider) Resolve(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return loadWithOptions(ctx, opts)
}
