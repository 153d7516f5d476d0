package config

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	domain "iris-stats/domain/config"
)

// Load returns the published study configuration, overlaid with the YAML
// file at path when path is set. Fields absent from the file keep their
// defaults. Lists in the file replace the defaults; maps are merged by key.
func Load(ctx context.Context, path string) (*domain.Config, error) {
	c := domain.Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read config", goerr.V("path", path))
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, goerr.Wrap(err, "failed to parse config", goerr.V("path", path))
		}
		ctxlog.From(ctx).Info("config.loaded", "path", path)
	}
	if err := c.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config is not valid", goerr.V("path", path))
	}
	return c, nil
}
