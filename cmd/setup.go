package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotwatch/internal/shared"
)

// SetupConfig writes the example configuration file for editing.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Configuration written to %s\n", path)
	r.writePlain("Fill in the [spotify] and [telegram] sections, then run 'spotwatch watch'\n")
	return nil
}
