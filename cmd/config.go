package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kilnworks/kiln/internal/config"
	"github.com/kilnworks/kiln/internal/paths"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	if quiet {
		return nil
	}
	out, err := yaml.Marshal(map[string]any{
		"version_threshold":    cfg.VersionThreshold,
		"helper":               cfg.Helper,
		"include_checkrebuild": cfg.IncludeCheckrebuild,
		"retention_days":       cfg.RetentionDays,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}
	path := paths.ConfigFile()
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	printer.Status("Wrote %s", path)
	return nil
}
