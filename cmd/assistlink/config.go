package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/muurk/assistlink/internal/config"
	"github.com/muurk/assistlink/internal/ui"
	"github.com/muurk/assistlink/internal/version"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file",
		Long: `Create, inspect and locate the assistlink settings file.

Settings are resolved as: built-in defaults < settings file < .env and
ASSISTLINK_* environment variables < command-line flags.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.plainSetup(cmd)
			return nil
		},
	}

	configCmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a), newConfigPathCmd(a))

	return configCmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the default values",
		Long: `Write the default settings to the settings file.

Asks before overwriting an existing file unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configFilePath()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				ok := ui.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Settings file exists",
					[]string{path + " will be replaced with the default settings"})
				if !ok {
					return &reportedError{err: errors.New("settings file not replaced")}
				}
			}

			if err := config.DefaultSettings().Save(path); err != nil {
				return err
			}
			a.out.PrintSuccess("Settings file written", ui.Param{Key: "Path", Value: path})
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file without asking")

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Long: `Print the settings after applying the file, environment and flags.

Uses YAML unless --format json is given.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.json() {
				return a.out.PrintJSON(a.settings)
			}

			data, err := yaml.Marshal(a.settings)
			if err != nil {
				return fmt.Errorf("failed to marshal settings: %w", err)
			}
			_, err = a.out.Writer().Write(data)
			return err
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configFilePath()
			if err != nil {
				return err
			}
			a.out.Println(path)
			return nil
		},
	}
}

// configFilePath is --config, else the default location
func (a *app) configFilePath() (string, error) {
	if a.opts.configPath != "" {
		return a.opts.configPath, nil
	}
	return config.GetConfigPath()
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.plainSetup(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if a.opts.format == formatJSON {
				return a.out.PrintJSON(info)
			}
			a.out.Println(fmt.Sprintf("assistlink %s", version.Full()))
			a.out.Println(fmt.Sprintf("%s %s", info.GoVersion, info.Platform))
			return nil
		},
	}
}
