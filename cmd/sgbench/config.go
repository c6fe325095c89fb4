// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sgbench/internal/config"
)

var configCmd = newConfigCommand()

// newConfigCommand creates the `sgbench config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage sgbench configuration",
		Long: `Manage sgbench configuration.

Configuration is stored in:
  - Linux: ~/.config/sgbench/config.cue
  - macOS: ~/Library/Application Support/sgbench/config.cue
  - Windows: %APPDATA%\sgbench\config.cue`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return initConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfigPath()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewProvider().Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
			if err != nil {
				return err
			}

			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context) error {
	cfg, resolvedPath, err := config.NewProvider().Resolve(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	if resolvedPath != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), resolvedPath)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("semgrep_path"), valueStyle.Render(string(cfg.SemgrepPath)))
	fmt.Printf("%s: %s\n", keyStyle.Render("bench_root"), valueStyle.Render(string(cfg.BenchRoot)))
	fmt.Printf("%s: %s\n", keyStyle.Render("metric_namespace"), valueStyle.Render(string(cfg.MetricNamespace)))
	fmt.Printf("%s: %s\n", keyStyle.Render("dashboard_url"), valueStyle.Render(string(cfg.DashboardURL)))
	if cfg.DockerImage != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("docker_image"), valueStyle.Render(string(cfg.DockerImage)))
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("docker_image"), SubtitleStyle.Render("(native)"))
	}
	fmt.Printf("%s: %s\n", keyStyle.Render("upload"), valueStyle.Render(fmt.Sprintf("%v", cfg.Upload)))
	fmt.Printf("%s: %s\n", keyStyle.Render("ui.color_scheme"), valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Printf("%s: %s\n", keyStyle.Render("ui.verbose"), valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

// initConfig writes a default config file unless one already exists.
func initConfig() error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}

	cfgPath, err := defaultConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("%s %s\n", WarningStyle.Render("Config file already exists:"), cfgPath)
		return nil
	}

	content := config.GenerateCUE(config.DefaultConfig())
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("%s %s\n", SuccessStyle.Render("Created config file:"), cfgPath)
	return nil
}

func showConfigPath() error {
	cfgPath, err := defaultConfigPath()
	if err != nil {
		return err
	}
	fmt.Println(cfgPath)
	return nil
}

func defaultConfigPath() (string, error) {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt), nil
}
