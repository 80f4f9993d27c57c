package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage biovault configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.biovault.yaml.",
		Example: `  biovault config                       # show all config
  biovault config set clinvar.db ~/clinvar.duckdb
  biovault config get data.dir`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("# No configuration set. Config file: ~/.biovault.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	value, err := expandHome(value)
	if err != nil {
		return err
	}
	if err := validateConfigSetting(key, value); err != nil {
		return err
	}
	viper.Set(key, value)

	// Ensure config file exists
	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".biovault.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

// validateConfigSetting rejects unknown keys and values that cannot
// work at runtime. data.dir is created on first use, so any path is
// accepted; clinvar.db must point at an existing file.
func validateConfigSetting(key, value string) error {
	switch key {
	case "data.dir":
		return nil
	case "clinvar.db":
		if value == "" {
			return nil
		}
		info, err := os.Stat(value)
		if err != nil {
			return fmt.Errorf("clinvar.db: %q does not exist", value)
		}
		if info.IsDir() {
			return fmt.Errorf("clinvar.db: %q is a directory, expected a database file", value)
		}
		return nil
	default:
		return fmt.Errorf("unknown config key %q (known keys: data.dir, clinvar.db)", key)
	}
}

// expandHome resolves a leading ~/ so stored paths work regardless of
// the working directory the value was set from.
func expandHome(value string) (string, error) {
	if value != "~" && !strings.HasPrefix(value, "~/") {
		return value, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(value, "~")), nil
}

func runConfigGet(key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}
