package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the resolved daemon configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the fully resolved configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := manager.Load()
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a single resolved configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := manager.Load(); err != nil {
			return err
		}
		value, ok := manager.Get(args[0])
		if !ok {
			return fmt.Errorf("configuration key not found: %s", args[0])
		}
		fmt.Println(value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set and persist a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := manager.Load(); err != nil {
			return err
		}
		key, value := args[0], args[1]
		if err := manager.Set(key, value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if err := manager.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("%s = %s\n", key, value)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path in effect",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(manager.ConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd, configPathCmd)
}
