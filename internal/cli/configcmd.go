package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCommand creates the config command for inspecting settings.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

The output merges built-in defaults, the config file, MOSAIC_* environment
variables, and any flags given on this command line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if used := viper.ConfigFileUsed(); used != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# from %s\n", used)
			}
			return c.cfg.Encode(cmd.OutOrStdout())
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ".mosaic.toml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := c.cfg.WriteFile(path, force); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			printSuccess("Wrote configuration")
			printFile(path)
			printDetail("Override any key with MOSAIC_<KEY>")
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}
