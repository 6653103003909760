package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/reportqc/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify reportqc configuration.

Without arguments, displays the effective configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), writes the value to the user config.

Configuration is stored at ~/.config/reportqc/config.yaml
Project-specific overrides can be placed in .reportqc.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch len(args) {
		case 0:
			return displayAllConfig(cmd)
		case 1:
			value, err := config.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))
			return nil
		default:
			if err := config.Set(args[0], args[1]); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			return nil
		}
	},
}

func displayAllConfig(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# user config: %s\n", config.GetUserConfigPath())
	if p := config.GetProjectConfigPath(); p != "" {
		fmt.Fprintf(out, "# project config: %s\n", p)
	}
	fmt.Fprintf(out, "# api key source: %s\n", config.GetAPIKeySource(cfg))

	data, err := yaml.Marshal(config.Effective(cfg))
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case []string:
		return strings.Join(t, " ")
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var lines []string
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s: %v", k, t[k]))
		}
		return strings.Join(lines, "\n")
	default:
		return fmt.Sprint(v)
	}
}
