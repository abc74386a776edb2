package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/gridpath/internal/config"
)

var flagConfigDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the search path and flag overrides.

Search order:
  1. --config
  2. ~/.gridpath/configs/gridpath.yaml
  3. ./configs/gridpath.yaml
  4. built-in defaults

Examples:
  gridpath config
  gridpath config --defaults > ~/.gridpath/configs/gridpath.yaml`,
	Run: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefaults, "defaults", false, "Print the commented built-in defaults")
}

func runConfig(cmd *cobra.Command, args []string) {
	if flagConfigDefaults {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	cfg := loadConfig()
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		fatal("%v", err)
	}
	if err := enc.Close(); err != nil {
		fatal("%v", err)
	}
}
