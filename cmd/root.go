package cmd

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string    // Optional settings file
	settings *Settings // Decoded persistent settings, set before any command runs
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "montesim",
	Short: "Discrete-event and Monte-Carlo simulation toolkit",
	Long: `montesim generates pseudo-random numbers (LCG, middle-square), inverts
empirical probability tables, simulates single-server, Able/Baker and
periodic-review inventory systems, and tests number streams for uniformity
and independence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(viper.GetViper())
		if err != nil {
			return err
		}
		settings = s
		return nil
	},
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Settings file (default is $HOME/.montesim.yaml)")
	rootCmd.PersistentFlags().String("log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().Int64("seed", 42, "Seed for random and backfilled numbers")
	rootCmd.PersistentFlags().String("defaults", "defaults.yaml", "Path to the presets file")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		logrus.Fatalf("Failed to bind flags: %v", err)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".montesim")
	}

	viper.SetEnvPrefix("MONTESIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logrus.Infof("Using config file: %s", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		logrus.Fatalf("Failed to read config file %s: %v", cfgFile, err)
	}
}
