package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"calcli/internal/config"
)

var cfgFile string
var jsonOutput bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "calcli",
	Short: "A CLI for managing calendar events against a remote event store",
	Long: `Maintains a local view of your calendar events, synchronizes create,
edit, delete, and move operations against the remote event store, and tags
new events with your resolved timezone and approximate location.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		// .env is optional; real config comes from viper.
		_ = godotenv.Load()
		config.InitConfig(cfgFile)

		viper.SetDefault("identity_url", "http://ip-api.com/json")
		viper.SetDefault("geo_url", "http://ip-api.com/json")
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.calcli.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
}
