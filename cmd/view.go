package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"calcli/internal/config"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Manage the persisted calendar display mode",
}

var viewGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current display mode",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.ViewPreference(config.NewViperStore()))
	},
}

var viewSetCmd = &cobra.Command{
	Use:   "set <month|week|day|agenda>",
	Short: "Set and persist the display mode",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.SaveViewPreference(config.NewViperStore(), args[0]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("View preference saved: %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.AddCommand(viewGetCmd)
	viewCmd.AddCommand(viewSetCmd)
}
