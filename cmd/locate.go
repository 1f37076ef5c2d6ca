package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"calcli/internal/geo"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Show your resolved identity, location, and timezone",
	Long: `Resolves your public address via the identity service, then looks up the
timezone and approximate location for it. New events are tagged with these
values at creation time.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		resolver := geo.NewResolver(viper.GetString("identity_url"), viper.GetString("geo_url"), logger)

		ctx := context.Background()
		resolver.ResolveIdentity(ctx)

		// Scope the location lookup to the resolved address when we have one.
		snap := resolver.Snapshot()
		resolver.ResolveLocation(ctx, snap.IPAddress)
		snap = resolver.Snapshot()

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(snap); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "ADDRESS\t%s\n", snap.IPAddress)
		fmt.Fprintf(w, "LOCATION\t%s\n", snap.Location)
		fmt.Fprintf(w, "TIMEZONE\t%s\n", snap.Timezone)
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
