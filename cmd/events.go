package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"calcli/internal/client"
	"calcli/internal/geo"
	"calcli/internal/syncer"
)

var (
	eventTitle string
	eventStart string
	eventEnd   string
	assumeYes  bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage calendar events",
	Long:  `List, add, edit, delete, and reschedule events on the remote event store.`,
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events scoped to your resolved identity",
	Run: func(cmd *cobra.Command, args []string) {
		sync := mustSynchronizer(newTerminalPrompter())

		if err := sync.Start(context.Background()); err != nil {
			fmt.Printf("Error fetching events: %v\n", err)
			os.Exit(1)
		}

		events := sync.Events()

		// --- JSON OUTPUT ---
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(events); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if len(events) == 0 {
			fmt.Println("No events found.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSTART\tEND\tLOCATION")
		fmt.Fprintln(w, "--\t-----\t-----\t---\t--------")

		for _, e := range events {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				e.ID,
				e.Title,
				e.Start.Local().Format("2006-01-02 15:04"),
				e.End.Local().Format("2006-01-02 15:04"),
				e.Location,
			)
		}
		w.Flush()
	},
}

var eventsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new event at the given start slot",
	Long: `Creates a one-hour event starting at --start, tagged with your resolved
identity, location, and timezone. Prompts for a title unless --title is given;
an empty or cancelled title aborts without touching the store.`,
	Run: func(cmd *cobra.Command, args []string) {
		start, err := parseTime(eventStart)
		if err != nil {
			fmt.Printf("Error parsing --start: %v\n", err)
			os.Exit(1)
		}

		sync := mustSynchronizer(pickPrompter())

		ctx := context.Background()
		if err := sync.Start(ctx); err != nil {
			fmt.Printf("Error fetching events: %v\n", err)
			os.Exit(1)
		}

		created, err := sync.Create(ctx, start)
		if err != nil {
			fmt.Printf("Error creating event: %v\n", err)
			os.Exit(1)
		}
		if created == nil {
			fmt.Println("Cancelled.")
			return
		}

		fmt.Printf("Created event %d: %s (%s - %s)\n",
			created.ID, created.Title,
			created.Start.Local().Format("15:04"), created.End.Local().Format("15:04"))
	},
}

var eventsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an event's title",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustID(args[0])
		sync := mustSynchronizer(pickPrompter())

		ctx := context.Background()
		if err := sync.Start(ctx); err != nil {
			fmt.Printf("Error fetching events: %v\n", err)
			os.Exit(1)
		}

		if err := sync.Edit(ctx, id); err != nil {
			fmt.Printf("Error editing event: %v\n", err)
			os.Exit(1)
		}
	},
}

var eventsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an event (asks for confirmation)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustID(args[0])

		var prompt syncer.Prompter = newTerminalPrompter()
		if assumeYes {
			prompt = &flagPrompter{confirm: true}
		}
		sync := mustSynchronizer(prompt)

		ctx := context.Background()
		if err := sync.Start(ctx); err != nil {
			fmt.Printf("Error fetching events: %v\n", err)
			os.Exit(1)
		}

		if err := sync.Delete(ctx, id); err != nil {
			fmt.Printf("Error deleting event: %v\n", err)
			os.Exit(1)
		}
	},
}

var eventsMoveCmd = &cobra.Command{
	Use:   "move <id>",
	Short: "Reschedule an event to a new start/end",
	Run: func(cmd *cobra.Command, args []string) {
		id := mustID(args[0])

		start, err := parseTime(eventStart)
		if err != nil {
			fmt.Printf("Error parsing --start: %v\n", err)
			os.Exit(1)
		}
		end, err := parseTime(eventEnd)
		if err != nil {
			fmt.Printf("Error parsing --end: %v\n", err)
			os.Exit(1)
		}

		sync := mustSynchronizer(newTerminalPrompter())

		ctx := context.Background()
		if err := sync.Start(ctx); err != nil {
			fmt.Printf("Error fetching events: %v\n", err)
			os.Exit(1)
		}

		if err := sync.Move(ctx, id, start, end); err != nil {
			fmt.Printf("Error moving event: %v\n", err)
			os.Exit(1)
		}
	},
	Args: cobra.ExactArgs(1),
}

// mustSynchronizer wires the store client and resolver from config.
func mustSynchronizer(prompt syncer.Prompter) *syncer.Synchronizer {
	storeURL := viper.GetString("store_url")
	if storeURL == "" {
		fmt.Println("Error: store_url is not configured. Set it in $HOME/.calcli.yaml or the STORE_URL environment variable.")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	api := client.New(client.ClientConfig{BaseURL: storeURL})
	resolver := geo.NewResolver(viper.GetString("identity_url"), viper.GetString("geo_url"), logger)

	return syncer.New(logger, api, resolver, prompt)
}

func pickPrompter() syncer.Prompter {
	if eventTitle != "" {
		return &flagPrompter{title: eventTitle}
	}
	return newTerminalPrompter()
}

func mustID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Printf("Error: invalid event id %q\n", arg)
		os.Exit(1)
	}
	return id
}

// parseTime accepts RFC 3339 or a local "YYYY-MM-DD HH:MM" form.
func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02 15:04", value, time.Local)
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsAddCmd)
	eventsCmd.AddCommand(eventsEditCmd)
	eventsCmd.AddCommand(eventsRmCmd)
	eventsCmd.AddCommand(eventsMoveCmd)

	eventsAddCmd.Flags().StringVar(&eventStart, "start", "", "Start slot (RFC3339 or 'YYYY-MM-DD HH:MM')")
	eventsAddCmd.Flags().StringVar(&eventTitle, "title", "", "Event title (skips the interactive prompt)")
	_ = eventsAddCmd.MarkFlagRequired("start")

	eventsEditCmd.Flags().StringVar(&eventTitle, "title", "", "New title (skips the interactive prompt)")

	eventsRmCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the delete confirmation")

	eventsMoveCmd.Flags().StringVar(&eventStart, "start", "", "New start (RFC3339 or 'YYYY-MM-DD HH:MM')")
	eventsMoveCmd.Flags().StringVar(&eventEnd, "end", "", "New end (RFC3339 or 'YYYY-MM-DD HH:MM')")
	_ = eventsMoveCmd.MarkFlagRequired("start")
	_ = eventsMoveCmd.MarkFlagRequired("end")
}
