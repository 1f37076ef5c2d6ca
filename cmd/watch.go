package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"calcli/internal/syncer"
)

var (
	watchPort     string
	serviceAction string // "install", "uninstall", "start", "stop"
)

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	exit   chan struct{}
	server *http.Server
	sync   *syncer.Synchronizer
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	p.exit = make(chan struct{})
	go p.run()
	return nil
}

func (p *program) run() {
	// Resolve identity and perform the initial scoped fetch. A failed
	// first fetch is not fatal here; scrapes keep retrying.
	log.Println("Resolving identity and fetching events...")
	if err := p.sync.Start(context.Background()); err != nil {
		log.Printf("Initial fetch failed: %v", err)
	}

	registry := prometheus.NewRegistry()
	collector := &CalendarCollector{Sync: p.sync}
	registry.MustRegister(collector)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	addr := fmt.Sprintf(":%s", watchPort)
	p.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	log.Printf("calcli watch listening on %s", addr)

	if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("HTTP Server error: %v", err)
	}
}

func (p *program) Stop(s service.Service) error {
	// Stop should not block. Signal the app to stop.
	log.Println("Stopping service...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}
	close(p.exit)
	return nil
}

// --- COLLECTOR ---

// CalendarCollector refreshes the local collection from the store on
// every scrape and reports what it sees.
type CalendarCollector struct {
	Sync  *syncer.Synchronizer
	Mutex sync.Mutex
}

var (
	upDesc = prometheus.NewDesc(
		"calcli_up", "Was the last refresh against the event store successful.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"calcli_scrape_duration_seconds", "Time taken to refresh the event collection.", nil, nil,
	)
	eventCountDesc = prometheus.NewDesc(
		"calcli_events_total", "Number of events in the local collection.", nil, nil,
	)
	nextEventDesc = prometheus.NewDesc(
		"calcli_next_event_start_timestamp", "Unix timestamp of the next upcoming event start (0 if none).", nil, nil,
	)
)

func (c *CalendarCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- eventCountDesc
	ch <- nextEventDesc
}

func (c *CalendarCollector) Collect(ch chan<- prometheus.Metric) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	start := time.Now()
	success := 1.0

	if err := c.Sync.Refresh(context.Background()); err != nil {
		success = 0.0
		log.Printf("Error refreshing events: %v", err)
	}

	events := c.Sync.Events()
	ch <- prometheus.MustNewConstMetric(eventCountDesc, prometheus.GaugeValue, float64(len(events)))

	next := 0.0
	now := time.Now()
	for _, e := range events {
		if e.Start.After(now) {
			next = float64(e.Start.Unix())
			break
		}
	}
	ch <- prometheus.MustNewConstMetric(nextEventDesc, prometheus.GaugeValue, next)

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}

// --- COMMAND ---

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run a background refresh daemon with a Prometheus endpoint",
	Long: `Starts a long-running process that re-fetches the event collection from
the store on every metrics scrape. Can be installed as a system service.`,
	Run: func(cmd *cobra.Command, args []string) {
		svcConfig := &service.Config{
			Name:        "calcli-watch",
			DisplayName: "calcli calendar watcher",
			Description: "Keeps a local calendar event collection in sync and exposes metrics",
			Arguments:   []string{"watch", "--port", watchPort},
		}

		prg := &program{
			sync: mustSynchronizer(&flagPrompter{}),
		}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal(err)
		}

		// Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			err = service.Control(s, serviceAction)
			if err != nil {
				log.Fatalf("Failed to %s service: %v", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// Run the Service (Blocking)
		logger, err := s.Logger(nil)
		if err != nil {
			log.Fatal(err)
		}
		if err = s.Run(); err != nil {
			logger.Error(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPort, "port", "9215", "Port to listen on")
	watchCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
