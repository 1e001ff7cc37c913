package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"gallery-kiosk/config"
	"gallery-kiosk/internal/live"
	"gallery-kiosk/internal/realtime"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var poll time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the active exhibition every time it changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := openStore()
			if err != nil {
				return err
			}
			hub := realtime.NewHub(logger)
			defer hub.Close()

			switch config.DB_DRIVER {
			case config.DriverPostgres:
				go realtime.NewPGListener(config.DB_URL, config.REALTIME_CHANNEL, hub, logger).Run(ctx)
			case config.DriverSQLite:
				go func() {
					if err := realtime.NewFileWatcher(config.SQLITE_PATH, hub, logger).Run(ctx); err != nil {
						logger.Error().Err(err).Msg("file watcher stopped")
					}
				}()
			}

			if poll <= 0 {
				poll = config.ACTIVE_POLL_INTERVAL
			}
			client := live.NewClient(st, hub, nil, poll, logger)
			q := client.ActiveExhibition()
			defer q.Close()

			return watchActive(ctx, q, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&poll, "poll", 0, "poll interval backstop (env ACTIVE_POLL_INTERVAL)")
	return cmd
}

func watchActive(ctx context.Context, q *live.ActiveQuery, out io.Writer) error {
	var last string
	for {
		res, changed := q.WatchResult()
		if line := describe(res); line != last {
			fmt.Fprintln(out, line)
			last = line
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return nil
		}
	}
}

func describe(r live.ActiveResult) string {
	var line string
	switch r.State {
	case live.ActiveLoading:
		line = "loading..."
	case live.ActiveNone:
		line = "no active exhibition"
	case live.ActiveSome:
		line = fmt.Sprintf("active: %s (%s) - %d artworks", r.Exhibition.Title, r.Exhibition.ID, len(r.Exhibition.Artworks))
	}
	if r.Err != nil {
		line += fmt.Sprintf(" [stale: %v]", r.Err)
	}
	return line
}
