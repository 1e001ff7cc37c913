package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gallery-kiosk/internal/app/http/middleware"

	"github.com/spf13/cobra"
)

func newRefreshCmd() *cobra.Command {
	var (
		serverURL string
		key       string
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Ask a running server to re-run all live queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = viperString("ADMIN_SECRET")
			}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost,
				strings.TrimRight(serverURL, "/")+"/admin/refresh", nil)
			if err != nil {
				return fmt.Errorf("creating request: %w", err)
			}
			req.Header.Set(middleware.AdminKeyHeader, key)

			resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
			if err != nil {
				return fmt.Errorf("connecting to server at %s: %w", serverURL, err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("reading response: %w", err)
			}
			if resp.StatusCode >= 400 {
				return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			}

			var out struct {
				Version uint64 `json:"version"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				return fmt.Errorf("parsing response: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Refresh signal now at %d\n", out.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "gallery server URL")
	cmd.Flags().StringVar(&key, "key", "", "admin secret (env ADMIN_SECRET)")
	return cmd
}
