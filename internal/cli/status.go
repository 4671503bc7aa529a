package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dagnet/noded/internal/core/config"
	"github.com/dagnet/noded/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current status of the running node",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%d/status", cfg.Server.Port))
	if err != nil {
		slog.Error("Failed to query status endpoint", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		slog.Error("Status endpoint returned an error", "code", resp.StatusCode)
		os.Exit(1)
	}

	var st status.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		slog.Error("Failed to decode status response", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "VERSION\t%s\n", st.Version)
	fmt.Fprintf(w, "OK\t%v\n\n", st.Ok)
	fmt.Fprintf(w, "CHECK\tOK\tDETAIL\n")
	fmt.Fprintf(w, "database\t%v\t%s\n", st.Checklist.Database.Ok, detail(st.Checklist.Database.Message))
	fmt.Fprintf(w, "peers\t%v\t%s\n", st.Checklist.Peers.Ok, detail(st.Checklist.Peers.Message))
	fmt.Fprintf(w, "bootstrap\t%v\t%s\n", st.Checklist.Bootstrap.Ok, detail(st.Checklist.Bootstrap.Message))
	fmt.Fprintf(w, "lastReceivedBlock\t%v\t%s\n", st.Checklist.LastReceivedBlock.Ok, blockDetail(st.Checklist.LastReceivedBlock))
	fmt.Fprintf(w, "lastCreatedBlock\t%v\t%s\n", st.Checklist.LastCreatedBlock.Ok, blockDetail(st.Checklist.LastCreatedBlock))
	_ = w.Flush()
}

func detail(msg *string) string {
	if msg == nil {
		return "-"
	}
	return *msg
}

func blockDetail(check status.LastBlockCheck) string {
	if check.BlockHash == nil {
		return detail(check.Message)
	}
	return fmt.Sprintf("hash=%s ts=%d jRank=%d", *check.BlockHash, *check.Timestamp, *check.JRank)
}
