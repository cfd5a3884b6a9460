//go:build securecore_admin

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/securecore/internal/metrics"
)

var serveAddr string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a snapshot of this process's Secure Core metrics",
	Long: `status reads the in-process metrics collector and prints a
one-shot snapshot of encrypt/decrypt counts, kill/replay/policy activity,
and average operation timing.

With --serve-addr, it additionally starts a Prometheus /metrics HTTP
endpoint and blocks serving it instead of exiting — useful for running
this binary as a sidecar a scraper can poll directly.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&serveAddr, "serve-addr", "", "If set, serve Prometheus metrics on this address (e.g. :9090) instead of exiting")
}

func runStatus(cmd *cobra.Command, args []string) error {
	snap := metrics.GetGlobalCollector().GetSnapshot()

	fmt.Printf("Uptime:              %s\n", snap.Uptime)
	fmt.Printf("Encrypt operations:  %d (%d errors)\n", snap.EncryptCount, snap.EncryptErrors)
	fmt.Printf("Decrypt operations:  %d (%d errors)\n", snap.DecryptCount, snap.DecryptErrors)
	fmt.Printf("Kills executed:      %d\n", snap.KillsExecuted)
	fmt.Printf("Replays rejected:    %d\n", snap.ReplayRejected)
	fmt.Printf("Policy denials:      %d\n", snap.PolicyDenials)
	fmt.Printf("Avg encrypt time:    %.1f us\n", snap.AvgEncryptTime)
	fmt.Printf("Avg decrypt time:    %.1f us\n", snap.AvgDecryptTime)

	if serveAddr == "" {
		return nil
	}

	fmt.Printf("Serving Prometheus metrics on %s/metrics\n", serveAddr)
	return metrics.StartServer(serveAddr)
}
