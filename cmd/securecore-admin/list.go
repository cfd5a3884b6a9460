//go:build securecore_admin

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/securecore/config"
	"github.com/sage-x-project/securecore/kill"
	"github.com/sage-x-project/securecore/storage"
)

var (
	logRoot       string
	replayLogFile string
)

var listCmd = &cobra.Command{
	Use:   "list-replay",
	Short: "Show the highest replay token a device has accepted",
	Long: `list-replay reads a device's replay log and reports the highest
token committed so far, read-only. Any kill blob issued against this
device must carry a replay token strictly greater than this value.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&logRoot, "log-root", "", "Device's storage root directory (required)")
	listCmd.Flags().StringVar(&replayLogFile, "replay-log-file", "kill.replay", "Replay log filename relative to --log-root")

	listCmd.MarkFlagRequired("log-root")
}

func runList(cmd *cobra.Command, args []string) error {
	storage.InitRoot(logRoot)

	replay := kill.NewReplayLog(config.StorageConfig{ReplayLogFile: replayLogFile})
	last, err := replay.LastCommittedReplay()
	if err != nil {
		return fmt.Errorf("read replay log: %w", err)
	}

	fmt.Printf("Highest committed replay token: %d\n", last)
	fmt.Printf("Next kill blob must carry a replay token > %d\n", last)
	return nil
}
