// Command securecore-admin issues device kill blobs. It is built with the
// securecore_admin tag so the blob-generation path it wraps
// (kill.GenerateBlob) never ships inside an ordinary device binary.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "securecore-admin",
	Short: "Secure Core admin CLI - device kill blob issuance",
	Long: `securecore-admin issues signed kill blobs that permanently and
irreversibly disable a Secure Core device once verified and applied.

This tool must only run in an admin/operator context, never on a
managed device. Build it with -tags securecore_admin.`,
}

func main() {
	// A .env file is optional; admin operators may keep the master
	// passphrase (SECURECORE_PASSPHRASE) out of shell history this way.
	// Absence is not an error.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
