//go:build securecore_admin

package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"github.com/sage-x-project/securecore/crypto/kdf"
	"github.com/sage-x-project/securecore/device"
	"github.com/sage-x-project/securecore/kill"
)

var (
	passphrase        string
	salt              string
	targetDeviceIDHex string
	targetFingerprint uint64
	replayToken       uint64
)

var generateCmd = &cobra.Command{
	Use:   "generate-kill",
	Short: "Generate a kill blob for a target device",
	Long: `generate-kill derives the same per-device kill key a device's
verifier would derive, then seals a fresh kill blob targeting it.

The master passphrase and salt must match the ones the target device was
provisioned with — this tool never talks to the device or reads its
storage, it only needs the passphrase, the salt, the device's id and
fingerprint, and a replay token higher than any the device has already
accepted.`,
	Example: `  # Read the passphrase from SECURECORE_PASSPHRASE (e.g. via .env)
  securecore-admin generate-kill \
    --salt 0102030405060708090a0b0c0d0e0f10 \
    --target-device-id <64 hex chars> \
    --target-fingerprint 1234567890 \
    --replay-token 2`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&passphrase, "passphrase", os.Getenv("SECURECORE_PASSPHRASE"), "Master recovery passphrase (defaults to SECURECORE_PASSPHRASE)")
	generateCmd.Flags().StringVar(&salt, "salt", "", "Argon2id salt, hex-encoded, at least 16 bytes (required)")
	generateCmd.Flags().StringVar(&targetDeviceIDHex, "target-device-id", "", "Target device id, 32 bytes hex-encoded (required)")
	generateCmd.Flags().Uint64Var(&targetFingerprint, "target-fingerprint", 0, "Target device fingerprint (required)")
	generateCmd.Flags().Uint64Var(&replayToken, "replay-token", 0, "Replay token, must exceed any token the device has already accepted (required)")

	generateCmd.MarkFlagRequired("salt")
	generateCmd.MarkFlagRequired("target-device-id")
	generateCmd.MarkFlagRequired("target-fingerprint")
	generateCmd.MarkFlagRequired("replay-token")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if passphrase == "" {
		return fmt.Errorf("no passphrase supplied (--passphrase or SECURECORE_PASSPHRASE)")
	}

	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return fmt.Errorf("invalid --salt: %w", err)
	}

	deviceIDBytes, err := hex.DecodeString(targetDeviceIDHex)
	if err != nil || len(deviceIDBytes) != 32 {
		return fmt.Errorf("--target-device-id must be 64 hex chars (32 bytes)")
	}
	var deviceID [32]byte
	copy(deviceID[:], deviceIDBytes)

	params := kdf.Argon2Params{MemoryKiB: 64 * 1024, TimeCost: 3, Parallelism: 4}
	root, err := kdf.DeriveFromPassphrase([]byte(passphrase), saltBytes, params)
	if err != nil {
		return fmt.Errorf("derive root key: %w", err)
	}
	defer root.Wipe()

	blob, err := kill.GenerateBlob(root.Bytes(), device.Fingerprint(targetFingerprint), kill.Request{
		TargetDeviceID: deviceID,
		ReplayToken:    replayToken,
	})
	if err != nil {
		return fmt.Errorf("generate kill blob: %w", err)
	}

	fmt.Println("Kill blob generated.")
	fmt.Printf("  Target device id:    %s\n", hex.EncodeToString(deviceID[:]))
	fmt.Printf("  Target fingerprint:  %d (%s)\n", targetFingerprint, device.Fingerprint(targetFingerprint).Display())
	fmt.Printf("  Replay token:        %d\n", replayToken)
	fmt.Printf("  Blob length:         %d bytes\n", len(blob))
	fmt.Printf("  Blob (base58):       %s\n", base58.Encode(blob))

	return nil
}
