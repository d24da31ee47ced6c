// Package cmd contains the ubilogctl inspector commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/ubilog/ubilog/foundation/blockchain/chain"
	"github.com/ubilog/ubilog/foundation/blockchain/numeric"
	"github.com/ubilog/ubilog/foundation/blockchain/params"
	"github.com/ubilog/ubilog/foundation/blockchain/storage"
)

var basePath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&basePath, "path", "p", "zubilog/", "Path to the node's data directory.")
}

var rootCmd = &cobra.Command{
	Use:   "ubilogctl",
	Short: "Inspect a ubilog node's on-disk chain store.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadChain opens the data directory and replays every recorded block into
// a fresh chain.Store, the same way the node's own startup loader does.
func loadChain() (*chain.Store, error) {
	disk, err := storage.Open(basePath)
	if err != nil {
		return nil, fmt.Errorf("opening data directory %q: %w", basePath, err)
	}

	initialTarget := numeric.ComputeTarget(numeric.ToBig(uint256.NewInt(params.InitialDifficulty)))
	store := chain.New(initialTarget)

	it := disk.ForEach()
	for {
		b, err := it.Next()
		if it.Done() {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading block: %w", err)
		}
		store.HandleBlock(b, int64(b.TimestampMS()))
	}

	return store, nil
}
