package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ubilog/ubilog/foundation/blockchain/storage"
)

var blockCmd = &cobra.Command{
	Use:   "block [height]",
	Short: "Print the block recorded at a given height.",
	Args:  cobra.ExactArgs(1),
	Run:   blockRun,
}

func init() {
	rootCmd.AddCommand(blockCmd)
}

func blockRun(cmd *cobra.Command, args []string) {
	height, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		log.Fatalf("parsing height %q: %s", args[0], err)
	}

	disk, err := storage.Open(basePath)
	if err != nil {
		log.Fatal(err)
	}

	b, err := disk.ReadBlock(height)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("hash:       %s\n", b.Hash())
	fmt.Printf("parent:     %s\n", b.Prev)
	fmt.Printf("timestamp:  %d\n", b.TimestampMS())
	fmt.Printf("slices:     %d\n", len(b.Body))
}
