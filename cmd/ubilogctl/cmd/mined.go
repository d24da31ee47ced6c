package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ubilog/ubilog/foundation/blockchain/storage"
)

var minedCmd = &cobra.Command{
	Use:   "mined",
	Short: "Count the locally mined block records under mined/.",
	Run:   minedRun,
}

func init() {
	rootCmd.AddCommand(minedCmd)
}

func minedRun(cmd *cobra.Command, args []string) {
	disk, err := storage.Open(basePath)
	if err != nil {
		log.Fatal(err)
	}

	count, err := disk.CountMined()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("mined: %d\n", count)
}
