// Command ubilogctl is a read-only inspector over a node's on-disk chain
// store: it replays blocks/ the same way the node does at startup and
// reports chain height, tip, and accumulated work without running a node.
package main

import "github.com/ubilog/ubilog/cmd/ubilogctl/cmd"

func main() {
	cmd.Execute()
}
