// Package params holds the protocol-visible constants that every Ubilog peer
// must agree on. Changing any of these values changes the protocol and
// splits the network.
package params

import "time"

// DefaultPort is the UDP port a node listens on when no port is configured.
const DefaultPort = 7946

// BodySize is the maximum number of bytes a block body may occupy once its
// slices are serialized, including the list terminator.
const BodySize = 8192

// BlocksPerPeriod is the number of blocks between difficulty retargets.
const BlocksPerPeriod = 2048

// TimePerBlock is the target time between blocks, in milliseconds.
const TimePerBlock = 30_000

// TimePerPeriod is the target wall-clock duration of one retarget period,
// in milliseconds.
const TimePerPeriod = int64(BlocksPerPeriod) * TimePerBlock

// DelayTolerance is how far into the future (in milliseconds) a block's
// timestamp may be before it is dropped as future-dated.
const DelayTolerance = 15_000

// InitialDifficulty is the difficulty assigned to the genesis block's
// children before the first retarget.
const InitialDifficulty = 1_000

// MaxAttemptsPerBatch bounds how many nonces the miner tries before
// yielding back to the scheduler so other periodic tasks get a turn.
const MaxAttemptsPerBatch = 200_000

// Scheduler cadences (spec.md §4.J).
const (
	GossipInterval    = time.Second
	RequestInterval   = 31250 * time.Microsecond
	ReceiverInterval  = 15625 * time.Microsecond
	SaverInterval     = 30 * time.Second
	DisplayInterval   = time.Second
	DisplayWarmupWait = 900 * time.Millisecond
)
