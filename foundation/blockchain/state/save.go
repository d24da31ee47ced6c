package state

import "time"

// SaveLongestChain walks the current longest chain and rewrites each
// height's file under blocks/ (spec.md §4.I's saver task). Filesystem
// errors are logged and the next save cycle retries, per spec.md §7's
// error taxonomy rule 4 ("filesystem error on save — log and continue").
func (s *State) SaveLongestChain() {
	chainBlocks := s.chain.GetLongestChain()

	for height, b := range chainBlocks {
		if err := s.disk.WriteBlock(uint64(height), b); err != nil {
			s.evHandler("state: SaveLongestChain: height %d: ERROR: %s", height, err)
		}
	}
}

// LoadChain replays every block recorded under blocks/ into the chain
// store, in filename order, with now set to the current wall clock
// (spec.md §4.I's loader). Called once at startup.
func (s *State) LoadChain() error {
	it := s.disk.ForEach()
	now := time.Now().UnixMilli()

	for {
		b, err := it.Next()
		if it.Done() {
			break
		}
		if err != nil {
			return err
		}
		s.chain.HandleBlock(b, now)
	}

	s.RebuildBody()
	return nil
}
