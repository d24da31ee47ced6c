// Package storage persists the canonical chain to disk (spec.md §4.I/§6):
// one file per height under blocks/, named by a 16-hex zero-padded index,
// and one file per locally mined block hash under mined/, holding the
// hex-encoded random nonce material that produced it.
//
// Grounded directly on the teacher's
// foundation/blockchain/database/storage/disk.go: the same
// one-file-per-unit, open-write-close, getPath-naming-helper shape,
// adapted from a JSON-per-block-number layout to Ubilog's two-directory,
// hex-indexed layout.
package storage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ubilog/ubilog/foundation/blockchain/block"
	"github.com/ubilog/ubilog/foundation/blockchain/wire"
)

// Disk is the filesystem-backed store for the canonical chain and the
// locally mined nonce records.
type Disk struct {
	basePath  string
	blocksDir string
	minedDir  string
}

// Open creates (if absent) and returns a Disk rooted at <basePath>/data,
// with its blocks/ and mined/ subdirectories.
func Open(basePath string) (*Disk, error) {
	dataPath := filepath.Join(basePath, "data")
	blocksDir := filepath.Join(dataPath, "blocks")
	minedDir := filepath.Join(dataPath, "mined")

	if err := os.MkdirAll(blocksDir, 0755); err != nil {
		return nil, fmt.Errorf("storage: create blocks dir: %w", err)
	}
	if err := os.MkdirAll(minedDir, 0755); err != nil {
		return nil, fmt.Errorf("storage: create mined dir: %w", err)
	}

	return &Disk{basePath: dataPath, blocksDir: blocksDir, minedDir: minedDir}, nil
}

// WriteBlock writes the block at the given chain height, overwriting any
// existing file for that height. Saver calls this once per height while
// rewriting the current longest chain (spec.md §4.I).
func (d *Disk) WriteBlock(height uint64, b block.Block) error {
	data := wire.EncodeBlock(b)
	path := d.blockPath(height)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("storage: write block at height %d: %w", height, err)
	}
	return nil
}

// ReadBlock reads and decodes the block at the given height.
func (d *Disk) ReadBlock(height uint64) (block.Block, error) {
	data, err := os.ReadFile(d.blockPath(height))
	if err != nil {
		return block.Block{}, err
	}

	b, err := wire.DecodeBlock(data)
	if err != nil {
		return block.Block{}, fmt.Errorf("storage: decode block at height %d: %w", height, err)
	}
	return b, nil
}

// WriteMined records the rand nonce material that produced a locally
// mined block, keyed by the block's hash.
func (d *Disk) WriteMined(hash [32]byte, rand uint64) error {
	path := filepath.Join(d.minedDir, hex.EncodeToString(hash[:]))
	contents := fmt.Sprintf("%016x", rand)

	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		return fmt.Errorf("storage: write mined record for %x: %w", hash, err)
	}
	return nil
}

// ReadMined reads back the rand nonce material recorded for hash.
func (d *Disk) ReadMined(hash [32]byte) (uint64, error) {
	data, err := os.ReadFile(filepath.Join(d.minedDir, hex.EncodeToString(hash[:])))
	if err != nil {
		return 0, err
	}

	var rand uint64
	if _, err := fmt.Sscanf(string(data), "%x", &rand); err != nil {
		return 0, fmt.Errorf("storage: parse mined record for %x: %w", hash, err)
	}
	return rand, nil
}

// CountMined reports how many locally-mined block records are on disk.
func (d *Disk) CountMined() (int, error) {
	entries, err := os.ReadDir(d.minedDir)
	if err != nil {
		return 0, fmt.Errorf("storage: read mined dir: %w", err)
	}
	return len(entries), nil
}

// blockPath forms the path to the block file at the given height, a
// 16-char zero-padded hex index per spec.md §6.
func (d *Disk) blockPath(height uint64) string {
	return filepath.Join(d.blocksDir, fmt.Sprintf("%016x", height))
}

// Iterator walks the blocks/ directory in filename order, the order the
// loader must replay blocks at startup (spec.md §4.I).
type Iterator struct {
	disk    *Disk
	current uint64
	eoc     bool
}

// ForEach returns an Iterator starting at height 0.
func (d *Disk) ForEach() *Iterator {
	return &Iterator{disk: d}
}

// Next returns the next block in height order. Done reports end of chain
// once the next sequential height's file is missing.
func (it *Iterator) Next() (block.Block, error) {
	if it.eoc {
		return block.Block{}, errors.New("storage: end of chain")
	}

	b, err := it.disk.ReadBlock(it.current)
	if errors.Is(err, fs.ErrNotExist) {
		it.eoc = true
		return block.Block{}, errors.New("storage: end of chain")
	}
	if err != nil {
		return block.Block{}, err
	}

	it.current++
	return b, nil
}

// Done reports whether the iterator has exhausted the blocks directory.
func (it *Iterator) Done() bool {
	return it.eoc
}
