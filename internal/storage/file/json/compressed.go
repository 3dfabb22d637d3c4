package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/helpintl/aid-cluster/internal/storage"
)

// CompressedBlob stores json snapshots compressed with zstd.
// Useful for large model state like full merge trees.
type CompressedBlob struct {
	table string
	shard string
	path  string
}

func NewCompressedBlob(table, shard string) *CompressedBlob {
	return &CompressedBlob{
		table: table,
		shard: shard,
		path:  storage.DefaultDir,
	}
}

func CompressedShard(table string) storage.Shard {
	return func(shard string) (storage.Persistence, error) {
		return NewCompressedBlob(table, shard), nil
	}
}

func (s CompressedBlob) Store(k storage.Key, value interface{}) error {
	dir := filepath.Join(s.path, s.table, s.shard)
	info, err := os.Stat(dir)
	if err != nil {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not make dir: %s: %w", dir, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s", dir)
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal value for '%+v': %w", k, err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	defer enc.Close()

	p := filepath.Join(dir, fmt.Sprintf("%s.json.zst", k.Path()))
	if err := os.WriteFile(p, enc.EncodeAll(b, nil), 0o644); err != nil {
		return fmt.Errorf("could not write file '%s': %w", p, err)
	}
	return nil
}

func (s CompressedBlob) Load(k storage.Key, value interface{}) error {
	p := filepath.Join(s.path, s.table, s.shard, fmt.Sprintf("%s.json.zst", k.Path()))

	data, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("could not read file '%s' %s: %w", p, err.Error(), storage.NotFoundErr)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer dec.Close()

	b, err := dec.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("could not decompress '%s' %s: %w", p, err.Error(), storage.CouldNotLoadErr)
	}

	if err := json.Unmarshal(b, value); err != nil {
		return fmt.Errorf("could not unmarshal '%s' %s: %w", p, err.Error(), storage.CouldNotLoadErr)
	}
	return nil
}
