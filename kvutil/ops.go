// Copyright (c) 2025 BVK Chaitanya

package kvutil

import (
	"bufio"
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/bvk/coindash/gobs"
	"github.com/bvkgo/kv"
)

// ForEach calls fn for every item in the reader's view. Iteration stops at
// the first error from fn.
func ForEach(ctx context.Context, r kv.Reader, fn func(key string, value io.Reader) error) error {
	it, err := r.Scan(ctx)
	if err != nil {
		return fmt.Errorf("could not create scanning iterator: %w", err)
	}
	defer kv.Close(it)

	k, v, err := it.Fetch(ctx, false)
	for ; err == nil; k, v, err = it.Fetch(ctx, true) {
		if err := fn(k, v); err != nil {
			return err
		}
	}
	if !errors.Is(err, io.EOF) {
		return fmt.Errorf("could not fetch next item from the iterator: %w", err)
	}
	return nil
}

// Export writes every item in the reader's view to w as a gob stream of
// gobs.KeyValue records.
func Export(ctx context.Context, r kv.Reader, w io.Writer) error {
	enc := gob.NewEncoder(w)
	return ForEach(ctx, r, func(key string, value io.Reader) error {
		data, err := io.ReadAll(value)
		if err != nil {
			return fmt.Errorf("could not read value at key %q: %w", key, err)
		}
		if err := enc.Encode(&gobs.KeyValue{Key: key, Value: data}); err != nil {
			return fmt.Errorf("could not encode item at key %q: %w", key, err)
		}
		return nil
	})
}

// Import stores every record from a stream written by Export. Returns the
// number of records stored.
func Import(ctx context.Context, r io.Reader, rw kv.ReadWriter) (int, error) {
	dec := gob.NewDecoder(r)
	for n := 0; ; n++ {
		var item gobs.KeyValue
		if err := dec.Decode(&item); err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, fmt.Errorf("could not decode record %d from backup stream: %w", n, err)
		}
		if err := rw.Set(ctx, item.Key, bytes.NewReader(item.Value)); err != nil {
			return n, fmt.Errorf("could not restore key %q: %w", item.Key, err)
		}
	}
}

// DeleteAll removes every key visible to the transaction.
func DeleteAll(ctx context.Context, rw kv.ReadWriter) error {
	var keys []string
	collect := func(key string, _ io.Reader) error {
		keys = append(keys, key)
		return nil
	}
	if err := ForEach(ctx, rw, collect); err != nil {
		return err
	}
	for _, k := range keys {
		if err := rw.Delete(ctx, k); err != nil {
			return fmt.Errorf("could not delete key %q: %w", k, err)
		}
	}
	return nil
}

// Restore replaces the database contents with the items from the backup
// stream in a single transaction.
func Restore(ctx context.Context, r io.Reader, db kv.Database) error {
	restore := func(ctx context.Context, rw kv.ReadWriter) error {
		if err := DeleteAll(ctx, rw); err != nil {
			return err
		}
		n, err := Import(ctx, r, rw)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "restored database from backup", "items", n)
		return nil
	}
	if err := kv.WithReadWriter(ctx, db, restore); err != nil {
		return fmt.Errorf("could not run restore with a transaction: %w", err)
	}
	return nil
}

// BackupDB writes a consistent snapshot of the database into the file. File
// is replaced atomically, so an existing backup is never left half-written.
func BackupDB(ctx context.Context, db kv.Database, file string) (status error) {
	abspath, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("could not determine absolute path: %w", err)
	}

	fp, err := os.CreateTemp(path.Dir(abspath), ".backup*")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	defer func() {
		if status != nil {
			os.Remove(fp.Name())
		}
		fp.Close()
	}()

	bw := bufio.NewWriter(fp)
	save := func(ctx context.Context, r kv.Reader) error {
		if err := Export(ctx, r, bw); err != nil {
			return fmt.Errorf("could not export db content: %w", err)
		}
		return nil
	}
	if err := kv.WithReader(ctx, db, save); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("could not flush the bufio writer: %w", err)
	}
	if err := fp.Sync(); err != nil {
		return fmt.Errorf("could not sync the output file: %w", err)
	}
	if err := os.Rename(fp.Name(), abspath); err != nil {
		return fmt.Errorf("could not rename temp file to %q: %w", abspath, err)
	}
	return nil
}
