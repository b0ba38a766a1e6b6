// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/bvk/coindash/kvutil"
	"github.com/bvkgo/kv"
	"github.com/bvkgo/kv/kvhttp"
	"github.com/bvkgo/kv/kvmemdb"
	"github.com/bvkgo/kvbadger"
	"github.com/dgraph-io/badger/v4"
)

// DBFlags selects the database for a command. Database is one of a local
// data directory, an in-memory copy of a backup file, or the database of a
// running server over http, in that order of preference.
type DBFlags struct {
	ClientFlags

	dbURLPath string

	dataDir string

	fromBackup string

	backupBefore string
	backupAfter  string
}

func (f *DBFlags) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&f.dataDir, "data-dir", "", "Path to the data directory of a stopped server")

	fset.StringVar(&f.fromBackup, "from-backup", "", "Path to a database backup file")

	f.ClientFlags.SetFlags(fset)
	fset.StringVar(&f.dbURLPath, "db-url-path", "/db", "path to db api handler")

	fset.StringVar(&f.backupBefore, "backup-before", "", "Path to a file to receive db backup before cmd is run")
	fset.StringVar(&f.backupAfter, "backup-after", "", "Path to a file to receive db backup after cmd is run")
}

// IsGoodKey reports if the key is an absolute and clean path.
func IsGoodKey(k string) bool {
	return path.IsAbs(k) && k == path.Clean(k)
}

// DatabaseDir returns the badger database directory inside a data directory.
func DatabaseDir(dataDir string) string {
	return filepath.Join(dataDir, "db")
}

// OpenBadger opens the badger database in the data directory.
func OpenBadger(dataDir string) (kv.Database, func(), error) {
	bopts := badger.DefaultOptions(DatabaseDir(dataDir))
	bopts.Logger = nil
	bdb, err := badger.Open(bopts)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open the database: %w", err)
	}
	return kvbadger.New(bdb, IsGoodKey), func() { bdb.Close() }, nil
}

// IsRemoteDatabase returns true if target database is a remote database over
// http.
func (f *DBFlags) IsRemoteDatabase() bool {
	return f.fromBackup == "" && f.dataDir == ""
}

func (f *DBFlags) dbCloser(db kv.Database, c func()) func() {
	return func() {
		if len(f.backupAfter) != 0 {
			if err := kvutil.BackupDB(context.Background(), db, f.backupAfter); err != nil {
				slog.Warn("could not take db backup after it is used (ignored)", "file", f.backupAfter, "error", err)
			}
		}
		if c != nil {
			c()
		}
	}
}

func (f *DBFlags) GetDatabase(ctx context.Context) (db kv.Database, closer func(), status error) {
	defer func() {
		if status == nil && len(f.backupBefore) != 0 {
			if err := kvutil.BackupDB(ctx, db, f.backupBefore); err != nil {
				closer()
				db, closer, status = nil, nil, fmt.Errorf("could not take a db backup before it is used: %w", err)
			}
		}
	}()

	if len(f.fromBackup) != 0 {
		fp, err := os.Open(f.fromBackup)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open file %q: %w", f.fromBackup, err)
		}
		defer fp.Close()

		db := kvmemdb.New()
		if err := kvutil.Restore(ctx, bufio.NewReader(fp), db); err != nil {
			return nil, nil, fmt.Errorf("could not restore in-memory db from backup: %w", err)
		}
		return db, f.dbCloser(db, nil), nil
	}

	if len(f.dataDir) != 0 {
		db, c, err := OpenBadger(f.dataDir)
		if err != nil {
			return nil, nil, err
		}
		return db, f.dbCloser(db, c), nil
	}

	addrURL, err := f.ClientFlags.AddressURL()
	if err != nil {
		return nil, nil, err
	}
	addrURL.Path = path.Join(addrURL.Path, f.dbURLPath)
	db = kvhttp.New(addrURL, f.ClientFlags.HttpClient())
	return db, f.dbCloser(db, nil), nil
}
