package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// keyPrefix namespaces client values inside the database.
const keyPrefix = "museum:"

// BadgerConfig configures a Badger store.
type BadgerConfig struct {
	// Dir is the database directory. Required unless InMemory is set.
	Dir string
	// InMemory keeps all data in memory; nothing survives Close.
	InMemory bool
	// Logger receives badger's internal warnings and errors. Nil disables them.
	Logger *zerolog.Logger
}

// Badger is a Store backed by a badger database.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (creating if needed) a badger-backed store.
func OpenBadger(cfg BadgerConfig) (*Badger, error) {
	if !cfg.InMemory && cfg.Dir == "" {
		return nil, errors.New("store: dir is required for persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
			return nil, fmt.Errorf("store: create dir %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	// Token writes are rare and must survive a crash.
	opts = opts.WithSyncWrites(true).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{log: *cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

// OpenBadgerInMemory opens an in-memory badger store.
func OpenBadgerInMemory() (*Badger, error) {
	return OpenBadger(BadgerConfig{InMemory: true})
}

func (b *Badger) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		value, found = string(val), true
		return nil
	})
	if err != nil {
		return "", false, wrapBadgerErr("get", err)
	}
	return value, found, nil
}

func (b *Badger) Set(key, value string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), []byte(value))
	})
	return wrapBadgerErr("set", err)
}

func (b *Badger) Remove(key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + key))
	})
	return wrapBadgerErr("remove", err)
}

// Close flushes and closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

func wrapBadgerErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, badger.ErrDBClosed) {
		return fmt.Errorf("store.%s: %w", op, ErrClosed)
	}
	return fmt.Errorf("store.%s: %w", op, err)
}

// badgerLogger routes badger's logger through zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(format, args...)
}
