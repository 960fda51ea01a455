package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"nuclight.org/buttonpoll/internal/poll"
)

// BadgerStore keeps poll data in an embedded badger database. An empty dir
// keeps everything in memory.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(dir string, logger *slog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(badgerLogger{logger: logger}).
		// INFO is too chatty for a bot.
		WithLoggingLevel(badger.WARNING)
	if dir == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create badger directory: %w", err)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Put(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(redisKeyPrefix+key), value)
	})
	if err != nil {
		return fmt.Errorf("set poll data: %w", err)
	}
	return nil
}

func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(redisKeyPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, poll.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get poll data: %w", err)
	}
	return value, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's printf-style logging into slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log(slog.LevelError, format, args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log(slog.LevelWarn, format, args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log(slog.LevelInfo, format, args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log(slog.LevelDebug, format, args...)
}

func (l badgerLogger) log(level slog.Level, format string, args ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}
