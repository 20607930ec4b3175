package store

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ltask/internal/config"
)

// backends returns a constructor per Store implementation.
func backends() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemory()
		},
		"badger": func(t *testing.T) Store {
			s, err := OpenBadger(InMemoryBadgerConfig())
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "tasks.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func sortEntries(entries []Entry) []Entry {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

func TestStoreConformance(t *testing.T) {
	ctx := context.Background()

	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Run("empty store", func(t *testing.T) {
				s := open(t)
				defer s.Close()

				entries, err := s.GetAll(ctx)
				require.NoError(t, err)
				assert.Empty(t, entries)
			})

			t.Run("put then get all", func(t *testing.T) {
				s := open(t)
				defer s.Close()

				require.NoError(t, s.Put(ctx, "Buy milk", false))
				require.NoError(t, s.Put(ctx, "Write report", true))

				entries, err := s.GetAll(ctx)
				require.NoError(t, err)
				assert.Equal(t, []Entry{
					{Name: "Buy milk", Completed: false},
					{Name: "Write report", Completed: true},
				}, sortEntries(entries))
			})

			t.Run("put overwrites", func(t *testing.T) {
				s := open(t)
				defer s.Close()

				require.NoError(t, s.Put(ctx, "x", false))
				require.NoError(t, s.Put(ctx, "x", true))

				entries, err := s.GetAll(ctx)
				require.NoError(t, err)
				assert.Equal(t, []Entry{{Name: "x", Completed: true}}, entries)
			})

			t.Run("get all is repeatable", func(t *testing.T) {
				s := open(t)
				defer s.Close()

				require.NoError(t, s.Put(ctx, "a", true))
				require.NoError(t, s.Put(ctx, "b", false))

				first, err := s.GetAll(ctx)
				require.NoError(t, err)
				second, err := s.GetAll(ctx)
				require.NoError(t, err)
				assert.Equal(t, sortEntries(first), sortEntries(second))
			})

			t.Run("cancelled context", func(t *testing.T) {
				s := open(t)
				defer s.Close()

				cctx, cancel := context.WithCancel(ctx)
				cancel()
				assert.Error(t, s.Put(cctx, "x", true))
			})

			t.Run("closed store fails", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Close())

				assert.Error(t, s.Put(ctx, "x", true))
				_, err := s.GetAll(ctx)
				assert.Error(t, err)
			})
		})
	}
}

func TestMemory_ClosedReturnsErrClosed(t *testing.T) {
	s := NewMemory()
	require.NoError(t, s.Close())

	err := s.Put(context.Background(), "x", true)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestBadger_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := DefaultBadgerConfig(dir)
	cfg.SyncWrites = false
	cfg.GCInterval = 0

	s, err := OpenBadger(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "persistent", true))
	require.NoError(t, s.Close())

	s2, err := OpenBadger(cfg)
	require.NoError(t, err)
	defer s2.Close()

	entries, err := s2.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "persistent", Completed: true}}, entries)
	assert.Equal(t, dir, s2.Path())
}

func TestBadger_RequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestBadger_GCRunnerStopsOnClose(t *testing.T) {
	cfg := DefaultBadgerConfig(t.TempDir())
	s, err := OpenBadger(cfg)
	require.NoError(t, err)
	require.NotNil(t, s.gc)
	require.NoError(t, s.Close())
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tasks.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "a", true))
	require.NoError(t, s.Put(ctx, "b", false))
	require.NoError(t, s.Close())

	s2, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s2.Close()

	entries, err := s2.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "a", Completed: true}, {Name: "b", Completed: false}}, sortEntries(entries))
}

func TestDecodeBool(t *testing.T) {
	assert.True(t, DecodeBool("true"))
	assert.False(t, DecodeBool("false"))
	assert.False(t, DecodeBool("TRUE"))
	assert.False(t, DecodeBool(""))
	assert.Equal(t, "true", EncodeBool(true))
	assert.Equal(t, "false", EncodeBool(false))
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("ephemeral", func(t *testing.T) {
		cfg := &config.Config{Dir: t.TempDir(), Ephemeral: true}
		s, err := Open(ctx, cfg, nil)
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &Memory{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.Config{Dir: t.TempDir()}
		cfg.File.Store.Backend = config.BackendSQLite
		s, err := Open(ctx, cfg, nil)
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &SQLite{}, s)
	})

	t.Run("badger default", func(t *testing.T) {
		cfg := &config.Config{Dir: t.TempDir()}
		s, err := Open(ctx, cfg, nil)
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &Badger{}, s)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := &config.Config{Dir: t.TempDir()}
		cfg.File.Store.Backend = "redis"
		_, err := Open(ctx, cfg, nil)
		assert.Error(t, err)
	})
}
