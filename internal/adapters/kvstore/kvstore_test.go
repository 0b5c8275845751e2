package kvstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/platform/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stores returns one fresh instance of every driver.
func stores(t *testing.T) map[string]Store {
	t.Helper()

	b, err := OpenBadger(t.TempDir(), discardLogger())
	require.NoError(t, err)

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "quotes.db"), discardLogger())
	require.NoError(t, err)

	all := map[string]Store{
		"badger": b,
		"sqlite": s,
		"memory": NewMemory(),
	}

	t.Cleanup(func() {
		for _, st := range all {
			_ = st.Close()
		}
	})

	return all
}

func TestStore_GetMissingKey(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get(context.Background(), "quoteOfTheDayDate")
			require.Error(t, err)
			assert.True(t, domain.IsNotFound(err))
		})
	}
}

func TestStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()

	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Set(ctx, "quoteOfTheDayIndex", []byte("7")))

			got, err := st.Get(ctx, "quoteOfTheDayIndex")
			require.NoError(t, err)
			assert.Equal(t, []byte("7"), got)

			require.NoError(t, st.Set(ctx, "quoteOfTheDayIndex", []byte("12")))

			got, err = st.Get(ctx, "quoteOfTheDayIndex")
			require.NoError(t, err)
			assert.Equal(t, []byte("12"), got, "set replaces the previous value")

			require.NoError(t, st.Remove(ctx, "quoteOfTheDayIndex"))

			_, err = st.Get(ctx, "quoteOfTheDayIndex")
			assert.True(t, domain.IsNotFound(err))

			assert.NoError(t, st.Remove(ctx, "quoteOfTheDayIndex"), "removing a missing key is not an error")
		})
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()

	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Set(ctx, "a", []byte("1")))
			require.NoError(t, st.Set(ctx, "b", []byte("2")))
			require.NoError(t, st.Remove(ctx, "a"))

			got, err := st.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, []byte("2"), got)
		})
	}
}

func TestStore_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()

	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup

			for i := range 20 {
				wg.Add(1)

				go func(n int) {
					defer wg.Done()

					assert.NoError(t, st.Set(ctx, "notificationTime", []byte(fmt.Sprintf("%02d:00", n%24))))
				}(i)
			}

			wg.Wait()

			got, err := st.Get(ctx, "notificationTime")
			require.NoError(t, err)
			assert.Len(t, got, len("00:00"), "last writer wins with a whole value")
		})
	}
}

func TestStore_HealthCheck(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, st.Name())
			assert.NoError(t, st.Check(context.Background()))
		})
	}
}

func TestBadger_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	b, err := OpenBadger(dir, discardLogger())
	require.NoError(t, err)
	require.NoError(t, b.Set(ctx, "quoteOfTheDayDate", []byte("2024-03-01")))
	require.NoError(t, b.Close())

	assert.ErrorIs(t, b.Check(ctx), domain.ErrUnavailable)

	reopened, err := OpenBadger(dir, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, "quoteOfTheDayDate")
	require.NoError(t, err)
	assert.Equal(t, []byte("2024-03-01"), got)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.db")
	ctx := context.Background()

	s, err := OpenSQLite(path, discardLogger())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "importedQuotes", []byte(`[]`)))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, "importedQuotes")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[0] = 'y'
	again, _ := m.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StorageConfig
		want    string
		wantErr bool
	}{
		{name: "memory", cfg: config.StorageConfig{Driver: "memory"}, want: "memory"},
		{name: "badger", cfg: config.StorageConfig{Driver: "badger", Path: filepath.Join(t.TempDir(), "badger")}, want: "badger"},
		{name: "sqlite", cfg: config.StorageConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "nested", "q.db")}, want: "sqlite"},
		{name: "unknown", cfg: config.StorageConfig{Driver: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Open(&tt.cfg, discardLogger())
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			t.Cleanup(func() { _ = st.Close() })
			assert.Equal(t, tt.want, st.Name())
		})
	}
}
