package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, err := b.Read(ctx, "missing"); !errors.Is(err, ErrNotExist) {
		t.Fatalf("%s: expected ErrNotExist for missing key, got %v", b.Name(), err)
	}
	if err := b.Write(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("%s: Write: %v", b.Name(), err)
	}
	if err := b.Write(ctx, "k", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("%s: overwrite: %v", b.Name(), err)
	}
	got, err := b.Read(ctx, "k")
	if err != nil {
		t.Fatalf("%s: Read: %v", b.Name(), err)
	}
	if string(got) != `{"a":2}` {
		t.Fatalf("%s: expected latest value, got %q", b.Name(), got)
	}
	if err := b.Write(ctx, "k.ui", []byte(`{}`)); err != nil {
		t.Fatalf("%s: Write second key: %v", b.Name(), err)
	}
	got, err = b.Read(ctx, "k")
	if err != nil || string(got) != `{"a":2}` {
		t.Fatalf("%s: keys must be independent, got %q (%v)", b.Name(), got, err)
	}
}

func TestMemoryBackend(t *testing.T) {
	t.Parallel()
	exerciseBackend(t, NewMemoryBackend())
}

func TestMemoryBackend_FailWrites(t *testing.T) {
	t.Parallel()

	m := NewMemoryBackend()
	boom := errors.New("disk full")
	m.SetFailWrites(boom)
	if err := m.Write(context.Background(), "k", []byte("x")); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if m.Writes() != 0 {
		t.Fatalf("expected no successful writes")
	}
}

func TestDiskvBackend(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b, err := NewDiskvBackend(dir)
	if err != nil {
		t.Fatalf("NewDiskvBackend: %v", err)
	}
	defer b.Close()
	exerciseBackend(t, b)

	// A second instance over the same dir sees the data.
	b2, err := NewDiskvBackend(dir)
	if err != nil {
		t.Fatalf("NewDiskvBackend (reopen): %v", err)
	}
	got, err := b2.Read(context.Background(), "k")
	if err != nil || string(got) != `{"a":2}` {
		t.Fatalf("expected persisted value after reopen, got %q (%v)", got, err)
	}
}

func TestSQLiteBackend(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "gtodo.sqlite")
	b, err := OpenSQLiteBackend(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLiteBackend: %v", err)
	}
	exerciseBackend(t, b)
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b2, err := OpenSQLiteBackend(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLiteBackend (reopen): %v", err)
	}
	defer b2.Close()
	got, err := b2.Read(context.Background(), "k")
	if err != nil || string(got) != `{"a":2}` {
		t.Fatalf("expected persisted value after reopen, got %q (%v)", got, err)
	}
}

func TestRedisBackend(t *testing.T) {
	m := miniredis.RunT(t)

	b, err := OpenRedisBackend(context.Background(), "redis://"+m.Addr()+"/0")
	if err != nil {
		t.Fatalf("OpenRedisBackend: %v", err)
	}
	defer b.Close()
	exerciseBackend(t, b)

	raw, err := m.Get("k")
	if err != nil || raw != `{"a":2}` {
		t.Fatalf("expected plain string key in redis, got %q (%v)", raw, err)
	}
}

func TestRedisBackend_BareAddrAndWrappedClient(t *testing.T) {
	m := miniredis.RunT(t)

	b, err := OpenRedisBackend(context.Background(), m.Addr())
	if err != nil {
		t.Fatalf("OpenRedisBackend (bare addr): %v", err)
	}
	_ = b.Close()

	wrapped := NewRedisBackend(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	defer wrapped.Close()
	exerciseBackend(t, wrapped)
}

func TestRedisBackend_Unreachable(t *testing.T) {
	m := miniredis.RunT(t)
	addr := m.Addr()
	m.Close()

	if _, err := OpenRedisBackend(context.Background(), addr); err == nil {
		t.Fatalf("expected ping error for closed server")
	}
}

func TestOpenBackend_SelectsByName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cases := map[string]string{
		"":       BackendDiskv,
		"diskv":  BackendDiskv,
		"SQLite": BackendSQLite,
		"memory": BackendMemory,
	}
	for in, want := range cases {
		b, err := OpenBackend(context.Background(), Config{Backend: in, DataDir: filepath.Join(dir, want)})
		if err != nil {
			t.Fatalf("OpenBackend(%q): %v", in, err)
		}
		if b.Name() != want {
			t.Fatalf("OpenBackend(%q): expected %s, got %s", in, want, b.Name())
		}
		_ = b.Close()
	}
	if _, err := OpenBackend(context.Background(), Config{Backend: "etcd"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
