package localstore

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path, testLogger())

	if _, ok, err := s.Get("access_token"); err != nil || ok {
		t.Fatalf("missing file should read as empty: ok=%v err=%v", ok, err)
	}

	if err := s.Set("access_token", "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get("access_token")
	if err != nil || !ok || v != "tok" {
		t.Errorf("get = %q, %v, %v", v, ok, err)
	}
}

func TestFileStoreSetManyIsOneDurableWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path, testLogger())

	slots := map[string]string{
		"access_token":  "acc",
		"refresh_token": "ref",
		"adminUser":     `{"id":"a1"}`,
	}
	if err := s.SetMany(slots); err != nil {
		t.Fatalf("set many: %v", err)
	}

	// A fresh store instance reads the same document from disk.
	reopened := NewFileStore(path, testLogger())
	for k, want := range slots {
		v, ok, err := reopened.Get(k)
		if err != nil || !ok || v != want {
			t.Errorf("slot %q = %q, %v, %v; want %q", k, v, ok, err, want)
		}
	}
}

func TestFileStoreDeleteRemovesSlots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path, testLogger())

	if err := s.SetMany(map[string]string{"a": "1", "b": "2", "c": "3"}); err != nil {
		t.Fatalf("set many: %v", err)
	}
	if err := s.Delete("a", "b", "missing"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "c" {
		t.Errorf("keys = %v, want [c]", keys)
	}
}

func TestFileStoreWritesWithTightPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path, testLogger())

	if err := s.Set("access_token", "secret"); err != nil {
		t.Fatalf("set: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("session file mode = %04o, want 0600", mode)
	}
}

func TestFileStoreKeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path, testLogger())

	if err := s.Set("k", "v1"); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := s.Set("k", "v2"); err != nil {
		t.Fatalf("second write: %v", err)
	}

	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("expected a backup of the previous file: %v", err)
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path, testLogger())
	if _, _, err := s.Get("k"); err == nil {
		t.Error("corrupt session file should be reported, not silently reset")
	}
}
