package credential

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStore(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		s := NewStore()
		if s.Get() != "" {
			t.Errorf("new store holds %q, want empty", s.Get())
		}
		s.Set("tok-1")
		if s.Get() != "tok-1" {
			t.Errorf("get = %q, want tok-1", s.Get())
		}
	})

	t.Run("clear", func(t *testing.T) {
		s := NewStore()
		s.Set("tok-1")
		s.Clear()
		if s.Get() != "" {
			t.Errorf("get after clear = %q, want empty", s.Get())
		}
	})

	t.Run("watch delivers initial value", func(t *testing.T) {
		s := NewStore()
		s.Set("tok-1")

		ch, cancel := s.Watch()
		defer cancel()

		select {
		case got := <-ch:
			if got != "tok-1" {
				t.Errorf("initial value = %q, want tok-1", got)
			}
		case <-time.After(time.Second):
			t.Fatal("no initial value delivered")
		}
	})

	t.Run("watch delivers changes", func(t *testing.T) {
		s := NewStore()
		ch, cancel := s.Watch()
		defer cancel()

		<-ch // initial empty value
		s.Set("tok-2")

		select {
		case got := <-ch:
			if got != "tok-2" {
				t.Errorf("value = %q, want tok-2", got)
			}
		case <-time.After(time.Second):
			t.Fatal("change not delivered")
		}
	})

	t.Run("slow watcher observes latest value", func(t *testing.T) {
		s := NewStore()
		ch, cancel := s.Watch()
		defer cancel()

		<-ch // initial
		s.Set("tok-1")
		s.Set("tok-2")
		s.Set("tok-3")

		select {
		case got := <-ch:
			if got != "tok-3" {
				t.Errorf("coalesced value = %q, want tok-3", got)
			}
		case <-time.After(time.Second):
			t.Fatal("no value delivered")
		}
	})

	t.Run("unchanged value not redelivered", func(t *testing.T) {
		s := NewStore()
		s.Set("tok-1")
		ch, cancel := s.Watch()
		defer cancel()

		<-ch // initial
		s.Set("tok-1")

		select {
		case got := <-ch:
			t.Errorf("unexpected delivery of %q", got)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("cancel closes the channel", func(t *testing.T) {
		s := NewStore()
		ch, cancel := s.Watch()
		<-ch
		cancel()

		if _, ok := <-ch; ok {
			t.Error("channel still open after cancel")
		}

		// Cancel is idempotent.
		cancel()
	})
}

func TestFileStore(t *testing.T) {
	t.Run("save and load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "token.json")
		fs := NewFileStore(path)

		if err := fs.Save("tok-abc"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
		}

		got, err := fs.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got != "tok-abc" {
			t.Errorf("loaded %q, want tok-abc", got)
		}
	})

	t.Run("load missing file", func(t *testing.T) {
		fs := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
		got, err := fs.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got != "" {
			t.Errorf("loaded %q from missing file, want empty", got)
		}
	})

	t.Run("load corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token.json")
		if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
			t.Fatal(err)
		}
		fs := NewFileStore(path)
		if _, err := fs.Load(); err == nil {
			t.Error("expected error for corrupt file")
		}
	})

	t.Run("clear", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token.json")
		fs := NewFileStore(path)
		if err := fs.Save("tok"); err != nil {
			t.Fatal(err)
		}
		if err := fs.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("file still exists after Clear")
		}

		// Clearing an absent file is fine.
		if err := fs.Clear(); err != nil {
			t.Errorf("second Clear failed: %v", err)
		}
	})
}
