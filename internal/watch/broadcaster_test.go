package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/treykane/paneboard/internal/catalog"
)

func TestSubscribeNotifyUnsubscribe(t *testing.T) {
	b := New(0)
	calls := 0
	unsubscribe := b.Subscribe(func() { calls++ })
	b.Subscribe(func() { calls += 10 })

	b.Notify()
	if calls != 11 {
		t.Fatalf("expected both subscribers to run, got %d", calls)
	}

	unsubscribe()
	b.Notify()
	if calls != 21 {
		t.Fatalf("expected only remaining subscriber to run, got %d", calls)
	}
	if b.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", b.Subscribers())
	}
}

func TestScheduleDebounces(t *testing.T) {
	b := New(20 * time.Millisecond)
	fired := make(chan struct{}, 10)
	b.Subscribe(func() { fired <- struct{}{} })

	for i := 0; i < 5; i++ {
		b.schedule()
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a debounced notification")
	}
	select {
	case <-fired:
		t.Fatal("expected bursts to collapse into one notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchNotifiesOnFileChange(t *testing.T) {
	root := t.TempDir()
	b := New(10 * time.Millisecond)
	fired := make(chan struct{}, 10)
	b.Subscribe(func() { fired <- struct{}{} })

	if err := b.Watch(root); err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer b.Close()

	if err := os.WriteFile(filepath.Join(root, "note.md"), []byte("# hi\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("expected reload after file write")
	}
}

func TestWatchNotifiesOnCategorySidecar(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "work"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	b := New(10 * time.Millisecond)
	fired := make(chan struct{}, 10)
	b.Subscribe(func() { fired <- struct{}{} })
	if err := b.Watch(root); err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer b.Close()

	sidecar := filepath.Join(root, "work", catalog.CategoryMetaFile)
	if err := os.WriteFile(sidecar, []byte("name: Work\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("expected reload after the category sidecar changed")
	}
}

func TestIgnored(t *testing.T) {
	cases := map[string]bool{
		"/notes/work/plan.md":        false,
		"/notes/work/.plan.md.swp":   true,
		"/notes/.DS_Store":           true,
		"/notes/work/.category.yaml": false,
	}
	for path, want := range cases {
		if got := ignored(path); got != want {
			t.Fatalf("ignored(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWatchTwiceFails(t *testing.T) {
	b := New(0)
	if err := b.Watch(t.TempDir()); err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer b.Close()
	if err := b.Watch(t.TempDir()); err == nil {
		t.Fatal("expected second watch to fail")
	}
}

func TestCloseWithoutWatch(t *testing.T) {
	if err := New(0).Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
