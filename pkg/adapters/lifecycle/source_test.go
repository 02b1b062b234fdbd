package lifecycle

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/stitch/pkg/core"
)

func TestSource_TagsEventsWithRoot(t *testing.T) {
	content := filepath.Join("site", "content")
	partials := filepath.Join("site", "partials")

	in := make(chan core.Event, 3)
	in <- core.Event{Type: core.EventCreate, Path: filepath.Join(content, "blog", "a.html")}
	in <- core.Event{Type: core.EventModify, Path: filepath.Join(partials, "footer.html")}
	in <- core.Event{Type: core.EventDelete, Path: filepath.Join("elsewhere", "b.css")}
	close(in)

	src := NewSource(in, content, partials)
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	want := []struct {
		str  string
		root string
	}{
		{"CREATE blog/a.html", content},
		{"MODIFY footer.html", partials},
		{"DELETE elsewhere/b.css", ""},
	}

	var got []Change
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e, ok := <-src.Events():
			if !ok {
				if len(got) != len(want) {
					t.Fatalf("got %d changes, want %d", len(got), len(want))
				}
				for i, w := range want {
					if got[i].String() != w.str || got[i].Root != w.root {
						t.Errorf("change %d = %q in %q, want %q in %q", i, got[i].String(), got[i].Root, w.str, w.root)
					}
				}
				return
			}
			change, isChange := e.(Change)
			if !isChange {
				t.Fatalf("unexpected event type %T", e)
			}
			got = append(got, change)
		case <-timeout:
			t.Fatal("source did not close after input closed")
		}
	}
}

func TestSource_StopsOnCancel(t *testing.T) {
	in := make(chan core.Event)
	src := NewSource(in)

	ctx, cancel := context.WithCancel(context.Background())
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cancel()

	select {
	case _, ok := <-src.Events():
		if ok {
			t.Error("unexpected event after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("source did not close after cancel")
	}
}
