package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mcpkit/mcp-registry-go/pkg/capability"
)

func newTool(t *testing.T, name string, params ...capability.ParamSpec) capability.Descriptor {
	t.Helper()
	d, err := capability.NewDescriptor(capability.KindTool, "", name,
		func(ctx context.Context, args []interface{}) (interface{}, error) { return name, nil },
		capability.WithParams(params...),
	)
	if err != nil {
		t.Fatalf("descriptor %s: %v", name, err)
	}
	return d
}

func newPrompt(t *testing.T, name string) capability.Descriptor {
	t.Helper()
	d, err := capability.NewDescriptor(capability.KindPrompt, "", name,
		func(ctx context.Context, args []interface{}) (interface{}, error) { return name, nil })
	if err != nil {
		t.Fatalf("descriptor %s: %v", name, err)
	}
	return d
}

func TestAddAndLookup(t *testing.T) {
	r := New(nil)
	r.Add(newTool(t, "echo", capability.Param("text", "", capability.TypeString)))

	entry, ok := r.Lookup(capability.KindTool, "echo")
	if !ok {
		t.Fatal("expected echo to be registered")
	}
	if entry.Schema.Properties["text"].Type != "string" {
		t.Error("expected cached schema with text property")
	}

	if _, ok := r.Lookup(capability.KindPrompt, "echo"); ok {
		t.Error("kinds must be isolated namespaces")
	}
	if _, ok := r.Lookup(capability.KindTool, "missing"); ok {
		t.Error("expected missing name to not resolve")
	}
}

func TestAddReplacesOnConflict(t *testing.T) {
	r := New(nil)

	first := newTool(t, "echo")
	r.Add(first)

	replacement, err := capability.NewDescriptor(capability.KindTool, "", "echo",
		func(ctx context.Context, args []interface{}) (interface{}, error) { return "v2", nil },
		capability.WithTitle("Echo v2"),
	)
	if err != nil {
		t.Fatal(err)
	}
	r.Add(replacement)

	if got := r.Len(capability.KindTool); got != 1 {
		t.Fatalf("expected 1 entry after replacement, got %d", got)
	}
	entry, _ := r.Lookup(capability.KindTool, "echo")
	if entry.Descriptor.Title != "Echo v2" {
		t.Errorf("expected replacement to win, got title %q", entry.Descriptor.Title)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	r := New(nil)
	r.Add(newTool(t, "echo"))

	r.Remove(newTool(t, "missing"))
	if got := r.Len(capability.KindTool); got != 1 {
		t.Errorf("expected untouched registry, got %d entries", got)
	}

	r.Remove(newTool(t, "echo"))
	if got := r.Len(capability.KindTool); got != 0 {
		t.Errorf("expected empty registry, got %d entries", got)
	}
}

func TestOneChangeEventPerKindPerBatch(t *testing.T) {
	r := New(nil)
	toolCh := r.Changes(capability.KindTool)
	promptCh := r.Changes(capability.KindPrompt)
	resourceCh := r.Changes(capability.KindResource)

	r.Add(
		newTool(t, "a"),
		newTool(t, "b"),
		newPrompt(t, "p"),
	)

	expectSignal(t, toolCh, "tool")
	expectSignal(t, promptCh, "prompt")
	expectNoSignal(t, toolCh, "tool")
	expectNoSignal(t, resourceCh, "resource")
}

func TestRemoveEmitsOnlyWhenEntryLost(t *testing.T) {
	r := New(nil)
	r.Add(newTool(t, "a"))

	ch := r.Changes(capability.KindTool)
	r.Remove(newTool(t, "missing"))
	expectNoSignal(t, ch, "tool")

	r.Remove(newTool(t, "a"))
	expectSignal(t, ch, "tool")
}

func TestBatchVisibilityAllOrNothing(t *testing.T) {
	r := New(nil)

	const batchSize = 50
	batch := make([]capability.Descriptor, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		batch = append(batch, newTool(t, fmt.Sprintf("tool-%03d", i)))
	}

	done := make(chan struct{})
	var violations int
	go func() {
		defer close(done)
		for {
			n := r.Len(capability.KindTool)
			if n != 0 && n != batchSize {
				violations++
			}
			if n == batchSize {
				return
			}
		}
	}()

	r.Add(batch...)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reader never observed the full batch")
	}

	if violations != 0 {
		t.Errorf("reader observed %d partially applied batches", violations)
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	r := New(nil)
	r.Add(newTool(t, "a"), newTool(t, "b"))

	snap := r.Snapshot(capability.KindTool)
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap))
	}

	r.Remove(newTool(t, "a"))
	if len(snap) != 2 {
		t.Error("snapshot must not track later mutations")
	}
}

func TestChangesAfterCloseYieldsClosedChannel(t *testing.T) {
	r := New(nil)
	before := r.Changes(capability.KindTool)
	r.Close()

	if _, ok := <-before; ok {
		t.Error("expected existing subscriber channel to be closed")
	}
	if _, ok := <-r.Changes(capability.KindTool); ok {
		t.Error("expected post-close subscriber channel to be closed")
	}
}

func TestConcurrentMutationAndLookup(t *testing.T) {
	r := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				r.Add(newTool(t, fmt.Sprintf("w%d-%d", i, j)))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				r.Lookup(capability.KindTool, fmt.Sprintf("w%d-%d", i, j))
				r.Snapshot(capability.KindTool)
			}
		}()
	}
	wg.Wait()

	if got := r.Len(capability.KindTool); got != 160 {
		t.Errorf("expected 160 entries, got %d", got)
	}
}

func expectSignal(t *testing.T, ch <-chan struct{}, kind string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("expected a change event for kind %s", kind)
	}
}

func expectNoSignal(t *testing.T, ch <-chan struct{}, kind string) {
	t.Helper()
	select {
	case <-ch:
		t.Fatalf("unexpected change event for kind %s", kind)
	case <-time.After(50 * time.Millisecond):
	}
}
