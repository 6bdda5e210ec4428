package fetchsource

import (
	"errors"
	"sync"
	"testing"

	"github.com/kailas-cloud/hitsource/internal/domain"
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
	"github.com/kailas-cloud/hitsource/internal/domain/source/tree"
)

type countingDecoder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (d *countingDecoder) Decode(data []byte, ct codec.ContentType) (*tree.Mapping, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	return codec.Decode(data, ct)
}

func TestLookup_TreeIsMemoized(t *testing.T) {
	dec := &countingDecoder{}
	lk := NewLookup([]byte(`{"a":1}`), codec.JSON, dec)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := lk.Tree(); err != nil {
				t.Errorf("Tree: %v", err)
			}
		}()
	}
	wg.Wait()

	if dec.calls != 1 {
		t.Errorf("decoder calls = %d, want 1", dec.calls)
	}
	if lk.Decodes() != 1 {
		t.Errorf("Decodes() = %d, want 1", lk.Decodes())
	}
}

func TestLookup_DecodeErrorIsMemoized(t *testing.T) {
	dec := &countingDecoder{err: errors.New("bad")}
	lk := NewLookup([]byte(`x`), codec.JSON, dec)

	for range 2 {
		if _, err := lk.Tree(); err == nil {
			t.Fatal("expected error")
		}
	}
	if dec.calls != 1 {
		t.Errorf("decoder calls = %d, want 1", dec.calls)
	}
}

func TestLookup_NoRawBytes(t *testing.T) {
	dec := &countingDecoder{}
	lk := NewLookup(nil, codec.YAML, dec)

	if lk.HasRaw() {
		t.Error("HasRaw() = true")
	}
	if _, err := lk.Tree(); !errors.Is(err, domain.ErrSourceDisabled) {
		t.Errorf("err = %v, want ErrSourceDisabled", err)
	}
	if dec.calls != 0 {
		t.Errorf("decoder calls = %d, want 0", dec.calls)
	}
	if lk.ContentType() != codec.YAML {
		t.Errorf("ContentType() = %q", lk.ContentType())
	}
}

func TestNestedLookup_NeverDecodes(t *testing.T) {
	m := tree.NewMapping(1)
	m.Set("a", tree.Int(1))
	lk := NewNestedLookup(m, codec.JSON)

	got, err := lk.Tree()
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if got != m {
		t.Error("Tree() did not return the pinned mapping")
	}
	if lk.HasRaw() || lk.Decodes() != 0 {
		t.Errorf("HasRaw() = %v, Decodes() = %d", lk.HasRaw(), lk.Decodes())
	}
}
