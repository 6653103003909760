package cache

import (
	"sync"
	"testing"
)

func TestKey(t *testing.T) {
	if Key("a", "bc") == Key("ab", "c") {
		t.Error("part boundaries must affect the key")
	}
	if Key("prompt") != Key("prompt") {
		t.Error("Key must be stable")
	}
	if len(Key("x")) != 64 {
		t.Errorf("expected hex sha256, got %q", Key("x"))
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	if _, ok := m.Get("missing"); ok {
		t.Fatal("expected miss")
	}

	val := []byte(`{"wouldAct":true}`)
	m.Put("k", val)
	val[0] = 'X'

	got, ok := m.Get("k")
	if !ok || string(got) != `{"wouldAct":true}` {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	got[0] = 'Y'
	again, _ := m.Get("k")
	if again[0] != '{' {
		t.Error("stored value must not alias caller slices")
	}

	if hits, misses := m.Stats(); hits != 2 || misses != 1 {
		t.Errorf("Stats = %d/%d, want 2/1", hits, misses)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestMemory_Concurrent(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := Key(string(rune('a' + i)))
			m.Put(k, []byte{byte(i)})
			m.Get(k)
		}(i)
	}
	wg.Wait()
	if m.Len() != 20 {
		t.Errorf("Len = %d, want 20", m.Len())
	}
}
