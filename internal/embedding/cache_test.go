package embedding

import (
	"fmt"
	"sync"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := NewCache(2)
	if v, ok := c.Get("a"); ok || v != nil {
		t.Fatal("expected miss")
	}
	c.Set("a", []float32{1, 2, 3})
	v, ok := c.Get("a")
	if !ok || len(v) != 3 || v[0] != 1 {
		t.Errorf("Get: got %v, %v", v, ok)
	}
	c.Set("b", []float32{4, 5})
	c.Set("c", []float32{6}) // evicts a
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b to remain")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
}

// Concurrent Gets promote entries in the recency list, so they must be
// serialized with writes. Run with -race.
func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache(4)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				switch {
				case g%2 == 0:
					c.Get("a")
					c.Get("b")
				default:
					c.Get("b")
					c.Set(fmt.Sprintf("k%d-%d", g, i), []float32{float32(i)})
				}
			}
		}(g)
	}
	wg.Wait()

	c.Set("z", []float32{9})
	if v, ok := c.Get("z"); !ok || v[0] != 9 {
		t.Errorf("cache unusable after concurrent access: got %v, %v", v, ok)
	}
}

func TestCacheUpdateExisting(t *testing.T) {
	c := NewCache(2)
	c.Set("a", []float32{1})
	c.Set("a", []float32{2})
	v, ok := c.Get("a")
	if !ok || v[0] != 2 {
		t.Errorf("updated value: got %v, %v", v, ok)
	}
}
