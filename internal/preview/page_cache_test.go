package preview

import (
	"testing"
	"time"

	"slider/marquee"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestPageCacheTTL(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := newPageCache(clock.Now, time.Minute)
	c.Store("k", htmlContentType, []byte("page"))

	data, ct, ok := c.Select("k")
	if !ok || string(data) != "page" || ct != htmlContentType {
		t.Fatalf("Select = (%q, %q, %v)", data, ct, ok)
	}
	data[0] = 'X'
	if again, _, _ := c.Select("k"); string(again) != "page" {
		t.Fatal("cache returned its own buffer")
	}

	clock.Advance(59 * time.Second)
	if _, _, ok := c.Select("k"); !ok {
		t.Fatal("entry expired early")
	}
	clock.Advance(time.Second)
	if _, _, ok := c.Select("k"); ok {
		t.Fatal("entry outlived its ttl")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry kept, len = %d", c.Len())
	}
}

func TestPageCacheDisabledAndSweep(t *testing.T) {
	t.Parallel()
	off := newPageCache(nil, 0)
	off.Store("k", htmlContentType, []byte("x"))
	if _, _, ok := off.Select("k"); ok || off.Len() != 0 {
		t.Fatal("zero ttl cache stored data")
	}

	clock := &fakeClock{now: time.Unix(0, 0)}
	c := newPageCache(clock.Now, time.Minute)
	c.Store("old", htmlContentType, []byte("a"))
	clock.Advance(2 * time.Minute)
	c.Store("new", htmlContentType, []byte("b"))
	if n := c.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d, expected 1", n)
	}
	if _, _, ok := c.Select("new"); !ok {
		t.Fatal("fresh entry swept")
	}
}

func TestPropsKey(t *testing.T) {
	t.Parallel()
	a, ok := propsKey("render", marquee.Properties{"scroll_speed": 3, "roundness": 4})
	if !ok {
		t.Fatal("propsKey failed")
	}
	b, _ := propsKey("render", marquee.Properties{"roundness": 4, "scroll_speed": 3})
	if a != b {
		t.Fatal("key depends on map order")
	}
	c, _ := propsKey("preset:x", marquee.Properties{"roundness": 4, "scroll_speed": 3})
	if a == c {
		t.Fatal("kinds share a key")
	}
	if _, ok := propsKey("render", marquee.Properties{"bad": func() {}}); ok {
		t.Fatal("unmarshalable properties produced a key")
	}
}
