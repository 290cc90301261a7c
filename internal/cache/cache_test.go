package cache

import (
	"testing"
	"time"

	"github.com/ppiankov/heirtrace/internal/model"
)

func TestKey_Normalizes(t *testing.T) {
	a := Key("findagrave", "Dorothy  Doe", "Dallas, TX")
	b := Key("findagrave", "dorothy doe", " dallas, tx ")
	if a != b {
		t.Errorf("Expected equal keys, got %s and %s", a, b)
	}
	if a == Key("familytreenow", "dorothy doe", "dallas, tx") {
		t.Error("Expected keys to differ by source")
	}
	if len(a) != len("heirtrace:v1:")+64 {
		t.Errorf("Unexpected key length %d", len(a))
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, ok := c.Get("k")
	if !ok || string(val) != "v" {
		t.Errorf("Expected v, got %q (found=%v)", val, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after delete")
	}
}

func TestMemoryCache_CopiesPayloads(t *testing.T) {
	c := NewMemoryCache(0, 0)

	payload := []byte(`{"name":"Jane Doe"}`)
	_ = c.Set("findagrave", payload, 0)
	payload[2] = 'X'

	got, ok := c.Get("findagrave")
	if !ok || string(got) != `{"name":"Jane Doe"}` {
		t.Fatalf("Expected stored payload unchanged, got %q (found=%v)", got, ok)
	}
	got[2] = 'Y'

	again, _ := c.Get("findagrave")
	if string(again) != `{"name":"Jane Doe"}` {
		t.Errorf("Expected cached payload isolated from readers, got %q", again)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Hour, 0)

	_ = c.Set("short", []byte("v"), time.Millisecond)
	_ = c.Set("long", []byte("v"), 0)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("Expected expired payload to miss")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("Expected default-expiry payload to hit")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set("heirtrace:v1:abc", []byte("payload"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if val, ok := c.Get("heirtrace:v1:abc"); !ok || string(val) != "payload" {
		t.Errorf("Expected payload before expiry, got %q (found=%v)", val, ok)
	}

	now = now.Add(2 * time.Hour)
	if _, ok := c.Get("heirtrace:v1:abc"); ok {
		t.Error("Expected miss after expiry")
	}
}

func TestDiskCache_DeleteMissing(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	if err := c.Delete("missing"); err != nil {
		t.Errorf("Expected no error deleting a missing key, got %v", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	mem := NewMemoryCache(time.Minute, time.Minute)
	disk := NewDiskCache(t.TempDir(), time.Hour)
	c := NewLayers(mem, disk)

	if err := disk.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := mem.Get("k"); ok {
		t.Fatal("Expected memory miss before promotion")
	}

	if val, ok := c.Get("k"); !ok || string(val) != "v" {
		t.Fatalf("Expected layered hit, got %q (found=%v)", val, ok)
	}
	if _, ok := mem.Get("k"); !ok {
		t.Error("Expected disk hit to be promoted to memory")
	}
}

func TestNew_Disabled(t *testing.T) {
	c := New(model.CacheConfig{Enabled: false, Dir: t.TempDir()})
	_ = c.Set("k", []byte("v"), 0)
	if _, ok := c.Get("k"); ok {
		t.Error("Expected disabled cache to store nothing")
	}

	if _, ok := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute}).(*MemoryCache); !ok {
		t.Error("Expected memory-only cache without a directory")
	}
}

func TestPayloads_RoundTrip(t *testing.T) {
	p := NewPayloads(NewMemoryCache(time.Minute, time.Minute), 0)
	key := Key("findagrave", "Dorothy Doe", "")

	if _, ok := p.Load(key); ok {
		t.Fatal("Expected miss on empty cache")
	}

	rec := &model.SourceRecord{
		Name:      "Dorothy Doe",
		Relatives: []model.RelativeRecord{{Name: "Kim Doe", Relationship: "daughter"}},
		Dates:     &model.VitalDates{Death: "2023"},
	}
	if err := p.Store(key, rec); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, ok := p.Load(key)
	if !ok {
		t.Fatal("Expected hit after store")
	}
	if got.Name != rec.Name || len(got.Relatives) != 1 || got.Relatives[0].Relationship != "daughter" || got.Dates.Death != "2023" {
		t.Errorf("Unexpected payload %+v", got)
	}
}

func TestPayloads_EvictsCorruptEntries(t *testing.T) {
	mem := NewMemoryCache(time.Minute, time.Minute)
	_ = mem.Set("k", []byte("{not json"), 0)

	p := NewPayloads(mem, 0)
	if _, ok := p.Load("k"); ok {
		t.Error("Expected corrupt entry to miss")
	}
	if _, ok := mem.Get("k"); ok {
		t.Error("Expected corrupt entry to be evicted")
	}
}
