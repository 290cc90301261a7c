package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/heirtrace/internal/cache"
	"github.com/ppiankov/heirtrace/internal/metrics"
	"github.com/ppiankov/heirtrace/internal/model"
	"github.com/ppiankov/heirtrace/internal/worker"
)

type countingProvider struct {
	name  string
	rec   *model.SourceRecord
	err   error
	calls atomic.Int32
}

func (p *countingProvider) Name() string { return p.name }

func (p *countingProvider) Lookup(context.Context, Query) (*model.SourceRecord, error) {
	p.calls.Add(1)
	return p.rec, p.err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "jane-doe", Slug("Jane  Doe"))
	assert.Equal(t, "o-brien-springfield-il", Slug("O'Brien, Springfield IL"))
	assert.Equal(t, "", Slug("  --  "))
}

func TestDirProvider_Lookup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "findagrave", "jane-doe.json"),
		`{"name":"Jane Doe","relatives":["John Doe",{"name":"Ann Doe","relationship":"daughter"}]}`)
	writeFile(t, filepath.Join(dir, "familytreenow", "jane-doe-springfield-il.yaml"),
		"name: Jane Doe\nphone_numbers:\n  - 555-123-4567\n")

	q := Query{Subject: "Jane Doe", Location: "Springfield, IL"}

	rec, err := NewDirProvider(dir, "findagrave").Lookup(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, rec.Relatives, 2)
	assert.Equal(t, "John Doe", rec.Relatives[0].Name)
	assert.Equal(t, "daughter", rec.Relatives[1].Relationship)

	rec, err = NewDirProvider(dir, "familytreenow").Lookup(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"555-123-4567"}, rec.PhoneNumbers)

	_, err = NewDirProvider(dir, "whitepages").Lookup(context.Background(), q)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirProvider_DecodeError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "findagrave", "jane-doe.json"), `{not json`)

	_, err := NewDirProvider(dir, "findagrave").Lookup(context.Background(), Query{Subject: "Jane Doe"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestStaticProvider(t *testing.T) {
	ok := NewStaticProvider("a", model.Succeeded(&model.SourceRecord{Name: "Jane"}))
	rec, err := ok.Lookup(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, "Jane", rec.Name)

	failed := NewStaticProvider("b", model.SourceResult{Error: "timeout"})
	_, err = failed.Lookup(context.Background(), Query{})
	assert.EqualError(t, err, "timeout")
}

func TestCaseProviders_Sorted(t *testing.T) {
	c := &model.Case{Sources: map[string]model.CaseSource{
		"zeta":  {SourceRecord: model.SourceRecord{Name: "Jane"}},
		"alpha": {Error: "blocked"},
	}}
	providers := CaseProviders(c)
	require.Len(t, providers, 2)
	assert.Equal(t, "alpha", providers[0].Name())
	assert.Equal(t, "zeta", providers[1].Name())
}

func TestCollector_ErrorsBecomeMarkers(t *testing.T) {
	providers := []Provider{
		&countingProvider{name: "good", rec: &model.SourceRecord{Name: "Jane Doe"}},
		&countingProvider{name: "bad", err: errors.New("captcha")},
		&countingProvider{name: "empty"},
		&countingProvider{name: "missing", err: ErrNotFound},
	}

	results := NewCollector(providers, WithMaxParallel(2)).Collect(context.Background(), Query{Subject: "Jane Doe"})

	require.Len(t, results, 3)
	assert.True(t, results["good"].OK())
	assert.Equal(t, "captcha", results["bad"].Error)
	assert.Equal(t, "empty payload", results["empty"].Error)
	assert.NotContains(t, results, "missing")
}

func TestCollector_UsesCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	p := &countingProvider{name: "findagrave", rec: &model.SourceRecord{Name: "Jane Doe"}}
	c := NewCollector([]Provider{p},
		WithCache(cache.NewMemoryCache(0, 0), 0),
		WithLimiter(worker.NewLimiter(0, 1)),
		WithMetrics(m),
	)
	q := Query{Subject: "Jane Doe", Location: "Springfield"}

	first := c.Collect(context.Background(), q)
	second := c.Collect(context.Background(), q)

	assert.Equal(t, int32(1), p.calls.Load())
	assert.Equal(t, first["findagrave"].Record.Name, second["findagrave"].Record.Name)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
}

func TestCollector_StaticProvidersBypassCache(t *testing.T) {
	mem := cache.NewMemoryCache(0, 0)
	c := NewCollector([]Provider{NewStaticProvider("inline", model.Succeeded(&model.SourceRecord{Name: "Jane"}))},
		WithCache(mem, 0))

	c.Collect(context.Background(), Query{Subject: "Jane"})

	_, hit := mem.Get(cache.Key("inline", "Jane", ""))
	assert.False(t, hit)
}

func TestCollector_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCollector([]Provider{NewDirProvider(t.TempDir(), "findagrave")})
	results := c.Collect(ctx, Query{Subject: "Jane"})

	require.Contains(t, results, "findagrave")
	assert.False(t, results["findagrave"].OK())
}
