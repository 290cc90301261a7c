// Package source is the boundary to external data sources. Providers return
// pre-fetched payloads about a subject; the Collector fans them in.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/heirtrace/internal/model"
)

// ErrNotFound is returned by a provider that has no payload for the subject
var ErrNotFound = errors.New("no payload for subject")

// Query identifies the subject being researched
type Query struct {
	Subject  string
	Location string
}

// Provider returns the payload one data source holds about a subject
type Provider interface {
	Name() string
	Lookup(ctx context.Context, q Query) (*model.SourceRecord, error)
}

// cacheable is implemented by providers whose payloads must not be cached
type cacheable interface {
	Cacheable() bool
}

// StaticProvider serves a payload held in memory, e.g. inline in a case file
type StaticProvider struct {
	name   string
	result model.SourceResult
}

// NewStaticProvider creates a provider returning result for every query
func NewStaticProvider(name string, result model.SourceResult) *StaticProvider {
	return &StaticProvider{name: name, result: result}
}

// Name returns the source name
func (p *StaticProvider) Name() string { return p.name }

// Cacheable reports false: the payload is already local
func (p *StaticProvider) Cacheable() bool { return false }

// Lookup returns the held payload or its error marker
func (p *StaticProvider) Lookup(ctx context.Context, _ Query) (*model.SourceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.result.Error != "" {
		return nil, errors.New(p.result.Error)
	}
	if p.result.Record == nil {
		return nil, ErrNotFound
	}
	rec := *p.result.Record
	return &rec, nil
}

// CaseProviders returns a static provider per inline case source, sorted by name
func CaseProviders(c *model.Case) []Provider {
	results := c.SourceResults()
	providers := make([]Provider, 0, len(results))
	for _, name := range c.SourceNames() {
		providers = append(providers, NewStaticProvider(name, results[name]))
	}
	return providers
}

// DirProvider reads pre-fetched payloads from <dir>/<source>/<slug>.(json|yaml|yml).
// The slug of subject and location is tried first, then the subject alone.
type DirProvider struct {
	name string
	dir  string
}

// NewDirProvider creates a provider for source name rooted at dir
func NewDirProvider(dir, name string) *DirProvider {
	return &DirProvider{name: name, dir: dir}
}

// DirProviders returns a DirProvider per name, sorted by name
func DirProviders(dir string, names []string) []Provider {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	providers := make([]Provider, 0, len(sorted))
	for _, name := range sorted {
		providers = append(providers, NewDirProvider(dir, name))
	}
	return providers
}

// Name returns the source name
func (p *DirProvider) Name() string { return p.name }

var payloadExts = []string{".json", ".yaml", ".yml"}

// Lookup reads and decodes the payload file for q
func (p *DirProvider) Lookup(ctx context.Context, q Query) (*model.SourceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var slugs []string
	if q.Location != "" {
		slugs = append(slugs, Slug(q.Subject+" "+q.Location))
	}
	slugs = append(slugs, Slug(q.Subject))

	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		for _, ext := range payloadExts {
			path := filepath.Join(p.dir, p.name, slug+ext)
			data, err := os.ReadFile(path)
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("read payload %s: %w", path, err)
			}
			rec, err := decodePayload(data, ext)
			if err != nil {
				return nil, fmt.Errorf("decode payload %s: %w", path, err)
			}
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

func decodePayload(data []byte, ext string) (*model.SourceRecord, error) {
	var rec model.SourceRecord
	var err error
	if ext == ".json" {
		err = json.Unmarshal(data, &rec)
	} else {
		err = yaml.Unmarshal(data, &rec)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

var reSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and joins its alphanumeric runs with hyphens
func Slug(s string) string {
	return strings.Trim(reSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
