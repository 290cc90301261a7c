package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/heirtrace/internal/metrics"
	"github.com/ppiankov/heirtrace/internal/model"
)

const caseYAML = `subject: Jane Doe
location: Springfield, IL
deceased_id: jane
sources:
  findagrave:
    name: Jane Doe
    relatives:
      - name: Alice Doe
        relationship: daughter
      - name: Carol Doe
        relationship: granddaughter
      - name: Sam Doe
        relationship: husband
      - Jane Doe
    dates:
      death: "2023-04-01"
  whitepages:
    error: blocked
persons:
  - {id: jane, name: Jane Doe, deceased: true}
  - {id: alice, name: Alice Doe}
  - {id: bob, name: Robert Doe, death_date: "2019-01-01"}
  - {id: carol, name: Carol Doe}
  - {id: sam, name: Sam Doe}
relationships:
  - {from: jane, to: alice, type: parent}
  - {from: jane, to: bob, type: parent}
  - {from: carol, to: bob, type: child}
  - {from: jane, to: sam, type: spouse}
heirs:
  - name: Alice Doe
    phone: 555-123-4567
    contact_status: responded
    id: m1
  - name: alice doe
    email: alice@example.com
    id: m2
outlook:
  overage_amount: 60000
  research_completeness: 80
  complexity: simple
`

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Sources.RequestsPerSecond = 0
	return cfg
}

func writeCase(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func heirByName(t *testing.T, heirs []model.HeirCandidate, name string) model.HeirCandidate {
	t.Helper()
	for _, h := range heirs {
		if h.Name == name {
			return h
		}
	}
	t.Fatalf("no heir named %s", name)
	return model.HeirCandidate{}
}

func signalTypes(signals []model.Signal) []model.SignalType {
	types := make([]model.SignalType, len(signals))
	for i, s := range signals {
		types[i] = s.Type
	}
	return types
}

func TestResolveFile_EndToEnd(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	p, err := NewPipeline(testConfig(), WithMetrics(m), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	report, err := p.ResolveFile(context.Background(), writeCase(t, "jane.yaml", caseYAML))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", report.Subject)
	assert.Equal(t, fixed, report.GeneratedAt)
	assert.Equal(t, model.Disclaimer, report.Disclaimer)
	assert.Equal(t, "Jane Doe", report.Identity.DisplayName)
	assert.Equal(t, []string{"findagrave"}, report.Bundle.Sources)
	assert.Equal(t, "blocked", report.Bundle.Errors["whitepages"])
	require.NotNil(t, report.Graph)
	assert.Len(t, report.Graph.Nodes, 5)

	require.Len(t, report.Heirs, 3)

	alice := heirByName(t, report.Heirs, "Alice Doe")
	assert.Equal(t, "alice", alice.PersonID)
	assert.Equal(t, "daughter", alice.Relationship)
	assert.Equal(t, 1, alice.RelationshipDegree)
	assert.Equal(t, model.DegreeFromGraph, alice.DegreeSource)
	assert.Equal(t, model.HeirClassPrimary, alice.HeirClass)
	assert.Equal(t, 100.0, alice.IntestateShare)
	assert.Equal(t, "555-123-4567", alice.Phone)
	assert.Equal(t, "alice@example.com", alice.Email)
	assert.Equal(t, "Alice", alice.FirstName)
	assert.Equal(t, "Doe", alice.LastName)
	assert.Contains(t, alice.DataSources, "pedigree")
	assert.Contains(t, alice.DataSources, "findagrave")

	carol := heirByName(t, report.Heirs, "Carol Doe")
	assert.Equal(t, 2, carol.RelationshipDegree)
	assert.Equal(t, model.DegreeFromGraph, carol.DegreeSource)
	assert.Equal(t, model.HeirClassContingent, carol.HeirClass)
	assert.Zero(t, carol.IntestateShare)

	sam := heirByName(t, report.Heirs, "Sam Doe")
	assert.Zero(t, sam.RelationshipDegree)
	assert.Equal(t, model.DegreeUnknown, sam.DegreeSource)
	assert.Equal(t, model.HeirClassContingent, sam.HeirClass)

	// Ranked by confidence, with a breakdown per heir
	for i := 1; i < len(report.Heirs); i++ {
		assert.GreaterOrEqual(t, report.Heirs[i-1].ConfidenceScore, report.Heirs[i].ConfidenceScore)
	}
	require.Len(t, report.Breakdowns, 3)
	assert.Equal(t, report.Heirs[0].ConfidenceScore, report.Breakdowns[0].Total)

	types := signalTypes(report.Signals)
	assert.Contains(t, types, model.SignalSourceFailure)
	assert.Contains(t, types, model.SignalSpouseOmitted)
	assert.NotContains(t, types, model.SignalNoPriority)
	assert.NotContains(t, types, model.SignalDegreeConflict)

	require.NotNil(t, report.Outlook)
	assert.Equal(t, 3, report.Outlook.Input.HeirCount)
	assert.Greater(t, report.Outlook.Probability, 50.0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CasesResolved.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HeirCandidates.WithLabelValues("primary")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HeirCandidates.WithLabelValues("contingent")))
}

func TestResolve_Deterministic(t *testing.T) {
	fixed := func() time.Time { return time.Unix(0, 0) }
	p, err := NewPipeline(testConfig(), WithClock(fixed))
	require.NoError(t, err)

	path := writeCase(t, "jane.yaml", caseYAML)
	first, err := p.ResolveFile(context.Background(), path)
	require.NoError(t, err)
	second, err := p.ResolveFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolve_DegreeConflict(t *testing.T) {
	c := &model.Case{
		Subject:    "Jane Doe",
		DeceasedID: "jane",
		Sources: map[string]model.CaseSource{
			"findagrave": {SourceRecord: model.SourceRecord{
				Name:      "Jane Doe",
				Relatives: []model.RelativeRecord{{Name: "Carol Doe", Relationship: "daughter"}},
			}},
		},
		Persons: []model.PersonRecord{
			{ID: "jane", Name: "Jane Doe"},
			{ID: "bob", Name: "Robert Doe", Deceased: true},
			{ID: "carol", Name: "Carol Doe"},
		},
		Relationships: []model.RelationshipRecord{
			{From: "jane", To: "bob", Type: "parent"},
			{From: "bob", To: "carol", Type: "parent"},
		},
	}

	p, err := NewPipeline(testConfig())
	require.NoError(t, err)
	report, err := p.Resolve(context.Background(), c)
	require.NoError(t, err)

	require.Len(t, report.Heirs, 1)
	assert.Equal(t, 2, report.Heirs[0].RelationshipDegree)
	assert.Equal(t, "daughter", report.Heirs[0].Relationship)
	assert.Contains(t, signalTypes(report.Signals), model.SignalDegreeConflict)
}

func TestResolve_ParentNotInChildClass(t *testing.T) {
	c := &model.Case{
		Subject:    "Jane Doe",
		DeceasedID: "jane",
		Sources: map[string]model.CaseSource{
			"findagrave": {SourceRecord: model.SourceRecord{
				Name: "Jane Doe",
				Relatives: []model.RelativeRecord{
					{Name: "Kevin Doe", Relationship: "child"},
					{Name: "Mary Doe", Relationship: "mother"},
				},
			}},
		},
		Persons: []model.PersonRecord{
			{ID: "mom", Name: "Mary Doe"},
			{ID: "jane", Name: "Jane Doe", Deceased: true},
			{ID: "kid", Name: "Kevin Doe"},
		},
		Relationships: []model.RelationshipRecord{
			{From: "mom", To: "jane", Type: "parent"},
			{From: "jane", To: "kid", Type: "parent"},
		},
	}

	p, err := NewPipeline(testConfig())
	require.NoError(t, err)
	report, err := p.Resolve(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, report.Heirs, 2)

	kevin := heirByName(t, report.Heirs, "Kevin Doe")
	assert.Equal(t, 1, kevin.RelationshipDegree)
	assert.Equal(t, model.HeirClassPrimary, kevin.HeirClass)
	assert.InDelta(t, 100.0, kevin.IntestateShare, 1e-9)

	mary := heirByName(t, report.Heirs, "Mary Doe")
	assert.Equal(t, "mom", mary.PersonID)
	assert.Zero(t, mary.RelationshipDegree)
	assert.Equal(t, model.DegreeUnknown, mary.DegreeSource)
	assert.Equal(t, model.HeirClassContingent, mary.HeirClass)
	assert.Zero(t, mary.IntestateShare)
}

func TestResolve_DuplicateBatchLimit(t *testing.T) {
	records := []model.Record{
		{"name": "Ann Smith", "phone": "555-000-1111"},
		{"name": "ann smith", "email": "ann@example.com"},
		{"name": "Bo Lee"},
	}

	cfg := testConfig()
	cfg.Matching.MaxDuplicateBatch = 2
	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	report, err := p.Resolve(context.Background(), &model.Case{Subject: "John Roe", Heirs: records})
	require.NoError(t, err)

	require.Len(t, report.Heirs, 2)
	require.Contains(t, signalTypes(report.Signals), model.SignalDedupeSkipped)
	for _, sig := range report.Signals {
		if sig.Type == model.SignalDedupeSkipped {
			assert.Equal(t, 3, sig.Data["records"])
		}
	}

	cfg.Matching.MaxDuplicateBatch = 3
	p, err = NewPipeline(cfg)
	require.NoError(t, err)
	report, err = p.Resolve(context.Background(), &model.Case{Subject: "John Roe", Heirs: records})
	require.NoError(t, err)
	assert.NotContains(t, signalTypes(report.Signals), model.SignalDedupeSkipped)
	ann := heirByName(t, report.Heirs, "Ann Smith")
	assert.Equal(t, "555-000-1111", ann.Phone)
	assert.Equal(t, "ann@example.com", ann.Email)
}

func TestResolve_NoPedigreeUsesLabels(t *testing.T) {
	c := &model.Case{
		Subject: "John Roe",
		Sources: map[string]model.CaseSource{
			"familytreenow": {SourceRecord: model.SourceRecord{
				Name: "John Roe",
				Relatives: []model.RelativeRecord{
					{Name: "Mary Roe", Relationship: "sister"},
					{Name: "Paul Roe", Relationship: "nephew"},
					{Name: "Ann Smith"},
				},
			}},
		},
	}

	p, err := NewPipeline(testConfig())
	require.NoError(t, err)
	report, err := p.Resolve(context.Background(), c)
	require.NoError(t, err)

	assert.Nil(t, report.Graph)
	mary := heirByName(t, report.Heirs, "Mary Roe")
	assert.Equal(t, 2, mary.RelationshipDegree)
	assert.Equal(t, model.DegreeFromLabel, mary.DegreeSource)
	assert.Equal(t, 100.0, mary.IntestateShare)

	paul := heirByName(t, report.Heirs, "Paul Roe")
	assert.Equal(t, model.HeirClassContingent, paul.HeirClass)

	ann := heirByName(t, report.Heirs, "Ann Smith")
	assert.Equal(t, model.DegreeUnknown, ann.DegreeSource)
}

func TestResolve_NoKnownDegree(t *testing.T) {
	c := &model.Case{
		Subject: "John Roe",
		Heirs:   []model.Record{{"name": "Ann Smith"}},
	}

	p, err := NewPipeline(testConfig())
	require.NoError(t, err)
	report, err := p.Resolve(context.Background(), c)
	require.NoError(t, err)

	require.Len(t, report.Heirs, 1)
	assert.Zero(t, report.Heirs[0].IntestateShare)
	assert.Contains(t, signalTypes(report.Signals), model.SignalNoPriority)
}

func TestResolve_DirSources(t *testing.T) {
	dir := t.TempDir()
	payload := `{"name":"John Roe","relatives":[{"name":"Mary Roe","relationship":"daughter"}],"phone_numbers":["(555) 000-1111"]}`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "findagrave"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "findagrave", "john-roe.json"), []byte(payload), 0o644))

	cfg := testConfig()
	cfg.Sources.Dir = dir
	cfg.Sources.Names = []string{"findagrave", "familytreenow"}

	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	report, err := p.Resolve(context.Background(), &model.Case{Subject: "John Roe"})
	require.NoError(t, err)

	assert.Equal(t, []string{"findagrave"}, report.Bundle.Sources)
	assert.Empty(t, report.Bundle.Errors)
	require.Len(t, report.Heirs, 1)
	assert.Equal(t, "Mary Roe", report.Heirs[0].Name)
	assert.Equal(t, model.HeirClassPrimary, report.Heirs[0].HeirClass)
}

func TestResolve_Errors(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	_, err = p.Resolve(context.Background(), &model.Case{})
	assert.ErrorIs(t, err, ErrNoSubject)

	_, err = p.Resolve(context.Background(), &model.Case{
		Subject:       "Jane Doe",
		DeceasedID:    "jane",
		Relationships: []model.RelationshipRecord{{From: "jane", To: "jane", Type: "parent"}},
	})
	assert.Error(t, err)

	_, err = p.ResolveFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewPipeline_InvalidWeights(t *testing.T) {
	cfg := testConfig()
	cfg.Weights.Documentation = 0.9

	_, err := NewPipeline(cfg)
	assert.ErrorIs(t, err, model.ErrInvalidWeights)
}

func TestLoadCase_JSON(t *testing.T) {
	path := writeCase(t, "case.json", `{"subject":"Jane Doe","sources":{"findagrave":{"name":"Jane Doe","relatives":["Alice Doe"]}}}`)

	c, err := LoadCase(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", c.Subject)
	require.Contains(t, c.Sources, "findagrave")
	assert.Equal(t, "Alice Doe", c.Sources["findagrave"].Relatives[0].Name)
}

func TestLoadCase_NoSubject(t *testing.T) {
	_, err := LoadCase(writeCase(t, "case.yaml", "location: nowhere\n"))
	assert.ErrorIs(t, err, ErrNoSubject)
}

func TestRenderer_RenderAll(t *testing.T) {
	p, err := NewPipeline(testConfig(), WithClock(func() time.Time { return time.Unix(0, 0) }))
	require.NoError(t, err)
	report, err := p.ResolveFile(context.Background(), writeCase(t, "jane.yaml", caseYAML))
	require.NoError(t, err)

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out", "report.json")
	mdPath := filepath.Join(dir, "out", "report.md")

	var summary bytes.Buffer
	r := NewRenderer(true)
	r.SetOutput(&summary)
	require.NoError(t, r.RenderAll(report, jsonPath, mdPath, true))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"identity_ref"`)
	assert.Contains(t, string(data), `"disclaimer"`)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Heir Report: Jane Doe")
	assert.Contains(t, string(md), "| 1 |")
	assert.Contains(t, string(md), "## Score Breakdowns")
	assert.Contains(t, string(md), model.Disclaimer)

	_, err = os.Stat(filepath.Join(dir, "out", "report.llm.md"))
	assert.True(t, os.IsNotExist(err))

	assert.Contains(t, summary.String(), "Wrote JSON")
	assert.Contains(t, summary.String(), "3 heir candidate(s)")
}

func TestRenderer_MarkdownNoFooter(t *testing.T) {
	md := NewRenderer(false).Markdown(&model.Report{Subject: "X", Disclaimer: model.Disclaimer})
	assert.Contains(t, md, "No heir candidates found")
	assert.NotContains(t, md, model.Disclaimer)
}
