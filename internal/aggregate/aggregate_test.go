package aggregate

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/heirtrace/internal/metrics"
	"github.com/ppiankov/heirtrace/internal/model"
)

func ptr(f float64) *float64 { return &f }

func payloads() map[string]model.SourceResult {
	return map[string]model.SourceResult{
		"familytreenow": model.Succeeded(&model.SourceRecord{
			Name: "Dorothy Doe",
			Relatives: []model.RelativeRecord{
				{Name: "Kim Doe", Relationship: "daughter"},
				{Name: "Lee Doe"},
			},
			Addresses: []model.AddressRecord{
				{Address: "100 Main Street, Dallas, TX 75201", Years: "1990-2020"},
			},
			PhoneNumbers: []string{"(214) 555-0100"},
			Emails:       []string{"dorothy@example.com"},
			AgeRange:     "80-85",
		}),
		"findagrave": model.Succeeded(&model.SourceRecord{
			Name: "dorothy doe",
			Relatives: []model.RelativeRecord{
				{Name: "KIM DOE"},
				{Name: "Lee Dow", Relationship: "son", Confidence: ptr(0.8)},
				{Name: "Dorothy Doe"},
			},
			Addresses: []model.AddressRecord{
				{Address: "100 Main St, Dallas, TX 75201"},
				{Address: "200 Main St, Dallas, TX 75201"},
			},
			PhoneNumbers: []string{"214.555.0100", "n/a"},
			Emails:       []string{"Dorothy@Example.com"},
			Dates:        &model.VitalDates{Birth: "1938", Death: "2023"},
			CemeteryInfo: []string{"Oakland Cemetery"},
		}),
		"whitepages": model.Failed(errors.New("rate limited")),
	}
}

func TestAggregate_MergesSources(t *testing.T) {
	b := Aggregate(payloads())

	assert.Equal(t, []string{"familytreenow", "findagrave"}, b.Sources)
	assert.Equal(t, map[string]string{"whitepages": "rate limited"}, b.Errors)

	require.Len(t, b.Names, 1)
	assert.Equal(t, "Dorothy Doe", b.Names[0].Name)
	assert.Equal(t, []string{"familytreenow", "findagrave"}, b.Names[0].Provenance)
	assert.Equal(t, model.NameConfidence, b.Names[0].Confidence)

	require.Len(t, b.Addresses, 2)
	assert.Equal(t, "100 Main Street, Dallas, TX 75201", b.Addresses[0].Address)
	assert.Equal(t, []string{"familytreenow", "findagrave"}, b.Addresses[0].Provenance)
	assert.Equal(t, model.AddressConfidence, b.Addresses[0].Confidence)
	assert.Equal(t, "200 Main St, Dallas, TX 75201", b.Addresses[1].Address)

	require.Len(t, b.PhoneNumbers, 1)
	assert.Equal(t, []string{"familytreenow", "findagrave"}, b.PhoneNumbers[0].Provenance)
	assert.Equal(t, model.PhoneConfidence, b.PhoneNumbers[0].Confidence)

	require.Len(t, b.Emails, 1)
	require.Len(t, b.Ages, 1)
	require.Len(t, b.VitalRecords, 1)
	assert.Equal(t, "2023", b.VitalRecords[0].Dates.Death)
	assert.Equal(t, "findagrave", b.VitalRecords[0].Source)
}

func TestAggregate_RelativesExactDedup(t *testing.T) {
	b := Aggregate(payloads())

	// "Lee Dow" is kept apart from "Lee Doe": relative dedup is exact, not fuzzy.
	// The subject listed as its own relative is dropped.
	require.Len(t, b.Relatives, 3)

	kim := b.Relatives[0]
	assert.Equal(t, "Kim Doe", kim.Name)
	assert.Equal(t, "daughter", kim.Relationship)
	assert.Equal(t, []string{"familytreenow", "findagrave"}, kim.Provenance)
	assert.Equal(t, model.RelativeConfidence, kim.Confidence)

	assert.Equal(t, "Lee Doe", b.Relatives[1].Name)
	assert.Equal(t, "Lee Dow", b.Relatives[2].Name)
	assert.Equal(t, 0.8, b.Relatives[2].Confidence)
}

func TestAggregate_Empty(t *testing.T) {
	b := Aggregate(nil)

	assert.Empty(t, b.Names)
	assert.NotNil(t, b.Names)
	assert.Empty(t, b.Sources)
	assert.Nil(t, b.Errors)
}

func TestAggregate_NilRecordIsError(t *testing.T) {
	b := Aggregate(map[string]model.SourceResult{"x": {}})
	assert.Equal(t, "empty payload", b.Errors["x"])
}

func TestAggregate_Deterministic(t *testing.T) {
	first := Aggregate(payloads())
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Aggregate(payloads()))
	}
}

func TestAggregator_RecordsDedupMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	New(WithMetrics(m)).Aggregate(payloads())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deduplicated.WithLabelValues("address")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deduplicated.WithLabelValues("phone")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Deduplicated.WithLabelValues("relative")))
}

func TestSubject(t *testing.T) {
	b := Aggregate(payloads())
	id := Subject(b)

	assert.Equal(t, "Dorothy Doe", id.DisplayName)
	assert.Equal(t, []string{"dorothy", "doe"}, id.NormalizedNameTokens)
	assert.Equal(t, IdentityID("DOROTHY DOE"), id.ID)
	assert.Equal(t, []string{"familytreenow", "findagrave"}, id.Provenance)
	require.Len(t, id.PhoneNumbers, 1)
	assert.Equal(t, "2145550100", id.PhoneNumbers[0].Value)
	require.Len(t, id.Addresses, 2)
	assert.Equal(t, []string{"dorothy@example.com"}, id.Emails)
}

func TestSubject_NoNames(t *testing.T) {
	id := Subject(model.ConsolidatedBundle{})
	assert.Empty(t, id.ID)
	assert.Empty(t, id.DisplayName)
}

func TestRelatives(t *testing.T) {
	ids := Relatives(Aggregate(payloads()))
	require.Len(t, ids, 3)
	assert.Equal(t, "daughter", ids[0].Relationship)
	assert.Equal(t, []string{"familytreenow", "findagrave"}, ids[0].Provenance)
	assert.NotEqual(t, ids[1].ID, ids[2].ID)
}

func TestIdentityID_Stable(t *testing.T) {
	assert.Equal(t, IdentityID("Jane Doe"), IdentityID("  jane   doe "))
	assert.Equal(t, IdentityID("Jane Doe Jr."), IdentityID("jane doe"))
	assert.NotEqual(t, IdentityID("Jane Doe"), IdentityID("John Doe"))
}
