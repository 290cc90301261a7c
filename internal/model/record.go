package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is the generic external representation of a harvested record
// (decoded JSON/YAML, a database row, a scraper result).
type Record map[string]any

// Reserved keys written by record merging
const (
	KeyMergedFrom   = "_merged_from"
	KeyDuplicateIDs = "_duplicate_ids"
)

// String returns the string value of key, or "" when missing
func (r Record) String(key string) string {
	return asString(r[key])
}

// Clone returns a shallow copy of the record with sequences copied
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if seq, ok := v.([]any); ok {
			v = append([]any(nil), seq...)
		} else if seq, ok := v.([]string); ok {
			v = append([]string(nil), seq...)
		}
		out[k] = v
	}
	return out
}

// IsEmptyValue reports whether v counts as missing when merging records
func IsEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case bool:
		return !val
	case int:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

// HeirFromRecord converts an external heir record into a HeirCandidate.
// It is the single boundary adapter: the scorer only ever sees HeirCandidate.
// Unparseable fields are left at their zero value.
func HeirFromRecord(r Record) HeirCandidate {
	h := HeirCandidate{
		IdentityRef:          firstNonEmpty(r.String("identity_ref"), r.String("id")),
		PersonID:             r.String("person_id"),
		Name:                 strings.TrimSpace(r.String("name")),
		FirstName:            r.String("first_name"),
		LastName:             r.String("last_name"),
		Relationship:         r.String("relationship"),
		RelationshipDegree:   asInt(r["relationship_degree"]),
		VerificationStatus:   VerificationStatus(strings.ToLower(r.String("verification_status"))),
		VerifiedDate:         asTime(r["verified_date"]),
		DataSources:          asStrings(r["data_sources"]),
		RelationshipVerified: asBool(r["relationship_verified"]),
		DocumentationExists:  asBool(r["documentation_exists"]),
		Phone:                r.String("phone"),
		Email:                r.String("email"),
		Address:              r.String("address"),
		ContactVerified:      asBool(r["contact_verified"]),
		ContactAttempts:      asInt(r["contact_attempts"]),
		ContactStatus:        r.String("contact_status"),
		DiscoveredBy:         r.String("discovered_by"),
		LegalHeir:            asBool(r["legal_heir"]),
		IntestateShare:       asFloat(r["intestate_share"]),
	}
	if h.Relationship == "" {
		h.Relationship = r.String("relationship_label")
	}
	if v, ok := r["name_match_score"]; ok && v != nil {
		score := asFloat(v)
		h.NameMatchScore = &score
	}
	if h.VerificationStatus == "" {
		h.VerificationStatus = VerificationUnverified
	}
	if h.RelationshipDegree > 0 {
		h.DegreeSource = DegreeFromLabel
	} else {
		h.DegreeSource = DegreeUnknown
	}
	return h
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func asBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return err == nil && b
	case int:
		return val != 0
	case float64:
		return val != 0
	default:
		return false
	}
}

func asInt(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asStrings(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	default:
		return nil
	}
}

var recordTimeLayouts = []string{time.RFC3339, "2006-01-02", "01/02/2006"}

func asTime(v any) *time.Time {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return nil
		}
		return &val
	case *time.Time:
		return val
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range recordTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}
