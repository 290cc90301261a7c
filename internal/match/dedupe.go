package match

import (
	"errors"
	"fmt"

	"github.com/ppiankov/heirtrace/internal/model"
)

// ErrBatchTooLarge is returned when a duplicate search exceeds MaxDuplicateBatch
var ErrBatchTooLarge = errors.New("duplicate batch too large")

// MatchType selects the comparison used by FindDuplicates
type MatchType string

const (
	MatchByName    MatchType = "name"
	MatchByAddress MatchType = "address"
	MatchByPhone   MatchType = "phone"
)

// ParseMatchType converts a user-supplied string into a MatchType
func ParseMatchType(s string) (MatchType, error) {
	switch MatchType(s) {
	case MatchByName, MatchByAddress, MatchByPhone:
		return MatchType(s), nil
	default:
		return "", fmt.Errorf("unknown match type %q (want name, address or phone)", s)
	}
}

func (m *Matcher) comparator(t MatchType) func(a, b string) (bool, float64) {
	switch t {
	case MatchByAddress:
		return m.MatchAddresses
	case MatchByPhone:
		return m.MatchPhoneNumbers
	default:
		return m.MatchNames
	}
}

// FindDuplicates groups records whose keyField values match.
// Each unclaimed record anchors a group and claims every later unclaimed
// record that matches the anchor; only groups of two or more are returned.
// Groups are not transitive: a record matching a non-anchor member is not pulled in.
func (m *Matcher) FindDuplicates(records []model.Record, keyField string, matchType MatchType) [][]model.Record {
	match := m.comparator(matchType)
	claimed := make([]bool, len(records))
	var groups [][]model.Record

	for i, anchor := range records {
		if claimed[i] {
			continue
		}
		anchorValue := anchor.String(keyField)
		group := []model.Record{anchor}

		for j := i + 1; j < len(records); j++ {
			if claimed[j] {
				continue
			}
			if ok, _ := match(anchorValue, records[j].String(keyField)); ok {
				group = append(group, records[j])
				claimed[j] = true
			}
		}

		if len(group) > 1 {
			claimed[i] = true
			groups = append(groups, group)
		}
	}
	return groups
}

// FindDuplicatesChecked is FindDuplicates with the MaxDuplicateBatch guard
func (m *Matcher) FindDuplicatesChecked(records []model.Record, keyField string, matchType MatchType) ([][]model.Record, error) {
	if m.MaxDuplicateBatch > 0 && len(records) > m.MaxDuplicateBatch {
		return nil, fmt.Errorf("%w: %d records (max %d)", ErrBatchTooLarge, len(records), m.MaxDuplicateBatch)
	}
	return m.FindDuplicates(records, keyField, matchType), nil
}

// MergeDuplicateRecords folds a duplicate group into one record.
// The first record wins; later records fill keys that are missing or empty,
// and sequence values are concatenated. The result records how many records
// were merged and their ids.
func MergeDuplicateRecords(group []model.Record) model.Record {
	if len(group) == 0 {
		return model.Record{}
	}

	merged := group[0].Clone()
	for _, rec := range group[1:] {
		for key, value := range rec {
			current, ok := merged[key]
			if !ok || model.IsEmptyValue(current) {
				merged[key] = copySequence(value)
				continue
			}
			merged[key] = appendSequence(current, value)
		}
	}

	ids := make([]any, 0, len(group))
	for _, rec := range group {
		if id, ok := rec["id"]; ok {
			ids = append(ids, id)
		}
	}
	merged[model.KeyMergedFrom] = len(group)
	merged[model.KeyDuplicateIDs] = ids
	return merged
}

func copySequence(v any) any {
	switch seq := v.(type) {
	case []any:
		return append([]any(nil), seq...)
	case []string:
		return append([]string(nil), seq...)
	}
	return v
}

// appendSequence extends current when it is a sequence and leaves scalars alone
func appendSequence(current, value any) any {
	switch seq := current.(type) {
	case []any:
		if more, ok := value.([]any); ok {
			return append(seq, more...)
		}
		if more, ok := value.([]string); ok {
			for _, s := range more {
				seq = append(seq, s)
			}
			return seq
		}
		return append(seq, value)
	case []string:
		switch more := value.(type) {
		case []string:
			return append(seq, more...)
		case string:
			return append(seq, more)
		case []any:
			out := make([]any, 0, len(seq)+len(more))
			for _, s := range seq {
				out = append(out, s)
			}
			return append(out, more...)
		default:
			out := make([]any, 0, len(seq)+1)
			for _, s := range seq {
				out = append(out, s)
			}
			return append(out, value)
		}
	default:
		return current
	}
}
