package model

import (
	"encoding/json"
	"errors"

	"gopkg.in/yaml.v3"
)

// SourceRecord is one payload returned by a data source about a subject
type SourceRecord struct {
	Name         string           `json:"name,omitempty" yaml:"name,omitempty"`
	Relatives    []RelativeRecord `json:"relatives,omitempty" yaml:"relatives,omitempty"`
	Addresses    []AddressRecord  `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	PhoneNumbers []string         `json:"phone_numbers,omitempty" yaml:"phone_numbers,omitempty"`
	Emails       []string         `json:"emails,omitempty" yaml:"emails,omitempty"`
	AgeRange     string           `json:"age_range,omitempty" yaml:"age_range,omitempty"`
	Dates        *VitalDates      `json:"dates,omitempty" yaml:"dates,omitempty"`
	CemeteryInfo []string         `json:"cemetery_info,omitempty" yaml:"cemetery_info,omitempty"`
}

// RelativeRecord is a relative as reported by a source. Sources that only
// list names may encode a relative as a bare string.
type RelativeRecord struct {
	Name         string   `json:"name" yaml:"name"`
	Relationship string   `json:"relationship,omitempty" yaml:"relationship,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// AddressRecord is an address as reported by a source, optionally with the
// years the subject lived there. Bare strings are accepted.
type AddressRecord struct {
	Address    string   `json:"address" yaml:"address"`
	Years      string   `json:"years,omitempty" yaml:"years,omitempty"`
	Confidence *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// VitalDates carries birth and death dates as reported (free text)
type VitalDates struct {
	Birth string `json:"birth,omitempty" yaml:"birth,omitempty"`
	Death string `json:"death,omitempty" yaml:"death,omitempty"`
}

// SourceResult is either a record or an error marker for one source
type SourceResult struct {
	Record *SourceRecord `json:"record,omitempty" yaml:"record,omitempty"`
	Error  string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the source produced a usable record
func (r SourceResult) OK() bool {
	return r.Error == "" && r.Record != nil
}

// Failed builds an error marker result
func Failed(err error) SourceResult {
	if err == nil {
		err = errors.New("unknown source error")
	}
	return SourceResult{Error: err.Error()}
}

// Succeeded builds a successful result
func Succeeded(rec *SourceRecord) SourceResult {
	return SourceResult{Record: rec}
}

// UnmarshalJSON accepts either a bare name or an object
func (r *RelativeRecord) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*r = RelativeRecord{Name: name}
		return nil
	}
	type plain RelativeRecord
	return json.Unmarshal(data, (*plain)(r))
}

// UnmarshalYAML accepts either a bare name or a mapping
func (r *RelativeRecord) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*r = RelativeRecord{Name: node.Value}
		return nil
	}
	type plain RelativeRecord
	return node.Decode((*plain)(r))
}

// UnmarshalJSON accepts either a bare address or an object
func (a *AddressRecord) UnmarshalJSON(data []byte) error {
	var addr string
	if err := json.Unmarshal(data, &addr); err == nil {
		*a = AddressRecord{Address: addr}
		return nil
	}
	type plain AddressRecord
	return json.Unmarshal(data, (*plain)(a))
}

// UnmarshalYAML accepts either a bare address or a mapping
func (a *AddressRecord) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*a = AddressRecord{Address: node.Value}
		return nil
	}
	type plain AddressRecord
	return node.Decode((*plain)(a))
}
