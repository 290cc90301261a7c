package model

// Default confidences assigned by the aggregator per field type
const (
	NameConfidence     = 0.90
	RelativeConfidence = 0.60
	AddressConfidence  = 0.65
	PhoneConfidence    = 0.70
)

// ConsolidatedBundle is the merged view of all source payloads for a subject
type ConsolidatedBundle struct {
	Names        []NameEntry       `json:"names"`
	Relatives    []RelativeEntry   `json:"relatives"`
	Addresses    []AddressEntry    `json:"addresses"`
	PhoneNumbers []PhoneEntry      `json:"phone_numbers"`
	Emails       []EmailEntry      `json:"emails"`
	Ages         []AgeEntry        `json:"ages"`
	VitalRecords []VitalRecord     `json:"vital_records"`
	Sources      []string          `json:"sources"`          // Sources that produced a record
	Errors       map[string]string `json:"errors,omitempty"` // Source -> error message
}

// NameEntry is a name reported for the subject
type NameEntry struct {
	Name       string   `json:"name"`
	Source     string   `json:"source"`
	Provenance []string `json:"provenance"`
	Confidence float64  `json:"confidence"`
}

// RelativeEntry is a relative reported by one or more sources
type RelativeEntry struct {
	Name         string   `json:"name"`
	Relationship string   `json:"relationship"`
	Source       string   `json:"source"`
	Provenance   []string `json:"provenance"`
	Confidence   float64  `json:"confidence"`
}

// AddressEntry is an address reported for the subject
type AddressEntry struct {
	Address    string   `json:"address"`
	Years      string   `json:"years,omitempty"`
	Source     string   `json:"source"`
	Provenance []string `json:"provenance"`
	Confidence float64  `json:"confidence"`
}

// PhoneEntry is a phone number reported for the subject
type PhoneEntry struct {
	Number     string   `json:"number"`
	Source     string   `json:"source"`
	Provenance []string `json:"provenance"`
	Confidence float64  `json:"confidence"`
}

// EmailEntry is an email address reported for the subject
type EmailEntry struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

// AgeEntry is an age range reported for the subject
type AgeEntry struct {
	Range  string `json:"range"`
	Source string `json:"source"`
}

// VitalRecord holds dates and burial data reported by a source
type VitalRecord struct {
	Dates        VitalDates `json:"dates"`
	CemeteryInfo []string   `json:"cemetery_info,omitempty"`
	Source       string     `json:"source"`
}
