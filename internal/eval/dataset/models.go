package dataset

import "strings"

// Record is one labeled news item.
// JSONL lines and parquet rows share the same field names.
type Record struct {
	ID    string `json:"id" parquet:"id"`
	Text  string `json:"text" parquet:"text"`
	Label string `json:"label" parquet:"label"`
}

// NormalizedLabel returns the label as REAL or FAKE, or "" when the label is
// not recognized. Boolean style labels are accepted, true meaning REAL.
func (r *Record) NormalizedLabel() string {
	switch strings.ToUpper(strings.TrimSpace(r.Label)) {
	case "REAL", "TRUE":
		return "REAL"
	case "FAKE", "FALSE":
		return "FAKE"
	default:
		return ""
	}
}
