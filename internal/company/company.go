package company

import (
	"strings"
)

const (
	// NoNameFound is stored in Record.Name when the model did not return a name.
	NoNameFound = "NO_NAME_FOUND"
	// NoIndustryFound is stored in Record.Industry when the model did not return an industry.
	NoIndustryFound = "NO_INDUSTRY_FOUND"
)

// Profile is the raw free-text description of a company returned by a profile source.
type Profile struct {
	Name string
	URL  string
	Text string
}

// Record holds the structured attributes extracted from a profile.
// The sentinel values are valid data, not errors.
type Record struct {
	Name         string `json:"company_name"`
	EmployeeSize int64  `json:"employee_size"`
	Revenue      int64  `json:"revenue"`
	Industry     string `json:"industry"`
}

// DefaultRecord returns a record with every field set to its documented default.
func DefaultRecord() Record {
	return Record{
		Name:     NoNameFound,
		Industry: NoIndustryFound,
	}
}

// Normalize fills empty fields with defaults, clamps negative counts and lower-cases the industry.
func (r Record) Normalize() Record {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		r.Name = NoNameFound
	}

	if r.EmployeeSize < 0 {
		r.EmployeeSize = 0
	}
	if r.Revenue < 0 {
		r.Revenue = 0
	}

	r.Industry = strings.ToLower(strings.TrimSpace(r.Industry))
	if r.Industry == "" || r.Industry == strings.ToLower(NoIndustryFound) {
		r.Industry = NoIndustryFound
	}

	return r
}

// Weights are the scoring parameters used for one industry.
type Weights struct {
	WeightEmployee  float64 `json:"weight_employee" mapstructure:"weight-employee"`
	WeightRevenue   float64 `json:"weight_revenue" mapstructure:"weight-revenue"`
	WeightIndustry  float64 `json:"weight_industry" mapstructure:"weight-industry"`
	IndustryScore   float64 `json:"industry_score" mapstructure:"industry-score"`
	MaxEmployeeSize int64   `json:"max_employee_size" mapstructure:"max-employee-size"`
	MaxRevenue      int64   `json:"max_revenue" mapstructure:"max-revenue"`
}

// Scored is the terminal artifact of a pipeline run.
type Scored struct {
	Record
	Score float64 `json:"score"`
	// KnownIndustry reports whether Weights came from the industry table rather than the defaults.
	KnownIndustry bool    `json:"known_industry"`
	Weights       Weights `json:"weights"`
	Source        string  `json:"source,omitempty"`
	Product       string  `json:"product,omitempty"`
}
