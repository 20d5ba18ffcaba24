package scoring

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/spigell/fitscore/internal/company"
)

// DefaultWeights are applied when an industry is not in the table.
// The revenue ceiling is deliberately huge so unknown industries get almost no revenue credit.
var DefaultWeights = company.Weights{
	WeightEmployee:  0.3,
	WeightRevenue:   0.7,
	WeightIndustry:  0.2,
	IndustryScore:   0.5,
	MaxEmployeeSize: 500_000,
	MaxRevenue:      100_000_000_000_000,
}

// Industry is a single table entry.
type Industry struct {
	Name    string
	Aliases []string
	Weights company.Weights
}

// BuiltinIndustries returns the hand-tuned industry entries.
func BuiltinIndustries() []Industry {
	return []Industry{
		{
			Name: "automotive",
			Weights: company.Weights{
				WeightEmployee: 0.4, WeightRevenue: 0.4, WeightIndustry: 0.2, IndustryScore: 0.85,
				MaxEmployeeSize: 500_000, MaxRevenue: 500_000_000_000,
			},
		},
		{
			Name:    "telecommunications",
			Aliases: []string{"telecom", "telecommunication"},
			Weights: company.Weights{
				WeightEmployee: 0.3, WeightRevenue: 0.5, WeightIndustry: 0.2, IndustryScore: 0.9,
				MaxEmployeeSize: 300_000, MaxRevenue: 300_000_000_000,
			},
		},
		{
			Name: "healthcare",
			Weights: company.Weights{
				WeightEmployee: 0.3, WeightRevenue: 0.5, WeightIndustry: 0.2, IndustryScore: 0.9,
				MaxEmployeeSize: 1_000_000, MaxRevenue: 400_000_000_000,
			},
		},
		{
			Name: "retail",
			Weights: company.Weights{
				WeightEmployee: 0.3, WeightRevenue: 0.4, WeightIndustry: 0.3, IndustryScore: 0.7,
				MaxEmployeeSize: 2_000_000, MaxRevenue: 600_000_000_000,
			},
		},
		{
			Name: "financial services",
			Weights: company.Weights{
				WeightEmployee: 0.25, WeightRevenue: 0.55, WeightIndustry: 0.2, IndustryScore: 0.8,
				MaxEmployeeSize: 500_000, MaxRevenue: 500_000_000_000,
			},
		},
		{
			// Wikipedia infoboxes render this as "Audio streaming<br>Podcasting".
			Name:    "audio streaming/podcasting",
			Aliases: []string{"audio streamingpodcasting", "audio streaming", "podcasting", "audio streaming and podcasting"},
			Weights: company.Weights{
				WeightEmployee: 0.2, WeightRevenue: 0.5, WeightIndustry: 0.3, IndustryScore: 0.65,
				MaxEmployeeSize: 20_000, MaxRevenue: 10_000_000_000,
			},
		},
	}
}

// Table is an immutable industry lookup. Safe for concurrent use.
type Table struct {
	defaults company.Weights
	entries  map[string]company.Weights
	names    []string
}

// NewTable builds a table from the given entries. Later entries override earlier ones with the same key.
func NewTable(defaults company.Weights, industries []Industry) (*Table, error) {
	if err := Validate(defaults); err != nil {
		return nil, fmt.Errorf("default weights: %w", err)
	}

	t := &Table{
		defaults: defaults,
		entries:  make(map[string]company.Weights, len(industries)),
	}

	named := make(map[string]bool, len(industries))
	for _, industry := range industries {
		key := lookupKey(industry.Name)
		if key == "" {
			return nil, fmt.Errorf("industry name must not be empty")
		}
		if err := Validate(industry.Weights); err != nil {
			return nil, fmt.Errorf("industry %q: %w", industry.Name, err)
		}

		if !named[key] {
			named[key] = true
			t.names = append(t.names, normalizeLabel(industry.Name))
		}
		t.entries[key] = industry.Weights

		for _, alias := range industry.Aliases {
			if alias = lookupKey(alias); alias != "" {
				t.entries[alias] = industry.Weights
			}
		}
	}

	slices.Sort(t.names)
	return t, nil
}

// DefaultTable returns the built-in table.
func DefaultTable() *Table {
	t, err := NewTable(DefaultWeights, BuiltinIndustries())
	if err != nil {
		panic(fmt.Sprintf("builtin industry table is invalid: %v", err))
	}
	return t
}

// Lookup returns the weights for the industry. The label is matched case-insensitively
// with whitespace collapsed, and list separators (",", "/", "&", ";", "and") are equivalent,
// so "Audio streaming, Podcasting" finds "audio streaming/podcasting".
// Unknown labels get the defaults and false.
func (t *Table) Lookup(industry string) (company.Weights, bool) {
	if w, ok := t.entries[lookupKey(industry)]; ok {
		return w, true
	}
	return t.defaults, false
}

// Defaults returns the fallback weights.
func (t *Table) Defaults() company.Weights {
	return t.defaults
}

// Industries returns the canonical industry labels in sorted order.
func (t *Table) Industries() []string {
	return slices.Clone(t.names)
}

// Validate rejects negative weights, scores and ceilings.
func Validate(w company.Weights) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"weight-employee", w.WeightEmployee},
		{"weight-revenue", w.WeightRevenue},
		{"weight-industry", w.WeightIndustry},
		{"industry-score", w.IndustryScore},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) {
			return fmt.Errorf("%s must not be negative: %v", f.name, f.value)
		}
	}
	if w.MaxEmployeeSize < 0 {
		return fmt.Errorf("max-employee-size must not be negative: %d", w.MaxEmployeeSize)
	}
	if w.MaxRevenue < 0 {
		return fmt.Errorf("max-revenue must not be negative: %d", w.MaxRevenue)
	}
	return nil
}

func normalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

var separators = strings.NewReplacer(",", " ", "/", " ", "&", " ", ";", " ", "|", " ")

// lookupKey reduces a label to its words, dropping list separators.
func lookupKey(label string) string {
	words := strings.Fields(separators.Replace(strings.ToLower(label)))
	words = slices.DeleteFunc(words, func(w string) bool { return w == "and" })
	return strings.Join(words, " ")
}

// Merge applies configured overrides to the base entries. An override whose name matches an
// existing entry replaces its weights and keeps its aliases; other overrides are appended.
func Merge(base []Industry, overrides map[string]company.Weights) []Industry {
	merged := make([]Industry, 0, len(base)+len(overrides))
	index := make(map[string]int, len(base))
	for _, industry := range base {
		index[lookupKey(industry.Name)] = len(merged)
		merged = append(merged, industry)
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		key := lookupKey(name)
		if i, ok := index[key]; ok {
			merged[i].Weights = overrides[name]
			continue
		}
		index[key] = len(merged)
		merged = append(merged, Industry{Name: name, Weights: overrides[name]})
	}

	return merged
}
