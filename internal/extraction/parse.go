package extraction

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/fitscore/internal/company"
)

const (
	fieldName      = "company_name"
	fieldEmployees = "employee_size"
	fieldRevenue   = "revenue"
	fieldIndustry  = "industry"
)

// jsonObject spans from the first '{' to the last '}' in the text, across newlines.
var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

var amountPattern = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*(trillion|billion|million|thousand|tn|bn|mn|t|b|m|k)?\b`)

var multipliers = map[string]float64{
	"":         1,
	"k":        1e3,
	"thousand": 1e3,
	"m":        1e6,
	"mn":       1e6,
	"million":  1e6,
	"b":        1e9,
	"bn":       1e9,
	"billion":  1e9,
	"t":        1e12,
	"tn":       1e12,
	"trillion": 1e12,
}

// LocateJSON returns the greedy '{'...'}' substring of the completion text.
// It fails with company.ErrMalformedResponse when there is none.
func LocateJSON(text string) (string, error) {
	match := jsonObject.FindString(text)
	if match == "" {
		return "", company.ErrMalformedResponse
	}
	return match, nil
}

// ParseRecord decodes a located JSON candidate into a record.
// It never fails: unparsable input yields DefaultRecord and undecodable fields keep their defaults.
func ParseRecord(candidate string) company.Record {
	record, _ := parseRecord(candidate)
	return record
}

// parseRecord also returns the reasons the record was degraded, for logging.
func parseRecord(candidate string) (company.Record, []string) {
	var data map[string]any
	if err := json.Unmarshal([]byte(candidate), &data); err != nil {
		return company.DefaultRecord(), []string{fmt.Sprintf("parse json: %v", err)}
	}

	var issues []string
	record := company.Record{}

	if v, ok := present(data, fieldName); !ok {
		issues = append(issues, fieldName+" missing")
	} else if err := weakDecode(v, &record.Name); err != nil {
		issues = append(issues, fmt.Sprintf("%s: %v", fieldName, err))
	}

	if v, ok := present(data, fieldEmployees); !ok {
		issues = append(issues, fieldEmployees+" missing")
	} else if err := weakDecode(v, &record.EmployeeSize); err != nil {
		record.EmployeeSize = 0
		issues = append(issues, fmt.Sprintf("%s: %v", fieldEmployees, err))
	}

	if v, ok := present(data, fieldRevenue); !ok {
		issues = append(issues, fieldRevenue+" missing")
	} else if err := weakDecode(v, &record.Revenue); err != nil {
		record.Revenue = 0
		issues = append(issues, fmt.Sprintf("%s: %v", fieldRevenue, err))
	}

	if v, ok := present(data, fieldIndustry); !ok {
		issues = append(issues, fieldIndustry+" missing")
	} else if err := weakDecode(v, &record.Industry); err != nil {
		record.Industry = ""
		issues = append(issues, fmt.Sprintf("%s: %v", fieldIndustry, err))
	}

	return record.Normalize(), issues
}

func present(data map[string]any, key string) (any, bool) {
	v, ok := data[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func weakDecode(input, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncKind(amountHook),
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// amountHook converts model output such as "15B", "$1,234" or 2.5e9 into int64.
func amountHook(from, to reflect.Kind, data any) (any, error) {
	if to != reflect.Int64 {
		return data, nil
	}

	switch from {
	case reflect.String:
		return ParseAmount(reflect.ValueOf(data).String())
	case reflect.Float32, reflect.Float64:
		return floatToInt(reflect.ValueOf(data).Float()), nil
	default:
		return data, nil
	}
}

// ParseAmount reads a human-written amount. It accepts plain integers, decimals,
// thousands separators, currency markers and the k/m/b/t shorthands with their long forms.
func ParseAmount(s string) (int64, error) {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	cleaned = strings.NewReplacer(",", "", "_", "", "us$", "", "$", "", "usd", "", "€", "", "£", "", "~", "").Replace(cleaned)
	cleaned = strings.TrimSpace(cleaned)

	if f, err := strconv.ParseFloat(cleaned, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return floatToInt(f), nil
	}

	match := pickAmount(amountPattern.FindAllStringSubmatch(cleaned, -1))
	if match == nil {
		return 0, fmt.Errorf("no amount in %q", s)
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}

	return floatToInt(value * multipliers[match[2]]), nil
}

// pickAmount prefers the first number with a magnitude suffix, then the first one that
// does not look like a year ("FY2023: 15B").
func pickAmount(matches [][]string) []string {
	if len(matches) == 0 {
		return nil
	}

	for _, m := range matches {
		if m[2] != "" {
			return m
		}
	}
	for _, m := range matches {
		if !isYear(m[1]) {
			return m
		}
	}
	return matches[0]
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	year, err := strconv.Atoi(s)
	return err == nil && year >= 1900 && year <= 2100
}

func floatToInt(f float64) int64 {
	switch {
	case math.IsNaN(f), f <= 0:
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	default:
		return int64(math.Round(f))
	}
}
