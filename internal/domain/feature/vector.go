package feature

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/merito/gigscore/internal/domain/model"
)

// Build produces the weighted feature vector for a role. Missing keys
// default to 0. For unknown roles it falls back to the raw feature
// mapping in sorted-key order with unit weights; the fallback flag is
// true so callers can report the lower-fidelity path. The fallback is
// deliberate, not an error.
func Build(role model.Role, features map[string]float64) (vec []float64, fallback bool) {
	schema, ok := SchemaFor(role)
	if !ok {
		keys := make([]string, 0, len(features))
		for k := range features {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		vec = make([]float64, 0, len(keys))
		for _, k := range keys {
			vec = append(vec, features[k])
		}
		return vec, true
	}

	vec = make([]float64, VectorSize)
	for i, name := range schema.Names {
		vec[i] = features[name] * schema.Weights[i]
	}
	return vec, false
}

// Coerce converts a loosely typed feature mapping (as decoded from
// JSON) into numeric features. Non-numeric values are coerced to 0 and
// a warning is recorded per offending key; parsing never fails.
func Coerce(raw map[string]any) (map[string]float64, []string) {
	features := make(map[string]float64, len(raw))
	var warnings []string
	for k, v := range raw {
		switch n := v.(type) {
		case float64:
			features[k] = n
		case int:
			features[k] = float64(n)
		case int64:
			features[k] = float64(n)
		case bool:
			features[k] = 0
			if n {
				features[k] = 1
			}
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("feature %q has non-numeric value %q, coerced to 0", k, n))
				f = 0
			}
			features[k] = f
		case nil:
			warnings = append(warnings, fmt.Sprintf("feature %q is null, coerced to 0", k))
			features[k] = 0
		default:
			warnings = append(warnings, fmt.Sprintf("feature %q has invalid type %T, coerced to 0", k, v))
			features[k] = 0
		}
	}
	sort.Strings(warnings)
	return features, warnings
}
