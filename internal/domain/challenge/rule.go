package challenge

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/cinephile-labs/cinephile/internal/domain"
)

// Operator is a rule comparison operator.
type Operator string

const (
	// OpEq tests direct equality.
	OpEq Operator = "eq"
	// OpNeq tests direct inequality.
	OpNeq Operator = "neq"
	// OpGt tests strict greater-than ordering.
	OpGt Operator = "gt"
	// OpGte tests greater-or-equal ordering.
	OpGte Operator = "gte"
	// OpLt tests strict less-than ordering.
	OpLt Operator = "lt"
	// OpLte tests less-or-equal ordering.
	OpLte Operator = "lte"
	// OpIn tests membership of the field value in a list-valued rule value.
	OpIn Operator = "in"
	// OpContains tests that the field collection or string contains the rule value.
	OpContains Operator = "contains"
)

// Rule is a single declarative predicate over a record attribute.
type Rule struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// Validate checks the rule shape.
func (r *Rule) Validate() error {
	if r.Field == "" {
		return fmt.Errorf("rule field is required: %w", domain.ErrInvalidChallenge)
	}
	switch r.Operator {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn, OpContains:
	default:
		return fmt.Errorf("unknown operator %q: %w", r.Operator, domain.ErrInvalidChallenge)
	}
	if r.Value == nil {
		return fmt.Errorf("rule value is required: %w", domain.ErrInvalidChallenge)
	}
	return nil
}

// Evaluate applies one rule to one record. Pure and total: missing or nil
// fields never satisfy a rule, type mismatches and unknown operators
// evaluate to false instead of failing.
func Evaluate(record map[string]any, rule Rule) bool {
	fieldValue, ok := record[rule.Field]
	if !ok || fieldValue == nil {
		return false
	}

	switch rule.Operator {
	case OpEq:
		return equal(fieldValue, rule.Value)
	case OpNeq:
		return !equal(fieldValue, rule.Value)
	case OpGt:
		cmp, ok := compare(fieldValue, rule.Value)
		return ok && cmp > 0
	case OpGte:
		cmp, ok := compare(fieldValue, rule.Value)
		return ok && cmp >= 0
	case OpLt:
		cmp, ok := compare(fieldValue, rule.Value)
		return ok && cmp < 0
	case OpLte:
		cmp, ok := compare(fieldValue, rule.Value)
		return ok && cmp <= 0
	case OpIn:
		items, ok := asList(rule.Value)
		if !ok {
			return false
		}
		for _, item := range items {
			if equal(fieldValue, item) {
				return true
			}
		}
		return false
	case OpContains:
		if items, ok := asList(fieldValue); ok {
			for _, item := range items {
				if equal(item, rule.Value) {
					return true
				}
			}
			return false
		}
		if s, ok := fieldValue.(string); ok {
			return strings.Contains(s, fmt.Sprint(rule.Value))
		}
		return false
	default:
		return false
	}
}

// equal compares two values, treating any pair of numbers numerically so
// that e.g. int64(5) from storage equals float64(5) from JSON.
func equal(a, b any) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af == bf
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two values. Numbers compare numerically, strings
// lexicographically; anything else is not ordinarily comparable.
func compare(a, b any) (int, bool) {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}

	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}

	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// asList exposes any slice or array value as []any; strings are not lists.
func asList(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
