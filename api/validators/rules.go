package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/pokeshop-api/pkg/errors"
	"github.com/angelmondragon/pokeshop-api/pkg/types"
)

// Kind is the type a field value must coerce to.
type Kind int

const (
	String Kind = iota
	Int
	Numeric
	Date
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "integer"
	case Numeric:
		return "numeric"
	case Date:
		return "date"
	}
	return "unknown"
}

// Rule names reported in violations.
const (
	RuleRequired = "required"
	RuleNotEmpty = "not_empty"
	RuleType     = "type"
	RuleMin      = "min"
)

// FieldRule describes one body field.
type FieldRule struct {
	Field    string
	Kind     Kind
	Required bool
	Min      *int64
}

// RuleSet is evaluated in declaration order.
type RuleSet []FieldRule

// Partial returns a copy with every field optional. Present fields keep their type and bound checks.
func (rs RuleSet) Partial() RuleSet {
	out := make(RuleSet, len(rs))
	for i, r := range rs {
		r.Required = false
		out[i] = r
	}
	return out
}

// Bound is a convenience for FieldRule.Min.
func Bound(n int64) *int64 {
	return &n
}

type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Validate applies rules to body and returns the coerced values of every present field.
// All violations are collected; the coerced map is nil whenever violations is non-empty.
// Fields without a rule are ignored and JSON null counts as absent.
func Validate(body map[string]any, rules RuleSet) (map[string]any, []Violation) {
	values := make(map[string]any, len(rules))
	var violations []Violation

	for _, rule := range rules {
		raw, present := body[rule.Field]
		if !present || raw == nil {
			if rule.Required {
				violations = append(violations, Violation{
					Field:   rule.Field,
					Rule:    RuleRequired,
					Message: "is required",
				})
			}
			continue
		}

		value, v := coerce(rule, raw)
		if v != nil {
			violations = append(violations, *v)
			continue
		}
		values[rule.Field] = value
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return values, nil
}

// ValidationError wraps violations in the typed error rendered as a 400.
func ValidationError(violations []Violation) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(violations)
}

// Validator tags applied to the canonical text of a value, per kind.
var kindTags = map[Kind]string{
	String:  "required",
	Int:     "numeric",
	Numeric: "numeric",
	Date:    dateTag,
}

const dateTag = "datetime=2006-01-02|datetime=2006-01|datetime=2006-01-02T15:04:05Z07:00|datetime=2006-01-02T15:04:05"

func coerce(rule FieldRule, raw any) (any, *Violation) {
	text, ok := canonicalText(rule.Kind, raw)
	if !ok {
		return nil, typeViolation(rule)
	}
	if err := validate.Var(text, kindTags[rule.Kind]); err != nil {
		return nil, violationFromError(rule, err)
	}

	switch rule.Kind {
	case String:
		return text, nil

	case Date:
		d, err := types.ParseDate(text)
		if err != nil {
			return nil, typeViolation(rule)
		}
		return d, nil

	case Int:
		d, err := decimal.NewFromString(text)
		if err != nil || !d.IsInteger() || d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
			return nil, typeViolation(rule)
		}
		n := d.IntPart()
		if rule.Min != nil {
			if err := validate.Var(n, fmt.Sprintf("gte=%d", *rule.Min)); err != nil {
				return nil, violationFromError(rule, err)
			}
		}
		return n, nil

	case Numeric:
		d, err := decimal.NewFromString(text)
		if err != nil {
			return nil, typeViolation(rule)
		}
		if rule.Min != nil {
			if err := validate.Var(d.InexactFloat64(), fmt.Sprintf("gte=%d", *rule.Min)); err != nil {
				return nil, violationFromError(rule, err)
			}
		}
		return d, nil
	}

	return nil, typeViolation(rule)
}

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// canonicalText returns the trimmed text the kind's tag is checked against. Strings and
// dates must arrive as JSON strings; numbers may arrive as JSON numbers or numeric strings.
func canonicalText(kind Kind, raw any) (string, bool) {
	switch kind {
	case String, Date:
		s, ok := raw.(string)
		if !ok {
			return "", false
		}
		return SanitizeString(s, 0), true
	}

	switch v := raw.(type) {
	case json.Number:
		return v.String(), true
	case string:
		return strings.TrimSpace(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	}
	return "", false
}

func typeViolation(rule FieldRule) *Violation {
	msg := fmt.Sprintf("must be a valid %s", rule.Kind)
	if rule.Kind == Date {
		msg = "must be an ISO-8601 date"
	}
	return &Violation{Field: rule.Field, Rule: RuleType, Message: msg}
}

// violationFromError maps the first validator failure onto a Violation.
func violationFromError(rule FieldRule, err error) *Violation {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return typeViolation(rule)
	}

	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return &Violation{Field: rule.Field, Rule: RuleNotEmpty, Message: "must not be empty"}
	case "gte":
		return &Violation{Field: rule.Field, Rule: RuleMin, Message: fmt.Sprintf("must be at least %s", fe.Param())}
	}
	return typeViolation(rule)
}
