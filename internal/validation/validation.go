// Package validation holds the field-level predicates the checkout form is
// checked with. A field carries an ordered set of independent rules and is
// valid only when all of them pass.
package validation

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Rule is a single check over a field's current value. A nil value means the
// field was never set.
type Rule struct {
	// Name is the error key reported when the check fails.
	Name  string
	valid func(value *string) bool
}

// Check reports whether value passes the rule
func (r Rule) Check(value *string) bool {
	return r.valid(value)
}

// Required fails on a missing or empty value.
var Required = Rule{
	Name: "required",
	valid: func(value *string) bool {
		return !isEmpty(value)
	},
}

// NotOnlyWhitespace fails when the value is present but blank after trimming.
// Absent values pass; pair it with Required when the field is mandatory.
var NotOnlyWhitespace = Rule{
	Name: "notOnlyWhitespace",
	valid: func(value *string) bool {
		return value == nil || len(strings.TrimSpace(*value)) > 0
	},
}

// MinLength fails when a non-empty value is shorter than n characters.
func MinLength(n int) Rule {
	return Rule{
		Name: "minlength",
		valid: func(value *string) bool {
			if isEmpty(value) {
				return true
			}
			return utf8.RuneCountInString(*value) >= n
		},
	}
}

// Pattern fails when a non-empty value does not match expr as a whole.
// Missing ^ and $ anchors are added.
func Pattern(expr string) Rule {
	if !strings.HasPrefix(expr, "^") {
		expr = "^" + expr
	}
	if !strings.HasSuffix(expr, "$") {
		expr += "$"
	}
	re := regexp.MustCompile(expr)

	return Rule{
		Name: "pattern",
		valid: func(value *string) bool {
			if isEmpty(value) {
				return true
			}
			return re.MatchString(*value)
		},
	}
}

func isEmpty(value *string) bool {
	return value == nil || *value == ""
}

// Validate returns the names of the rules value fails, in rule order.
func Validate(value *string, rules ...Rule) []string {
	var failed []string
	for _, rule := range rules {
		if !rule.Check(value) {
			failed = append(failed, rule.Name)
		}
	}
	return failed
}

// Errors maps a field path (e.g. "customer.email") to its failed rule names.
type Errors map[string][]string

// Add records failures for field; empty names are ignored.
func (e Errors) Add(field string, names ...string) {
	if len(names) == 0 {
		return
	}
	e[field] = append(e[field], names...)
}

// Has reports whether field failed rule name, or any rule when name is "".
func (e Errors) Has(field, name string) bool {
	names, ok := e[field]
	if !ok {
		return false
	}
	if name == "" {
		return true
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Fields returns the failing field paths in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (e Errors) Error() string {
	var b strings.Builder
	for i, f := range e.Fields() {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(strings.Join(e[f], ", "))
	}
	return b.String()
}
