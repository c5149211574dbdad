package search

import (
	"fmt"
	"strings"

	"github.com/postudio/postudio-terminal/pkg/models"
)

// Filter returns the indices of entries matching queryStr, in entry order.
// An empty query matches every entry.
func Filter(entries []models.Entry, queryStr string) ([]int, error) {
	query, err := NewParser().Parse(queryStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	matches := []int{}
	for i, e := range entries {
		if query.Match(e) {
			matches = append(matches, i)
		}
	}
	return matches, nil
}

// Match reports whether e satisfies the query. Operators are applied left to
// right without precedence.
func (q *Query) Match(e models.Entry) bool {
	if len(q.Conditions) == 0 {
		return true
	}

	result := q.Conditions[0].Match(e)
	for i := 1; i < len(q.Conditions); i++ {
		next := q.Conditions[i].Match(e)
		switch q.Logic[i-1] {
		case OperatorOR:
			result = result || next
		default:
			result = result && next
		}
	}
	return result
}

// Match evaluates a single condition. Text comparisons ignore case.
func (c Condition) Match(e models.Entry) bool {
	var ok bool
	switch c.Field {
	case FieldStatus:
		ok = e.Status() == c.Value
	case FieldFlag:
		ok = strings.EqualFold(c.Value, "fuzzy") && e.Fuzzy
		for _, f := range e.Flags {
			if strings.EqualFold(f, c.Value) {
				ok = true
			}
		}
	case FieldSource:
		ok = containsFold(e.Source, c.Value)
	case FieldTranslation:
		ok = containsFold(e.Translation, c.Value)
	case FieldContext:
		ok = containsFold(e.Context, c.Value)
	case FieldReference:
		for _, r := range e.References {
			if containsFold(r, c.Value) {
				ok = true
			}
		}
	default:
		ok = containsFold(e.Source, c.Value) || containsFold(e.Translation, c.Value)
	}
	if c.Negate {
		return !ok
	}
	return ok
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
