package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/postudio/postudio-terminal/pkg/models"
)

// FieldType represents the part of an entry a condition looks at
type FieldType string

const (
	FieldStatus      FieldType = "status"
	FieldSource      FieldType = "source"
	FieldTranslation FieldType = "translation"
	FieldContext     FieldType = "context"
	FieldFlag        FieldType = "flag"
	FieldReference   FieldType = "ref"
	// FieldContent matches source or translation.
	FieldContent FieldType = "content"
)

// Operator represents a search operator
type Operator string

const (
	OperatorEquals   Operator = "="
	OperatorContains Operator = "contains"
	OperatorAND      Operator = "AND"
	OperatorOR       Operator = "OR"
)

// Condition represents a single search condition
type Condition struct {
	Field    FieldType
	Operator Operator
	Value    string
	Negate   bool
}

// Query represents a parsed search query
type Query struct {
	Conditions []Condition
	Logic      []Operator // between conditions, evaluated left to right
	Raw        string
}

// Parser handles parsing of search queries such as
//
//	status:fuzzy AND NOT translation:"TODO"
type Parser struct {
	fieldPattern  *regexp.Regexp
	quotedPattern *regexp.Regexp
}

func NewParser() *Parser {
	return &Parser{
		fieldPattern:  regexp.MustCompile(`^(\w+):(.+)$`),
		quotedPattern: regexp.MustCompile(`^"([^"]*)"$`),
	}
}

// Parse parses a search query string into a Query object
func (p *Parser) Parse(input string) (*Query, error) {
	query := &Query{
		Raw:        input,
		Conditions: []Condition{},
		Logic:      []Operator{},
	}

	if err := p.parseTokens(p.tokenize(input), query); err != nil {
		return nil, err
	}
	return query, nil
}

// tokenize splits on spaces outside double quotes.
func (p *Parser) tokenize(input string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false

	for _, r := range input {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ' ' && !inQuotes:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func (p *Parser) parseTokens(tokens []string, query *Query) error {
	pendingLogic := false

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		negate := false

		switch strings.ToUpper(token) {
		case "AND", "OR":
			if len(query.Conditions) == 0 {
				return fmt.Errorf("unexpected operator %s at beginning of query", token)
			}
			if pendingLogic {
				return fmt.Errorf("unexpected operator %s after %s", token, query.Logic[len(query.Logic)-1])
			}
			query.Logic = append(query.Logic, Operator(strings.ToUpper(token)))
			pendingLogic = true
			continue
		case "NOT":
			i++
			if i >= len(tokens) {
				return fmt.Errorf("NOT operator requires a condition")
			}
			token = tokens[i]
			negate = true
		}

		cond, err := p.parseCondition(token)
		if err != nil {
			return err
		}
		cond.Negate = negate

		// Adjacent conditions are joined with AND.
		if len(query.Conditions) > 0 && !pendingLogic {
			query.Logic = append(query.Logic, OperatorAND)
		}
		query.Conditions = append(query.Conditions, *cond)
		pendingLogic = false
	}

	if pendingLogic {
		return fmt.Errorf("query ends with operator %s", query.Logic[len(query.Logic)-1])
	}
	return nil
}

func (p *Parser) parseCondition(token string) (*Condition, error) {
	matches := p.fieldPattern.FindStringSubmatch(token)
	if len(matches) != 3 {
		return &Condition{Field: FieldContent, Operator: OperatorContains, Value: p.unquote(token)}, nil
	}

	field := strings.ToLower(matches[1])
	value := p.unquote(matches[2])

	switch FieldType(field) {
	case FieldStatus:
		value = strings.ToLower(value)
		switch value {
		case models.StatusTranslated, models.StatusFuzzy, models.StatusUntranslated:
		default:
			return nil, fmt.Errorf("invalid status: %s (must be: translated, fuzzy or untranslated)", value)
		}
		return &Condition{Field: FieldStatus, Operator: OperatorEquals, Value: value}, nil
	case FieldFlag:
		return &Condition{Field: FieldFlag, Operator: OperatorEquals, Value: value}, nil
	case FieldSource, FieldTranslation, FieldContext, FieldReference, FieldContent:
		return &Condition{Field: FieldType(field), Operator: OperatorContains, Value: value}, nil
	case "ctx", "msgctxt":
		return &Condition{Field: FieldContext, Operator: OperatorContains, Value: value}, nil
	default:
		return nil, fmt.Errorf("unknown field: %s", field)
	}
}

func (p *Parser) unquote(s string) string {
	if matches := p.quotedPattern.FindStringSubmatch(s); len(matches) == 2 {
		return matches[1]
	}
	return s
}
