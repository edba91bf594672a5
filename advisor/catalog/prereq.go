package catalog

import (
	"fmt"
	"strings"
)

type PrereqOp string

const (
	// PrereqCourse is a leaf: one required course.
	PrereqCourse PrereqOp = "course"
	// PrereqAll requires every term (AND).
	PrereqAll PrereqOp = "all"
	// PrereqAny requires at least one term (OR).
	PrereqAny PrereqOp = "any"
)

// PrereqExpr is a prerequisite expression tree: course leaves combined with
// AND/OR. A nil expression means no prerequisites.
type PrereqExpr struct {
	Op     PrereqOp      `json:"op"`
	Course CourseID      `json:"course,omitzero"`
	Terms  []*PrereqExpr `json:"terms,omitempty"`
}

// Satisfied evaluates the expression against a set of completed courses.
func (e *PrereqExpr) Satisfied(completed map[CourseID]struct{}) bool {
	if e == nil {
		return true
	}
	switch e.Op {
	case PrereqCourse:
		_, ok := completed[e.Course]
		return ok
	case PrereqAll:
		for _, t := range e.Terms {
			if !t.Satisfied(completed) {
				return false
			}
		}
		return true
	case PrereqAny:
		for _, t := range e.Terms {
			if t.Satisfied(completed) {
				return true
			}
		}
		return len(e.Terms) == 0
	default:
		return true
	}
}

func (e *PrereqExpr) String() string {
	if e == nil {
		return ""
	}
	switch e.Op {
	case PrereqCourse:
		return e.Course.String()
	case PrereqAll, PrereqAny:
		joiner := " and "
		if e.Op == PrereqAny {
			joiner = " or "
		}
		parts := make([]string, 0, len(e.Terms))
		for _, t := range e.Terms {
			s := t.String()
			if len(t.Terms) > 1 {
				s = "(" + s + ")"
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, joiner)
	default:
		return ""
	}
}

// ParsePrereq parses upstream prerequisite text such as
// "CSCI 103 and (CSCI 170 or EE 109)". AND binds tighter than OR. Empty
// input yields a nil expression.
func ParsePrereq(raw string) (*PrereqExpr, error) {
	p := &prereqParser{tokens: tokenizePrereq(raw)}
	if len(p.tokens) == 0 {
		return nil, nil
	}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.hasNext() {
		return nil, fmt.Errorf("unexpected token %q in prerequisite text", p.peek())
	}
	return expr, nil
}

func tokenizePrereq(raw string) []string {
	spaced := strings.NewReplacer("(", " ( ", ")", " ) ", ",", " and ").Replace(raw)
	return strings.Fields(spaced)
}

type prereqParser struct {
	tokens []string
	pos    int
}

func (p *prereqParser) parseOr() (*PrereqExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	terms := []*PrereqExpr{left}
	for p.matchWord("or") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return left, nil
	}
	return &PrereqExpr{Op: PrereqAny, Terms: terms}, nil
}

func (p *prereqParser) parseAnd() (*PrereqExpr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	terms := []*PrereqExpr{left}
	for p.matchWord("and") {
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return left, nil
	}
	return &PrereqExpr{Op: PrereqAll, Terms: terms}, nil
}

func (p *prereqParser) parsePrimary() (*PrereqExpr, error) {
	if p.match("(") {
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.match(")") {
			return nil, fmt.Errorf("missing closing parenthesis at token %d", p.pos)
		}
		return expr, nil
	}
	return p.parseCourse()
}

func (p *prereqParser) parseCourse() (*PrereqExpr, error) {
	if !p.hasNext() {
		return nil, fmt.Errorf("expected course reference at token %d", p.pos)
	}

	dept := p.peek()
	if startsWithDigit(dept) {
		return nil, fmt.Errorf("expected department code, got %q", dept)
	}
	p.pos++

	// "CSCI 103" arrives as two tokens, "CSCI103" as one.
	if id, ok := ParseCourseID(dept); ok {
		return &PrereqExpr{Op: PrereqCourse, Course: id}, nil
	}
	if !p.hasNext() || !startsWithDigit(p.peek()) {
		return nil, fmt.Errorf("expected course number after %q", dept)
	}
	num := p.peek()
	p.pos++

	id, ok := ParseCourseID(dept + " " + num)
	if !ok {
		return nil, fmt.Errorf("invalid course reference %q %q", dept, num)
	}
	return &PrereqExpr{Op: PrereqCourse, Course: id}, nil
}

func (p *prereqParser) match(expected string) bool {
	if p.hasNext() && p.tokens[p.pos] == expected {
		p.pos++
		return true
	}
	return false
}

func (p *prereqParser) matchWord(expected string) bool {
	if p.hasNext() && strings.EqualFold(p.tokens[p.pos], expected) {
		p.pos++
		return true
	}
	return false
}

func (p *prereqParser) hasNext() bool {
	return p.pos < len(p.tokens)
}

func (p *prereqParser) peek() string {
	return p.tokens[p.pos]
}
