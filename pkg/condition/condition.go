package condition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-intake/pkg/answers"
)

// Rule is a parsed visibility condition for a dynamically-conditioned
// question. Supported forms:
//
//   - truthy path checks: `maritalStatus.separated`
//   - comparisons: `maritalStatus.kind == "married"`, `childrenInfo.count != 0`
//   - negation and grouping: `!(a || b)`
//   - boolean composition: `a == true && b != "x"`
//
// Values are read from the merged answer model with the same dotted-path
// semantics the resolver uses. An empty rule is always visible.
type Rule struct {
	root node
}

// Parse compiles a rule string. Pathway validation calls this at load time
// so a broken rule is a config error, not a runtime surprise.
func Parse(rule string) (*Rule, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return &Rule{}, nil
	}
	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	parser := &parser{tokens: tokens}
	root, err := parser.parseOr()
	if err != nil {
		return nil, err
	}
	if parser.pos != len(parser.tokens) {
		return nil, fmt.Errorf("condition: unexpected token %q", parser.tokens[parser.pos].raw)
	}
	return &Rule{root: root}, nil
}

// Eval evaluates the rule against the merged answers. The zero rule (empty
// string) evaluates true.
func (r *Rule) Eval(model answers.Model) bool {
	if r == nil || r.root == nil {
		return true
	}
	return r.root.eval(model)
}

// Visible is the one-shot helper the gate and the CLI use: parse + eval,
// treating an unparseable rule as visible so a stale config never hides a
// required question silently.
func Visible(rule string, model answers.Model) bool {
	parsed, err := Parse(rule)
	if err != nil {
		return true
	}
	return parsed.Eval(model)
}

type node interface {
	eval(model answers.Model) bool
}

type truthyNode struct{ path string }

func (n truthyNode) eval(model answers.Model) bool {
	value, ok := answers.Resolve(model, n.path)
	if !ok {
		return false
	}
	return answers.Truthy(value)
}

type compareNode struct {
	path    string
	literal literal
	negate  bool
}

func (n compareNode) eval(model answers.Model) bool {
	value, _ := answers.Resolve(model, n.path)
	equal := n.literal.equals(value)
	if n.negate {
		return !equal
	}
	return equal
}

type notNode struct{ inner node }

func (n notNode) eval(model answers.Model) bool { return !n.inner.eval(model) }

type andNode struct{ left, right node }

func (n andNode) eval(model answers.Model) bool {
	return n.left.eval(model) && n.right.eval(model)
}

type orNode struct{ left, right node }

func (n orNode) eval(model answers.Model) bool {
	return n.left.eval(model) || n.right.eval(model)
}

type literalKind int

const (
	litString literalKind = iota
	litNumber
	litBool
	litNull
)

type literal struct {
	kind literalKind
	raw  string
}

func (l literal) equals(value any) bool {
	switch l.kind {
	case litNull:
		return value == nil
	case litBool:
		want := l.raw == "true"
		return answers.Truthy(value) == want
	case litNumber:
		got, ok := answers.CoerceNumber(value)
		if !ok {
			return false
		}
		want, err := strconv.ParseFloat(l.raw, 64)
		return err == nil && got == want
	default:
		return answers.CoerceString(value) == l.raw
	}
}
