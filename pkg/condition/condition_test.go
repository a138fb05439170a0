package condition

import (
	"testing"

	"github.com/goliatone/go-intake/pkg/answers"
)

func evalModel() answers.Model {
	return answers.Model{
		"maritalStatus": map[string]any{
			"kind":      "married",
			"separated": true,
		},
		"childrenInfo": map[string]any{"count": 2},
	}
}

func TestEval_EmptyRuleIsVisible(t *testing.T) {
	if !Visible("", evalModel()) {
		t.Fatalf("empty rule should be visible")
	}
	if !Visible("   ", evalModel()) {
		t.Fatalf("blank rule should be visible")
	}
}

func TestEval_Comparisons(t *testing.T) {
	cases := []struct {
		rule string
		want bool
	}{
		{`maritalStatus.kind == "married"`, true},
		{`maritalStatus.kind == "single"`, false},
		{`maritalStatus.kind != "single"`, true},
		{`childrenInfo.count == 2`, true},
		{`childrenInfo.count != 0`, true},
		{`maritalStatus.separated == true`, true},
		{`missing.path == null`, true},
	}
	for _, tc := range cases {
		rule, err := Parse(tc.rule)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.rule, err)
		}
		if got := rule.Eval(evalModel()); got != tc.want {
			t.Errorf("Eval(%q) = %v, want %v", tc.rule, got, tc.want)
		}
	}
}

func TestEval_TruthyPath(t *testing.T) {
	if !Visible("maritalStatus.separated", evalModel()) {
		t.Fatalf("expected truthy path to be visible")
	}
	if Visible("missing.path", evalModel()) {
		t.Fatalf("expected missing path to be falsy")
	}
}

func TestEval_Composition(t *testing.T) {
	rule := `maritalStatus.kind == "married" && childrenInfo.count != 0`
	if !Visible(rule, evalModel()) {
		t.Fatalf("expected composed rule to hold")
	}
	if !Visible(`missing.path || maritalStatus.separated`, evalModel()) {
		t.Fatalf("expected or to rescue")
	}
	if Visible(`!(maritalStatus.separated)`, evalModel()) {
		t.Fatalf("expected negation to flip")
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []string{
		`a ==`,
		`a == "unterminated`,
		`(a == 1`,
		`a &`,
		`== 1`,
	}
	for _, rule := range cases {
		if _, err := Parse(rule); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", rule)
		}
	}
}

func TestVisible_BadRuleFailsOpen(t *testing.T) {
	if !Visible(`a ==`, evalModel()) {
		t.Fatalf("unparseable rule must not hide a question")
	}
}
