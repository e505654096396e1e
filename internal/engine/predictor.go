package engine

import (
	"github.com/taskpulse/taskpulse/internal/core"
)

// Predictor evaluates the rule table against task inputs. It is
// stateless and safe for concurrent use; the table is fixed at
// construction and never mutated.
type Predictor struct {
	rules []Rule
}

// NewPredictor creates a predictor over the canonical rule table
func NewPredictor() *Predictor {
	return &Predictor{rules: DefaultRules()}
}

// NewPredictorWithRules creates a predictor over a custom table.
// The caller is responsible for ending the table with a catch-all.
func NewPredictorWithRules(rules []Rule) *Predictor {
	return &Predictor{rules: rules}
}

// Rules returns the predictor's rule table
func (p *Predictor) Rules() []Rule {
	return p.rules
}

// Predict returns the outcome of the first matching rule together with
// the independently derived reasoning. The function is total: the
// catch-all rule means every input in the enumerations gets a result.
func (p *Predictor) Predict(in core.TaskInput) core.Prediction {
	rule, ok := Evaluate(p.rules, in)
	if !ok {
		// Only reachable with a custom table missing its catch-all.
		rule = Rule{Name: "default", Priority: core.PriorityLow, Confidence: 0.60}
	}

	return core.Prediction{
		Priority:   rule.Priority,
		Confidence: rule.Confidence,
		Reasoning:  Explain(in),
		Source:     core.SourceRules,
	}
}
