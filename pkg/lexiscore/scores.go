package lexiscore

import "github.com/cognicore/lexiscore/pkg/lexiscore/score"

// Scores are the derived values of one tally.
type Scores struct {
	Proportions map[string]score.Value `json:"proportions"`
	Neutral     score.Value            `json:"neutral"`
	Composites  map[string]score.Value `json:"composites,omitempty"`
}

// Scoring selects which derived values to compute.
type Scoring struct {
	Categories  []string
	Denominator score.Denominator
	Composites  []score.Composite
}

// Score derives proportions, the neutral fraction and composites from t.
func (s Scoring) Score(t score.Tally) Scores {
	out := Scores{
		Proportions: t.Proportions(s.Categories, s.Denominator),
		Neutral:     t.Neutral(s.Denominator),
	}
	if len(s.Composites) > 0 {
		out.Composites = make(map[string]score.Value, len(s.Composites))
		for _, c := range s.Composites {
			out.Composites[c.Name] = c.Score(t)
		}
	}
	return out
}
