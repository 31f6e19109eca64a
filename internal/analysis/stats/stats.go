// internal/analysis/stats/stats.go
package stats

import "provider-visibility/internal/analysis/normalize"

// Rate bands used to colour inference rates.
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

type ModelStats struct {
	Model    string  `json:"model"`
	Inferred int     `json:"inferred"`
	Total    int     `json:"total"`
	Rate     float64 `json:"rate"`
}

type PillarStats struct {
	Title string                `json:"title"`
	Rates map[string]ModelStats `json:"rates"`
}

// Comparison summarizes how often each model identified the masked provider,
// overall and per pillar.
type Comparison struct {
	Models  []ModelStats  `json:"models"`
	Pillars []PillarStats `json:"pillars"`
}

// Compute derives per-model inference rates from an adapted result. Models
// come from r.Models in order; responses from models not listed there are
// ignored. With no models or no pillars the comparison is empty.
func Compute(r *normalize.Result) *Comparison {
	c := &Comparison{
		Models:  []ModelStats{},
		Pillars: []PillarStats{},
	}
	if r == nil || len(r.Models) == 0 || len(r.Pillars) == 0 {
		return c
	}

	for _, model := range r.Models {
		s := ModelStats{Model: model}
		for _, p := range r.Pillars {
			count(&s, p.Questions)
		}
		c.Models = append(c.Models, finish(s))
	}

	for _, p := range r.Pillars {
		ps := PillarStats{Title: p.Title, Rates: make(map[string]ModelStats, len(r.Models))}
		for _, model := range r.Models {
			s := ModelStats{Model: model}
			count(&s, p.Questions)
			ps.Rates[model] = finish(s)
		}
		c.Pillars = append(c.Pillars, ps)
	}

	return c
}

func count(s *ModelStats, questions []normalize.QuestionDetail) {
	for _, q := range questions {
		for _, resp := range q.Responses {
			if resp.Model != s.Model {
				continue
			}
			s.Total++
			if resp.Inferred {
				s.Inferred++
			}
		}
	}
}

func finish(s ModelStats) ModelStats {
	if s.Total > 0 {
		s.Rate = float64(s.Inferred) / float64(s.Total) * 100
	}
	return s
}

// Band classifies a percentage rate.
func Band(rate float64) string {
	switch {
	case rate >= 80:
		return BandHigh
	case rate >= 50:
		return BandMedium
	default:
		return BandLow
	}
}
