// internal/analysis/normalize/adapt.go
package normalize

// Adapt reshapes a canonical Analysis into the UI Result. It never fails and
// never shares slices with its input.
func Adapt(a *Analysis) *Result {
	return &Result{
		StoryID: a.StoryID,
		Summary: ResultSummary{
			TotalQuestions:         a.Summary.TotalQuestions,
			AIProviderRecognizedIn: a.Summary.RecognizedIn,
		},
		Models:  copyStrings(a.Metadata.Models),
		Pillars: adaptPillars(a.Pillars),
		Metadata: ResultMetadata{
			ClientName:   copyStringPtr(a.Metadata.ClientName),
			ProviderName: a.Metadata.ProviderName,
			Mode:         a.Metadata.Mode,
		},
	}
}

// adaptPillars always returns a non-nil slice, even for a nil input.
func adaptPillars(pillars []Pillar) []PillarResult {
	out := make([]PillarResult, 0, len(pillars))
	for _, p := range pillars {
		title := p.Name
		if title == "" {
			title = UntitledPillar
		}
		out = append(out, PillarResult{
			Title:              title,
			Summary:            p.Summary,
			AIProviderInferred: p.ProviderInferred,
			Questions:          adaptQuestions(p.Questions),
		})
	}
	return out
}

func adaptQuestions(questions []Question) []QuestionDetail {
	out := make([]QuestionDetail, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuestionDetail{
			Prompt:             q.Prompt,
			Category:           q.Category,
			Kind:               q.Kind,
			AIProviderInferred: q.ProviderInferred,
			Assumptions:        copyStrings(q.Assumptions),
			ID:                 copyStringPtr(q.ID),
			Responses:          adaptResponses(q.Responses),
		})
	}
	return out
}

func adaptResponses(responses []Response) []ResponseDetail {
	out := make([]ResponseDetail, 0, len(responses))
	for _, r := range responses {
		out = append(out, ResponseDetail{
			Model:    r.Model,
			Answer:   r.Answer,
			Inferred: ResolveInferred(r.ProviderInferred, r.Inferred),
		})
	}
	return out
}

// ResolveInferred applies the flag precedence: a present primary flag wins
// even when false, then the secondary flag, then false.
func ResolveInferred(primary, secondary *bool) bool {
	if primary != nil {
		return *primary
	}
	if secondary != nil {
		return *secondary
	}
	return false
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
