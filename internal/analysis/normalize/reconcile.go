// internal/analysis/normalize/reconcile.go
package normalize

// Reconcile converts a decoded analyze response into the canonical Analysis.
//
// It unwraps one optional {"data": {...}} envelope, accepts snake_case and
// camelCase spellings per field (snake_case wins when both are present),
// picks the first non-empty pillar collection and coerces numeric strings.
// Any failure returns a *PayloadError and no partial result.
func Reconcile(raw interface{}) (*Analysis, error) {
	root, err := asObject("", raw)
	if err != nil {
		return nil, err
	}
	root = unwrapEnvelope(root)

	storyID, err := root.nonEmptyString(fieldStoryID)
	if err != nil {
		return nil, err
	}

	summaryObj, err := root.object(fieldSummary)
	if err != nil {
		return nil, err
	}
	summary, err := reconcileSummary(summaryObj)
	if err != nil {
		return nil, err
	}

	pillars, err := reconcilePillarFork(root)
	if err != nil {
		return nil, err
	}

	metadataObj, err := root.object(fieldMetadata)
	if err != nil {
		return nil, err
	}
	metadata, err := reconcileMetadata(metadataObj)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		StoryID:  storyID,
		Summary:  summary,
		Pillars:  pillars,
		Metadata: metadata,
	}, nil
}

// unwrapEnvelope replaces root with its "data" object when root itself does
// not look like a response. Only one level is unwrapped.
func unwrapEnvelope(root object) object {
	for _, key := range fieldStoryID.keys() {
		if root.has(key) {
			return root
		}
	}
	inner, ok := root.fields[envelopeKey].(map[string]interface{})
	if !ok {
		return root
	}
	return object{path: root.childPath(envelopeKey), fields: inner}
}

func reconcileSummary(o object) (Summary, error) {
	total, err := o.count(fieldTotalQuestions)
	if err != nil {
		return Summary{}, err
	}
	recognized, err := o.count(fieldRecognizedIn)
	if err != nil {
		return Summary{}, err
	}
	return Summary{TotalQuestions: total, RecognizedIn: recognized}, nil
}

func reconcileMetadata(o object) (Metadata, error) {
	clientName, err := o.optionalString(fieldClientName)
	if err != nil {
		return Metadata{}, err
	}
	providerName, err := o.nonEmptyString(fieldProviderName)
	if err != nil {
		return Metadata{}, err
	}
	models, err := o.strings(fieldModelsRun, true, true)
	if err != nil {
		return Metadata{}, err
	}
	mode, err := reconcileMode(o)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		ClientName:   clientName,
		ProviderName: providerName,
		Models:       models,
		Mode:         mode,
	}, nil
}

func reconcileMode(o object) (Mode, error) {
	const expected = `"stub" | "live"`

	key, v, ok := o.lookup(fieldMode)
	if !ok {
		return "", missingField(o.childPath(fieldMode.name), expected)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(o.childPath(key), expected, v)
	}
	switch Mode(s) {
	case ModeStub, ModeLive:
		return Mode(s), nil
	}
	return "", invalidValue(o.childPath(key), expected, `"`+s+`"`, "unknown mode")
}

// reconcilePillarFork validates every present pillar collection and keeps the
// first non-empty one in pillarCollections order.
func reconcilePillarFork(root object) ([]Pillar, error) {
	var chosen []Pillar
	for _, key := range pillarCollections {
		items, ok, err := root.array(key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		pillars, err := reconcilePillars(root.childPath(key), items)
		if err != nil {
			return nil, err
		}
		if chosen == nil && len(pillars) > 0 {
			chosen = pillars
		}
	}
	if chosen == nil {
		chosen = []Pillar{}
	}
	return chosen, nil
}

func reconcilePillars(path string, items []interface{}) ([]Pillar, error) {
	pillars := make([]Pillar, 0, len(items))
	for i, item := range items {
		o, err := asObject(indexPath(path, i), item)
		if err != nil {
			return nil, err
		}
		p, err := reconcilePillar(o)
		if err != nil {
			return nil, err
		}
		pillars = append(pillars, p)
	}
	return pillars, nil
}

func reconcilePillar(o object) (Pillar, error) {
	name, err := o.optionalString(fieldPillarName)
	if err != nil {
		return Pillar{}, err
	}
	summary, err := o.optionalString(fieldPillarSummary)
	if err != nil {
		return Pillar{}, err
	}
	inferred, err := o.boolOrFalse(fieldProviderInferred)
	if err != nil {
		return Pillar{}, err
	}

	questions := []Question{}
	key, items, ok, err := o.list(fieldQuestions)
	if err != nil {
		return Pillar{}, err
	}
	if ok {
		questions = make([]Question, 0, len(items))
		for i, item := range items {
			qo, err := asObject(indexPath(o.childPath(key), i), item)
			if err != nil {
				return Pillar{}, err
			}
			q, err := reconcileQuestion(qo)
			if err != nil {
				return Pillar{}, err
			}
			questions = append(questions, q)
		}
	}

	p := Pillar{
		Name:             UntitledPillar,
		ProviderInferred: inferred,
		Questions:        questions,
	}
	if name != nil {
		p.Name = *name
	}
	if summary != nil {
		p.Summary = *summary
	}
	return p, nil
}

func reconcileQuestion(o object) (Question, error) {
	var (
		q   Question
		err error
	)
	if q.Prompt, err = o.string(fieldPrompt); err != nil {
		return Question{}, err
	}
	if q.Category, err = o.string(fieldCategory); err != nil {
		return Question{}, err
	}
	if q.Kind, err = o.string(fieldKind); err != nil {
		return Question{}, err
	}
	if q.ProviderInferred, err = o.boolOrFalse(fieldProviderInferred); err != nil {
		return Question{}, err
	}
	if q.Assumptions, err = o.strings(fieldAssumptions, false, false); err != nil {
		return Question{}, err
	}
	if q.ID, err = o.optionalString(fieldQuestionID); err != nil {
		return Question{}, err
	}

	q.Responses = []Response{}
	key, items, ok, err := o.list(fieldResponses)
	if err != nil {
		return Question{}, err
	}
	if ok {
		q.Responses = make([]Response, 0, len(items))
		for i, item := range items {
			ro, err := asObject(indexPath(o.childPath(key), i), item)
			if err != nil {
				return Question{}, err
			}
			r, err := reconcileResponse(ro)
			if err != nil {
				return Question{}, err
			}
			q.Responses = append(q.Responses, r)
		}
	}
	return q, nil
}

func reconcileResponse(o object) (Response, error) {
	var (
		r   Response
		err error
	)
	if r.Model, err = o.string(fieldModel); err != nil {
		return Response{}, err
	}
	if r.Answer, err = o.string(fieldAnswer); err != nil {
		return Response{}, err
	}
	if r.ProviderInferred, err = o.optionalBool(fieldProviderInferred); err != nil {
		return Response{}, err
	}
	if r.Inferred, err = o.optionalBool(fieldInferred); err != nil {
		return Response{}, err
	}
	return r, nil
}
