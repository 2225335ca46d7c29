package flow

import "pathform/internal/model"

// Fault marks a traversal anomaly that should never occur on a validated
// survey. It indicates the live definition was mutated after validation
// or storage corruption, and must be surfaced for investigation.
type Fault string

const (
	// FaultRevisit: resolution targeted a section already on the path.
	FaultRevisit Fault = "section_revisited"
	// FaultUnknownSection: the current or target section id does not exist.
	FaultUnknownSection Fault = "unknown_section"
)

// Traversal is one respondent's position in a survey: the ordered path
// of visited sections, the current section, and the terminal flag. It is
// a plain value; the caller owns persistence and concurrency.
type Traversal struct {
	Path       []string `json:"path"`
	Current    string   `json:"current,omitempty"`
	Terminated bool     `json:"terminated"`
	Fault      Fault    `json:"fault,omitempty"`
}

// Start begins a traversal at the survey's first section. An empty
// survey terminates immediately.
func Start(survey *model.Survey) *Traversal {
	t := &Traversal{}
	first := survey.FirstSection()
	if first == nil {
		t.Terminated = true
		return t
	}
	t.Current = first.ID
	t.enter(first.ID)
	return t
}

// enter appends a section to the path unless it is already the last
// entry, so re-entry from back-navigation is a no-op on the path.
func (t *Traversal) enter(id string) {
	if n := len(t.Path); n > 0 && t.Path[n-1] == id {
		return
	}
	t.Path = append(t.Path, id)
}

// Advance consumes the answers for the current section and moves the
// traversal to the resolved next section, or terminates it. Advancing a
// terminated traversal is a no-op. Advance never panics: anomalies force
// termination with a fault instead, since continuing could loop.
func Advance(survey *model.Survey, t *Traversal, answers map[string]string) {
	if t.Terminated {
		return
	}

	sec := survey.SectionByID(t.Current)
	if sec == nil {
		t.fail(FaultUnknownSection)
		return
	}

	var answer *string
	if sec.Branching != nil {
		if v, ok := answers[sec.Branching.QuestionID]; ok {
			answer = &v
		}
	}

	ref := Resolve(sec, answer)
	switch {
	case ref.IsEndSurvey():
		t.Terminated = true
		t.Current = ""
	case ref.IsNextInOrder():
		next := survey.SectionAfter(sec.Order)
		if next == nil {
			// Fell off the end of the ordered sequence.
			t.Terminated = true
			t.Current = ""
			return
		}
		t.moveTo(survey, next.ID)
	default:
		t.moveTo(survey, ref.SectionID())
	}
}

func (t *Traversal) moveTo(survey *model.Survey, id string) {
	if survey.SectionByID(id) == nil {
		t.fail(FaultUnknownSection)
		return
	}
	for _, visited := range t.Path {
		if visited == id {
			t.fail(FaultRevisit)
			return
		}
	}
	t.Current = id
	t.enter(id)
}

func (t *Traversal) fail(f Fault) {
	t.Terminated = true
	t.Current = ""
	t.Fault = f
}
