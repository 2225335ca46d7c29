// Package flow implements survey flow control: static validation of the
// branching graph, runtime resolution of "what section comes next", and
// server-side replay of a respondent's path from raw answers.
package flow

import "pathform/internal/model"

// targets returns every ref a section's rule can resolve to, in authored
// order. A section without a rule has a single next-in-order target.
func targets(sec *model.Section) []model.SectionRef {
	if sec.Branching == nil {
		return []model.SectionRef{model.NextInOrder()}
	}
	refs := make([]model.SectionRef, 0, len(sec.Branching.Conditions)+1)
	for i := range sec.Branching.Conditions {
		refs = append(refs, sec.Branching.Conditions[i].NextSectionID)
	}
	return append(refs, sec.Branching.DefaultNextSectionID)
}

// successors resolves a section's targets to distinct successor section
// ids. End-survey targets and dangling explicit refs contribute no edge;
// the validator reports dangling refs separately.
func successors(survey *model.Survey, sec *model.Section) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, ref := range targets(sec) {
		switch {
		case ref.IsEndSurvey():
		case ref.IsNextInOrder():
			if next := survey.SectionAfter(sec.Order); next != nil {
				add(next.ID)
			}
		default:
			if survey.SectionByID(ref.SectionID()) != nil {
				add(ref.SectionID())
			}
		}
	}
	return out
}

// IsTerminalSection reports whether some other section's rule points
// explicitly at the given section. Authoring tools use this as a hint
// ("other sections branch here"); it has no runtime effect.
func IsTerminalSection(survey *model.Survey, sectionID string) bool {
	for i := range survey.Sections {
		sec := &survey.Sections[i]
		if sec.ID == sectionID {
			continue
		}
		for _, ref := range targets(sec) {
			if ref.IsExplicit() && ref.SectionID() == sectionID {
				return true
			}
		}
	}
	return false
}
