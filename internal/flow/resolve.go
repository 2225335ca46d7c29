package flow

import "pathform/internal/model"

// Resolve returns where the respondent goes after completing a section.
// Without a rule the section advances in order. With a rule, conditions
// are scanned in authored order and the first match wins, so a broad
// catch-all listed last never shadows a specific condition listed first.
// A nil answer (branching question skipped) matches no condition and
// falls through to the rule's default. Resolve is total: it always
// returns exactly one ref and never fails.
func Resolve(sec *model.Section, answer *string) model.SectionRef {
	rule := sec.Branching
	if rule == nil {
		return model.NextInOrder()
	}
	if answer != nil {
		for i := range rule.Conditions {
			if rule.Conditions[i].Matches(*answer) {
				return rule.Conditions[i].NextSectionID
			}
		}
	}
	return rule.DefaultNextSectionID
}
