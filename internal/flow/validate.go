package flow

import (
	"fmt"

	"pathform/internal/model"
)

// ErrorCode classifies a validation finding
type ErrorCode string

const (
	DanglingReference ErrorCode = "dangling_reference"
	CycleDetected     ErrorCode = "cycle_detected"
	OrphanSection     ErrorCode = "orphan_section"
)

// ValidationError is one finding from Validate. Warning-class findings
// (orphan sections) do not block publishing.
type ValidationError struct {
	Code      ErrorCode `json:"code"`
	SectionID string    `json:"sectionId,omitempty"`
	Detail    string    `json:"detail"`
	Cycle     []string  `json:"cycle,omitempty"` // section ids along the cycle, for author diagnostics
	Warning   bool      `json:"warning"`
}

// Result is the outcome of validating a survey's branching graph.
// OK is true when no fatal (non-warning) errors were found.
type Result struct {
	OK     bool              `json:"ok"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Validate statically checks a survey's branching graph: dangling
// references and cycles are fatal, unreachable sections are warnings.
// It returns all findings at once so the author can fix them together.
func Validate(survey *model.Survey) Result {
	var errs []ValidationError
	errs = append(errs, checkReferences(survey)...)
	errs = append(errs, checkCycles(survey)...)
	errs = append(errs, checkOrphans(survey)...)

	ok := true
	for _, e := range errs {
		if !e.Warning {
			ok = false
			break
		}
	}
	return Result{OK: ok, Errors: errs}
}

func checkReferences(survey *model.Survey) []ValidationError {
	var errs []ValidationError
	for i := range survey.Sections {
		sec := &survey.Sections[i]
		rule := sec.Branching
		if rule == nil {
			continue
		}

		q := sec.QuestionByID(rule.QuestionID)
		if q == nil {
			errs = append(errs, ValidationError{
				Code:      DanglingReference,
				SectionID: sec.ID,
				Detail:    fmt.Sprintf("branching question %q does not belong to this section", rule.QuestionID),
			})
		} else if !q.Type.Branchable() {
			errs = append(errs, ValidationError{
				Code:      DanglingReference,
				SectionID: sec.ID,
				Detail:    fmt.Sprintf("question %q has non-branchable type %q", q.ID, q.Type),
			})
		}

		for _, ref := range targets(sec) {
			if !ref.IsExplicit() {
				continue
			}
			target := ref.SectionID()
			if target == sec.ID {
				errs = append(errs, ValidationError{
					Code:      DanglingReference,
					SectionID: sec.ID,
					Detail:    "rule targets its own section",
				})
				continue
			}
			if survey.SectionByID(target) == nil {
				errs = append(errs, ValidationError{
					Code:      DanglingReference,
					SectionID: sec.ID,
					Detail:    fmt.Sprintf("rule targets unknown section %q", target),
				})
			}
		}
	}
	return errs
}

type dfsColor int

const (
	colorWhite dfsColor = iota // unvisited
	colorGray                  // on the current DFS stack
	colorBlack                 // fully explored
)

// checkCycles runs a three-color DFS from the first section. Any edge
// into a gray node closes a cycle; the full cycle path is reported.
func checkCycles(survey *model.Survey) []ValidationError {
	first := survey.FirstSection()
	if first == nil {
		return nil
	}

	color := make(map[string]dfsColor, len(survey.Sections))
	var stack []string
	var errs []ValidationError

	var visit func(id string)
	visit = func(id string) {
		color[id] = colorGray
		stack = append(stack, id)

		for _, next := range successors(survey, survey.SectionByID(id)) {
			switch color[next] {
			case colorWhite:
				visit(next)
			case colorGray:
				errs = append(errs, ValidationError{
					Code:      CycleDetected,
					SectionID: next,
					Detail:    "branching rules form a loop that never reaches the end of the survey",
					Cycle:     cyclePath(stack, next),
				})
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = colorBlack
	}
	visit(first.ID)

	return errs
}

// cyclePath extracts the cycle from the DFS stack: the segment from the
// first occurrence of the back-edge target through the stack top, closed
// by the target again.
func cyclePath(stack []string, target string) []string {
	for i, id := range stack {
		if id == target {
			cycle := make([]string, 0, len(stack)-i+1)
			cycle = append(cycle, stack[i:]...)
			return append(cycle, target)
		}
	}
	return []string{target, target}
}

// checkOrphans flags sections unreachable from the first section by BFS
// over the rule graph. Warning class: an author may intentionally keep
// an unused section as a draft.
func checkOrphans(survey *model.Survey) []ValidationError {
	first := survey.FirstSection()
	if first == nil {
		return nil
	}

	reached := map[string]bool{first.ID: true}
	queue := []string{first.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range successors(survey, survey.SectionByID(id)) {
			if !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}

	var errs []ValidationError
	for i := range survey.Sections {
		sec := &survey.Sections[i]
		if !reached[sec.ID] {
			errs = append(errs, ValidationError{
				Code:      OrphanSection,
				SectionID: sec.ID,
				Detail:    "section is unreachable from the first section",
				Warning:   true,
			})
		}
	}
	return errs
}
