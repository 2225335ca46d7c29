package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathform/internal/model"
)

func findError(result Result, code ErrorCode) *ValidationError {
	for i := range result.Errors {
		if result.Errors[i].Code == code {
			return &result.Errors[i]
		}
	}
	return nil
}

func TestValidateAcceptsBranchingSurvey(t *testing.T) {
	result := Validate(branchingSurvey())
	assert.True(t, result.OK)
	assert.Empty(t, result.Errors)
}

func TestValidateEmptySurvey(t *testing.T) {
	result := Validate(&model.Survey{})
	assert.True(t, result.OK)
}

func TestValidateDanglingTarget(t *testing.T) {
	survey := branchingSurvey()
	survey.Sections[0].Branching.Conditions[0].NextSectionID = model.ToSection("no-such-section")

	result := Validate(survey)
	assert.False(t, result.OK)
	e := findError(result, DanglingReference)
	require.NotNil(t, e)
	assert.Equal(t, "s1", e.SectionID)
	assert.Contains(t, e.Detail, "no-such-section")
}

func TestValidateForeignBranchingQuestion(t *testing.T) {
	survey := branchingSurvey()
	// q2 lives in section two, not in the rule's own section.
	survey.Sections[0].Branching.QuestionID = "q2"

	result := Validate(survey)
	assert.False(t, result.OK)
	require.NotNil(t, findError(result, DanglingReference))
}

func TestValidateNonBranchableQuestionType(t *testing.T) {
	survey := branchingSurvey()
	survey.Sections[0].Questions[0].Type = model.QuestionType("matrix")

	result := Validate(survey)
	assert.False(t, result.OK)
	require.NotNil(t, findError(result, DanglingReference))
}

func TestValidateSelfLoop(t *testing.T) {
	survey := branchingSurvey()
	survey.Sections[0].Branching.Conditions[0].NextSectionID = model.ToSection("s1")

	result := Validate(survey)
	assert.False(t, result.OK)
	require.NotNil(t, findError(result, DanglingReference))
}

func TestValidateCycle(t *testing.T) {
	// Section 1 defaults to section 2, section 2 branches back to 1.
	survey := &model.Survey{
		Sections: []model.Section{
			{ID: "s1", Order: 1, Questions: []model.Question{{ID: "q1", Type: model.QuestionText}}},
			{
				ID:    "s2",
				Order: 2,
				Questions: []model.Question{
					{ID: "q2", Type: model.QuestionText},
				},
				Branching: &model.BranchingRule{
					QuestionID:           "q2",
					DefaultNextSectionID: model.ToSection("s1"),
				},
			},
		},
	}

	result := Validate(survey)
	assert.False(t, result.OK)
	e := findError(result, CycleDetected)
	require.NotNil(t, e)
	assert.Contains(t, e.Cycle, "s1")
	assert.Contains(t, e.Cycle, "s2")
	// The reported path closes on the section the back edge points to.
	assert.Equal(t, e.Cycle[0], e.Cycle[len(e.Cycle)-1])
}

func TestValidateOrphanIsWarning(t *testing.T) {
	// s3 ends the survey by rule, so a section ordered after it is
	// unreachable.
	survey := branchingSurvey()
	survey.Sections = append(survey.Sections, model.Section{ID: "s4", Order: 4})

	result := Validate(survey)
	assert.True(t, result.OK, "orphans must not block publishing")
	e := findError(result, OrphanSection)
	require.NotNil(t, e)
	assert.Equal(t, "s4", e.SectionID)
	assert.True(t, e.Warning)
}

func TestTerminationReachability(t *testing.T) {
	// On a validate-passing survey, repeatedly resolving with adversarial
	// answers must reach the end within the section count.
	survey := branchingSurvey()
	require.True(t, Validate(survey).OK)

	answers := []map[string]string{
		{"q1": "yes"},
		{"q1": "no"},
		{},
		{"q1": "yes", "q2": "whatever", "q3": "5"},
	}
	for _, ans := range answers {
		tr := Start(survey)
		steps := 0
		for !tr.Terminated {
			Advance(survey, tr, ans)
			steps++
			require.LessOrEqual(t, steps, len(survey.Sections), "traversal must terminate")
		}
		assert.Empty(t, tr.Fault)
	}
}

func TestIsTerminalSection(t *testing.T) {
	survey := branchingSurvey()
	assert.True(t, IsTerminalSection(survey, "s3"), "s1 branches explicitly into s3")
	assert.False(t, IsTerminalSection(survey, "s2"), "s2 is only reached in order")
	assert.False(t, IsTerminalSection(survey, "s1"))
}
