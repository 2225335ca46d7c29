package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathform/internal/model"
)

func TestStartAtFirstSection(t *testing.T) {
	tr := Start(branchingSurvey())
	assert.Equal(t, "s1", tr.Current)
	assert.Equal(t, []string{"s1"}, tr.Path)
	assert.False(t, tr.Terminated)
}

func TestStartEmptySurveyTerminates(t *testing.T) {
	tr := Start(&model.Survey{})
	assert.True(t, tr.Terminated)
	assert.Empty(t, tr.Path)
}

func TestAdvanceBranchTaken(t *testing.T) {
	survey := branchingSurvey()
	tr := Start(survey)

	Advance(survey, tr, map[string]string{"q1": "yes"})
	assert.Equal(t, "s3", tr.Current, `"yes" jumps straight to section three`)
	assert.Equal(t, []string{"s1", "s3"}, tr.Path)
	assert.False(t, tr.Terminated)
}

func TestAdvanceDefaultInOrder(t *testing.T) {
	survey := branchingSurvey()
	tr := Start(survey)

	Advance(survey, tr, map[string]string{"q1": "no"})
	assert.Equal(t, "s2", tr.Current, `"no" falls through to section two`)
	assert.Equal(t, []string{"s1", "s2"}, tr.Path)
}

func TestAdvanceEndSurvey(t *testing.T) {
	survey := branchingSurvey()
	tr := Start(survey)

	Advance(survey, tr, map[string]string{"q1": "yes"})
	Advance(survey, tr, map[string]string{"q3": "4"})
	assert.True(t, tr.Terminated)
	assert.Empty(t, tr.Current)
	assert.Empty(t, tr.Fault)
	assert.Equal(t, []string{"s1", "s3"}, tr.Path)
}

func TestAdvancePastLastSectionTerminates(t *testing.T) {
	// The last section has no rule: advancing falls off the ordered
	// sequence and terminates.
	survey := branchingSurvey()
	survey.Sections[2].Branching = nil
	tr := Start(survey)

	Advance(survey, tr, map[string]string{"q1": "no"}) // -> s2
	Advance(survey, tr, map[string]string{})           // -> s3
	Advance(survey, tr, map[string]string{})           // past the end
	assert.True(t, tr.Terminated)
	assert.Empty(t, tr.Fault)
	assert.Equal(t, []string{"s1", "s2", "s3"}, tr.Path)
}

func TestAdvanceSkippedBranchingQuestionUsesDefault(t *testing.T) {
	survey := branchingSurvey()
	tr := Start(survey)

	// No answer for q1 at all: must fall through to the default, never fail.
	Advance(survey, tr, map[string]string{})
	assert.Equal(t, "s2", tr.Current)
}

func TestAdvanceAfterTerminationIsNoop(t *testing.T) {
	survey := branchingSurvey()
	tr := Start(survey)
	Advance(survey, tr, map[string]string{"q1": "yes"})
	Advance(survey, tr, map[string]string{})
	require.True(t, tr.Terminated)

	before := append([]string(nil), tr.Path...)
	Advance(survey, tr, map[string]string{"q1": "no"})
	assert.Equal(t, before, tr.Path)
	assert.True(t, tr.Terminated)
}

func TestAdvanceRevisitFault(t *testing.T) {
	// A graph like this never passes validation; the engine still must
	// not loop if a live definition was mutated underneath it.
	survey := branchingSurvey()
	survey.Sections[2].Branching.DefaultNextSectionID = model.ToSection("s1")

	tr := Start(survey)
	Advance(survey, tr, map[string]string{"q1": "yes"}) // s1 -> s3
	Advance(survey, tr, map[string]string{})            // s3 -> s1: revisit
	assert.True(t, tr.Terminated)
	assert.Equal(t, FaultRevisit, tr.Fault)
}

func TestAdvanceUnknownTargetFault(t *testing.T) {
	survey := branchingSurvey()
	survey.Sections[0].Branching.Conditions[0].NextSectionID = model.ToSection("gone")

	tr := Start(survey)
	Advance(survey, tr, map[string]string{"q1": "yes"})
	assert.True(t, tr.Terminated)
	assert.Equal(t, FaultUnknownSection, tr.Fault)
}

func TestEnterIsIdempotentOnReentry(t *testing.T) {
	tr := &Traversal{}
	tr.enter("s1")
	tr.enter("s1")
	assert.Equal(t, []string{"s1"}, tr.Path)
}
