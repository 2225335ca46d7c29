package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pathform/internal/model"
)

func TestReplayDeterministic(t *testing.T) {
	survey := branchingSurvey()
	answers := map[string]string{"q1": "no", "q2": "details", "q3": "3"}

	first := Replay(survey, answers, nil)
	second := Replay(survey, answers, nil)
	assert.True(t, first.Valid)
	assert.Equal(t, first.ExpectedPath, second.ExpectedPath)
	assert.Equal(t, []string{"s1", "s2", "s3"}, first.ExpectedPath)
}

func TestReplayAcceptsMatchingClaim(t *testing.T) {
	survey := branchingSurvey()
	answers := map[string]string{"q1": "yes", "q3": "5"}

	result := Replay(survey, answers, []string{"s1", "s3"})
	assert.True(t, result.Valid)
	assert.Empty(t, result.Reason)
}

func TestReplayRejectsExtraSection(t *testing.T) {
	// Client claims it visited section two, but "yes" skips it.
	survey := branchingSurvey()
	answers := map[string]string{"q1": "yes", "q2": "should not exist", "q3": "5"}

	result := Replay(survey, answers, []string{"s1", "s2", "s3"})
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonInvalidTraversal, result.Reason)
	assert.Equal(t, []string{"s1", "s3"}, result.ExpectedPath)
}

func TestReplayRejectsSkippedSection(t *testing.T) {
	survey := branchingSurvey()
	answers := map[string]string{"q1": "no", "q3": "2"}

	result := Replay(survey, answers, []string{"s1", "s3"})
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonInvalidTraversal, result.Reason)
	assert.Equal(t, []string{"s1", "s2", "s3"}, result.ExpectedPath)
}

func TestReplayNilClaimTrustsDerivedPath(t *testing.T) {
	survey := branchingSurvey()
	result := Replay(survey, map[string]string{"q1": "yes"}, nil)
	assert.True(t, result.Valid)
	assert.Equal(t, []string{"s1", "s3"}, result.ExpectedPath)
}

func TestReplayConsistencyFault(t *testing.T) {
	survey := branchingSurvey()
	survey.Sections[0].Branching.Conditions[0].NextSectionID = model.ToSection("gone")

	result := Replay(survey, map[string]string{"q1": "yes"}, []string{"s1"})
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonConsistencyFault, result.Reason)
	assert.Equal(t, FaultUnknownSection, result.Fault)
}
