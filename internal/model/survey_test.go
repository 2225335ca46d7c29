package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderedSurvey() *Survey {
	return &Survey{
		Sections: []Section{
			{ID: "c", Order: 3},
			{ID: "a", Order: 1},
			{ID: "b", Order: 2},
		},
	}
}

func TestFirstSection(t *testing.T) {
	s := orderedSurvey()
	first := s.FirstSection()
	require.NotNil(t, first)
	assert.Equal(t, "a", first.ID)

	assert.Nil(t, (&Survey{}).FirstSection())
}

func TestSectionAfter(t *testing.T) {
	s := orderedSurvey()

	next := s.SectionAfter(1)
	require.NotNil(t, next)
	assert.Equal(t, "b", next.ID)

	// Gaps in order are fine; the next-higher order wins.
	next = s.SectionAfter(2)
	require.NotNil(t, next)
	assert.Equal(t, "c", next.ID)

	assert.Nil(t, s.SectionAfter(3))
}

func TestSortSections(t *testing.T) {
	s := orderedSurvey()
	s.SortSections()
	assert.Equal(t, "a", s.Sections[0].ID)
	assert.Equal(t, "b", s.Sections[1].ID)
	assert.Equal(t, "c", s.Sections[2].ID)
}

func TestSectionByID(t *testing.T) {
	s := orderedSurvey()
	require.NotNil(t, s.SectionByID("b"))
	assert.Nil(t, s.SectionByID("zz"))
}
