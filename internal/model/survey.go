package model

import (
	"sort"
	"time"
)

type SurveyStatus string

const (
	SurveyDraft  SurveyStatus = "draft"
	SurveyLive   SurveyStatus = "live"
	SurveyClosed SurveyStatus = "closed"
)

// Survey is an authored survey definition owned by a tenant
type Survey struct {
	ID        string       `json:"id" bson:"_id,omitempty"`
	TenantID  string       `json:"tenantId" bson:"tenantId"`
	AuthorID  string       `json:"authorId" bson:"authorId"`
	Title     string       `json:"title" bson:"title"`
	Status    SurveyStatus `json:"status" bson:"status"`
	Sections  []Section    `json:"sections" bson:"sections"`
	CreatedAt time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// Section is one page/step of a survey. A section without a branching
// rule always advances to the section with the next-higher order.
type Section struct {
	ID        string         `json:"id" bson:"id"`
	Order     int            `json:"order" bson:"order"`
	Title     string         `json:"title" bson:"title"`
	Questions []Question     `json:"questions" bson:"questions"`
	Branching *BranchingRule `json:"branching,omitempty" bson:"branching,omitempty"`
}

// SectionByID returns the section with the given id, or nil.
func (s *Survey) SectionByID(id string) *Section {
	for i := range s.Sections {
		if s.Sections[i].ID == id {
			return &s.Sections[i]
		}
	}
	return nil
}

// FirstSection returns the section with the lowest order, or nil for an
// empty survey.
func (s *Survey) FirstSection() *Section {
	var first *Section
	for i := range s.Sections {
		if first == nil || s.Sections[i].Order < first.Order {
			first = &s.Sections[i]
		}
	}
	return first
}

// SectionAfter returns the section with the smallest order strictly
// greater than the given order, or nil if none exists.
func (s *Survey) SectionAfter(order int) *Section {
	var next *Section
	for i := range s.Sections {
		if s.Sections[i].Order > order && (next == nil || s.Sections[i].Order < next.Order) {
			next = &s.Sections[i]
		}
	}
	return next
}

// SortSections orders sections by ascending order in place.
func (s *Survey) SortSections() {
	sort.SliceStable(s.Sections, func(i, j int) bool {
		return s.Sections[i].Order < s.Sections[j].Order
	})
}

// QuestionByID returns the question with the given id, or nil.
func (s *Section) QuestionByID(id string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}
