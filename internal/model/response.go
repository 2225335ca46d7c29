package model

import "time"

type ResponseStatus string

const (
	ResponseInProgress ResponseStatus = "in_progress"
	ResponseSubmitted  ResponseStatus = "submitted"
	ResponseRejected   ResponseStatus = "rejected"
)

// RejectInvalidTraversal marks a submission whose claimed path could not
// have been produced by the survey's branching rules.
const RejectInvalidTraversal = "invalid_traversal"

// Response is one respondent's pass through a live survey
type Response struct {
	ID           string            `json:"id" bson:"_id,omitempty"`
	SurveyID     string            `json:"surveyId" bson:"surveyId"`
	TenantID     string            `json:"tenantId" bson:"tenantId"`
	Status       ResponseStatus    `json:"status" bson:"status"`
	Answers      map[string]string `json:"answers" bson:"answers"`
	Path         []string          `json:"path" bson:"path"` // section ids in visit order, server-derived
	RejectReason string            `json:"rejectReason,omitempty" bson:"rejectReason,omitempty"`
	StartedAt    time.Time         `json:"startedAt" bson:"startedAt"`
	SubmittedAt  *time.Time        `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
}

// SurveyStats are per-survey response counters for the author dashboard
type SurveyStats struct {
	Started   int64 `json:"started"`
	Completed int64 `json:"completed"`
	Rejected  int64 `json:"rejected"`
}
