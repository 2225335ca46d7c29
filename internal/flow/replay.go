package flow

import "pathform/internal/model"

// Reason classifies a replay rejection
type Reason string

const (
	// ReasonInvalidTraversal: the claimed path diverges from the path the
	// rules produce for the submitted answers.
	ReasonInvalidTraversal Reason = "invalid_traversal"
	// ReasonConsistencyFault: replay itself hit a traversal fault, so the
	// live definition cannot produce any legitimate path.
	ReasonConsistencyFault Reason = "consistency_fault"
)

// ReplayResult is the outcome of server-side replay of a submission.
type ReplayResult struct {
	Valid        bool     `json:"valid"`
	ExpectedPath []string `json:"expectedPath"`
	Reason       Reason   `json:"reason,omitempty"`
	Fault        Fault    `json:"fault,omitempty"`
}

// Replay re-derives the respondent's path from raw answers against the
// authoritative survey definition, ignoring all client state, and
// compares it to the path the client claims to have taken. Branching is
// evaluated client-side for responsiveness, so the claimed path is never
// trusted: extra sections the rules would have skipped, or skipped
// sections the rules require, reject the submission. A nil claimedPath
// skips the comparison and just returns the derived path.
func Replay(survey *model.Survey, answers map[string]string, claimedPath []string) ReplayResult {
	t := Start(survey)
	for !t.Terminated {
		Advance(survey, t, answers)
	}

	res := ReplayResult{ExpectedPath: t.Path}
	if t.Fault != "" {
		res.Reason = ReasonConsistencyFault
		res.Fault = t.Fault
		return res
	}
	if claimedPath != nil && !samePath(t.Path, claimedPath) {
		res.Reason = ReasonInvalidTraversal
		return res
	}
	res.Valid = true
	return res
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
