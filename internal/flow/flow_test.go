package flow

import "pathform/internal/model"

// branchingSurvey is the shared fixture: section one branches on a radio
// question ("yes" jumps to section three, otherwise fall through in
// order), section two has no rule, section three ends the survey.
func branchingSurvey() *model.Survey {
	return &model.Survey{
		ID:       "survey-1",
		TenantID: "tenant-1",
		Status:   model.SurveyLive,
		Sections: []model.Section{
			{
				ID:    "s1",
				Order: 1,
				Questions: []model.Question{
					{ID: "q1", Type: model.QuestionRadio, Options: []model.Option{
						{ID: "o1", Label: "yes"},
						{ID: "o2", Label: "no"},
					}},
				},
				Branching: &model.BranchingRule{
					QuestionID: "q1",
					Conditions: []model.Condition{
						{Operator: model.OpEquals, Value: "yes", NextSectionID: model.ToSection("s3")},
					},
					DefaultNextSectionID: model.NextInOrder(),
				},
			},
			{
				ID:    "s2",
				Order: 2,
				Questions: []model.Question{
					{ID: "q2", Type: model.QuestionParagraph},
				},
			},
			{
				ID:    "s3",
				Order: 3,
				Questions: []model.Question{
					{ID: "q3", Type: model.QuestionScale},
				},
				Branching: &model.BranchingRule{
					QuestionID:           "q3",
					DefaultNextSectionID: model.EndSurvey(),
				},
			},
		},
	}
}

func strptr(s string) *string { return &s }
