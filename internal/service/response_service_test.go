package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathform/internal/cache"
	"pathform/internal/model"
)

// In-memory fakes over the repository and cache interfaces.

type fakeSurveyRepo struct {
	surveys map[string]*model.Survey
	nextID  int
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{surveys: map[string]*model.Survey{}}
}

func (r *fakeSurveyRepo) Create(_ context.Context, survey *model.Survey) (string, error) {
	r.nextID++
	id := fmt.Sprintf("survey-%d", r.nextID)
	survey.ID = id
	cp := *survey
	r.surveys[id] = &cp
	return id, nil
}

func (r *fakeSurveyRepo) GetByID(_ context.Context, id string) (*model.Survey, error) {
	s, ok := r.surveys[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSurveyRepo) GetByTenantID(_ context.Context, tenantID string) ([]*model.Survey, error) {
	var out []*model.Survey
	for _, s := range r.surveys {
		if s.TenantID == tenantID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSurveyRepo) Update(_ context.Context, survey *model.Survey) error {
	cp := *survey
	r.surveys[survey.ID] = &cp
	return nil
}

func (r *fakeSurveyRepo) UpdateStatus(_ context.Context, id string, status model.SurveyStatus) error {
	if s, ok := r.surveys[id]; ok {
		s.Status = status
	}
	return nil
}

func (r *fakeSurveyRepo) Delete(_ context.Context, id string) error {
	delete(r.surveys, id)
	return nil
}

type fakeResponseRepo struct {
	responses map[string]*model.Response
	nextID    int
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{responses: map[string]*model.Response{}}
}

func (r *fakeResponseRepo) Create(_ context.Context, response *model.Response) (string, error) {
	r.nextID++
	id := fmt.Sprintf("response-%d", r.nextID)
	response.ID = id
	cp := *response
	r.responses[id] = &cp
	return id, nil
}

func (r *fakeResponseRepo) GetByID(_ context.Context, id string) (*model.Response, error) {
	resp, ok := r.responses[id]
	if !ok {
		return nil, nil
	}
	cp := *resp
	return &cp, nil
}

func (r *fakeResponseRepo) GetBySurveyID(_ context.Context, surveyID string) ([]*model.Response, error) {
	var out []*model.Response
	for _, resp := range r.responses {
		if resp.SurveyID == surveyID {
			out = append(out, resp)
		}
	}
	return out, nil
}

func (r *fakeResponseRepo) Update(_ context.Context, response *model.Response) error {
	cp := *response
	r.responses[response.ID] = &cp
	return nil
}

func (r *fakeResponseRepo) Delete(_ context.Context, id string) error {
	delete(r.responses, id)
	return nil
}

type fakeSurveyCache struct {
	surveys map[string]*model.Survey
}

func newFakeSurveyCache() *fakeSurveyCache {
	return &fakeSurveyCache{surveys: map[string]*model.Survey{}}
}

func (c *fakeSurveyCache) Set(_ context.Context, survey *model.Survey) error {
	c.surveys[survey.ID] = survey
	return nil
}

func (c *fakeSurveyCache) Get(_ context.Context, id string) (*model.Survey, error) {
	return c.surveys[id], nil
}

func (c *fakeSurveyCache) Delete(_ context.Context, id string) error {
	delete(c.surveys, id)
	return nil
}

type fakeTraversalCache struct {
	states map[string]*cache.TraversalState
}

func newFakeTraversalCache() *fakeTraversalCache {
	return &fakeTraversalCache{states: map[string]*cache.TraversalState{}}
}

func (c *fakeTraversalCache) Set(_ context.Context, responseID string, state *cache.TraversalState) error {
	c.states[responseID] = state
	return nil
}

func (c *fakeTraversalCache) Get(_ context.Context, responseID string) (*cache.TraversalState, error) {
	return c.states[responseID], nil
}

func (c *fakeTraversalCache) Delete(_ context.Context, responseID string) error {
	delete(c.states, responseID)
	return nil
}

type fakeStatsCache struct {
	stats map[string]*model.SurveyStats
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{stats: map[string]*model.SurveyStats{}}
}

func (c *fakeStatsCache) get(surveyID string) *model.SurveyStats {
	if c.stats[surveyID] == nil {
		c.stats[surveyID] = &model.SurveyStats{}
	}
	return c.stats[surveyID]
}

func (c *fakeStatsCache) IncrStarted(_ context.Context, surveyID string) error {
	c.get(surveyID).Started++
	return nil
}

func (c *fakeStatsCache) IncrCompleted(_ context.Context, surveyID string) error {
	c.get(surveyID).Completed++
	return nil
}

func (c *fakeStatsCache) IncrRejected(_ context.Context, surveyID string) error {
	c.get(surveyID).Rejected++
	return nil
}

func (c *fakeStatsCache) Get(_ context.Context, surveyID string) (*model.SurveyStats, error) {
	return c.get(surveyID), nil
}

func (c *fakeStatsCache) Delete(_ context.Context, surveyID string) error {
	delete(c.stats, surveyID)
	return nil
}

func liveSurvey() *model.Survey {
	return &model.Survey{
		TenantID: "tenant-1",
		AuthorID: "author-1",
		Title:    "Branching demo",
		Status:   model.SurveyLive,
		Sections: []model.Section{
			{
				ID:    "s1",
				Order: 1,
				Questions: []model.Question{
					{ID: "q1", Type: model.QuestionRadio, Options: []model.Option{
						{ID: "o1", Label: "yes"}, {ID: "o2", Label: "no"},
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

func newTestResponseService(t *testing.T) (*ResponseService, string, *fakeStatsCache) {
	t.Helper()
	surveyRepo := newFakeSurveyRepo()
	surveyCache := newFakeSurveyCache()
	responseRepo := newFakeResponseRepo()
	traversalCache := newFakeTraversalCache()
	statsCache := newFakeStatsCache()
	authSvc := NewAuthService()

	surveySvc := NewSurveyService(surveyRepo, surveyCache)
	surveyID, err := surveyRepo.Create(context.Background(), liveSurvey())
	require.NoError(t, err)

	responseSvc := NewResponseService(responseRepo, surveySvc, traversalCache, statsCache, authSvc)
	return responseSvc, surveyID, statsCache
}

func TestResponseLifecycleBranchTaken(t *testing.T) {
	svc, surveyID, stats := newTestResponseService(t)
	ctx := context.Background()

	start, err := svc.Start(ctx, surveyID)
	require.NoError(t, err)
	require.NotNil(t, start.Section)
	assert.Equal(t, "s1", start.Section.ID)
	assert.NotEmpty(t, start.Token)

	next, err := svc.AdvanceSection(ctx, start.ResponseID, "s1", map[string]string{"q1": "yes"})
	require.NoError(t, err)
	require.NotNil(t, next.Section)
	assert.Equal(t, "s3", next.Section.ID, `"yes" skips section two`)

	next, err = svc.AdvanceSection(ctx, start.ResponseID, "s3", map[string]string{"q3": "5"})
	require.NoError(t, err)
	assert.True(t, next.Terminated)

	response, err := svc.Submit(ctx, start.ResponseID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ResponseSubmitted, response.Status)
	assert.Equal(t, []string{"s1", "s3"}, response.Path)
	assert.NotNil(t, response.SubmittedAt)

	s, _ := stats.Get(ctx, surveyID)
	assert.EqualValues(t, 1, s.Started)
	assert.EqualValues(t, 1, s.Completed)
}

func TestResponseLifecycleDefaultPath(t *testing.T) {
	svc, surveyID, _ := newTestResponseService(t)
	ctx := context.Background()

	start, err := svc.Start(ctx, surveyID)
	require.NoError(t, err)

	next, err := svc.AdvanceSection(ctx, start.ResponseID, "s1", map[string]string{"q1": "no"})
	require.NoError(t, err)
	require.NotNil(t, next.Section)
	assert.Equal(t, "s2", next.Section.ID)
}

func TestAdvanceWrongSectionRejected(t *testing.T) {
	svc, surveyID, _ := newTestResponseService(t)
	ctx := context.Background()

	start, err := svc.Start(ctx, surveyID)
	require.NoError(t, err)

	_, err = svc.AdvanceSection(ctx, start.ResponseID, "s2", map[string]string{"q2": "skipping ahead"})
	assert.ErrorIs(t, err, ErrSectionMismatch)
}

func TestSubmitRejectsTamperedPath(t *testing.T) {
	svc, surveyID, stats := newTestResponseService(t)
	ctx := context.Background()

	start, err := svc.Start(ctx, surveyID)
	require.NoError(t, err)

	// The respondent took the "yes" branch, so s2 was never shown.
	_, err = svc.AdvanceSection(ctx, start.ResponseID, "s1", map[string]string{"q1": "yes"})
	require.NoError(t, err)
	_, err = svc.AdvanceSection(ctx, start.ResponseID, "s3", map[string]string{"q3": "4"})
	require.NoError(t, err)

	response, err := svc.Submit(ctx, start.ResponseID, []string{"s1", "s2", "s3"})
	assert.ErrorIs(t, err, ErrResponseTampered)
	require.NotNil(t, response)
	assert.Equal(t, model.ResponseRejected, response.Status)
	assert.Equal(t, model.RejectInvalidTraversal, response.RejectReason)
	assert.Equal(t, []string{"s1", "s3"}, response.Path)

	s, _ := stats.Get(ctx, surveyID)
	assert.EqualValues(t, 1, s.Rejected)
}

func TestSubmitTwiceRejected(t *testing.T) {
	svc, surveyID, _ := newTestResponseService(t)
	ctx := context.Background()

	start, err := svc.Start(ctx, surveyID)
	require.NoError(t, err)
	_, err = svc.AdvanceSection(ctx, start.ResponseID, "s1", map[string]string{"q1": "yes"})
	require.NoError(t, err)
	_, err = svc.AdvanceSection(ctx, start.ResponseID, "s3", map[string]string{"q3": "4"})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, start.ResponseID, nil)
	require.NoError(t, err)

	// Traversal state is evicted on submit.
	_, err = svc.Submit(ctx, start.ResponseID, nil)
	assert.ErrorIs(t, err, ErrResponseNotFound)
}

func TestStartUnknownSurvey(t *testing.T) {
	svc, _, _ := newTestResponseService(t)
	_, err := svc.Start(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}
