package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pathform/internal/cache"
	"pathform/internal/flow"
	"pathform/internal/model"
	"pathform/internal/repository"
)

var (
	ErrResponseNotFound = errors.New("response not found or expired")
	ErrResponseFinished = errors.New("response already finished")
	ErrSectionMismatch  = errors.New("submitted section is not the current section")
	ErrResponseTampered = errors.New("submitted path failed replay validation")
	ErrTraversalFault   = errors.New("traversal hit an inconsistent survey definition")
)

// Monitor event types pushed to author connections
const (
	EventRespondentStarted = "respondent_started"
	EventSectionAdvanced   = "section_advanced"
	EventResponseSubmitted = "response_submitted"
	EventResponseRejected  = "response_rejected"
	EventTraversalFault    = "traversal_fault"
)

// StartResult is returned when a respondent begins a survey
type StartResult struct {
	ResponseID string         `json:"responseId"`
	Token      string         `json:"token"`
	Section    *model.Section `json:"section"`
}

// SectionResult is returned after a section's answers are consumed
type SectionResult struct {
	Section    *model.Section `json:"section,omitempty"`
	Terminated bool           `json:"terminated"`
}

// ResponseService drives respondent traversals: it starts responses,
// advances them section by section through the flow engine, and replays
// submissions server-side before accepting them.
type ResponseService struct {
	responseRepo   repository.ResponseRepo
	surveySvc      *SurveyService
	traversalCache cache.TraversalCache
	statsCache     cache.StatsCache
	authSvc        *AuthService
	broadcaster    Broadcaster
}

// NewResponseService creates a new response service
func NewResponseService(
	responseRepo repository.ResponseRepo,
	surveySvc *SurveyService,
	traversalCache cache.TraversalCache,
	statsCache cache.StatsCache,
	authSvc *AuthService,
) *ResponseService {
	return &ResponseService{
		responseRepo:   responseRepo,
		surveySvc:      surveySvc,
		traversalCache: traversalCache,
		statsCache:     statsCache,
		authSvc:        authSvc,
	}
}

// SetBroadcaster sets the broadcaster for monitor events
func (s *ResponseService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start opens a response against a live survey and returns the first
// section plus a response-scoped token.
func (s *ResponseService) Start(ctx context.Context, surveyID string) (*StartResult, error) {
	survey, err := s.surveySvc.GetLive(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	response := &model.Response{
		SurveyID:  surveyID,
		TenantID:  survey.TenantID,
		Status:    model.ResponseInProgress,
		Answers:   map[string]string{},
		StartedAt: time.Now(),
	}
	responseID, err := s.responseRepo.Create(ctx, response)
	if err != nil {
		return nil, fmt.Errorf("failed to create response: %w", err)
	}

	t := flow.Start(survey)
	state := &cache.TraversalState{
		SurveyID:  surveyID,
		TenantID:  survey.TenantID,
		Answers:   map[string]string{},
		Traversal: t,
	}
	if err := s.traversalCache.Set(ctx, responseID, state); err != nil {
		return nil, fmt.Errorf("failed to cache traversal state: %w", err)
	}

	if err := s.statsCache.IncrStarted(ctx, surveyID); err != nil {
		log.Printf("stats increment failed for survey %s: %v", surveyID, err)
	}
	s.notify(surveyID, EventRespondentStarted, map[string]string{"responseId": responseID})

	token, err := s.authSvc.GenerateRespondentToken(responseID, surveyID)
	if err != nil {
		return nil, err
	}

	return &StartResult{
		ResponseID: responseID,
		Token:      token,
		Section:    survey.SectionByID(t.Current),
	}, nil
}

// CurrentSection returns the section the respondent should see now
func (s *ResponseService) CurrentSection(ctx context.Context, responseID string) (*SectionResult, error) {
	state, survey, err := s.loadState(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if state.Traversal.Terminated {
		return &SectionResult{Terminated: true}, nil
	}
	return &SectionResult{Section: survey.SectionByID(state.Traversal.Current)}, nil
}

// AdvanceSection consumes the answers for the current section, resolves
// the next section through the flow engine, and returns it (or the
// terminal flag). The sectionID must match the engine's current section
// so an out-of-sync client cannot answer sections it was never shown.
func (s *ResponseService) AdvanceSection(ctx context.Context, responseID, sectionID string, answers map[string]string) (*SectionResult, error) {
	state, survey, err := s.loadState(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if state.Traversal.Terminated {
		return nil, ErrResponseFinished
	}
	if state.Traversal.Current != sectionID {
		return nil, ErrSectionMismatch
	}

	for qid, value := range answers {
		state.Answers[qid] = value
	}

	flow.Advance(survey, state.Traversal, state.Answers)

	if err := s.traversalCache.Set(ctx, responseID, state); err != nil {
		return nil, fmt.Errorf("failed to save traversal state: %w", err)
	}

	if state.Traversal.Fault != "" {
		// The live definition no longer matches what was validated.
		// Never absorb silently: log and push to the author monitor.
		log.Printf("traversal fault %q on response %s (survey %s)", state.Traversal.Fault, responseID, state.SurveyID)
		s.notify(state.SurveyID, EventTraversalFault, map[string]string{
			"responseId": responseID,
			"fault":      string(state.Traversal.Fault),
		})
		return nil, ErrTraversalFault
	}

	s.notify(state.SurveyID, EventSectionAdvanced, map[string]interface{}{
		"responseId": responseID,
		"path":       state.Traversal.Path,
		"terminated": state.Traversal.Terminated,
	})

	if state.Traversal.Terminated {
		return &SectionResult{Terminated: true}, nil
	}
	return &SectionResult{Section: survey.SectionByID(state.Traversal.Current)}, nil
}

// Submit replays the accumulated answers against the frozen survey
// definition and persists the response. claimedPath is what the client
// reports having been shown; nil means "trust only the server path",
// which still gets re-derived from raw answers. A diverging claim
// persists the response as rejected and returns ErrResponseTampered.
func (s *ResponseService) Submit(ctx context.Context, responseID string, claimedPath []string) (*model.Response, error) {
	state, survey, err := s.loadState(ctx, responseID)
	if err != nil {
		return nil, err
	}

	if claimedPath == nil {
		claimedPath = state.Traversal.Path
	}
	replay := flow.Replay(survey, state.Answers, claimedPath)

	response, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, ErrResponseNotFound
	}
	if response.Status != model.ResponseInProgress {
		return nil, ErrResponseFinished
	}

	response.Answers = state.Answers
	response.Path = replay.ExpectedPath

	if replay.Valid {
		now := time.Now()
		response.Status = model.ResponseSubmitted
		response.SubmittedAt = &now
	} else {
		response.Status = model.ResponseRejected
		response.RejectReason = string(replay.Reason)
	}

	if err := s.responseRepo.Update(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to persist response: %w", err)
	}
	if err := s.traversalCache.Delete(ctx, responseID); err != nil {
		log.Printf("failed to evict traversal state for %s: %v", responseID, err)
	}

	if replay.Valid {
		if err := s.statsCache.IncrCompleted(ctx, state.SurveyID); err != nil {
			log.Printf("stats increment failed for survey %s: %v", state.SurveyID, err)
		}
		s.notify(state.SurveyID, EventResponseSubmitted, map[string]string{"responseId": responseID})
		return response, nil
	}

	if err := s.statsCache.IncrRejected(ctx, state.SurveyID); err != nil {
		log.Printf("stats increment failed for survey %s: %v", state.SurveyID, err)
	}
	s.notify(state.SurveyID, EventResponseRejected, map[string]string{
		"responseId": responseID,
		"reason":     string(replay.Reason),
	})
	return response, ErrResponseTampered
}

// Stats returns response counters for an author's survey
func (s *ResponseService) Stats(ctx context.Context, tenantID, surveyID string) (*model.SurveyStats, error) {
	if _, err := s.surveySvc.GetByID(ctx, tenantID, surveyID); err != nil {
		return nil, err
	}
	return s.statsCache.Get(ctx, surveyID)
}

func (s *ResponseService) loadState(ctx context.Context, responseID string) (*cache.TraversalState, *model.Survey, error) {
	state, err := s.traversalCache.Get(ctx, responseID)
	if err != nil {
		return nil, nil, err
	}
	if state == nil {
		return nil, nil, ErrResponseNotFound
	}
	survey, err := s.surveySvc.GetLive(ctx, state.SurveyID)
	if err != nil {
		return nil, nil, err
	}
	return state, survey, nil
}

func (s *ResponseService) notify(surveyID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToMonitors(surveyID, msgType, payload)
	}
}
