package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pathform/internal/cache"
	"pathform/internal/flow"
	"pathform/internal/model"
	"pathform/internal/repository"
)

var (
	ErrSurveyNotFound    = errors.New("survey not found")
	ErrSurveyNotEditable = errors.New("survey is not editable")
	ErrSurveyNotLive     = errors.New("survey is not live")
	ErrValidationFailed  = errors.New("survey failed validation")
	ErrForbidden         = errors.New("survey belongs to another tenant")
)

// SurveyService handles survey authoring and lifecycle. Editing is only
// allowed while a survey is draft; publishing freezes the definition and
// caches it for respondent traffic.
type SurveyService struct {
	surveyRepo  repository.SurveyRepo
	surveyCache cache.SurveyCache
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo repository.SurveyRepo, surveyCache cache.SurveyCache) *SurveyService {
	return &SurveyService{
		surveyRepo:  surveyRepo,
		surveyCache: surveyCache,
	}
}

// Create creates a new draft survey
func (s *SurveyService) Create(ctx context.Context, survey *model.Survey) (string, error) {
	survey.Status = model.SurveyDraft
	assignIDs(survey)
	survey.SortSections()
	return s.surveyRepo.Create(ctx, survey)
}

// GetByID retrieves a survey, guarding tenant ownership
func (s *SurveyService) GetByID(ctx context.Context, tenantID, id string) (*model.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	if survey.TenantID != tenantID {
		return nil, ErrForbidden
	}
	return survey, nil
}

// ListByTenant retrieves all surveys for a tenant
func (s *SurveyService) ListByTenant(ctx context.Context, tenantID string) ([]*model.Survey, error) {
	return s.surveyRepo.GetByTenantID(ctx, tenantID)
}

// Update replaces a draft survey's definition
func (s *SurveyService) Update(ctx context.Context, survey *model.Survey) error {
	existing, err := s.GetByID(ctx, survey.TenantID, survey.ID)
	if err != nil {
		return err
	}
	if existing.Status != model.SurveyDraft {
		return ErrSurveyNotEditable
	}
	survey.Status = model.SurveyDraft
	survey.CreatedAt = existing.CreatedAt
	assignIDs(survey)
	survey.SortSections()
	return s.surveyRepo.Update(ctx, survey)
}

// Delete removes a draft survey
func (s *SurveyService) Delete(ctx context.Context, tenantID, id string) error {
	existing, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if existing.Status != model.SurveyDraft {
		return ErrSurveyNotEditable
	}
	return s.surveyRepo.Delete(ctx, id)
}

// Validate runs static branching-graph validation on a survey
func (s *SurveyService) Validate(ctx context.Context, tenantID, id string) (flow.Result, error) {
	survey, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return flow.Result{}, err
	}
	return flow.Validate(survey), nil
}

// Publish validates a draft and, if it passes, freezes it as live and
// caches the definition. Orphan warnings do not block; dangling refs
// and cycles do. The returned result carries all findings either way.
func (s *SurveyService) Publish(ctx context.Context, tenantID, id string) (flow.Result, error) {
	survey, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return flow.Result{}, err
	}
	if survey.Status != model.SurveyDraft {
		return flow.Result{}, ErrSurveyNotEditable
	}

	result := flow.Validate(survey)
	if !result.OK {
		return result, ErrValidationFailed
	}

	if err := s.surveyRepo.UpdateStatus(ctx, id, model.SurveyLive); err != nil {
		return result, err
	}
	survey.Status = model.SurveyLive
	if err := s.surveyCache.Set(ctx, survey); err != nil {
		return result, fmt.Errorf("failed to cache live survey: %w", err)
	}
	return result, nil
}

// Close ends a live survey and evicts it from the cache
func (s *SurveyService) Close(ctx context.Context, tenantID, id string) error {
	survey, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if survey.Status != model.SurveyLive {
		return ErrSurveyNotLive
	}
	if err := s.surveyRepo.UpdateStatus(ctx, id, model.SurveyClosed); err != nil {
		return err
	}
	return s.surveyCache.Delete(ctx, id)
}

// GetLive reads a live survey through the cache. The definition is
// frozen once live, so a cached copy is always authoritative.
func (s *SurveyService) GetLive(ctx context.Context, id string) (*model.Survey, error) {
	survey, err := s.surveyCache.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey != nil {
		return survey, nil
	}

	survey, err = s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	if survey.Status != model.SurveyLive {
		return nil, ErrSurveyNotLive
	}
	if err := s.surveyCache.Set(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// assignIDs fills in missing section, question, and option ids
func assignIDs(survey *model.Survey) {
	for i := range survey.Sections {
		sec := &survey.Sections[i]
		if sec.ID == "" {
			sec.ID = uuid.New().String()
		}
		for j := range sec.Questions {
			q := &sec.Questions[j]
			if q.ID == "" {
				q.ID = uuid.New().String()
			}
			for k := range q.Options {
				if q.Options[k].ID == "" {
					q.Options[k].ID = uuid.New().String()
				}
			}
		}
	}
}
