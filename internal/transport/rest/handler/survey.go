package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"pathform/internal/model"
	"pathform/internal/service"
	"pathform/internal/transport/rest/middleware"
)

// SurveyHandler handles survey authoring endpoints
type SurveyHandler struct {
	surveySvc   *service.SurveyService
	responseSvc *service.ResponseService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveySvc *service.SurveyService, responseSvc *service.ResponseService) *SurveyHandler {
	return &SurveyHandler{
		surveySvc:   surveySvc,
		responseSvc: responseSvc,
	}
}

// SurveyRequest is the request body for creating or updating a survey
type SurveyRequest struct {
	Title    string          `json:"title"`
	Sections []model.Section `json:"sections"`
}

// Create handles POST /v1/surveys
func (h *SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	authorID := middleware.GetAuthorID(r.Context())
	if tenantID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey := &model.Survey{
		TenantID: tenantID,
		AuthorID: authorID,
		Title:    req.Title,
		Sections: req.Sections,
	}

	id, err := h.surveySvc.Create(r.Context(), survey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"surveyId": id})
}

// Get handles GET /v1/surveys/{surveyId}
func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	tenantID := middleware.GetTenantID(r.Context())

	survey, err := h.surveySvc.GetByID(r.Context(), tenantID, surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, survey)
}

// List handles GET /v1/surveys
func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	surveys, err := h.surveySvc.ListByTenant(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"surveys": surveys})
}

// Update handles PUT /v1/surveys/{surveyId}
func (h *SurveyHandler) Update(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	tenantID := middleware.GetTenantID(r.Context())
	authorID := middleware.GetAuthorID(r.Context())

	var req SurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey := &model.Survey{
		ID:       surveyID,
		TenantID: tenantID,
		AuthorID: authorID,
		Title:    req.Title,
		Sections: req.Sections,
	}

	if err := h.surveySvc.Update(r.Context(), survey); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, survey)
}

// Delete handles DELETE /v1/surveys/{surveyId}
func (h *SurveyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	tenantID := middleware.GetTenantID(r.Context())

	if err := h.surveySvc.Delete(r.Context(), tenantID, surveyID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Validate handles POST /v1/surveys/{surveyId}/validate
func (h *SurveyHandler) Validate(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	tenantID := middleware.GetTenantID(r.Context())

	result, err := h.surveySvc.Validate(r.Context(), tenantID, surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Publish handles POST /v1/surveys/{surveyId}/publish
func (h *SurveyHandler) Publish(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	tenantID := middleware.GetTenantID(r.Context())

	result, err := h.surveySvc.Publish(r.Context(), tenantID, surveyID)
	if errors.Is(err, service.ErrValidationFailed) {
		// Surface every finding at once so the author can fix them together.
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Close handles POST /v1/surveys/{surveyId}/close
func (h *SurveyHandler) Close(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	tenantID := middleware.GetTenantID(r.Context())

	if err := h.surveySvc.Close(r.Context(), tenantID, surveyID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// Stats handles GET /v1/surveys/{surveyId}/stats
func (h *SurveyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	tenantID := middleware.GetTenantID(r.Context())

	stats, err := h.responseSvc.Stats(r.Context(), tenantID, surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
