package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"pathform/internal/service"
	"pathform/internal/transport/rest/middleware"
)

// ResponseHandler handles respondent-facing endpoints
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// SectionAnswersRequest is the request body for submitting a section's answers
type SectionAnswersRequest struct {
	Answers map[string]string `json:"answers"`
}

// SubmitRequest is the request body for final submission. Path is the
// sequence of section ids the client believes it was shown; it is
// verified by server-side replay, never trusted.
type SubmitRequest struct {
	Path []string `json:"path"`
}

// Start handles POST /v1/surveys/{surveyId}/responses (public)
func (h *ResponseHandler) Start(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	result, err := h.responseSvc.Start(r.Context(), surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// CurrentSection handles GET /v1/responses/{responseId}/section
func (h *ResponseHandler) CurrentSection(w http.ResponseWriter, r *http.Request) {
	responseID, ok := h.authorizedResponseID(w, r)
	if !ok {
		return
	}

	result, err := h.responseSvc.CurrentSection(r.Context(), responseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SubmitSection handles POST /v1/responses/{responseId}/sections/{sectionId}/answers
func (h *ResponseHandler) SubmitSection(w http.ResponseWriter, r *http.Request) {
	responseID, ok := h.authorizedResponseID(w, r)
	if !ok {
		return
	}
	sectionID := mux.Vars(r)["sectionId"]

	var req SectionAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.responseSvc.AdvanceSection(r.Context(), responseID, sectionID, req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Submit handles POST /v1/responses/{responseId}/submit
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	responseID, ok := h.authorizedResponseID(w, r)
	if !ok {
		return
	}

	var req SubmitRequest
	if r.Body != nil {
		// Body is optional; without a claimed path the server path is used.
		json.NewDecoder(r.Body).Decode(&req)
	}

	response, err := h.responseSvc.Submit(r.Context(), responseID, req.Path)
	if errors.Is(err, service.ErrResponseTampered) {
		writeJSON(w, http.StatusUnprocessableEntity, response)
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// authorizedResponseID checks the path response id against the token's
// scope, so one respondent cannot drive another's traversal.
func (h *ResponseHandler) authorizedResponseID(w http.ResponseWriter, r *http.Request) (string, bool) {
	responseID := mux.Vars(r)["responseId"]
	if middleware.GetResponseID(r.Context()) != responseID {
		writeError(w, http.StatusForbidden, "token not valid for this response")
		return "", false
	}
	return responseID, true
}
