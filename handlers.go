package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"corehabit-api/internal/coach"
	"corehabit-api/internal/nutrition"
	"corehabit-api/internal/profile"
	"corehabit-api/internal/progression"
	"corehabit-api/internal/store"
)

type handlers struct {
	svc    *coach.Service
	logger *zap.Logger
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *handlers) computeMacros(w http.ResponseWriter, r *http.Request) {
	var p profile.UserProfile
	if !h.decode(w, r, &p) {
		return
	}
	est, ok := nutrition.Calculate(p)
	if !ok {
		h.writeError(w, coach.ErrInsufficientData)
		return
	}
	writeJSON(w, http.StatusOK, MacrosResponse{Targets: est.Targets, Estimate: est})
}

func (h *handlers) createPlan(w http.ResponseWriter, r *http.Request) {
	var req coach.OnboardRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Onboard(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handlers) getPlan(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Plan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handlers) submitCheckIn(w http.ResponseWriter, r *http.Request) {
	var c progression.CheckIn
	if !h.decode(w, r, &c) {
		return
	}
	res, err := h.svc.CheckIn(r.Context(), mux.Vars(r)["id"], c)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) listCheckIns(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.History(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *handlers) preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if !h.decode(w, r, &req) {
		return
	}
	cycle, err := coach.Preview(req.Plan, req.CheckIn)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cycle)
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, profile.ErrInvalidHeight) {
			h.writeError(w, err)
			return false
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func (h *handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, coach.ErrInsufficientData),
		errors.Is(err, progression.ErrMalformedPlan),
		errors.Is(err, progression.ErrInvalidCheckIn),
		errors.Is(err, profile.ErrInvalidHeight):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		status = http.StatusConflict
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		msg = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
