package main

import (
	"corehabit-api/internal/nutrition"
	"corehabit-api/internal/progression"
)

type PreviewRequest struct {
	Plan    progression.Plan    `json:"plan"`
	CheckIn progression.CheckIn `json:"check_in"`
}

type MacrosResponse struct {
	Targets  nutrition.MacroTargets `json:"targets"`
	Estimate nutrition.Estimate     `json:"estimate"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
