// Package coach runs onboarding and weekly check-in cycles against stored
// plans. It owns the per-plan serialization that the pure progression rules
// rely on.
package coach

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"corehabit-api/internal/nutrition"
	"corehabit-api/internal/profile"
	"corehabit-api/internal/progression"
	"corehabit-api/internal/store"
)

// ErrInsufficientData is returned when the profile has no usable weight or age.
var ErrInsufficientData = errors.New("insufficient profile data to compute macros")

// Repository is the plan storage the service needs.
type Repository interface {
	CreatePlan(ctx context.Context, p profile.UserProfile, plan progression.Plan) (store.PlanRecord, error)
	GetPlan(ctx context.Context, id string) (store.PlanRecord, error)
	CommitCheckIn(ctx context.Context, planID string, expectedVersion int, next progression.Plan, rec store.CheckInRecord) (store.PlanRecord, error)
	ListCheckIns(ctx context.Context, planID string) ([]store.CheckInRecord, error)
}

// Service coordinates onboarding and check-ins.
type Service struct {
	repo   Repository
	logger *zap.Logger
	locks  *keyedMutex
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, locks: newKeyedMutex()}
}

// OnboardRequest carries the onboarding profile and the externally authored
// workout structure.
type OnboardRequest struct {
	Profile     profile.UserProfile      `json:"profile"`
	WorkoutDays []progression.WorkoutDay `json:"workout_days"`
}

// Onboarding is the stored plan plus the working of its macro targets.
type Onboarding struct {
	Plan     store.PlanRecord   `json:"plan"`
	Estimate nutrition.Estimate `json:"estimate"`
}

// Onboard computes initial targets and stores the first plan snapshot.
func (s *Service) Onboard(ctx context.Context, req OnboardRequest) (Onboarding, error) {
	est, ok := nutrition.Calculate(req.Profile)
	if !ok {
		return Onboarding{}, ErrInsufficientData
	}
	if est.HeightAssumed {
		s.logger.Info("height missing, assumed default", zap.Float64("inches", est.HeightInches))
	}

	goal := req.Profile.Goal
	if goal == "" {
		goal = profile.GoalOther
	}
	plan := progression.NewPlan(goal, est.Targets, req.WorkoutDays)

	rec, err := s.repo.CreatePlan(ctx, req.Profile, plan)
	if err != nil {
		return Onboarding{}, fmt.Errorf("failed to store plan: %w", err)
	}
	s.logger.Info("plan created",
		zap.String("plan_id", rec.ID),
		zap.String("goal", string(goal)),
		zap.Int("calories", est.Targets.Calories))
	return Onboarding{Plan: rec, Estimate: est}, nil
}

// Result is the outcome of a committed check-in.
type Result struct {
	Plan        store.PlanRecord          `json:"plan"`
	Adjustments progression.Adjustments   `json:"adjustments"`
	Summary     progression.ChangeSummary `json:"summary"`
}

// CheckIn evaluates c against the plan's current snapshot, applies the
// result once and stores the new snapshot. Cycles on the same plan run one
// at a time.
func (s *Service) CheckIn(ctx context.Context, planID string, c progression.CheckIn) (Result, error) {
	if err := c.Validate(); err != nil {
		return Result{}, err
	}

	unlock, err := s.locks.Lock(ctx, planID)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	current, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return Result{}, err
	}

	cycle, err := progression.Step(current.Plan, c)
	if err != nil {
		return Result{}, fmt.Errorf("plan %s: %w", planID, err)
	}

	rec, err := s.repo.CommitCheckIn(ctx, planID, current.Version, cycle.Plan, store.CheckInRecord{
		CheckIn:     c,
		Adjustments: cycle.Adjustments,
		Summary:     cycle.Summary,
	})
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("check-in applied",
		zap.String("plan_id", planID),
		zap.Int("version", rec.Version),
		zap.Int("calorie_delta", cycle.Adjustments.CalorieDelta),
		zap.Float64("volume_change", cycle.Adjustments.VolumeChange),
		zap.Bool("add_compound_set", cycle.Adjustments.AddCompoundSet))

	return Result{Plan: rec, Adjustments: cycle.Adjustments, Summary: cycle.Summary}, nil
}

// Plan returns the current snapshot.
func (s *Service) Plan(ctx context.Context, planID string) (store.PlanRecord, error) {
	return s.repo.GetPlan(ctx, planID)
}

// History returns past check-ins, oldest first.
func (s *Service) History(ctx context.Context, planID string) ([]store.CheckInRecord, error) {
	return s.repo.ListCheckIns(ctx, planID)
}

// Preview runs a check-in cycle without storing anything.
func Preview(plan progression.Plan, c progression.CheckIn) (progression.Cycle, error) {
	if err := c.Validate(); err != nil {
		return progression.Cycle{}, err
	}
	return progression.Step(plan, c)
}
