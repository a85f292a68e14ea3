package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"corehabit-api/internal/coach"
	"corehabit-api/internal/config"
	"corehabit-api/internal/nutrition"
	"corehabit-api/internal/progression"
	"corehabit-api/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zaptest.NewLogger(t)
	return newRouter(coach.NewService(db, logger), logger, config.DefaultConfig().Server)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const onboardBody = `{
	"profile": {"weight": "180 lbs", "age": 30, "sex": "Male", "height": "5'10", "goal": "Lose fat"},
	"workout_days": [
		{"day": "Monday", "exercises": [
			{"name": "Squat", "type": "compound", "sets": 4, "reps": "5"},
			{"name": "Leg Curl", "type": "isolation", "sets": 3, "reps": "12"}
		]}
	]
}`

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestComputeMacrosHandler(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, "POST", "/api/macros", `{"weight":"180 lbs","age":"30","sex":"male","height":"5'10","goal":"Lose fat"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MacrosResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, nutrition.MacroTargets{Calories: 2363, Protein: 162, Carbs: 280, Fats: 66}, resp.Targets)
	assert.False(t, resp.Estimate.HeightAssumed)
}

func TestComputeMacrosHandler_Errors(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, "POST", "/api/macros", `{"weight":"","age":30}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, "POST", "/api/macros", `{"weight":"180","age":30,"height":"very tall"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, "POST", "/api/macros", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanLifecycle(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, "POST", "/api/plans", onboardBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var onboarded coach.Onboarding
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &onboarded))
	id := onboarded.Plan.ID
	require.NotEmpty(t, id)
	assert.Equal(t, 2363, onboarded.Plan.Plan.Macros.Calories)

	rec = do(t, h, "GET", "/api/plans/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	checkIn := `{"weight_change": -0.1, "strength_trend": "stable", "energy": 3, "adherence": 85, "sleep": 3}`
	rec = do(t, h, "POST", "/api/plans/"+id+"/checkins", checkIn)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res coach.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, -150, res.Adjustments.CalorieDelta)
	assert.Equal(t, 2213, res.Plan.Plan.Macros.Calories)
	assert.Equal(t, 2, res.Plan.Version)

	rec = do(t, h, "GET", "/api/plans/"+id+"/checkins", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []store.CheckInRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 1)
}

func TestPlanHandlers_Errors(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, "GET", "/api/plans/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, "POST", "/api/plans/missing/checkins", `{"weight_change":0,"strength_trend":"up","energy":3,"adherence":50,"sleep":3}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, "POST", "/api/plans", `{"profile":{"weight":"180"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, "POST", "/api/plans", onboardBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	var onboarded coach.Onboarding
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &onboarded))

	rec = do(t, h, "POST", "/api/plans/"+onboarded.Plan.ID+"/checkins", `{"weight_change":0,"strength_trend":"up","energy":7,"adherence":50,"sleep":3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPreviewHandler(t *testing.T) {
	h := newTestRouter(t)

	body := `{
		"plan": {"goal": "muscle_gain", "macros": {"calories": 3000, "protein": 180, "carbs": 380, "fat": 83},
			"workout_days": [{"exercises": [{"type": "compound", "sets": 3}]}]},
		"check_in": {"weight_change": 2.0, "strength_trend": "up", "energy": 4, "adherence": 90, "sleep": 4}
	}`
	rec := do(t, h, "POST", "/api/progression/preview", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cycle progression.Cycle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cycle))
	assert.Equal(t, progression.Adjustments{CalorieDelta: -150, AddCompoundSet: true}, cycle.Adjustments)
	assert.Equal(t, 2850, cycle.Plan.Macros.Calories)
	assert.Equal(t, 4, cycle.Plan.WorkoutDays[0].Exercises[0].Sets)

	body = `{
		"plan": {"goal": "fat_loss", "macros": {"calories": 2000, "protein": 150, "carbs": 200, "fat": 67},
			"workout_days": [{"exercises": [{"type": "compound", "sets": 12}, {"type": "isolation", "sets": 0}]}]},
		"check_in": {"weight_change": 0, "strength_trend": "stable", "energy": 3, "adherence": 90, "sleep": 3}
	}`
	rec = do(t, h, "POST", "/api/progression/preview", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cycle = progression.Cycle{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cycle))
	assert.Equal(t, 1850, cycle.Plan.Macros.Calories)
	assert.Equal(t, 6, cycle.Plan.WorkoutDays[0].Exercises[0].Sets)
	assert.Equal(t, 2, cycle.Plan.WorkoutDays[0].Exercises[1].Sets)

	rec = do(t, h, "POST", "/api/progression/preview", `{"plan":{"goal":"fat_loss"},"check_in":{"strength_trend":"up","energy":3,"adherence":50,"sleep":3}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest("OPTIONS", "/api/macros", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMacrosCommand(t *testing.T) {
	t.Setenv("COREHABIT_LOG_LEVEL", "error")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"--config", filepath.Join(t.TempDir(), "none.yaml"),
		"macros", "--weight", "180 lbs", "--age", "30", "--sex", "male", "--height", "5'10", "--goal", "Lose fat",
	})
	require.NoError(t, rootCmd.Execute())

	var resp MacrosResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, 2363, resp.Targets.Calories)
}

func TestCheckInCommand(t *testing.T) {
	t.Setenv("COREHABIT_LOG_LEVEL", "error")
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.json")
	checkInPath := filepath.Join(dir, "checkin.json")
	require.NoError(t, os.WriteFile(planPath, []byte(`{"goal":"fat_loss","macros":{"calories":2000,"protein":150,"carbs":200,"fat":67},"workout_days":[]}`), 0644))
	require.NoError(t, os.WriteFile(checkInPath, []byte(`{"weight_change":-0.8,"strength_trend":"stable","energy":4,"adherence":50,"sleep":3}`), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", filepath.Join(dir, "none.yaml"), "checkin", "--plan", planPath, "--checkin", checkInPath})
	require.NoError(t, rootCmd.Execute())

	var cycle progression.Cycle
	require.NoError(t, json.Unmarshal(out.Bytes(), &cycle))
	assert.Equal(t, progression.Adjustments{VolumeChange: 0.03}, cycle.Adjustments)
	assert.Equal(t, 2000, cycle.Plan.Macros.Calories)
}
