// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/healthlog/internal/models"
	"github.com/harperreed/healthlog/internal/prefs"
	"github.com/harperreed/healthlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestServer creates a server over temp-dir repositories and in-memory preferences.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	repos := storage.OpenAll(t.TempDir())
	t.Cleanup(func() { _ = repos.Close() })

	store, err := prefs.Open("", nil)
	if err != nil {
		t.Fatalf("Failed to open preferences: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	server, err := NewServer(repos, store, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repos == nil {
		t.Error("Expected non-nil repos")
	}
	if server.pageSize != defaultPageSize {
		t.Errorf("pageSize = %d, want %d", server.pageSize, defaultPageSize)
	}
}

func TestNewServerRequiresDependencies(t *testing.T) {
	if _, err := NewServer(nil, nil, nil); err == nil {
		t.Error("Expected error without repositories")
	}
	if _, err := NewServer(storage.OpenAll(t.TempDir()), nil, nil); err == nil {
		t.Error("Expected error without preferences")
	}
}

func TestHandleAddBloodPressure(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addBloodPressureInput
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "defaults",
			input: addBloodPressureInput{Systolic: 120, Diastolic: 80, Pulse: 62},
		},
		{
			name: "all fields",
			input: addBloodPressureInput{
				Systolic: 16, Diastolic: 10.5, Pulse: 70, Unit: "kPa",
				Medication: "taken", Note: "after run", MeasuredAt: "2025-01-31 08:00",
			},
		},
		{
			name:      "unknown unit",
			input:     addBloodPressureInput{Systolic: 120, Diastolic: 80, Unit: "psi"},
			wantErr:   true,
			errSubstr: "psi",
		},
		{
			name:      "unknown medication",
			input:     addBloodPressureInput{Systolic: 120, Diastolic: 80, Medication: "maybe"},
			wantErr:   true,
			errSubstr: "medication",
		},
		{
			name:      "negative pulse",
			input:     addBloodPressureInput{Systolic: 120, Diastolic: 80, Pulse: -1},
			wantErr:   true,
			errSubstr: "pulse must not be negative",
		},
		{
			name:      "bad time",
			input:     addBloodPressureInput{Systolic: 120, Diastolic: 80, MeasuredAt: "soon"},
			wantErr:   true,
			errSubstr: "invalid time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleAddBloodPressure(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if output.ID == "" {
				t.Error("Expected non-empty ID")
			}
			if output.Widget != "blood_pressure" {
				t.Errorf("Widget = %q, want blood_pressure", output.Widget)
			}
		})
	}

	n, err := server.repos.BloodPressure.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 stored records, got %d", n)
	}
}

func TestHandleAddWeightUsesPreferredUnit(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	if err := server.prefs.SetWeightUnit(models.UnitPound); err != nil {
		t.Fatalf("SetWeightUnit failed: %v", err)
	}

	_, output, err := server.handleAddWeight(ctx, &mcp.CallToolRequest{}, addWeightInput{Value: 180})
	if err != nil {
		t.Fatalf("handleAddWeight failed: %v", err)
	}
	if !strings.Contains(output.Message, "180 lb") {
		t.Errorf("Message = %q, want it to mention 180 lb", output.Message)
	}

	_, list, err := server.handleListRecords(ctx, &mcp.CallToolRequest{}, listRecordsInput{Widget: "weight"})
	if err != nil {
		t.Fatalf("handleListRecords failed: %v", err)
	}
	if len(list.Weight) != 1 || list.Weight[0].Unit != "lb" || list.Weight[0].Value != 180 {
		t.Errorf("Unexpected weight list: %+v", list.Weight)
	}
}

func TestHandleAddStepsDefaultGoal(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, _, err := server.handleAddSteps(ctx, &mcp.CallToolRequest{}, addStepsInput{Steps: 2500})
	if err != nil {
		t.Fatalf("handleAddSteps failed: %v", err)
	}

	r, err := server.repos.StepCount.Get(models.Today())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if r.Goal != models.DefaultStepGoal {
		t.Errorf("Goal = %d, want %d", r.Goal, models.DefaultStepGoal)
	}

	// A second count for the same day replaces the first.
	_, _, err = server.handleAddSteps(ctx, &mcp.CallToolRequest{}, addStepsInput{Steps: 6000, Goal: 8000})
	if err != nil {
		t.Fatalf("handleAddSteps failed: %v", err)
	}
	_, count, err := server.handleCountRecords(ctx, &mcp.CallToolRequest{}, widgetInput{Widget: "steps"})
	if err != nil {
		t.Fatalf("handleCountRecords failed: %v", err)
	}
	if count.Count != 1 {
		t.Errorf("Count = %d, want 1", count.Count)
	}
}

func TestDisabledWidgetRefusesWrites(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	if err := server.prefs.SetWidgetEnabled(prefs.WidgetWeight, false); err != nil {
		t.Fatalf("SetWidgetEnabled failed: %v", err)
	}

	_, _, err := server.handleAddWeight(ctx, &mcp.CallToolRequest{}, addWeightInput{Value: 80})
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Errorf("Expected disabled error, got %v", err)
	}
}

func TestHandleListRecordsPaging(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	base := time.Date(2025, 2, 1, 7, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		r := models.NewWeightRecord(80+float64(i), models.UnitKilogram).WithTime(base.Add(time.Duration(i) * time.Hour))
		if err := server.repos.Weight.CreateOrUpdate(r); err != nil {
			t.Fatalf("CreateOrUpdate failed: %v", err)
		}
	}

	_, page, err := server.handleListRecords(ctx, &mcp.CallToolRequest{}, listRecordsInput{Widget: "weight", Offset: 1, Count: 2})
	if err != nil {
		t.Fatalf("handleListRecords failed: %v", err)
	}
	if page.Count != 2 {
		t.Fatalf("Count = %d, want 2", page.Count)
	}
	if page.Weight[0].Value != 83 || page.Weight[1].Value != 82 {
		t.Errorf("Unexpected page: %+v", page.Weight)
	}

	_, _, err = server.handleListRecords(ctx, &mcp.CallToolRequest{}, listRecordsInput{Widget: "weight", Offset: -1})
	if !errors.Is(err, storage.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestHandleListRecordsEmpty(t *testing.T) {
	server := setupTestServer(t)

	_, out, err := server.handleListRecords(context.Background(), &mcp.CallToolRequest{}, listRecordsInput{Widget: "bp"})
	if err != nil {
		t.Fatalf("handleListRecords failed: %v", err)
	}
	if out.Message != "No records found." {
		t.Errorf("Message = %q", out.Message)
	}
}

func TestHandleListRecordsUnknownWidget(t *testing.T) {
	server := setupTestServer(t)

	_, _, err := server.handleListRecords(context.Background(), &mcp.CallToolRequest{}, listRecordsInput{Widget: "food"})
	if err == nil || !strings.Contains(err.Error(), "unknown widget") {
		t.Errorf("Expected unknown widget error, got %v", err)
	}
}

func TestHandleRecordsForDay(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	day := time.Date(2025, 2, 1, 9, 0, 0, 0, time.Local)
	in := models.NewBloodPressureRecord(120, 80, 60, models.UnitMmHg).WithTime(day)
	out := models.NewBloodPressureRecord(130, 85, 65, models.UnitMmHg).WithTime(day.Add(24 * time.Hour))
	for _, r := range []*models.BloodPressureRecord{in, out} {
		if err := server.repos.BloodPressure.CreateOrUpdate(r); err != nil {
			t.Fatalf("CreateOrUpdate failed: %v", err)
		}
	}

	_, view, err := server.handleRecordsForDay(ctx, &mcp.CallToolRequest{}, recordsForDayInput{Widget: "blood_pressure", Day: "2025-02-01"})
	if err != nil {
		t.Fatalf("handleRecordsForDay failed: %v", err)
	}
	if view.Count != 1 || view.BloodPressure[0].ID != in.ID.String() {
		t.Errorf("Unexpected records: %+v", view.BloodPressure)
	}

	_, _, err = server.handleRecordsForDay(ctx, &mcp.CallToolRequest{}, recordsForDayInput{Widget: "bp", Day: "02/01/2025"})
	if err == nil {
		t.Error("Expected error for malformed day")
	}
}

func TestHandleRecordsForDayConvertsUnits(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	if err := server.prefs.SetBloodPressureUnit(models.UnitKPa); err != nil {
		t.Fatalf("SetBloodPressureUnit failed: %v", err)
	}
	r := models.NewBloodPressureRecord(120, 80, 60, models.UnitMmHg)
	if err := server.repos.BloodPressure.CreateOrUpdate(r); err != nil {
		t.Fatalf("CreateOrUpdate failed: %v", err)
	}

	_, view, err := server.handleRecordsForDay(ctx, &mcp.CallToolRequest{}, recordsForDayInput{Widget: "bp"})
	if err != nil {
		t.Fatalf("handleRecordsForDay failed: %v", err)
	}
	got := view.BloodPressure[0]
	if got.Unit != "kPa" || got.Systolic != 16 || got.Diastolic != 10.67 {
		t.Errorf("Unexpected converted view: %+v", got)
	}
}

func TestHandleDeleteRecord(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	w := models.NewWeightRecord(80, models.UnitKilogram)
	if err := server.repos.Weight.CreateOrUpdate(w); err != nil {
		t.Fatalf("CreateOrUpdate failed: %v", err)
	}
	s := models.NewStepCountRecord(100, 1000)
	if err := server.repos.StepCount.CreateOrUpdate(s); err != nil {
		t.Fatalf("CreateOrUpdate failed: %v", err)
	}

	if _, _, err := server.handleDeleteRecord(ctx, &mcp.CallToolRequest{}, deleteRecordInput{Widget: "weight", Key: w.ID.String()}); err != nil {
		t.Fatalf("delete weight failed: %v", err)
	}
	if _, _, err := server.handleDeleteRecord(ctx, &mcp.CallToolRequest{}, deleteRecordInput{Widget: "steps", Key: s.Day().String()}); err != nil {
		t.Fatalf("delete steps failed: %v", err)
	}

	_, _, err := server.handleDeleteRecord(ctx, &mcp.CallToolRequest{}, deleteRecordInput{Widget: "weight", Key: w.ID.String()})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	_, _, err = server.handleDeleteRecord(ctx, &mcp.CallToolRequest{}, deleteRecordInput{Widget: "bp", Key: "abc"})
	if err == nil || !strings.Contains(err.Error(), "invalid record ID") {
		t.Errorf("Expected invalid ID error, got %v", err)
	}
}

func TestHandleStepGoalProgress(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, empty, err := server.handleStepGoalProgress(ctx, &mcp.CallToolRequest{}, stepGoalProgressInput{})
	if err != nil {
		t.Fatalf("handleStepGoalProgress failed: %v", err)
	}
	if empty.GoalReached != 0 || empty.Goal != models.DefaultStepGoal {
		t.Errorf("Unexpected empty progress: %+v", empty)
	}

	r := models.NewStepCountRecord(2500, 10000)
	if err := server.repos.StepCount.CreateOrUpdate(r); err != nil {
		t.Fatalf("CreateOrUpdate failed: %v", err)
	}

	_, got, err := server.handleStepGoalProgress(ctx, &mcp.CallToolRequest{}, stepGoalProgressInput{Day: r.Day().String()})
	if err != nil {
		t.Fatalf("handleStepGoalProgress failed: %v", err)
	}
	if got.GoalReached != 25 || got.Steps != 2500 {
		t.Errorf("Unexpected progress: %+v", got)
	}
}

func TestHandleTodayResource(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	today := models.NewWeightRecord(80, models.UnitKilogram)
	old := models.NewWeightRecord(81, models.UnitKilogram).WithTime(time.Now().AddDate(0, 0, -3))
	for _, r := range []*models.WeightRecord{today, old} {
		if err := server.repos.Weight.CreateOrUpdate(r); err != nil {
			t.Fatalf("CreateOrUpdate failed: %v", err)
		}
	}

	result, err := server.handleTodayResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleTodayResource failed: %v", err)
	}
	if len(result.Contents) != 1 || result.Contents[0].URI != todayURI {
		t.Fatalf("Unexpected contents: %+v", result.Contents)
	}

	var body struct {
		Date    string                 `json:"date"`
		Widgets map[string]recordsView `json:"widgets"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body.Date != models.Today().String() {
		t.Errorf("Date = %q", body.Date)
	}
	if body.Widgets["weight"].Count != 1 {
		t.Errorf("Expected one weight record today, got %+v", body.Widgets["weight"])
	}
}

func TestHandleTodayResourceSkipsDisabledWidgets(t *testing.T) {
	server := setupTestServer(t)

	if err := server.prefs.SetWidgetEnabled(prefs.WidgetBloodPressure, false); err != nil {
		t.Fatalf("SetWidgetEnabled failed: %v", err)
	}

	result, err := server.handleTodayResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleTodayResource failed: %v", err)
	}
	if strings.Contains(result.Contents[0].Text, `"blood_pressure"`) {
		t.Error("Disabled widget should not appear")
	}
}

func TestHandleRecentResource(t *testing.T) {
	server := setupTestServer(t)

	for i := 0; i < 7; i++ {
		r := models.NewWeightRecord(80, models.UnitKilogram).WithTime(time.Now().Add(-time.Duration(i) * time.Hour))
		if err := server.repos.Weight.CreateOrUpdate(r); err != nil {
			t.Fatalf("CreateOrUpdate failed: %v", err)
		}
	}

	result, err := server.handleRecentResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleRecentResource failed: %v", err)
	}

	var widgets map[string]recordsView
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &widgets); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if widgets["weight"].Count != recentPerWidget {
		t.Errorf("Expected %d recent weights, got %d", recentPerWidget, widgets["weight"].Count)
	}
}

func TestHandleSummaryResource(t *testing.T) {
	server := setupTestServer(t)

	if err := server.repos.StepCount.CreateOrUpdate(models.NewStepCountRecord(5000, 10000)); err != nil {
		t.Fatalf("CreateOrUpdate failed: %v", err)
	}

	result, err := server.handleSummaryResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleSummaryResource failed: %v", err)
	}

	text := result.Contents[0].Text
	for _, want := range []string{`"generated_at"`, `"step_goal_today"`, `"goal_reached_percent": 50`} {
		if !strings.Contains(text, want) {
			t.Errorf("Summary should contain %s:\n%s", want, text)
		}
	}
}

func TestHandleSummaryResourceEmpty(t *testing.T) {
	server := setupTestServer(t)

	result, err := server.handleSummaryResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleSummaryResource failed: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, `"count": 0`) {
		t.Errorf("Expected zero counts:\n%s", result.Contents[0].Text)
	}
}
