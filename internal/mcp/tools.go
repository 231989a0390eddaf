// ABOUTME: MCP tool implementations for healthlog records.
// ABOUTME: Adds, lists, counts and deletes blood pressure, weight and step count records.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthlog/internal/models"
	"github.com/harperreed/healthlog/internal/prefs"
	"github.com/harperreed/healthlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_blood_pressure",
		Description: "Record a blood pressure measurement",
	}, s.handleAddBloodPressure)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_weight",
		Description: "Record a body weight measurement",
	}, s.handleAddWeight)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_steps",
		Description: "Record the step count for a day, replacing any earlier count for that day",
	}, s.handleAddSteps)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List records of one widget, newest first, with offset and count paging",
	}, s.handleListRecords)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "records_for_day",
		Description: "List every record of one widget measured on a given day",
	}, s.handleRecordsForDay)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete one record by ID (blood pressure, weight) or day (step count)",
	}, s.handleDeleteRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "count_records",
		Description: "Count the stored records of one widget",
	}, s.handleCountRecords)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "step_goal_progress",
		Description: "Show how much of the step goal was reached on a day",
	}, s.handleStepGoalProgress)
}

// Tool input/output types

type addBloodPressureInput struct {
	Systolic   float64 `json:"systolic" jsonschema:"Systolic pressure"`
	Diastolic  float64 `json:"diastolic" jsonschema:"Diastolic pressure"`
	Pulse      int     `json:"pulse" jsonschema:"Pulse in beats per minute"`
	Unit       string  `json:"unit,omitempty" jsonschema:"mmHg or kPa, defaults to the preferred unit"`
	Medication string  `json:"medication,omitempty" jsonschema:"none, taken or not_taken (default none)"`
	Note       string  `json:"note,omitempty" jsonschema:"Optional note"`
	MeasuredAt string  `json:"measured_at,omitempty" jsonschema:"Measurement time (RFC3339 or YYYY-MM-DD HH:MM), defaults to now"`
}

type addWeightInput struct {
	Value      float64 `json:"value" jsonschema:"Body weight"`
	Unit       string  `json:"unit,omitempty" jsonschema:"kg or lb, defaults to the preferred unit"`
	MeasuredAt string  `json:"measured_at,omitempty" jsonschema:"Measurement time (RFC3339 or YYYY-MM-DD HH:MM), defaults to now"`
}

type addStepsInput struct {
	Steps      int    `json:"steps" jsonschema:"Steps walked that day"`
	Goal       int    `json:"goal,omitempty" jsonschema:"Daily goal, defaults to the stored default goal"`
	MeasuredAt string `json:"measured_at,omitempty" jsonschema:"Measurement time (RFC3339 or YYYY-MM-DD HH:MM), defaults to now"`
}

type addedOutput struct {
	ID      string `json:"id"`
	Widget  string `json:"widget"`
	Message string `json:"message"`
}

type listRecordsInput struct {
	Widget string `json:"widget" jsonschema:"blood_pressure, weight or step_count"`
	Offset int    `json:"offset,omitempty" jsonschema:"Records to skip (default 0)"`
	Count  int    `json:"count,omitempty" jsonschema:"Max results (default 20)"`
}

type recordsForDayInput struct {
	Widget string `json:"widget" jsonschema:"blood_pressure, weight or step_count"`
	Day    string `json:"day,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
}

type deleteRecordInput struct {
	Widget string `json:"widget" jsonschema:"blood_pressure, weight or step_count"`
	Key    string `json:"key" jsonschema:"Record ID, or YYYY-MM-DD for step_count"`
}

type widgetInput struct {
	Widget string `json:"widget" jsonschema:"blood_pressure, weight or step_count"`
}

type countOutput struct {
	Widget string `json:"widget"`
	Count  int    `json:"count"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type stepGoalProgressInput struct {
	Day string `json:"day,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
}

type stepGoalProgressOutput struct {
	Day         string `json:"day"`
	Steps       int    `json:"steps"`
	Goal        int    `json:"goal"`
	GoalReached int    `json:"goal_reached_percent"`
	Message     string `json:"message"`
}

// Tool handlers

func (s *Server) handleAddBloodPressure(ctx context.Context, req *mcp.CallToolRequest, input addBloodPressureInput) (*mcp.CallToolResult, addedOutput, error) {
	if err := s.requireEnabled(prefs.WidgetBloodPressure); err != nil {
		return nil, addedOutput{}, err
	}

	unit := s.prefs.BloodPressureUnit()
	if input.Unit != "" {
		u, err := models.ParseBloodPressureUnit(input.Unit)
		if err != nil {
			return nil, addedOutput{}, err
		}
		unit = u
	}

	r := models.NewBloodPressureRecord(input.Systolic, input.Diastolic, input.Pulse, unit)
	if input.Medication != "" {
		m, err := models.ParseMedicationState(input.Medication)
		if err != nil {
			return nil, addedOutput{}, err
		}
		r.WithMedication(m)
	}
	if input.Note != "" {
		r.WithNote(input.Note)
	}
	if err := applyMeasuredAt(input.MeasuredAt, r.WithTime); err != nil {
		return nil, addedOutput{}, err
	}

	if err := s.repos.BloodPressure.CreateOrUpdate(r); err != nil {
		return nil, addedOutput{}, fmt.Errorf("failed to add blood pressure: %w", err)
	}

	return nil, addedOutput{
		ID:      r.ID.String(),
		Widget:  string(prefs.WidgetBloodPressure),
		Message: fmt.Sprintf("Added blood pressure %g/%g %s, pulse %d (ID: %s)", r.Systolic, r.Diastolic, r.Unit, r.Pulse, r.ID.String()[:8]),
	}, nil
}

func (s *Server) handleAddWeight(ctx context.Context, req *mcp.CallToolRequest, input addWeightInput) (*mcp.CallToolResult, addedOutput, error) {
	if err := s.requireEnabled(prefs.WidgetWeight); err != nil {
		return nil, addedOutput{}, err
	}

	unit := s.prefs.WeightUnit()
	if input.Unit != "" {
		u, err := models.ParseWeightUnit(input.Unit)
		if err != nil {
			return nil, addedOutput{}, err
		}
		unit = u
	}

	r := models.NewWeightRecord(input.Value, unit)
	if err := applyMeasuredAt(input.MeasuredAt, r.WithTime); err != nil {
		return nil, addedOutput{}, err
	}

	if err := s.repos.Weight.CreateOrUpdate(r); err != nil {
		return nil, addedOutput{}, fmt.Errorf("failed to add weight: %w", err)
	}

	return nil, addedOutput{
		ID:      r.ID.String(),
		Widget:  string(prefs.WidgetWeight),
		Message: fmt.Sprintf("Added weight %g %s (ID: %s)", r.Value, r.Unit, r.ID.String()[:8]),
	}, nil
}

func (s *Server) handleAddSteps(ctx context.Context, req *mcp.CallToolRequest, input addStepsInput) (*mcp.CallToolResult, addedOutput, error) {
	if err := s.requireEnabled(prefs.WidgetStepCount); err != nil {
		return nil, addedOutput{}, err
	}

	goal := input.Goal
	if goal == 0 {
		g, err := s.repos.StepCount.DefaultGoal()
		if err != nil {
			return nil, addedOutput{}, fmt.Errorf("failed to read default goal: %w", err)
		}
		goal = g
	}

	r := models.NewStepCountRecord(input.Steps, goal)
	if err := applyMeasuredAt(input.MeasuredAt, r.WithTime); err != nil {
		return nil, addedOutput{}, err
	}

	if err := s.repos.StepCount.CreateOrUpdate(r); err != nil {
		return nil, addedOutput{}, fmt.Errorf("failed to add steps: %w", err)
	}

	return nil, addedOutput{
		ID:      r.ID.String(),
		Widget:  string(prefs.WidgetStepCount),
		Message: fmt.Sprintf("Recorded %d steps for %s (%d%% of %d)", r.StepCount, r.Day(), r.GoalReached(), r.Goal),
	}, nil
}

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, recordsView, error) {
	w, err := prefs.ParseWidget(input.Widget)
	if err != nil {
		return nil, recordsView{}, err
	}
	if input.Count <= 0 {
		input.Count = s.pageSize
	}

	out := recordsView{Widget: string(w)}
	switch w {
	case prefs.WidgetBloodPressure:
		records, err := s.repos.BloodPressure.ListDescending(input.Offset, input.Count)
		if err != nil {
			return nil, recordsView{}, fmt.Errorf("failed to list blood pressure: %w", err)
		}
		out.BloodPressure = s.bloodPressureViews(records)
		out.Count = len(records)
	case prefs.WidgetWeight:
		records, err := s.repos.Weight.ListDescending(input.Offset, input.Count)
		if err != nil {
			return nil, recordsView{}, fmt.Errorf("failed to list weight: %w", err)
		}
		out.Weight = s.weightViews(records)
		out.Count = len(records)
	case prefs.WidgetStepCount:
		records, err := s.repos.StepCount.ListDescending(input.Offset, input.Count)
		if err != nil {
			return nil, recordsView{}, fmt.Errorf("failed to list step count: %w", err)
		}
		out.StepCount = stepCountViews(records)
		out.Count = len(records)
	}

	if out.Count == 0 {
		out.Message = "No records found."
	}
	return nil, out, nil
}

func (s *Server) handleRecordsForDay(ctx context.Context, req *mcp.CallToolRequest, input recordsForDayInput) (*mcp.CallToolResult, recordsView, error) {
	w, err := prefs.ParseWidget(input.Widget)
	if err != nil {
		return nil, recordsView{}, err
	}
	day, err := parseDayOrToday(input.Day)
	if err != nil {
		return nil, recordsView{}, err
	}

	out, err := s.recordsForDay(w, day)
	if err != nil {
		return nil, recordsView{}, err
	}
	if out.Count == 0 {
		out.Message = fmt.Sprintf("No records for %s.", day)
	}
	return nil, out, nil
}

func (s *Server) handleDeleteRecord(ctx context.Context, req *mcp.CallToolRequest, input deleteRecordInput) (*mcp.CallToolResult, simpleOutput, error) {
	w, err := prefs.ParseWidget(input.Widget)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	switch w {
	case prefs.WidgetStepCount:
		day, err := models.ParseDay(input.Key)
		if err != nil {
			return nil, simpleOutput{}, err
		}
		err = s.repos.StepCount.Delete(day)
		if err != nil {
			return nil, simpleOutput{}, fmt.Errorf("failed to delete step count: %w", err)
		}
	default:
		id, err := uuid.Parse(input.Key)
		if err != nil {
			return nil, simpleOutput{}, fmt.Errorf("invalid record ID %q: %w", input.Key, err)
		}
		if w == prefs.WidgetBloodPressure {
			err = s.repos.BloodPressure.Delete(id)
		} else {
			err = s.repos.Weight.Delete(id)
		}
		if err != nil {
			return nil, simpleOutput{}, fmt.Errorf("failed to delete %s: %w", w, err)
		}
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted %s record: %s", w, input.Key),
	}, nil
}

func (s *Server) handleCountRecords(ctx context.Context, req *mcp.CallToolRequest, input widgetInput) (*mcp.CallToolResult, countOutput, error) {
	w, err := prefs.ParseWidget(input.Widget)
	if err != nil {
		return nil, countOutput{}, err
	}

	var n int
	switch w {
	case prefs.WidgetBloodPressure:
		n, err = s.repos.BloodPressure.Count()
	case prefs.WidgetWeight:
		n, err = s.repos.Weight.Count()
	case prefs.WidgetStepCount:
		n, err = s.repos.StepCount.Count()
	}
	if err != nil {
		return nil, countOutput{}, fmt.Errorf("failed to count %s: %w", w, err)
	}

	return nil, countOutput{Widget: string(w), Count: n}, nil
}

func (s *Server) handleStepGoalProgress(ctx context.Context, req *mcp.CallToolRequest, input stepGoalProgressInput) (*mcp.CallToolResult, stepGoalProgressOutput, error) {
	day, err := parseDayOrToday(input.Day)
	if err != nil {
		return nil, stepGoalProgressOutput{}, err
	}

	out := stepGoalProgressOutput{Day: day.String()}
	r, err := s.repos.StepCount.Get(day)
	switch {
	case err == nil:
		out.Steps = r.StepCount
		out.Goal = r.Goal
	case isNotFound(err):
		goal, gErr := s.repos.StepCount.DefaultGoal()
		if gErr != nil {
			return nil, stepGoalProgressOutput{}, fmt.Errorf("failed to read default goal: %w", gErr)
		}
		out.Goal = goal
	default:
		return nil, stepGoalProgressOutput{}, fmt.Errorf("failed to read step count: %w", err)
	}

	out.GoalReached = models.GoalPercentage(out.Steps, out.Goal)
	out.Message = fmt.Sprintf("%s: %d of %d steps (%d%%)", day, out.Steps, out.Goal, out.GoalReached)
	return nil, out, nil
}

// recordsForDay gathers one widget's records for day in display units.
func (s *Server) recordsForDay(w prefs.Widget, day models.Day) (recordsView, error) {
	out := recordsView{Widget: string(w)}
	switch w {
	case prefs.WidgetBloodPressure:
		records, err := s.repos.BloodPressure.ListForDay(day)
		if err != nil {
			return recordsView{}, fmt.Errorf("failed to list blood pressure: %w", err)
		}
		out.BloodPressure = s.bloodPressureViews(records)
		out.Count = len(records)
	case prefs.WidgetWeight:
		records, err := s.repos.Weight.ListForDay(day)
		if err != nil {
			return recordsView{}, fmt.Errorf("failed to list weight: %w", err)
		}
		out.Weight = s.weightViews(records)
		out.Count = len(records)
	case prefs.WidgetStepCount:
		records, err := s.repos.StepCount.ListForDay(day)
		if err != nil {
			return recordsView{}, fmt.Errorf("failed to list step count: %w", err)
		}
		out.StepCount = stepCountViews(records)
		out.Count = len(records)
	}
	return out, nil
}

func (s *Server) bloodPressureViews(records []*models.BloodPressureRecord) []bloodPressureView {
	unit := s.prefs.BloodPressureUnit()
	views := make([]bloodPressureView, len(records))
	for i, r := range records {
		views[i] = viewBloodPressure(r, unit)
	}
	return views
}

func (s *Server) weightViews(records []*models.WeightRecord) []weightView {
	unit := s.prefs.WeightUnit()
	views := make([]weightView, len(records))
	for i, r := range records {
		views[i] = viewWeight(r, unit)
	}
	return views
}

func stepCountViews(records []*models.StepCountRecord) []stepCountView {
	views := make([]stepCountView, len(records))
	for i, r := range records {
		views[i] = viewStepCount(r)
	}
	return views
}

func (s *Server) requireEnabled(w prefs.Widget) error {
	if !s.prefs.WidgetEnabled(w) {
		return fmt.Errorf("widget %s is disabled", w)
	}
	return nil
}

// applyMeasuredAt parses raw, when given, and passes it to set.
func applyMeasuredAt[T any](raw string, set func(time.Time) T) error {
	if raw == "" {
		return nil
	}
	t, err := models.ParseMeasurementTime(raw)
	if err != nil {
		return err
	}
	set(t)
	return nil
}

func parseDayOrToday(raw string) (models.Day, error) {
	if raw == "" {
		return models.Today(), nil
	}
	return models.ParseDay(raw)
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
