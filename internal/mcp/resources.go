// ABOUTME: MCP resource implementations for healthlog records.
// ABOUTME: Provides healthlog://today, healthlog://recent and healthlog://summary.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/healthlog/internal/models"
	"github.com/harperreed/healthlog/internal/prefs"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI   = "healthlog://today"
	recentURI  = "healthlog://recent"
	summaryURI = "healthlog://summary"

	recentPerWidget = 5
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Health Records",
		Description: "Every enabled widget's records measured today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentURI,
		Name:        "Recent Health Records",
		Description: "Last 5 records of each enabled widget",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Health Summary Dashboard",
		Description: "Latest record and record count per widget plus today's step goal progress",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := models.Today()

	widgets := make(map[string]recordsView)
	for _, w := range s.enabledWidgets() {
		view, err := s.recordsForDay(w, today)
		if err != nil {
			return nil, err
		}
		widgets[string(w)] = view
	}

	return jsonResource(todayURI, map[string]interface{}{
		"date":    today.String(),
		"widgets": widgets,
	})
}

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	widgets := make(map[string]recordsView)
	for _, w := range s.enabledWidgets() {
		_, view, err := s.handleListRecords(ctx, nil, listRecordsInput{Widget: string(w), Count: recentPerWidget})
		if err != nil {
			return nil, err
		}
		view.Message = ""
		widgets[string(w)] = view
	}

	return jsonResource(recentURI, widgets)
}

type widgetSummary struct {
	Count  int `json:"count"`
	Latest any `json:"latest,omitempty"`
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	widgets := make(map[string]widgetSummary)
	for _, w := range s.enabledWidgets() {
		_, count, err := s.handleCountRecords(ctx, nil, widgetInput{Widget: string(w)})
		if err != nil {
			return nil, err
		}
		_, latest, err := s.handleListRecords(ctx, nil, listRecordsInput{Widget: string(w), Count: 1})
		if err != nil {
			return nil, err
		}

		summary := widgetSummary{Count: count.Count}
		switch {
		case len(latest.BloodPressure) > 0:
			summary.Latest = latest.BloodPressure[0]
		case len(latest.Weight) > 0:
			summary.Latest = latest.Weight[0]
		case len(latest.StepCount) > 0:
			summary.Latest = latest.StepCount[0]
		}
		widgets[string(w)] = summary
	}

	result := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"widgets":      widgets,
	}
	if s.prefs.WidgetEnabled(prefs.WidgetStepCount) {
		_, progress, err := s.handleStepGoalProgress(ctx, nil, stepGoalProgressInput{})
		if err != nil {
			return nil, err
		}
		result["step_goal_today"] = progress
	}

	return jsonResource(summaryURI, result)
}

func (s *Server) enabledWidgets() []prefs.Widget {
	var out []prefs.Widget
	for _, w := range prefs.Widgets {
		if s.prefs.WidgetEnabled(w) {
			out = append(out, w)
		}
	}
	return out
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
