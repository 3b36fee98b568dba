package milestone

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/devflowhq/devflow/config"
	"github.com/devflowhq/devflow/internal/ghclient"
	"github.com/devflowhq/devflow/internal/model"
)

type reportIssue struct {
	title string
	body  string
}

// fakeIssues implements ghclient.IssueAPI for tracker tests.
type fakeIssues struct {
	milestones map[int]model.Milestone
	closed     []int
	closeErr   error
	reports    []reportIssue
	reportErr  error
}

func (f *fakeIssues) GetIssue(ctx context.Context, repo model.RepoRef, number int) (model.Issue, error) {
	return model.Issue{}, ghclient.ErrNotFound
}

func (f *fakeIssues) IssueNodeID(ctx context.Context, repo model.RepoRef, number int) (string, error) {
	return "", ghclient.ErrNotFound
}

func (f *fakeIssues) AddLabels(ctx context.Context, repo model.RepoRef, number int, labels []string) error {
	return nil
}

func (f *fakeIssues) CreateComment(ctx context.Context, repo model.RepoRef, number int, body string) error {
	return nil
}

func (f *fakeIssues) CreateIssue(ctx context.Context, repo model.RepoRef, title, body string, labels []string) (int, error) {
	if f.reportErr != nil {
		return 0, f.reportErr
	}
	f.reports = append(f.reports, reportIssue{title: title, body: body})
	return 900 + len(f.reports), nil
}

func (f *fakeIssues) ListOpenMilestones(ctx context.Context, repo model.RepoRef) ([]model.Milestone, error) {
	var out []model.Milestone
	for _, ms := range f.milestones {
		if ms.State == model.StateOpen {
			out = append(out, ms)
		}
	}
	return out, nil
}

func (f *fakeIssues) GetMilestone(ctx context.Context, repo model.RepoRef, number int) (model.Milestone, error) {
	ms, ok := f.milestones[number]
	if !ok {
		return model.Milestone{}, ghclient.ErrNotFound
	}
	return ms, nil
}

func (f *fakeIssues) CloseMilestone(ctx context.Context, repo model.RepoRef, number int) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	f.closed = append(f.closed, number)
	return nil
}

var testRepo = model.RepoRef{Owner: "octo", Name: "widgets"}

func TestCheckCompletionAutoCloses(t *testing.T) {
	issues := &fakeIssues{
		milestones: map[int]model.Milestone{
			3: {
				Number:       3,
				Title:        "v1.0",
				State:        model.StateOpen,
				OpenIssues:   0,
				ClosedIssues: 12,
				CreatedAt:    time.Now().Add(-6*24*time.Hour - time.Hour),
			},
		},
	}
	tracker := NewTracker(issues, nil, config.MilestoneSettings{AutoClose: true, RetentionDays: 90})

	record, err := tracker.CheckCompletion(context.Background(), testRepo, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.Percentage != 100 {
		t.Errorf("percentage = %v, want 100", record.Percentage)
	}
	if !record.Completed {
		t.Error("record should be marked completed")
	}
	if record.Closure == nil {
		t.Fatal("expected a closure")
	}
	if record.Closure.DurationDays != 6 {
		t.Errorf("duration = %d days, want 6", record.Closure.DurationDays)
	}
	if len(issues.closed) != 1 || issues.closed[0] != 3 {
		t.Errorf("expected milestone 3 closed, got %v", issues.closed)
	}

	if len(issues.reports) != 1 {
		t.Fatalf("expected a completion report, got %d", len(issues.reports))
	}
	report := issues.reports[0]
	if report.title != "Milestone completed: v1.0" {
		t.Errorf("unexpected report title %q", report.title)
	}
	if !strings.Contains(report.body, "2.00 issues/day") {
		t.Errorf("report should state the velocity (12 issues / 6 days), got:\n%s", report.body)
	}
	if record.Closure.ReportRef != 901 {
		t.Errorf("closure should reference the report issue, got %d", record.Closure.ReportRef)
	}
}

func TestCheckCompletionIncomplete(t *testing.T) {
	issues := &fakeIssues{
		milestones: map[int]model.Milestone{
			3: {Number: 3, Title: "v1.0", State: model.StateOpen, OpenIssues: 2, ClosedIssues: 10, CreatedAt: time.Now()},
		},
	}
	tracker := NewTracker(issues, nil, config.MilestoneSettings{AutoClose: true})

	record, err := tracker.CheckCompletion(context.Background(), testRepo, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Completed || record.Closure != nil {
		t.Errorf("incomplete milestone should not close, got %+v", record)
	}
	if len(issues.closed) != 0 {
		t.Errorf("no milestone should be closed, got %v", issues.closed)
	}
}

func TestCheckCompletionAlreadyClosed(t *testing.T) {
	issues := &fakeIssues{
		milestones: map[int]model.Milestone{
			3: {Number: 3, Title: "v1.0", State: model.StateClosed, OpenIssues: 0, ClosedIssues: 12, CreatedAt: time.Now()},
		},
	}
	tracker := NewTracker(issues, nil, config.MilestoneSettings{AutoClose: true})

	record, err := tracker.CheckCompletion(context.Background(), testRepo, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Closure != nil {
		t.Error("closed milestone should never be closed again")
	}
	if len(issues.closed) != 0 {
		t.Errorf("no close call expected, got %v", issues.closed)
	}
}

func TestCheckCompletionAutoCloseDisabled(t *testing.T) {
	issues := &fakeIssues{
		milestones: map[int]model.Milestone{
			3: {Number: 3, Title: "v1.0", State: model.StateOpen, OpenIssues: 0, ClosedIssues: 5, CreatedAt: time.Now()},
		},
	}
	tracker := NewTracker(issues, nil, config.MilestoneSettings{AutoClose: false})

	record, err := tracker.CheckCompletion(context.Background(), testRepo, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !record.Completed {
		t.Error("record should still report completion")
	}
	if record.Closure != nil || len(issues.closed) != 0 {
		t.Error("auto-close disabled: milestone must stay open")
	}
}

func TestCheckCompletionCloseFailure(t *testing.T) {
	issues := &fakeIssues{
		milestones: map[int]model.Milestone{
			3: {Number: 3, Title: "v1.0", State: model.StateOpen, OpenIssues: 0, ClosedIssues: 5, CreatedAt: time.Now()},
		},
		closeErr: errors.New("platform rejected the close"),
	}
	tracker := NewTracker(issues, nil, config.MilestoneSettings{AutoClose: true})

	record, err := tracker.CheckCompletion(context.Background(), testRepo, 3)
	if err == nil {
		t.Fatal("expected the close failure to surface")
	}
	if !record.Completed {
		t.Error("record should still carry the completion metrics")
	}
}

func TestCloseReportFailureKeepsClosure(t *testing.T) {
	issues := &fakeIssues{
		milestones: map[int]model.Milestone{
			3: {Number: 3, Title: "v1.0", State: model.StateOpen, OpenIssues: 0, ClosedIssues: 5, CreatedAt: time.Now()},
		},
		reportErr: errors.New("issue creation failed"),
	}
	tracker := NewTracker(issues, nil, config.MilestoneSettings{AutoClose: true})

	record, err := tracker.CheckCompletion(context.Background(), testRepo, 3)
	if err != nil {
		t.Fatalf("report failure should not undo the closure: %v", err)
	}
	if record.Closure == nil {
		t.Fatal("expected a closure despite the failed report")
	}
	if record.Closure.ReportRef != 0 {
		t.Errorf("no report ref expected, got %d", record.Closure.ReportRef)
	}
}

func TestCheckAll(t *testing.T) {
	issues := &fakeIssues{
		milestones: map[int]model.Milestone{
			1: {Number: 1, Title: "v1.0", State: model.StateOpen, OpenIssues: 0, ClosedIssues: 4, CreatedAt: time.Now()},
			2: {Number: 2, Title: "v1.1", State: model.StateOpen, OpenIssues: 3, ClosedIssues: 1, CreatedAt: time.Now()},
		},
	}
	tracker := NewTracker(issues, nil, config.MilestoneSettings{AutoClose: true})

	results, err := tracker.CheckAll(context.Background(), testRepo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	closures := 0
	for _, r := range results {
		if r.Error != "" {
			t.Errorf("milestone %d errored: %s", r.Record.Milestone, r.Error)
		}
		if r.Record.Closure != nil {
			closures++
		}
	}
	if closures != 1 {
		t.Errorf("expected exactly one auto-close, got %d", closures)
	}
}
