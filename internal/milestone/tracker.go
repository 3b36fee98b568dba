// Package milestone tracks milestone completion and auto-closes
// milestones once every issue in them is done, leaving a completion
// report behind.
package milestone

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/devflowhq/devflow/config"
	"github.com/devflowhq/devflow/internal/ghclient"
	"github.com/devflowhq/devflow/internal/log"
	"github.com/devflowhq/devflow/internal/model"
)

// maxConcurrentChecks bounds parallel milestone checks. Checks are
// independent (each touches only its own milestone) so a small pool is
// safe.
const maxConcurrentChecks = 4

// Tracker watches milestones and closes completed ones.
type Tracker struct {
	issues   ghclient.IssueAPI
	store    *Store
	settings config.MilestoneSettings
}

// NewTracker creates a Tracker. The store may be nil to disable
// analytics persistence.
func NewTracker(issues ghclient.IssueAPI, store *Store, settings config.MilestoneSettings) *Tracker {
	return &Tracker{
		issues:   issues,
		store:    store,
		settings: settings,
	}
}

// CheckResult is the outcome of checking one milestone.
type CheckResult struct {
	Record model.CompletionRecord `json:"record"`
	Error  string                 `json:"error,omitempty"`
}

// CheckAll enumerates a repository's open milestones and checks each.
// Per-milestone failures are collected into the results, never raised.
func (t *Tracker) CheckAll(ctx context.Context, repo model.RepoRef) ([]CheckResult, error) {
	milestones, err := t.issues.ListOpenMilestones(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones for %s: %w", repo.FullName(), err)
	}

	results := make([]CheckResult, len(milestones))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChecks)
	for i, ms := range milestones {
		i, ms := i, ms
		g.Go(func() error {
			record, err := t.CheckCompletion(gctx, repo, ms.Number)
			mu.Lock()
			defer mu.Unlock()
			results[i] = CheckResult{Record: record}
			if err != nil {
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// CheckCompletion fetches a milestone, computes its completion
// metrics, auto-closes it when complete (and auto-close is enabled),
// and appends an analytics record. Re-checking an unchanged milestone
// is an idempotent no-op: a milestone that is already closed is never
// closed again.
func (t *Tracker) CheckCompletion(ctx context.Context, repo model.RepoRef, number int) (model.CompletionRecord, error) {
	ms, err := t.issues.GetMilestone(ctx, repo, number)
	if err != nil {
		return model.CompletionRecord{}, err
	}

	record := model.CompletionRecord{
		Timestamp:  time.Now(),
		Repo:       repo.FullName(),
		Milestone:  ms.Number,
		Title:      ms.Title,
		Open:       ms.OpenIssues,
		Closed:     ms.ClosedIssues,
		Percentage: ms.CompletionPercentage(),
		Completed:  ms.IsCompleted(),
	}
	log.Debug("checked milestone", "repo", repo.FullName(), "milestone", ms.Number, "pct", record.Percentage, "completed", record.Completed)

	if t.settings.AutoClose && ms.State == model.StateOpen && ms.IsCompleted() {
		closure, err := t.Close(ctx, repo, ms)
		if err != nil {
			t.persist(record)
			return record, err
		}
		record.Closure = &closure
	}

	t.persist(record)
	return record, nil
}

// Close transitions a milestone to closed and files a completion
// report as a new issue. The report is best-effort: a failure to file
// it does not undo the closure.
func (t *Tracker) Close(ctx context.Context, repo model.RepoRef, ms model.Milestone) (model.Closure, error) {
	if err := t.issues.CloseMilestone(ctx, repo, ms.Number); err != nil {
		return model.Closure{}, err
	}

	now := time.Now()
	durationDays := int(now.Sub(ms.CreatedAt).Hours() / 24)
	if durationDays < 1 {
		durationDays = 1
	}

	closure := model.Closure{
		CompletedAt:  now,
		DurationDays: durationDays,
	}

	report := completionReport(ms, durationDays)
	reportRef, err := t.issues.CreateIssue(ctx, repo, fmt.Sprintf("Milestone completed: %s", ms.Title), report, []string{"milestone-report"})
	if err != nil {
		log.Warn("failed to file milestone completion report", "repo", repo.FullName(), "milestone", ms.Number, "error", err)
	} else {
		closure.ReportRef = reportRef
	}

	log.Info("closed completed milestone", "repo", repo.FullName(), "milestone", ms.Number, "title", ms.Title, "duration_days", durationDays)
	return closure, nil
}

// completionReport renders the closure metrics, including average
// daily velocity over the milestone's lifetime.
func completionReport(ms model.Milestone, durationDays int) string {
	velocity := float64(ms.ClosedIssues) / float64(durationDays)

	var b strings.Builder
	fmt.Fprintf(&b, "Milestone **%s** is complete.\n\n", ms.Title)
	fmt.Fprintf(&b, "- Issues closed: %d\n", ms.ClosedIssues)
	fmt.Fprintf(&b, "- Duration: %d days\n", durationDays)
	fmt.Fprintf(&b, "- Average velocity: %.2f issues/day\n", velocity)
	if ms.DueOn != nil {
		fmt.Fprintf(&b, "- Due date: %s\n", ms.DueOn.Format("2006-01-02"))
	}
	return b.String()
}

func (t *Tracker) persist(record model.CompletionRecord) {
	if t.store == nil {
		return
	}
	if err := t.store.Append(record); err != nil {
		log.Warn("failed to persist milestone record", "milestone", record.Milestone, "error", err)
	}
}
