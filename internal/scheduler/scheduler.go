package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/crucial707/storyshare/internal/metrics"
)

// StoryCounter reports the number of stories per status.
type StoryCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// RefreshStoryCounts loads the current counts and publishes them on the stories_total gauge.
func RefreshStoryCounts(ctx context.Context, counter StoryCounter) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	counts, err := counter.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count stories: %w", err)
	}
	metrics.SetStoryCounts(counts)
	return nil
}

// Job is an extra periodic task run alongside the story gauge refresh.
type Job struct {
	Name string
	Spec string
	Run  func()
}

// Run refreshes the story gauge once, then on every tick of spec (a cron expression
// or descriptor such as "@every 1m"), and runs each job on its own spec, until ctx is
// canceled. It returns after any running job has finished.
func Run(ctx context.Context, spec string, counter StoryCounter, jobs ...Job) error {
	c := cron.New()
	refresh := func() {
		if err := RefreshStoryCounts(ctx, counter); err != nil {
			slog.Warn("scheduler: refresh story counts", "err", err)
		}
	}
	if _, err := c.AddFunc(spec, refresh); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	for _, job := range jobs {
		if _, err := c.AddFunc(job.Spec, job.Run); err != nil {
			return fmt.Errorf("job %s: invalid cron spec %q: %w", job.Name, job.Spec, err)
		}
	}

	refresh()
	c.Start()
	slog.Info("scheduler: started", "spec", spec, "jobs", len(jobs))

	<-ctx.Done()
	<-c.Stop().Done()
	slog.Info("scheduler: stopped")
	return nil
}
