package upstream

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Task names one upstream endpoint to pull during a catalog build. Required
// tasks must succeed for the request to proceed; optional ones degrade to an
// empty result on failure.
type Task struct {
	Name     string
	URL      string
	Timeout  time.Duration
	Required bool
}

// TaskResult carries the outcome of one Task. Exactly one of Body and Err
// is meaningful.
type TaskResult struct {
	Body    []byte
	Err     error
	Elapsed time.Duration
}

// FetchAll runs every task, at most f.concurrency at a time, and returns
// the full result set keyed by task name. It never stops early: a failed
// task (required or not) does not cancel its siblings, so the caller always
// sees one result per task and decides what is fatal.
func (f *Fetcher) FetchAll(ctx context.Context, tasks []Task) map[string]TaskResult {
	results := make([]TaskResult, len(tasks))

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			start := time.Now()
			body, err := f.Fetch(ctx, t.URL, t.Timeout)
			results[i] = TaskResult{Body: body, Err: err, Elapsed: time.Since(start)}
			if err != nil {
				f.log.WithFields(logrus.Fields{
					"task":     t.Name,
					"required": t.Required,
					"elapsed":  results[i].Elapsed.Round(time.Millisecond),
				}).WithError(err).Warn("upstream task failed")
			}
			return nil
		})
	}
	g.Wait()

	out := make(map[string]TaskResult, len(tasks))
	for i, t := range tasks {
		out[t.Name] = results[i]
	}
	return out
}
