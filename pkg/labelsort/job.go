package labelsort

import "context"

// Job is a run executing on a background goroutine. The goroutine owns all
// run data; callers only see the progress sink and the final result.
type Job struct {
	done chan struct{}
	res  *Result
	err  error
}

// Start runs the pipeline in the background.
func (r *Runner) Start(ctx context.Context, in Inputs) *Job {
	j := &Job{done: make(chan struct{})}
	go func() {
		defer close(j.done)
		j.res, j.err = r.Run(ctx, in)
	}()
	return j
}

// StartFiles runs the path-based pipeline in the background.
func (r *Runner) StartFiles(ctx context.Context, paths FilePaths) *Job {
	j := &Job{done: make(chan struct{})}
	go func() {
		defer close(j.done)
		j.res, j.err = r.RunFiles(ctx, paths)
	}()
	return j
}

// Done is closed when the run has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the run has finished and returns its outcome.
func (j *Job) Wait() (*Result, error) {
	<-j.done
	return j.res, j.err
}
