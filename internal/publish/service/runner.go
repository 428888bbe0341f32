package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	notifdomain "github.com/playautopublish/console-backend/internal/notifications/domain"
	projdomain "github.com/playautopublish/console-backend/internal/projects/domain"
	"github.com/playautopublish/console-backend/internal/publish/domain"
	"github.com/playautopublish/console-backend/internal/state"
)

// Options tune one Runner. Zero values fall back to the reference pacing:
// 100ms ticks, 500ms inter-step pause, +10 progress increments.
type Options struct {
	Tick              time.Duration
	StepPause         time.Duration
	ProgressIncrement int
	Decider           FailureDecider
	// PacerFactory builds the advance signal for a given interval. Tests
	// override it with Immediate pacers.
	PacerFactory func(time.Duration) Pacer
}

func (o *Options) fill() {
	if o.Tick == 0 {
		o.Tick = 100 * time.Millisecond
	}
	if o.StepPause == 0 {
		o.StepPause = 500 * time.Millisecond
	}
	if o.ProgressIncrement <= 0 {
		o.ProgressIncrement = 10
	}
	if o.Decider == nil {
		o.Decider = NewRandomDecider(0.3, time.Now().UnixNano())
	}
	if o.PacerFactory == nil {
		o.PacerFactory = NewRatePacer
	}
}

// Runner drives the simulated publish pipeline: a strictly sequential run
// of the fixed step list, with per-step progress and a single injected
// failure branch. It owns its step lists exclusively during a run and
// writes to the store only at completion points.
type Runner struct {
	store *state.Store
	opts  Options

	mu     sync.Mutex
	runs   map[string]*run   // run id -> run
	active map[string]string // project id -> running run id
	latest map[string]string // project id -> most recent run id
}

func NewRunner(store *state.Store, opts Options) *Runner {
	opts.fill()
	return &Runner{
		store:  store,
		opts:   opts,
		runs:   make(map[string]*run),
		active: make(map[string]string),
		latest: make(map[string]string),
	}
}

type run struct {
	mu sync.Mutex
	r  domain.Run
}

func (x *run) snapshot() domain.Run {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := x.r
	out.Steps = append([]domain.PublishStep(nil), x.r.Steps...)
	if x.r.FinishedAt != nil {
		t := *x.r.FinishedAt
		out.FinishedAt = &t
	}
	return out
}

// Start begins a publish attempt for the project. One run per project at a
// time; the previous attempt's step list is discarded here. The attempt
// itself executes on its own goroutine and is not cancelable through the
// API, but it honors ctx at every tick and step boundary.
func (r *Runner) Start(ctx context.Context, projectID string) (domain.Run, error) {
	project, err := r.store.Project(projectID)
	if err != nil {
		return domain.Run{}, err
	}

	r.mu.Lock()
	if _, busy := r.active[projectID]; busy {
		r.mu.Unlock()
		return domain.Run{}, domain.ErrRunInProgress
	}
	if prev, ok := r.latest[projectID]; ok {
		delete(r.runs, prev)
	}

	x := &run{r: domain.Run{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Status:    domain.RunRunning,
		Steps:     domain.NewSteps(),
		StartedAt: time.Now(),
	}}
	r.runs[x.r.ID] = x
	r.active[projectID] = x.r.ID
	r.latest[projectID] = x.r.ID
	r.mu.Unlock()

	go r.execute(ctx, x, project)

	return x.snapshot(), nil
}

// Run returns a snapshot of one attempt.
func (r *Runner) Run(id string) (domain.Run, error) {
	r.mu.Lock()
	x, ok := r.runs[id]
	r.mu.Unlock()
	if !ok {
		return domain.Run{}, domain.ErrRunNotFound
	}
	return x.snapshot(), nil
}

// RunForProject returns the most recent attempt for a project.
func (r *Runner) RunForProject(projectID string) (domain.Run, error) {
	r.mu.Lock()
	id, ok := r.latest[projectID]
	x := r.runs[id]
	r.mu.Unlock()
	if !ok || x == nil {
		return domain.Run{}, domain.ErrRunNotFound
	}
	return x.snapshot(), nil
}

// Active reports whether a run is currently executing for the project.
func (r *Runner) Active(projectID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, busy := r.active[projectID]
	return busy
}

func (r *Runner) execute(ctx context.Context, x *run, project projdomain.Project) {
	pause := r.opts.PacerFactory(r.opts.StepPause)

	var stepErr *domain.PipelineStepError
	for i := range x.r.Steps {
		if err := r.runStep(ctx, x, i, project); err != nil {
			stepErr = err
			break
		}
		if err := pause.Wait(ctx); err != nil {
			stepErr = r.failStep(x, i, err.Error())
			break
		}
	}

	r.finish(x, stepErr)
}

func (r *Runner) runStep(ctx context.Context, x *run, idx int, project projdomain.Project) *domain.PipelineStepError {
	name := stepName(x, idx)

	x.update(idx, func(s *domain.PublishStep) {
		s.Status = domain.StepProcessing
		s.Message = fmt.Sprintf("Processing %s...", strings.ToLower(s.Name))
	})

	tick := r.opts.PacerFactory(r.opts.Tick)
	for progress := 0; ; progress += r.opts.ProgressIncrement {
		if progress > 100 {
			progress = 100
		}
		if err := tick.Wait(ctx); err != nil {
			return r.failStep(x, idx, err.Error())
		}
		p := progress
		x.update(idx, func(s *domain.PublishStep) { s.Progress = p })
		if progress == 100 {
			break
		}
	}

	x.update(idx, func(s *domain.PublishStep) {
		s.Status = domain.StepCompleted
		s.Progress = 100
		s.Message = fmt.Sprintf("%s completed successfully", s.Name)
	})

	// The reference pipeline flips Policy Validation back to error after it
	// completed; the decider owns the choice.
	if name == domain.PolicyValidationStep && r.opts.Decider.ShouldFail(project) {
		return r.failStep(x, idx, PolicyFailureMessage)
	}

	return nil
}

func (r *Runner) failStep(x *run, idx int, message string) *domain.PipelineStepError {
	name := stepName(x, idx)
	x.update(idx, func(s *domain.PublishStep) {
		s.Status = domain.StepError
		s.Message = message
	})
	return &domain.PipelineStepError{Step: name, Message: message}
}

func (r *Runner) finish(x *run, stepErr *domain.PipelineStepError) {
	now := time.Now()

	x.mu.Lock()
	projectID := x.r.ProjectID
	x.r.FinishedAt = &now
	if stepErr != nil {
		x.r.Status = domain.RunFailed
		x.r.Error = stepErr.Message
	} else {
		x.r.Status = domain.RunSucceeded
	}
	x.mu.Unlock()

	r.mu.Lock()
	delete(r.active, projectID)
	r.mu.Unlock()

	name := projectID
	if p, err := r.store.Project(projectID); err == nil {
		name = p.Name
	}

	if stepErr == nil {
		status := projdomain.StatusPublished
		progress := 100
		_, err := r.store.UpdateProject(projectID, projdomain.ProjectPatch{
			Status:      &status,
			Progress:    &progress,
			LastUpdated: &now,
		})
		if err != nil {
			log.Printf("publish: project %s vanished before success writeback: %v", projectID, err)
			return
		}
		r.store.AddNotification(notifdomain.Notification{
			Kind:    notifdomain.KindSuccess,
			Message: fmt.Sprintf("%s has been published successfully!", name),
		})
		return
	}

	suggestion := ""
	if stepErr.Message == PolicyFailureMessage {
		suggestion = "Add a valid privacy policy URL"
	}
	status := projdomain.StatusError
	_, err := r.store.UpdateProject(projectID, projdomain.ProjectPatch{
		Status:      &status,
		LastUpdated: &now,
		AppendErrors: []projdomain.ProjectError{{
			ID:          uuid.New().String(),
			Severity:    projdomain.SeverityError,
			Message:     stepErr.Message,
			Suggestion:  suggestion,
			AutoFixable: false,
		}},
	})
	if err != nil {
		log.Printf("publish: project %s vanished before failure writeback: %v", projectID, err)
		return
	}
	r.store.AddNotification(notifdomain.Notification{
		Kind:    notifdomain.KindError,
		Message: fmt.Sprintf("Failed to publish %s: %s", name, stepErr.Message),
	})
}

func (x *run) update(idx int, mutate func(*domain.PublishStep)) {
	x.mu.Lock()
	mutate(&x.r.Steps[idx])
	x.mu.Unlock()
}

func stepName(x *run, idx int) string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.r.Steps[idx].Name
}
