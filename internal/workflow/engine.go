package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"papercast/internal/logging"
	"papercast/internal/services"
	"papercast/internal/state"
	"papercast/internal/textutil"
)

const (
	runSnapshotName    = "workflow"
	runSnapshotVersion = 1
)

// Run is one workflow execution against a document.
type Run struct {
	TemplateID string    `json:"templateId"`
	DocumentID string    `json:"documentId,omitempty"`
	Status     RunStatus `json:"status"`
	Steps      []*Step   `json:"steps"`
	StartedAt  time.Time `json:"startedAt"`
}

// StepContext carries the inputs available to a step at execution time.
type StepContext struct {
	DocumentText  string
	DocumentTitle string
	// DependencyOutputs maps completed dependency step titles to their text
	// output, in dependency declaration order under Titles.
	DependencyOutputs map[string]string
	Titles            []string
}

// StepExecutor dispatches one eligible step to its external call.
type StepExecutor interface {
	ExecuteStep(ctx context.Context, step *Step, sc StepContext) (*StepResult, error)
}

// Engine owns the current run and advances it through a StepExecutor.
type Engine struct {
	mu       sync.Mutex
	catalog  *Catalog
	store    *state.Store
	executor StepExecutor
	logger   *slog.Logger

	run             *Run
	documentText    string
	documentTitle   string
	contextMaxChars int
	stepTimeout     time.Duration
}

// EngineOptions configures an engine.
type EngineOptions struct {
	Catalog  *Catalog
	Store    *state.Store
	Executor StepExecutor
	Logger   *slog.Logger
	// ContextMaxChars bounds how much document text is interpolated into
	// step prompts. Zero means no limit.
	ContextMaxChars int
	// StepTimeout bounds each step execution. Zero means no timeout.
	StepTimeout time.Duration
}

// NewEngine builds an engine. Catalog and Executor are required for
// StartWorkflow/Run; Store is optional persistence.
func NewEngine(opts EngineOptions) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		catalog:         opts.Catalog,
		store:           opts.Store,
		executor:        opts.Executor,
		logger:          logging.NewComponentLogger(logger, "workflow"),
		contextMaxChars: opts.ContextMaxChars,
		stepTimeout:     opts.StepTimeout,
	}
}

// Current returns the active run, or nil when idle.
func (e *Engine) Current() *Run {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run
}

// SetDocument supplies the extracted text and title steps interpolate into
// their prompts.
func (e *Engine) SetDocument(text, title string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.documentText = text
	e.documentTitle = title
}

// StartWorkflow instantiates every step of the named template in template
// order, all pending, and marks the run processing.
func (e *Engine) StartWorkflow(ctx context.Context, templateID, documentID string) (*Run, error) {
	tpl, err := e.catalog.Get(templateID)
	if err != nil {
		return nil, err
	}
	if err := ValidateTemplate(tpl); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	steps := make([]*Step, 0, len(tpl.Steps))
	for _, spec := range tpl.Steps {
		steps = append(steps, &Step{
			ID:           uuid.NewString(),
			Type:         spec.Type,
			Title:        spec.Title,
			Prompt:       spec.Prompt,
			Params:       spec.Params,
			Dependencies: append([]string(nil), spec.Dependencies...),
			Status:       StatusPending,
			CreatedAt:    now,
		})
	}

	run := &Run{
		TemplateID: templateID,
		DocumentID: documentID,
		Status:     RunProcessing,
		Steps:      steps,
		StartedAt:  now,
	}

	e.mu.Lock()
	e.run = run
	e.mu.Unlock()

	e.logger.Info("workflow started",
		logging.String(logging.FieldTemplate, templateID),
		logging.String(logging.FieldDocumentID, documentID),
		logging.Int("steps", len(steps)))
	return run, e.persist(ctx)
}

// Run advances the workflow until no eligible pending step remains: it
// repeatedly executes the first pending step whose dependencies are all
// completed. Steps blocked behind a failed dependency stay pending. The
// final run status is error if any step failed or if pending steps remain
// that can never become eligible, complete otherwise.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		step := e.nextEligible()
		if step == nil {
			break
		}
		e.executeStep(ctx, step)
	}

	e.mu.Lock()
	run := e.run
	failed := false
	stuck := false
	if run != nil {
		for _, step := range run.Steps {
			switch step.Status {
			case StatusError:
				failed = true
			case StatusPending:
				stuck = true
			}
		}
		run.Status = RunComplete
		if failed || stuck {
			run.Status = RunError
		}
	}
	e.mu.Unlock()
	if err := e.persist(ctx); err != nil {
		return err
	}

	if run == nil {
		return services.Wrap(services.ErrValidation, "workflow", "run", "no active workflow", nil)
	}
	e.logger.Info("workflow finished", logging.String("status", string(run.Status)))
	if failed {
		return services.Wrap(services.ErrAPIRequest, "workflow", "run", "one or more steps failed", nil)
	}
	if stuck {
		return services.Wrap(services.ErrDependencyMissing, "workflow", "run",
			"pending steps have unsatisfiable dependencies", nil)
	}
	return nil
}

func (e *Engine) nextEligible() *Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.run == nil {
		return nil
	}
	for _, step := range e.run.Steps {
		if step.Status != StatusPending {
			continue
		}
		if e.depsCompletedLocked(step) {
			return step
		}
	}
	return nil
}

// depsCompletedLocked reports whether every dependency of step is completed.
// Callers hold e.mu.
func (e *Engine) depsCompletedLocked(step *Step) bool {
	for _, dep := range step.Dependencies {
		target := e.findDependencyLocked(dep)
		if target == nil || target.Status != StatusCompleted {
			return false
		}
	}
	return true
}

func (e *Engine) findDependencyLocked(dep string) *Step {
	if e.run == nil {
		return nil
	}
	specs := make([]StepSpec, len(e.run.Steps))
	for i, s := range e.run.Steps {
		specs[i] = StepSpec{Title: s.Title}
	}
	idx, err := resolveDependency(specs, dep)
	if err != nil {
		return nil
	}
	return e.run.Steps[idx]
}

func (e *Engine) executeStep(ctx context.Context, step *Step) {
	e.mu.Lock()
	step.Status = StatusInProgress
	sc := e.buildStepContextLocked(step)
	e.mu.Unlock()
	_ = e.persist(ctx)

	e.logger.Info("step started",
		logging.String(logging.FieldStep, step.Title),
		logging.String("type", string(step.Type)))

	stepCtx := ctx
	cancel := func() {}
	if e.stepTimeout > 0 {
		stepCtx, cancel = context.WithTimeout(ctx, e.stepTimeout)
	}
	result, err := e.executor.ExecuteStep(stepCtx, step, sc)
	cancel()

	if err != nil {
		e.failStep(ctx, step, err)
		return
	}
	e.completeStep(ctx, step, result)
}

// buildStepContextLocked gathers the document text (bounded to the context
// budget) and the outputs of completed dependencies. Callers hold e.mu.
func (e *Engine) buildStepContextLocked(step *Step) StepContext {
	text := e.documentText
	if e.contextMaxChars > 0 {
		if chunks := textutil.ChunkText(text, e.contextMaxChars); len(chunks) > 0 {
			text = chunks[0]
		}
	}
	sc := StepContext{
		DocumentText:      text,
		DocumentTitle:     e.documentTitle,
		DependencyOutputs: make(map[string]string, len(step.Dependencies)),
	}
	for _, dep := range step.Dependencies {
		target := e.findDependencyLocked(dep)
		if target == nil || target.Result == nil {
			continue
		}
		sc.DependencyOutputs[target.Title] = target.Result.Text
		sc.Titles = append(sc.Titles, target.Title)
	}
	return sc
}

// CompleteStep transitions the named step to completed and attaches the
// result. Terminal steps reject further transitions.
func (e *Engine) CompleteStep(ctx context.Context, stepID string, result *StepResult) error {
	e.mu.Lock()
	step := e.stepByIDLocked(stepID)
	if step == nil {
		e.mu.Unlock()
		return services.Wrap(services.ErrValidation, "workflow", "complete step", stepID+" not found", nil)
	}
	if step.Terminal() {
		e.mu.Unlock()
		return services.Wrap(services.ErrValidation, "workflow", "complete step",
			fmt.Sprintf("step %q already %s", step.Title, step.Status), nil)
	}
	now := time.Now().UTC()
	step.Status = StatusCompleted
	step.Result = result
	step.CompletedAt = &now
	e.mu.Unlock()
	return e.persist(ctx)
}

// FailStep transitions the named step to error with the cause message.
func (e *Engine) FailStep(ctx context.Context, stepID string, cause error) error {
	e.mu.Lock()
	step := e.stepByIDLocked(stepID)
	if step == nil {
		e.mu.Unlock()
		return services.Wrap(services.ErrValidation, "workflow", "fail step", stepID+" not found", nil)
	}
	if step.Terminal() {
		e.mu.Unlock()
		return services.Wrap(services.ErrValidation, "workflow", "fail step",
			fmt.Sprintf("step %q already %s", step.Title, step.Status), nil)
	}
	e.markErrorLocked(step, cause)
	e.mu.Unlock()
	return e.persist(ctx)
}

// ClearWorkflow discards all steps and returns to idle.
func (e *Engine) ClearWorkflow(ctx context.Context) error {
	e.mu.Lock()
	e.run = nil
	e.documentText = ""
	e.documentTitle = ""
	e.mu.Unlock()
	if e.store == nil {
		return nil
	}
	return e.store.DeleteSnapshot(ctx, runSnapshotName)
}

// Restore rehydrates the persisted run, if any.
func (e *Engine) Restore(ctx context.Context) (bool, error) {
	if e.store == nil {
		return false, nil
	}
	var run Run
	found, err := e.store.LoadSnapshot(ctx, runSnapshotName, runSnapshotVersion, &run)
	if err != nil || !found {
		return false, err
	}
	e.mu.Lock()
	e.run = &run
	e.mu.Unlock()
	return true, nil
}

func (e *Engine) completeStep(ctx context.Context, step *Step, result *StepResult) {
	e.mu.Lock()
	now := time.Now().UTC()
	step.Status = StatusCompleted
	step.Result = result
	step.CompletedAt = &now
	e.mu.Unlock()
	_ = e.persist(ctx)
	e.logger.Info("step completed", logging.String(logging.FieldStep, step.Title))
}

func (e *Engine) failStep(ctx context.Context, step *Step, cause error) {
	e.mu.Lock()
	e.markErrorLocked(step, cause)
	e.mu.Unlock()
	_ = e.persist(ctx)
	e.logger.Error("step failed",
		logging.String(logging.FieldStep, step.Title),
		logging.Error(cause))
}

func (e *Engine) markErrorLocked(step *Step, cause error) {
	now := time.Now().UTC()
	step.Status = StatusError
	if cause != nil {
		step.ErrMessage = cause.Error()
	}
	step.CompletedAt = &now
}

func (e *Engine) stepByIDLocked(stepID string) *Step {
	if e.run == nil {
		return nil
	}
	stepID = strings.TrimSpace(stepID)
	for _, step := range e.run.Steps {
		if step.ID == stepID {
			return step
		}
	}
	return nil
}

func (e *Engine) persist(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	e.mu.Lock()
	run := e.run
	e.mu.Unlock()
	if run == nil {
		return nil
	}
	return e.store.SaveSnapshot(ctx, runSnapshotName, runSnapshotVersion, run)
}
