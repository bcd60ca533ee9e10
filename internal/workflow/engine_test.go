package workflow

import (
	"context"
	"errors"
	"testing"

	"papercast/internal/services"
	"papercast/internal/state"
	"papercast/internal/testsupport"
)

// fakeExecutor records execution order and per-step contexts, failing the
// titles it is told to fail.
type fakeExecutor struct {
	order    []string
	fail     map[string]bool
	contexts map[string]StepContext
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{fail: make(map[string]bool), contexts: make(map[string]StepContext)}
}

func (f *fakeExecutor) ExecuteStep(ctx context.Context, step *Step, sc StepContext) (*StepResult, error) {
	f.order = append(f.order, step.Title)
	f.contexts[step.Title] = sc
	if f.fail[step.Title] {
		return nil, errors.New("executor failure")
	}
	return &StepResult{Text: step.Title + " output"}, nil
}

func newTestEngine(t *testing.T, executor StepExecutor, templates ...Template) *Engine {
	t.Helper()
	catalog, err := NewCatalog(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	for _, tpl := range templates {
		if _, err := catalog.Add(context.Background(), tpl); err != nil {
			t.Fatalf("Add template: %v", err)
		}
	}
	return NewEngine(EngineOptions{Catalog: catalog, Executor: executor})
}

func chainTemplate() Template {
	return Template{
		ID:   "chain",
		Name: "Chain",
		Steps: []StepSpec{
			{Type: StepChat, Title: "First", Prompt: "one"},
			{Type: StepChat, Title: "Second", Prompt: "two", Dependencies: []string{"First"}},
			{Type: StepChat, Title: "Third", Prompt: "three", Dependencies: []string{"Second"}},
		},
	}
}

func TestRunStuckDependenciesReportError(t *testing.T) {
	// Snapshots rehydrate templates without going through Add validation, so
	// the engine can be handed steps that wait on each other forever. Such a
	// run must finish as an error, not complete.
	catalog := &Catalog{templates: []Template{{
		ID:   "stale",
		Name: "Stale",
		Steps: []StepSpec{
			{Type: StepChat, Title: "Outline", Prompt: "p", Dependencies: []string{"Draft"}},
			{Type: StepChat, Title: "Draft", Prompt: "p", Dependencies: []string{"Outline"}},
		},
	}}}
	executor := newFakeExecutor()
	engine := NewEngine(EngineOptions{Catalog: catalog, Executor: executor})

	if _, err := engine.StartWorkflow(context.Background(), "stale", "doc"); err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}
	err := engine.Run(context.Background())
	if !errors.Is(err, services.ErrDependencyMissing) {
		t.Fatalf("expected ErrDependencyMissing, got %v", err)
	}
	if len(executor.order) != 0 {
		t.Fatalf("no step is eligible, but executed %v", executor.order)
	}
	run := engine.Current()
	if run.Status != RunError {
		t.Fatalf("run status = %q, want error", run.Status)
	}
	for _, step := range run.Steps {
		if step.Status != StatusPending {
			t.Fatalf("step %q status = %q, want pending", step.Title, step.Status)
		}
	}
}

func TestStartWorkflowUnknownTemplate(t *testing.T) {
	engine := newTestEngine(t, newFakeExecutor())
	_, err := engine.StartWorkflow(context.Background(), "missing", "doc")
	if !errors.Is(err, services.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestStartWorkflowInitializesPendingSteps(t *testing.T) {
	engine := newTestEngine(t, newFakeExecutor(), chainTemplate())
	run, err := engine.StartWorkflow(context.Background(), "chain", "doc-1")
	if err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}
	if run.Status != RunProcessing {
		t.Fatalf("run status = %q", run.Status)
	}
	wantTitles := []string{"First", "Second", "Third"}
	if len(run.Steps) != len(wantTitles) {
		t.Fatalf("expected %d steps, got %d", len(wantTitles), len(run.Steps))
	}
	for i, step := range run.Steps {
		if step.Title != wantTitles[i] {
			t.Errorf("step %d title = %q, want %q", i, step.Title, wantTitles[i])
		}
		if step.Status != StatusPending {
			t.Errorf("step %q status = %q, want pending", step.Title, step.Status)
		}
		if step.ID == "" || step.CreatedAt.IsZero() {
			t.Errorf("step %q missing id or timestamp", step.Title)
		}
	}
}

func TestRunExecutesInDependencyOrder(t *testing.T) {
	executor := newFakeExecutor()
	engine := newTestEngine(t, executor, chainTemplate())
	engine.SetDocument("document body", "Doc Title")

	if _, err := engine.StartWorkflow(context.Background(), "chain", "doc-1"); err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"First", "Second", "Third"}
	if len(executor.order) != 3 {
		t.Fatalf("expected 3 executions, got %v", executor.order)
	}
	for i, title := range want {
		if executor.order[i] != title {
			t.Fatalf("execution order %v, want %v", executor.order, want)
		}
	}

	sc := executor.contexts["Second"]
	if sc.DependencyOutputs["First"] != "First output" {
		t.Fatalf("dependency output not propagated: %+v", sc.DependencyOutputs)
	}
	if sc.DocumentText != "document body" || sc.DocumentTitle != "Doc Title" {
		t.Fatalf("document context missing: %+v", sc)
	}

	run := engine.Current()
	if run.Status != RunComplete {
		t.Fatalf("run status = %q, want complete", run.Status)
	}
	for _, step := range run.Steps {
		if step.Status != StatusCompleted || step.CompletedAt == nil {
			t.Fatalf("step %q not completed: %+v", step.Title, step)
		}
	}
}

func TestRunErrorBlocksDependentsOnly(t *testing.T) {
	tpl := Template{
		ID:   "branches",
		Name: "Branches",
		Steps: []StepSpec{
			{Type: StepChat, Title: "Failing", Prompt: "a"},
			{Type: StepChat, Title: "Dependent", Prompt: "b", Dependencies: []string{"Failing"}},
			{Type: StepChat, Title: "Independent", Prompt: "c"},
		},
	}
	executor := newFakeExecutor()
	executor.fail["Failing"] = true
	engine := newTestEngine(t, executor, tpl)

	if _, err := engine.StartWorkflow(context.Background(), "branches", ""); err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}
	err := engine.Run(context.Background())
	if err == nil {
		t.Fatal("expected run error")
	}

	run := engine.Current()
	byTitle := make(map[string]*Step)
	for _, step := range run.Steps {
		byTitle[step.Title] = step
	}
	if byTitle["Failing"].Status != StatusError {
		t.Fatalf("failing step status = %q", byTitle["Failing"].Status)
	}
	if byTitle["Dependent"].Status != StatusPending {
		t.Fatalf("dependent step must stay pending, got %q", byTitle["Dependent"].Status)
	}
	if byTitle["Independent"].Status != StatusCompleted {
		t.Fatalf("independent step must complete, got %q", byTitle["Independent"].Status)
	}
	if run.Status != RunError {
		t.Fatalf("run status = %q, want error", run.Status)
	}
	if byTitle["Failing"].ErrMessage == "" {
		t.Fatal("expected error message recorded on failed step")
	}
}

func TestCompleteStepIsTerminal(t *testing.T) {
	engine := newTestEngine(t, newFakeExecutor(), chainTemplate())
	run, err := engine.StartWorkflow(context.Background(), "chain", "")
	if err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}

	stepID := run.Steps[0].ID
	if err := engine.CompleteStep(context.Background(), stepID, &StepResult{Text: "manual"}); err != nil {
		t.Fatalf("CompleteStep: %v", err)
	}
	if err := engine.CompleteStep(context.Background(), stepID, &StepResult{}); err == nil {
		t.Fatal("expected terminal step to reject a second transition")
	}
	if err := engine.FailStep(context.Background(), stepID, errors.New("late")); err == nil {
		t.Fatal("expected terminal step to reject failure transition")
	}
}

func TestNumericDependencyExecution(t *testing.T) {
	tpl := Template{
		ID:   "indexed",
		Name: "Indexed",
		Steps: []StepSpec{
			{Type: StepChat, Title: "Base", Prompt: "a"},
			{Type: StepChat, Title: "Follow", Prompt: "b", Dependencies: []string{"1"}},
		},
	}
	executor := newFakeExecutor()
	engine := newTestEngine(t, executor, tpl)
	if _, err := engine.StartWorkflow(context.Background(), "indexed", ""); err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if executor.contexts["Follow"].DependencyOutputs["Base"] != "Base output" {
		t.Fatalf("numeric dependency output missing: %+v", executor.contexts["Follow"])
	}
}

func TestClearWorkflow(t *testing.T) {
	engine := newTestEngine(t, newFakeExecutor(), chainTemplate())
	if _, err := engine.StartWorkflow(context.Background(), "chain", ""); err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}
	if err := engine.ClearWorkflow(context.Background()); err != nil {
		t.Fatalf("ClearWorkflow: %v", err)
	}
	if engine.Current() != nil {
		t.Fatal("expected no active run after clear")
	}
}

func TestRunPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	store, err := state.Open(testsupport.NewConfig(t))
	if err != nil {
		t.Fatalf("state.Open: %v", err)
	}
	defer store.Close()

	catalog, err := NewCatalog(ctx, store)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	executor := newFakeExecutor()
	engine := NewEngine(EngineOptions{Catalog: catalog, Store: store, Executor: executor})

	if _, err := engine.StartWorkflow(ctx, "research-to-podcast", "doc-9"); err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}

	restored := NewEngine(EngineOptions{Catalog: catalog, Store: store, Executor: executor})
	found, err := restored.Restore(ctx)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !found {
		t.Fatal("expected persisted run")
	}
	run := restored.Current()
	if run.TemplateID != "research-to-podcast" || run.DocumentID != "doc-9" {
		t.Fatalf("unexpected restored run %+v", run)
	}
	if len(run.Steps) != 4 {
		t.Fatalf("expected 4 restored steps, got %d", len(run.Steps))
	}
}
