package service

import (
	"sync"

	"github.com/playautopublish/console-backend/internal/publish/domain"
)

// StageNames are the wizard stages in order.
var StageNames = []string{"Upload", "Metadata", "Review"}

// Stage is the wizard position for one project.
type Stage struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Last  bool   `json:"last"`
}

// Wizard tracks the per-project stage index for the three-stage publish
// wizard. Next clamps to the last stage, Previous to the first, and both
// refuse to move while a publish run is active for the project.
type Wizard struct {
	runner *Runner

	mu    sync.Mutex
	index map[string]int
}

func NewWizard(runner *Runner) *Wizard {
	return &Wizard{runner: runner, index: make(map[string]int)}
}

func (w *Wizard) Stage(projectID string) Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return stageAt(w.index[projectID])
}

func (w *Wizard) Next(projectID string) (Stage, error) {
	return w.move(projectID, 1)
}

func (w *Wizard) Previous(projectID string) (Stage, error) {
	return w.move(projectID, -1)
}

// Reset puts the wizard back at the first stage, used when a project is
// deselected or deleted.
func (w *Wizard) Reset(projectID string) {
	w.mu.Lock()
	delete(w.index, projectID)
	w.mu.Unlock()
}

func (w *Wizard) move(projectID string, delta int) (Stage, error) {
	if w.runner != nil && w.runner.Active(projectID) {
		return w.Stage(projectID), domain.ErrPublishing
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.index[projectID] + delta
	if idx < 0 {
		idx = 0
	}
	if idx > len(StageNames)-1 {
		idx = len(StageNames) - 1
	}
	w.index[projectID] = idx
	return stageAt(idx), nil
}

func stageAt(idx int) Stage {
	return Stage{
		Index: idx,
		Name:  StageNames[idx],
		Last:  idx == len(StageNames)-1,
	}
}
