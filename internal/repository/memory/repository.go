package memory

import (
	"sync"

	"github.com/omarshaarawi/kickbot/internal/models"
)

// Repository holds the last committed roster. Readers get copies so a caller
// can never change committed state without going through SaveRoster.
type Repository struct {
	snapshot *models.RosterSnapshot
	report   *models.OptimizationReport
	mu       sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) SaveRoster(snapshot models.RosterSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot.Roster = snapshot.Roster.Clone()
	r.snapshot = &snapshot
}

func (r *Repository) GetRoster() *models.RosterSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snapshot == nil {
		return nil
	}
	snapshot := *r.snapshot
	snapshot.Roster = snapshot.Roster.Clone()
	return &snapshot
}

// Invalidate forces the next read to go to the game API.
func (r *Repository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = nil
}

func (r *Repository) SaveReport(report models.OptimizationReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report = &report
}

func (r *Repository) GetReport() *models.OptimizationReport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.report == nil {
		return nil
	}
	report := *r.report
	return &report
}
