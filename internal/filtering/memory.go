package filtering

import (
	"strings"
	"sync"
)

// Memory holds the sets the filters consult. Sets only grow during a run;
// applied ids are seeded from the history file on startup so restarts do not
// re-apply.
type Memory struct {
	mu          sync.RWMutex
	applied     map[string]struct{}
	rejected    map[string]struct{}
	blacklisted map[string]struct{}
}

func NewMemory(appliedIDs []string) *Memory {
	m := &Memory{
		applied:     make(map[string]struct{}, len(appliedIDs)),
		rejected:    make(map[string]struct{}),
		blacklisted: make(map[string]struct{}),
	}
	for _, id := range appliedIDs {
		m.applied[id] = struct{}{}
	}
	return m
}

func (m *Memory) MarkApplied(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied[id] = struct{}{}
}

func (m *Memory) MarkRejected(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[id] = struct{}{}
}

func (m *Memory) MarkBlacklisted(company string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blacklisted[normalizeCompany(company)] = struct{}{}
}

func (m *Memory) IsApplied(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.applied[id]
	return ok
}

func (m *Memory) IsRejected(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rejected[id]
	return ok
}

func (m *Memory) IsBlacklisted(company string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blacklisted[normalizeCompany(company)]
	return ok
}

func (m *Memory) AppliedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.applied)
}

func normalizeCompany(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
