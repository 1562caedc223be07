package api

import "sort"

// MemoryProjects is an in-memory ProjectStore used by tests and the CLI
// preview server.
type MemoryProjects struct {
	order map[string]int
}

// NewMemoryProjects seeds the store with hexIDs in initial display order.
func NewMemoryProjects(hexIDs ...string) *MemoryProjects {
	order := make(map[string]int, len(hexIDs))
	for i, id := range hexIDs {
		order[id] = i
	}
	return &MemoryProjects{order: order}
}

// Reorder renumbers known projects by their position in hexIDs and ignores
// identifiers the store does not hold.
func (m *MemoryProjects) Reorder(hexIDs []string) error {
	for pos, id := range hexIDs {
		if _, ok := m.order[id]; ok {
			m.order[id] = pos
		}
	}
	return nil
}

// Order returns the stored hex ids sorted by display order.
func (m *MemoryProjects) Order() []string {
	ids := make([]string, 0, len(m.order))
	for id := range m.order {
		ids = append(ids, id)
	}
	sort.SliceStable(ids, func(i, j int) bool {
		if m.order[ids[i]] != m.order[ids[j]] {
			return m.order[ids[i]] < m.order[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}
