package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
)

const (
	NameLocal = "local"
	NameS3    = "s3"
)

// Registry maps configured storage names to backends. Storages are
// registered once at startup and selected per workspace.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

func (r *Registry) Register(name string, b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[name] = b
}

func (r *Registry) Get(name string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownStorage, name)
	}
	return b, nil
}

// ForWorkspace returns the backend configured for ws.
func (r *Registry) ForWorkspace(ws *models.Workspace) (Backend, error) {
	return r.Get(ws.StorageName)
}

// Names lists registered storages in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.backends))
	for n := range r.backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
