package job

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the process-lifetime store of job records. Records are never
// evicted. Every read returns a clone, so callers observe whole writes only.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Put inserts or replaces a record.
func (r *Registry) Put(j *Job) {
	if j == nil {
		return
	}
	snapshot := j.Clone()
	r.mu.Lock()
	r.jobs[j.ID] = snapshot
	r.mu.Unlock()
}

// Get returns a snapshot of the record, or false when the id is unknown.
func (r *Registry) Get(id string) (*Job, bool) {
	r.mu.RLock()
	j, ok := r.jobs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return j.Clone(), true
}

// Update applies fn to a working copy of the record and stores it only if
// fn succeeds. The returned snapshot reflects the stored state.
func (r *Registry) Update(id string, fn func(*Job) error) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s not found", id)
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return current.Clone(), err
	}
	r.jobs[id] = working
	return working.Clone(), nil
}

// List returns snapshots of all records, oldest first.
func (r *Registry) List() []*Job {
	r.mu.RLock()
	ret := make([]*Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		ret = append(ret, j.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(ret, func(a, b int) bool {
		return ret[a].CreatedAt.Before(ret[b].CreatedAt)
	})
	return ret
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
