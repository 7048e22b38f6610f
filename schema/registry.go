package schema

import (
	"fmt"

	"github.com/horizon1026/binlog/errs"
)

// Registry holds the set of packages known to an encoder or decoder, keyed
// by id, while preserving registration order for deterministic Part 2
// output and diagnostic reports.
type Registry struct {
	byID  map[uint16]PackageInfo
	order []uint16
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[uint16]PackageInfo)}
}

// Register adds info to the registry. It fails if info.ID is already
// present.
func (r *Registry) Register(info PackageInfo) error {
	if _, ok := r.byID[info.ID]; ok {
		return fmt.Errorf("%w: id %d", errs.ErrPackageAlreadyRegistered, info.ID)
	}

	r.byID[info.ID] = info
	r.order = append(r.order, info.ID)

	return nil
}

// Get returns the package registered under id.
func (r *Registry) Get(id uint16) (PackageInfo, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Len reports the number of registered packages.
func (r *Registry) Len() int {
	return len(r.order)
}

// All returns every registered package in registration order. The returned
// slice is a fresh copy; mutating it does not affect the registry.
func (r *Registry) All() []PackageInfo {
	out := make([]PackageInfo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}

	return out
}
