package client

import "pierres.shop/app/pkg/view"

// Lifecycles holds one Lifecycle per resource kind for a single owner, such
// as a screen and its children. Owners create their own set and Close it when
// they go away; nothing is shared process-wide.
type Lifecycles struct {
	byKind map[view.ResourceKind]*Lifecycle
}

func NewLifecycles(opts ...Option) *Lifecycles {
	ls := &Lifecycles{byKind: map[view.ResourceKind]*Lifecycle{}}
	for _, k := range []view.ResourceKind{view.KindCategory, view.KindProduct, view.KindUser} {
		ls.byKind[k] = NewLifecycle(k, opts...)
	}
	return ls
}

// For returns the lifecycle of kind, or nil for an unknown kind.
func (ls *Lifecycles) For(kind view.ResourceKind) *Lifecycle {
	return ls.byKind[kind]
}

func (ls *Lifecycles) Close() {
	for _, l := range ls.byKind {
		l.Close()
	}
}
