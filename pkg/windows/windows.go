// Package windows tracks child viewer windows opened by a view.
package windows

import (
	"errors"
	"reflect"
	"sort"
	"sync"
)

// Handle is a child window, controlled by someone else.
//
// The registry only signals refresh and close to it. Handles need not be
// comparable: registrations are told apart by their own serial.
type Handle interface {
	Refresh() error
	Close() error
}

// Notifier is a Handle which can also show a notice.
type Notifier interface {
	Handle
	Notify(message string) error
}

// Registry is a set of named child windows.
//
// The zero value is ready to use. It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	handles map[string]entry
	serial  uint64
}

type entry struct {
	handle Handle
	serial uint64
}

// Registration is returned by Register.
type Registration struct {
	r      *Registry
	name   string
	serial uint64
	once   sync.Once
}

// Dispose removes the registered handle from the registry, without closing it.
//
// If the name has been registered again with another handle, it does nothing.
func (reg *Registration) Dispose() {
	reg.once.Do(func() {
		reg.r.mu.Lock()
		defer reg.r.mu.Unlock()
		if e, ok := reg.r.handles[reg.name]; ok && e.serial == reg.serial {
			delete(reg.r.handles, reg.name)
		}
	})
}

// Register tracks handle as name.
//
// When name is already registered, the previous handle is closed and replaced,
// unless it is handle itself. The error from closing it is returned together
// with the registration.
func (r *Registry) Register(name string, handle Handle) (*Registration, error) {
	r.mu.Lock()
	if r.handles == nil {
		r.handles = map[string]entry{}
	}
	r.serial += 1
	serial := r.serial
	prev, replaced := r.handles[name]
	r.handles[name] = entry{handle: handle, serial: serial}
	r.mu.Unlock()

	var err error
	if replaced && !same(prev.handle, handle) {
		err = prev.handle.Close()
	}
	return &Registration{r: r, name: name, serial: serial}, err
}

// same tells a and b are the same handle. Handles of non-comparable types
// are never the same.
func same(a, b Handle) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Type() != vb.Type() {
		return false
	}
	return va.Comparable() && va.Equal(vb)
}

// Names returns registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.handles))
	for n := range r.handles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

func (r *Registry) snapshot() []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.handles))
	for n := range r.handles {
		names = append(names, n)
	}
	sort.Strings(names)
	hs := make([]Handle, 0, len(names))
	for _, n := range names {
		hs = append(hs, r.handles[n].handle)
	}
	return hs
}

// RefreshAll requests every window to refresh.
//
// Windows are refreshed even if some of them fail. Errors are joined.
func (r *Registry) RefreshAll() error {
	var errs []error
	for _, h := range r.snapshot() {
		if err := h.Refresh(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NotifyAll shows message on every window which is a Notifier.
func (r *Registry) NotifyAll(message string) error {
	var errs []error
	for _, h := range r.snapshot() {
		n, ok := h.(Notifier)
		if !ok {
			continue
		}
		if err := n.Notify(message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CloseAll sends a close request to each window exactly once, and empties the registry.
//
// All windows are closed even if some of them fail. Errors are joined.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	handles := r.handles
	r.handles = map[string]entry{}
	r.mu.Unlock()

	names := make([]string, 0, len(handles))
	for n := range handles {
		names = append(names, n)
	}
	sort.Strings(names)

	var errs []error
	for _, n := range names {
		if err := handles[n].handle.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
