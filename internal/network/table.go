package network

import (
	"fmt"
	"slices"
	"sync"
)

// InterfaceTable is a name-indexed set of interfaces. The table holds one
// reference on every member.
type InterfaceTable struct {
	mu     sync.RWMutex
	byName map[string]*Interface
	order  []string
}

// NewInterfaceTable returns an empty table.
func NewInterfaceTable() *InterfaceTable {
	return &InterfaceTable{byName: make(map[string]*Interface)}
}

// Add takes a reference on ifp and stores it under its name.
func (t *InterfaceTable) Add(ifp *Interface) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.byName[ifp.Name]; ok {
		return fmt.Errorf("interface %s already present", ifp.Name)
	}
	if ifp.Get() == nil {
		return fmt.Errorf("interface %s already released", ifp.Name)
	}
	t.byName[ifp.Name] = ifp
	t.order = append(t.order, ifp.Name)
	return nil
}

// Lookup returns the named interface without taking a reference.
func (t *InterfaceTable) Lookup(name string) *Interface {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byName[name]
}

// Acquire returns the named interface with an extra reference the caller
// must Put.
func (t *InterfaceTable) Acquire(name string) *Interface {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ifp, ok := t.byName[name]; ok {
		return ifp.Get()
	}
	return nil
}

// ByIndex returns the interface with the given kernel index.
func (t *InterfaceTable) ByIndex(index int) *Interface {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, ifp := range t.byName {
		if ifp.Index == index {
			return ifp
		}
	}
	return nil
}

// Remove drops the table's reference on the named interface.
func (t *InterfaceTable) Remove(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	ifp, ok := t.byName[name]
	if !ok {
		return fmt.Errorf("interface %s not found", name)
	}
	delete(t.byName, name)
	t.order = slices.DeleteFunc(t.order, func(n string) bool { return n == name })
	_, err := ifp.Put()
	return err
}

// List returns the members in insertion order.
func (t *InterfaceTable) List() []*Interface {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Interface, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byName[name])
	}
	return out
}

// Len returns the number of members.
func (t *InterfaceTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// Close releases every member.
func (t *InterfaceTable) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var firstErr error
	for _, name := range t.order {
		if _, err := t.byName[name].Put(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	t.byName = make(map[string]*Interface)
	t.order = nil
	return firstErr
}
