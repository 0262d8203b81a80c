package database

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog manages a collection of named row sets
type Catalog struct {
	sets map[string]*MemoryCursor
	mu   sync.RWMutex
}

// NewCatalog creates a new empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		sets: make(map[string]*MemoryCursor),
	}
}

// Register adds a row set to the catalog, closing any row set previously held under name.
func (c *Catalog) Register(name string, rs *MemoryCursor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.sets[name]; ok && old != rs {
		old.Close()
	}
	c.sets[name] = rs
}

// Get retrieves a row set by name
func (c *Catalog) Get(name string) (*MemoryCursor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rs, ok := c.sets[name]
	if !ok {
		return nil, fmt.Errorf("row set '%s' not found", name)
	}
	return rs, nil
}

// Names lists the registered names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.sets))
	for name := range c.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every registered row set.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, rs := range c.sets {
		rs.Close()
		delete(c.sets, name)
	}
	return nil
}
