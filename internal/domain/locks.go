package domain

import "sync"

// CompanyLocks serializes mutating operations per company. Reads do not
// take the lock; writes for different companies proceed in parallel.
type CompanyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCompanyLocks creates an empty lock registry.
func NewCompanyLocks() *CompanyLocks {
	return &CompanyLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for companyID, creating it on first use.
func (c *CompanyLocks) Lock(companyID string) {
	c.get(companyID).Lock()
}

// Unlock releases the mutex for companyID.
func (c *CompanyLocks) Unlock(companyID string) {
	c.get(companyID).Unlock()
}

func (c *CompanyLocks) get(companyID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.locks[companyID]
	if !ok {
		m = &sync.Mutex{}
		c.locks[companyID] = m
	}
	return m
}
