package iamlite

import (
	"iter"
	"maps"
	"slices"
	"sync"
)

// NewAccounts returns a new accounts set.
func NewAccounts() *Accounts {
	return &Accounts{
		accounts: make(map[string]*Roles),
	}
}

// Accounts holds the roles of every account that has made a request.
type Accounts struct {
	mu       sync.Mutex
	accounts map[string]*Roles
}

func (a *Accounts) EnsureRoles(accountID string) *Roles {
	a.mu.Lock()
	defer a.mu.Unlock()
	if roles, ok := a.accounts[accountID]; ok {
		return roles
	}
	newRoles := NewRoles()
	a.accounts[accountID] = newRoles
	return newRoles
}

// GetRoles returns the roles of an account without registering it.
func (a *Accounts) GetRoles(accountID string) (roles *Roles, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	roles, ok = a.accounts[accountID]
	return
}

// EachAccount returns an iterator over the known account ids in sorted order.
func (a *Accounts) EachAccount() iter.Seq[string] {
	a.mu.Lock()
	accountIDs := slices.Sorted(maps.Keys(a.accounts))
	a.mu.Unlock()
	return slices.Values(accountIDs)
}
