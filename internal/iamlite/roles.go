package iamlite

import (
	"iter"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// NewRoles returns a new roles storage.
func NewRoles() *Roles {
	return &Roles{
		roles: make(map[string]*Role),
	}
}

// Roles holds the roles of a single account.
//
// Role names are unique without regard to case.
type Roles struct {
	mu    sync.Mutex
	roles map[string]*Role
}

func (r *Roles) AddRole(role *Role) *Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := roleKey(role.Name)
	if _, ok := r.roles[key]; ok {
		return ErrorEntityAlreadyExists().WithMessagef("Role with name %s already exists.", role.Name)
	}
	r.roles[key] = role
	return nil
}

func (r *Roles) GetRole(roleName string) (Role, *Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[roleKey(roleName)]
	if !ok {
		return Role{}, errorNoSuchRole(roleName)
	}
	return *role, nil
}

func (r *Roles) UpdateAssumeRolePolicy(roleName, document string, now time.Time) *Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[roleKey(roleName)]
	if !ok {
		return errorNoSuchRole(roleName)
	}
	role.AssumeRolePolicyDocument = document
	role.LastModified = now
	return nil
}

func (r *Roles) DeleteRole(roleName string) *Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := roleKey(roleName)
	if _, ok := r.roles[key]; !ok {
		return errorNoSuchRole(roleName)
	}
	delete(r.roles, key)
	return nil
}

func (r *Roles) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.roles)
}

// EachRole returns an iterator over copies of the roles ordered by key.
func (r *Roles) EachRole() iter.Seq[Role] {
	return func(yield func(Role) bool) {
		r.mu.Lock()
		keys := slices.Sorted(maps.Keys(r.roles))
		roles := make([]Role, 0, len(keys))
		for _, key := range keys {
			roles = append(roles, *r.roles[key])
		}
		r.mu.Unlock()
		for _, role := range roles {
			if !yield(role) {
				return
			}
		}
	}
}

func roleKey(roleName string) string {
	return strings.ToLower(roleName)
}

func errorNoSuchRole(roleName string) *Error {
	return ErrorNoSuchEntity().WithMessagef("The role with name %s cannot be found.", roleName)
}
