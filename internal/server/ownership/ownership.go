// Package ownership stamps and checks the creator relationship between todos
// and users.
package ownership

import "github.com/dmitrijs2005/gophtodo/internal/server/models"

// Stamp sets the todo's creator to the caller, discarding any prior value.
func Stamp(todo *models.Todo, caller *models.User) {
	todo.CreatorID = caller.ID
}

// ScopeFor returns the lookup scope for todo id on behalf of caller. Admins
// get an unrestricted scope.
func ScopeFor(caller *models.User, id string) models.Scope {
	if caller.IsAdmin {
		return models.Scope{ID: id}
	}
	return models.Scope{ID: id, CreatorID: caller.ID}
}

// Owns reports whether caller created the resource with the given creator id.
func Owns(caller *models.User, creatorID string) bool {
	return caller != nil && creatorID != "" && caller.ID == creatorID
}

// CanAccess reports whether caller may see or change a resource owned by
// creatorID: its owner or any admin.
func CanAccess(caller *models.User, creatorID string) bool {
	return caller != nil && (caller.IsAdmin || Owns(caller, creatorID))
}
