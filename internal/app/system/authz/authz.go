// internal/app/system/authz/authz.go

// Package authz answers "may this caller do X" by capability instead of
// comparing role strings at every call site. Roles map onto a closed set of
// capabilities once, here; handlers ask for the capability they need.
package authz

import (
	"net/http"

	"github.com/communa-dev/communa/internal/app/system/auth"
	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Capability is a named permission a role grants.
type Capability string

const (
	// CapManageUsers covers user and reference-data administration.
	CapManageUsers Capability = "manage_users"
	// CapManageCourses covers course, meeting, and assignment administration.
	CapManageCourses Capability = "manage_courses"
	// CapModerateGroups covers group creation, membership approval, and
	// editing/deleting other members' posts and tasks.
	CapModerateGroups Capability = "moderate_groups"
	// CapJoinGroups covers requesting membership in a study group.
	CapJoinGroups Capability = "join_groups"
	// CapSubmitWork covers creating submissions for assignments.
	CapSubmitWork Capability = "submit_work"
	// CapPostInGroups covers creating threads, posts, and tasks.
	CapPostInGroups Capability = "post_in_groups"
)

// grants is the single place roles and capabilities meet.
var grants = map[string]map[Capability]bool{
	models.RoleSuperAdmin: {
		CapManageUsers:    true,
		CapManageCourses:  true,
		CapModerateGroups: true,
		CapPostInGroups:   true,
	},
	models.RoleDosen: {
		CapManageCourses:  true,
		CapModerateGroups: true,
		CapPostInGroups:   true,
	},
	models.RoleMahasiswa: {
		CapJoinGroups:   true,
		CapSubmitWork:   true,
		CapPostInGroups: true,
	},
}

// Can reports whether the current request's principal holds the capability.
func Can(r *http.Request, cap Capability) bool {
	p, ok := auth.CurrentUser(r)
	if !ok {
		return false
	}
	for _, role := range p.Roles {
		if grants[role][cap] {
			return true
		}
	}
	return false
}

// UserCtx returns the principal's Mongo ObjectID, name, and a found flag.
// ok=false means there is no valid, authenticated user; a malformed id in
// a token fails closed.
func UserCtx(r *http.Request) (userID primitive.ObjectID, name string, ok bool) {
	p, found := auth.CurrentUser(r)
	if !found {
		return primitive.NilObjectID, "", false
	}
	id, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return primitive.NilObjectID, "", false
	}
	return id, p.Name, true
}

// IsSuperAdmin reports whether the current principal is a super-admin.
func IsSuperAdmin(r *http.Request) bool {
	p, ok := auth.CurrentUser(r)
	return ok && p.HasRole(models.RoleSuperAdmin)
}
