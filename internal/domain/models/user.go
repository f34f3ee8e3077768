// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role names are stored exactly as issued in tokens.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleDosen      = "DOSEN"     // lecturer
	RoleMahasiswa  = "MAHASISWA" // student
)

// User represents super-admins, lecturers, and students.
//
// NOTE:
//   - Group membership is not embedded on User.
//     Use the group_memberships collection to discover a user's groups.
//   - NRP is the student registration number; empty for non-students.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName     string              `bson:"full_name" json:"full_name"`
	FullNameCI   string              `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string              `bson:"email" json:"email"`
	PasswordHash string              `bson:"password_hash" json:"-"`
	NRP          string              `bson:"nrp,omitempty" json:"nrp,omitempty"`
	Roles        []string            `bson:"roles" json:"roles"`
	MajorID      *primitive.ObjectID `bson:"major_id,omitempty" json:"major_id,omitempty"`
	Status       string              `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasRole reports whether the user carries the given role name.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
