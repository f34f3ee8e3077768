// internal/domain/models/privatefile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrivateFile is per-user file metadata. The path is an opaque string;
// upload and storage mechanics live outside this service.
type PrivateFile struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID  primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	FileName string             `bson:"file_name" json:"file_name"`
	FileKey  string             `bson:"file_key" json:"file_key"` // uuid storage key
	Path     string             `bson:"path" json:"path"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
