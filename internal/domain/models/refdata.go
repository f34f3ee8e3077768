// internal/domain/models/refdata.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AcademicTerm is one semester (e.g., "2025/2026 Ganjil").
type AcademicTerm struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	StartsAt  time.Time          `bson:"starts_at" json:"starts_at"`
	EndsAt    time.Time          `bson:"ends_at" json:"ends_at"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Faculty groups majors.
type Faculty struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	Code      string             `bson:"code" json:"code"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Major belongs to one faculty.
type Major struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FacultyID primitive.ObjectID `bson:"faculty_id" json:"faculty_id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	Code      string             `bson:"code" json:"code"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
