// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is one offering of a subject in a term.
type Course struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Code        string               `bson:"code" json:"code"` // unique, e.g. "IF184301"
	Name        string               `bson:"name" json:"name"`
	NameCI      string               `bson:"name_ci" json:"-"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	MajorID     primitive.ObjectID   `bson:"major_id" json:"major_id"`
	TermID      primitive.ObjectID   `bson:"term_id" json:"term_id"`
	LecturerIDs []primitive.ObjectID `bson:"lecturer_ids" json:"lecturer_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasLecturer reports whether the user teaches this course.
func (c Course) HasLecturer(userID primitive.ObjectID) bool {
	for _, id := range c.LecturerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Meeting is one scheduled session of a course.
type Meeting struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID primitive.ObjectID `bson:"course_id" json:"course_id"`
	Topic    string             `bson:"topic" json:"topic"`
	Location string             `bson:"location,omitempty" json:"location,omitempty"`
	StartsAt time.Time          `bson:"starts_at" json:"starts_at"`
	EndsAt   time.Time          `bson:"ends_at" json:"ends_at"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
