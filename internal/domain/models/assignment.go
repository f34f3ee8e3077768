// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment is coursework attached to a course.
type Assignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID    primitive.ObjectID `bson:"course_id" json:"course_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	DueAt       time.Time          `bson:"due_at" json:"due_at"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Submission is a student's answer to an assignment.
// Exactly one document per (assignment_id, student_id); re-submitting
// replaces the file key and note in place.
type Submission struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssignmentID primitive.ObjectID `bson:"assignment_id" json:"assignment_id"`
	StudentID    primitive.ObjectID `bson:"student_id" json:"student_id"`
	FileKey      string             `bson:"file_key" json:"file_key"` // opaque storage key
	Note         string             `bson:"note,omitempty" json:"note,omitempty"`

	// Grading; nil score means not graded yet.
	Score    *int   `bson:"score,omitempty" json:"score,omitempty"`
	Feedback string `bson:"feedback,omitempty" json:"feedback,omitempty"`

	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
