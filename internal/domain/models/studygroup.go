// internal/domain/models/studygroup.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership status values.
const (
	MembershipPending  = "PENDING"
	MembershipApproved = "APPROVED"
	MembershipRejected = "REJECTED"
)

// Task status values.
const (
	TaskDo         = "DO"
	TaskInProgress = "IN_PROGRESS"
	TaskDone       = "DONE"
)

// StudyGroup is a bounded-capacity team of students within one course.
//
// TotalContribution is a denormalized running sum maintained by the
// contribution ledger; it is approximate by design (the three counter
// updates are not a single transaction).
type StudyGroup struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID    primitive.ObjectID `bson:"course_id" json:"course_id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Capacity    int                `bson:"capacity" json:"capacity"` // >= 1
	IsClosed    bool               `bson:"is_closed" json:"is_closed"`

	TotalContribution int `bson:"total_contribution" json:"total_contribution"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GroupMembership is a student's request-to-join record for a group.
//
// The partial unique index on (group_id, student_id) covers only PENDING
// and APPROVED documents, so a REJECTED record stays as history and the
// student can request again with a fresh insert.
type GroupMembership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID   primitive.ObjectID `bson:"group_id" json:"group_id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	Status    string             `bson:"status" json:"status"` // PENDING | APPROVED | REJECTED

	// Per-student-per-group contribution points.
	Contribution int `bson:"contribution" json:"contribution"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GroupThread is a discussion/work unit inside a group, optionally tied
// to an assignment.
type GroupThread struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	GroupID      primitive.ObjectID  `bson:"group_id" json:"group_id"`
	AssignmentID *primitive.ObjectID `bson:"assignment_id,omitempty" json:"assignment_id,omitempty"`
	Title        string              `bson:"title" json:"title"`
	AuthorID     primitive.ObjectID  `bson:"author_id" json:"author_id"`

	// Running sum of point events within the thread.
	Contribution int `bson:"contribution" json:"contribution"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GroupPost is a reply inside a thread. Content is sanitized HTML.
type GroupPost struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ThreadID primitive.ObjectID `bson:"thread_id" json:"thread_id"`
	AuthorID primitive.ObjectID `bson:"author_id" json:"author_id"`
	Content  string             `bson:"content" json:"content"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GroupTask is a work item inside a thread assigned to zero or more users.
// Tasks write activity entries but never move contribution points.
type GroupTask struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ThreadID    primitive.ObjectID   `bson:"thread_id" json:"thread_id"`
	Description string               `bson:"description" json:"description"`
	Status      string               `bson:"status" json:"status"` // DO | IN_PROGRESS | DONE
	AssigneeIDs []primitive.ObjectID `bson:"assignee_ids" json:"assignee_ids"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ActivityEntry is an immutable human-readable record of a group action.
// Never updated or deleted by the application.
type ActivityEntry struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Action   string              `bson:"action" json:"action"`
	ActorID  primitive.ObjectID  `bson:"actor_id" json:"actor_id"`
	ThreadID *primitive.ObjectID `bson:"thread_id,omitempty" json:"thread_id,omitempty"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
