// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"github.com/communa-dev/communa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

Two indexes are required for correctness, not just performance:
  - study_groups: unique (course_id, name_ci)
  - group_memberships: unique (group_id, student_id) over PENDING/APPROVED
    documents only, so REJECTED history never blocks a re-join
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(name string, fn func(context.Context, *mongo.Database) error) {
		if err := fn(ctx, db); err != nil {
			problems = append(problems, name+": "+err.Error())
		}
	}

	ensure("users", ensureUsers)
	ensure("courses", ensureCourses)
	ensure("meetings", ensureMeetings)
	ensure("assignments", ensureAssignments)
	ensure("submissions", ensureSubmissions)
	ensure("study_groups", ensureStudyGroups)
	ensure("group_memberships", ensureGroupMemberships)
	ensure("group_threads", ensureGroupThreads)
	ensure("group_posts", ensureGroupPosts)
	ensure("group_tasks", ensureGroupTasks)
	ensure("activity_log", ensureActivityLog)
	ensure("private_files", ensurePrivateFiles)
	ensure("majors", ensureMajors)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func create(ctx context.Context, db *mongo.Database, coll string, idx []mongo.IndexModel) error {
	_, err := db.Collection(coll).Indexes().CreateMany(ctx, idx)
	return err
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "users", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_users_email").SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "nrp", Value: 1}},
			Options: options.Index().SetName("uniq_users_nrp").SetUnique(true).
				SetPartialFilterExpression(bson.M{"nrp": bson.M{"$type": "string"}}),
		},
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}},
			Options: options.Index().SetName("idx_users_name_ci"),
		},
	})
}

func ensureCourses(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "courses", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetName("uniq_courses_code").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "term_id", Value: 1}, {Key: "major_id", Value: 1}},
			Options: options.Index().SetName("idx_courses_term_major"),
		},
	})
}

func ensureMeetings(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "meetings", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "starts_at", Value: 1}},
			Options: options.Index().SetName("idx_meetings_course_start"),
		},
	})
}

func ensureAssignments(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "assignments", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "due_at", Value: 1}},
			Options: options.Index().SetName("idx_assignments_course_due"),
		},
	})
}

func ensureSubmissions(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "submissions", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "assignment_id", Value: 1}, {Key: "student_id", Value: 1}},
			Options: options.Index().SetName("uniq_submissions_assignment_student").SetUnique(true),
		},
	})
}

func ensureStudyGroups(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "study_groups", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("uniq_groups_course_name").SetUnique(true),
		},
	})
}

func ensureGroupMemberships(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "group_memberships", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "student_id", Value: 1}},
			Options: options.Index().SetName("uniq_memberships_active").SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": bson.A{models.MembershipPending, models.MembershipApproved}},
				}),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_memberships_group_status"),
		},
		{
			Keys:    bson.D{{Key: "student_id", Value: 1}},
			Options: options.Index().SetName("idx_memberships_student"),
		},
	})
}

func ensureGroupThreads(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "group_threads", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_threads_group_created"),
		},
	})
}

func ensureGroupPosts(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "group_posts", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "thread_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_posts_thread_created"),
		},
	})
}

func ensureGroupTasks(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "group_tasks", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "thread_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_tasks_thread_created"),
		},
	})
}

func ensureActivityLog(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "activity_log", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "thread_id", Value: 1}, {Key: "timestamp", Value: 1}},
			Options: options.Index().SetName("idx_activity_thread_time"),
		},
		{
			Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_activity_actor_time"),
		},
	})
}

func ensurePrivateFiles(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "private_files", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_files_owner_created"),
		},
	})
}

func ensureMajors(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "majors", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "faculty_id", Value: 1}, {Key: "code", Value: 1}},
			Options: options.Index().SetName("uniq_majors_faculty_code").SetUnique(true),
		},
	})
}
