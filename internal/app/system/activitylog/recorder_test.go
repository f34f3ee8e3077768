package activitylog_test

import (
	"testing"

	"github.com/communa-dev/communa/internal/app/system/activitylog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handlers take the recorder as an optional dependency; a nil recorder must
// absorb calls without panicking so tests can omit it.
func TestNilRecorderIsNoOp(t *testing.T) {
	var r *activitylog.Recorder

	r.Record("created a post", primitive.NewObjectID(), nil)
	r.Close()
	r.Close()
}

// A request that finishes while shutdown is in flight may still call Record.
// The entry is dropped; it must never panic on the closed queue.
func TestRecordAfterClose(t *testing.T) {
	r := activitylog.NewRecorder(nil, zap.NewNop())
	r.Close()

	r.Record("created a post", primitive.NewObjectID(), nil)
	r.Close()
}
