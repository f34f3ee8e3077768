// internal/app/store/contrib/ledger.go

// Package contrib maintains the denormalized contribution counters. A point
// event touches three documents: the author's membership, the group total,
// and the thread sum. Each increment is atomic on its own document, but the
// three are deliberately not a transaction — the counters are approximate
// aggregates for display, and availability wins over exactness here.
package contrib

import (
	"context"
	"sync"

	groupstore "github.com/communa-dev/communa/internal/app/store/groups"
	membershipstore "github.com/communa-dev/communa/internal/app/store/memberships"
	threadstore "github.com/communa-dev/communa/internal/app/store/threads"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// PostPoints is the fixed point value of one post. Creation credits it,
// deletion debits it, edits move nothing. Tasks never move points.
const PostPoints = 10

// Ledger applies point deltas across the three aggregate levels.
type Ledger struct {
	memberships *membershipstore.Store
	groups      *groupstore.Store
	threads     *threadstore.Store
	log         *zap.Logger
}

func NewLedger(db *mongo.Database, log *zap.Logger) *Ledger {
	return &Ledger{
		memberships: membershipstore.New(db),
		groups:      groupstore.New(db),
		threads:     threadstore.New(db),
		log:         log,
	}
}

// ApplyDelta issues the three increments concurrently. A failed increment is
// logged and otherwise dropped: there is no retry and no compensation, so a
// crash or error between updates leaves the counters slightly inconsistent.
// An author without an active membership is skipped at the membership level
// (the store update simply matches nothing).
func (l *Ledger) ApplyDelta(ctx context.Context, groupID, threadID, studentID primitive.ObjectID, delta int) {
	if delta == 0 {
		return
	}

	var wg sync.WaitGroup
	run := func(level string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				l.log.Error("contribution update failed",
					zap.String("level", level),
					zap.String("group_id", groupID.Hex()),
					zap.String("thread_id", threadID.Hex()),
					zap.String("student_id", studentID.Hex()),
					zap.Int("delta", delta),
					zap.Error(err),
				)
			}
		}()
	}

	run("membership", func() error { return l.memberships.IncContribution(ctx, groupID, studentID, delta) })
	run("group", func() error { return l.groups.IncTotalContribution(ctx, groupID, delta) })
	run("thread", func() error { return l.threads.IncContribution(ctx, threadID, delta) })

	wg.Wait()
}
