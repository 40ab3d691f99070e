package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/swinglabs/fourb/internal/adapters/repository"
	"github.com/swinglabs/fourb/internal/domain/model"
)

func sampleStats(total int) model.SessionStats {
	return model.SessionStats{TotalSwings: total, BallsInPlay: total, ContactRate: 100}
}

func TestMemStore(t *testing.T) {
	Convey("Given a sharded in-memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()

		Convey("When upserting ball stats for a new session", func() {
			err := store.UpsertBallStats(ctx, "sess-1", sampleStats(3), 2, "imp-1")

			Convey("Then the record should be retrievable", func() {
				So(err, ShouldBeNil)

				rec, err := store.Get(ctx, "sess-1")
				So(err, ShouldBeNil)
				So(rec.SessionID, ShouldEqual, "sess-1")
				So(rec.Stats, ShouldNotBeNil)
				So(rec.Stats.TotalSwings, ShouldEqual, 3)
				So(rec.SkippedRows, ShouldEqual, 2)
				So(rec.ImportID, ShouldEqual, "imp-1")
				So(rec.Categories, ShouldBeNil)
			})
		})

		Convey("When re-importing a session", func() {
			So(store.UpsertBallStats(ctx, "sess-1", sampleStats(3), 0, "imp-1"), ShouldBeNil)
			So(store.UpsertBallStats(ctx, "sess-1", sampleStats(5), 1, "imp-2"), ShouldBeNil)

			Convey("Then the stats should be replaced wholesale", func() {
				rec, err := store.Get(ctx, "sess-1")
				So(err, ShouldBeNil)
				So(rec.Stats.TotalSwings, ShouldEqual, 5)
				So(rec.SkippedRows, ShouldEqual, 1)
				So(rec.ImportID, ShouldEqual, "imp-2")
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When ball stats and body metrics arrive independently", func() {
			So(store.UpsertBallStats(ctx, "sess-1", sampleStats(3), 0, "imp-1"), ShouldBeNil)

			scores := model.CategoryScores{Brain: model.Float64(78)}
			cats := model.Categoricals{MotorProfile: model.String("WHIPPER")}
			kin := model.KinematicAverages{BatKE: model.Float64(240)}
			So(store.UpsertBodyMetrics(ctx, "sess-1", scores, cats, kin), ShouldBeNil)

			Convey("Then neither path should clobber the other", func() {
				rec, err := store.Get(ctx, "sess-1")
				So(err, ShouldBeNil)
				So(rec.Stats, ShouldNotBeNil)
				So(rec.Stats.TotalSwings, ShouldEqual, 3)
				So(rec.Categories, ShouldNotBeNil)
				So(*rec.Categories.Brain, ShouldEqual, 78)
				So(*rec.Categoricals.MotorProfile, ShouldEqual, "WHIPPER")
				So(*rec.Kinematics.BatKE, ShouldEqual, 240)
			})
		})

		Convey("When looking up an unknown session", func() {
			_, err := store.Get(ctx, "missing")

			Convey("Then the sentinel should surface", func() {
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When the session ID is blank", func() {
			Convey("Then both upsert paths should reject it", func() {
				So(store.UpsertBallStats(ctx, "  ", sampleStats(1), 0, "imp"), ShouldWrap, repository.ErrInvalidSessionID)
				So(store.UpsertBodyMetrics(ctx, "", model.CategoryScores{}, model.Categoricals{}, model.KinematicAverages{}), ShouldWrap, repository.ErrInvalidSessionID)
			})
		})

		Convey("When listing sessions", func() {
			So(store.UpsertBallStats(ctx, "charlie", sampleStats(1), 0, "i1"), ShouldBeNil)
			So(store.UpsertBallStats(ctx, "alpha", sampleStats(1), 0, "i2"), ShouldBeNil)
			So(store.UpsertBallStats(ctx, "bravo", sampleStats(1), 0, "i3"), ShouldBeNil)

			Convey("Then IDs should come back in lexical order across shards", func() {
				So(store.Sessions(ctx), ShouldResemble, []string{"alpha", "bravo", "charlie"})
				So(store.Count(ctx), ShouldEqual, 3)
			})
		})
	})

	Convey("Given a store with a pinned clock", t, func() {
		ctx := context.Background()
		fixed := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
		store := repository.NewMemStore(repository.WithClock(func() time.Time { return fixed }))

		So(store.UpsertBallStats(ctx, "sess-1", sampleStats(1), 0, "imp"), ShouldBeNil)

		Convey("Then UpdatedAt should reflect the injected time source", func() {
			rec, err := store.Get(ctx, "sess-1")
			So(err, ShouldBeNil)
			So(rec.UpdatedAt, ShouldEqual, fixed)
		})
	})

	Convey("Given a store with a single shard", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(repository.WithShardCount(1))

		Convey("Then all sessions should still be reachable", func() {
			for i := 0; i < 20; i++ {
				So(store.UpsertBallStats(ctx, fmt.Sprintf("sess-%02d", i), sampleStats(i), 0, "imp"), ShouldBeNil)
			}
			So(store.Count(ctx), ShouldEqual, 20)

			rec, err := store.Get(ctx, "sess-07")
			So(err, ShouldBeNil)
			So(rec.Stats.TotalSwings, ShouldEqual, 7)
		})
	})
}

func TestMemStoreConcurrency(t *testing.T) {
	Convey("Given concurrent writers on overlapping sessions", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(repository.WithShardCount(4))

		const writers = 8
		const sessions = 16

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < sessions; i++ {
					id := fmt.Sprintf("sess-%d", i)
					_ = store.UpsertBallStats(ctx, id, sampleStats(i+1), 0, fmt.Sprintf("imp-%d-%d", w, i))
					_, _ = store.Get(ctx, id)
				}
			}(w)
		}
		wg.Wait()

		Convey("Then every session should hold a consistent last write", func() {
			So(store.Count(ctx), ShouldEqual, sessions)
			for i := 0; i < sessions; i++ {
				rec, err := store.Get(ctx, fmt.Sprintf("sess-%d", i))
				So(err, ShouldBeNil)
				So(rec.Stats.TotalSwings, ShouldEqual, i+1)
			}
		})
	})
}
