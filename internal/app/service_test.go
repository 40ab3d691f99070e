package service_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/swinglabs/fourb/internal/app"
	"github.com/swinglabs/fourb/internal/domain/model"
	"github.com/swinglabs/fourb/internal/domain/profile"
	"github.com/swinglabs/fourb/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithDedupeSize(25_000),
			service.WithShardCount(2),
			service.WithOptimalWindow(8, 32),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_SeenAndRecord(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When checking a new import ID", func() {
			importID := "import-123"
			seen := svc.SeenAndRecord(ctx, importID)

			Convey("Then it should not have been seen before", func() {
				So(seen, ShouldBeFalse)
			})
		})

		Convey("When checking the same import ID again", func() {
			importID := "import-456"
			svc.SeenAndRecord(ctx, importID)         // First time
			seen := svc.SeenAndRecord(ctx, importID) // Second time

			Convey("Then it should have been seen before", func() {
				So(seen, ShouldBeTrue)
			})
		})

		Convey("When unrecording a seen import ID", func() {
			importID := "import-789"
			svc.SeenAndRecord(ctx, importID)
			svc.Unrecord(ctx, importID)
			seen := svc.SeenAndRecord(ctx, importID)

			Convey("Then it should be treated as new again", func() {
				So(seen, ShouldBeFalse)
			})
		})
	})
}

func TestService_EnqueueImport(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When enqueueing a valid import job", func() {
			job := model.ImportJob{
				ImportID:  "import-123",
				SessionID: "session-456",
				Files: []model.ImportFile{
					{
						Name:    "swings.csv",
						Content: []byte("Swing,Result,Exit Velocity,Launch Angle,Distance\n1,Line Drive,92.0,18.0,280\n"),
					},
				},
			}

			success := svc.EnqueueImport(ctx, job)

			Convey("Then it should be enqueued successfully", func() {
				So(success, ShouldBeTrue)
			})
		})
	})
}

func TestService_AnalyzeSwing(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When analyzing a strong swing", func() {
			bundle := profile.MetricBundle{
				BatSpeedMPH:      80,
				AttackAngleDeg:   10,
				HandSpeedMPH:     30,
				TimeToContactMS:  150,
				TempoScore:       80,
				EfficiencyRating: 8,
			}

			motorProfile, proj, recs := svc.AnalyzeSwing(ctx, bundle)

			Convey("Then it should classify and project without state", func() {
				So(motorProfile, ShouldEqual, model.ProfileTitan)
				So(proj.Current, ShouldBeBetweenOrEqual, 0, 100)
				So(proj.Ceiling, ShouldBeGreaterThanOrEqualTo, proj.Current)
				So(proj.Ceiling, ShouldBeLessThanOrEqualTo, 99)
				So(recs, ShouldNotBeEmpty)
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats, ShouldNotBeNil)
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}
