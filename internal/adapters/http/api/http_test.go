package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/swinglabs/fourb/internal/adapters/http/api"
	"github.com/swinglabs/fourb/internal/adapters/repository"
	"github.com/swinglabs/fourb/internal/domain/biomech"
	"github.com/swinglabs/fourb/internal/domain/model"
	"github.com/swinglabs/fourb/internal/domain/profile"
)

// fakeDeps is a hand-rolled Dependencies implementation so handler tests
// stay independent of queue and store wiring.
type fakeDeps struct {
	mu         sync.Mutex
	seen       map[string]bool
	unrecorded []string
	enqueueOK  bool
	enqueued   []model.ImportJob
	report     model.SessionReport
	reportErr  error
	aggScores  model.CategoryScores
	aggCats    model.Categoricals
	aggErr     error
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{seen: make(map[string]bool), enqueueOK: true}
}

func (f *fakeDeps) SeenAndRecord(_ context.Context, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen[id] {
		return true
	}
	f.seen[id] = true
	return false
}

func (f *fakeDeps) Unrecord(_ context.Context, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.seen, id)
	f.unrecorded = append(f.unrecorded, id)
}

func (f *fakeDeps) Size() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.seen))
}

func (f *fakeDeps) EnqueueImport(_ context.Context, job model.ImportJob) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enqueueOK {
		return false
	}
	f.enqueued = append(f.enqueued, job)
	return true
}

func (f *fakeDeps) AggregateBiomech(_ context.Context, _ string, _ []model.BiomechanicalSample) (model.CategoryScores, model.Categoricals, error) {
	return f.aggScores, f.aggCats, f.aggErr
}

func (f *fakeDeps) AnalyzeSwing(_ context.Context, bundle profile.MetricBundle) (model.MotorProfile, model.CeilingProjection, []string) {
	proj, recs := profile.Project(bundle)
	return profile.Classify(bundle), proj, recs
}

func (f *fakeDeps) Report(_ context.Context, sessionID string) (model.SessionReport, error) {
	if f.reportErr != nil {
		return model.SessionReport{}, f.reportErr
	}
	report := f.report
	report.SessionID = sessionID
	return report, nil
}

func (f *fakeDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"sessions": 2, "queue_length": 0}
}

func newTestMux(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, deps).Register(context.Background(), mux)
	return mux
}

func doJSON(mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func importBody(importID, sessionID, csv string) map[string]any {
	return map[string]any{
		"import_id":  importID,
		"session_id": sessionID,
		"files": []map[string]any{
			{"name": "swings.csv", "content": []byte(csv)},
		},
	}
}

func TestImportsEndpoint(t *testing.T) {
	Convey("Given the imports endpoint", t, func() {
		deps := newFakeDeps()
		mux := newTestMux(deps)

		csv := "Swing,Result,Exit Velocity\n1,Miss,\n"

		Convey("When posting a fresh import", func() {
			rec := doJSON(mux, http.MethodPost, "/v1/imports", importBody("imp-1", "sess-1", csv))

			Convey("Then it should be accepted for async processing", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)

				var ack struct {
					Status    string `json:"status"`
					ImportID  string `json:"import_id"`
					Duplicate bool   `json:"duplicate"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack.Status, ShouldEqual, "accepted")
				So(ack.ImportID, ShouldEqual, "imp-1")
				So(ack.Duplicate, ShouldBeFalse)

				So(len(deps.enqueued), ShouldEqual, 1)
				So(deps.enqueued[0].SessionID, ShouldEqual, "sess-1")
				So(string(deps.enqueued[0].Files[0].Content), ShouldEqual, csv)
			})
		})

		Convey("When posting the same import twice", func() {
			first := doJSON(mux, http.MethodPost, "/v1/imports", importBody("imp-1", "sess-1", csv))
			second := doJSON(mux, http.MethodPost, "/v1/imports", importBody("imp-1", "sess-1", csv))

			Convey("Then the retry should short-circuit as a duplicate", func() {
				So(first.Code, ShouldEqual, http.StatusAccepted)
				So(second.Code, ShouldEqual, http.StatusOK)
				So(second.Body.String(), ShouldContainSubstring, `"duplicate":true`)
				So(len(deps.enqueued), ShouldEqual, 1)
			})
		})

		Convey("When no import ID is supplied", func() {
			body := importBody("", "sess-1", csv)
			delete(body, "import_id")
			rec := doJSON(mux, http.MethodPost, "/v1/imports", body)

			Convey("Then the server should mint one", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)

				var ack struct {
					ImportID string `json:"import_id"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack.ImportID, ShouldNotBeBlank)
			})
		})

		Convey("When the request is malformed", func() {
			Convey("Then invalid JSON should be rejected", func() {
				rec := doJSON(mux, http.MethodPost, "/v1/imports", "{not json")
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then a missing session ID should be rejected", func() {
				rec := doJSON(mux, http.MethodPost, "/v1/imports", importBody("imp-1", "  ", csv))
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "session_id")
			})

			Convey("Then an empty file list should be rejected", func() {
				rec := doJSON(mux, http.MethodPost, "/v1/imports", map[string]any{
					"import_id": "imp-1", "session_id": "sess-1", "files": []any{},
				})
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then empty file content should be rejected", func() {
				rec := doJSON(mux, http.MethodPost, "/v1/imports", importBody("imp-1", "sess-1", ""))
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the queue pushes back", func() {
			deps.enqueueOK = false
			rec := doJSON(mux, http.MethodPost, "/v1/imports", importBody("imp-1", "sess-1", csv))

			Convey("Then the client should get a retryable 429", func() {
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
				So(rec.Body.String(), ShouldContainSubstring, "backpressure")
			})

			Convey("And the seen mark should be rolled back for the retry", func() {
				So(deps.unrecorded, ShouldContain, "imp-1")

				deps.enqueueOK = true
				retry := doJSON(mux, http.MethodPost, "/v1/imports", importBody("imp-1", "sess-1", csv))
				So(retry.Code, ShouldEqual, http.StatusAccepted)
			})
		})

		Convey("When using the wrong method", func() {
			rec := doJSON(mux, http.MethodGet, "/v1/imports", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestReportEndpoint(t *testing.T) {
	Convey("Given the session report endpoint", t, func() {
		deps := newFakeDeps()
		deps.report = model.SessionReport{
			Ball: model.SomeSection(model.SessionStats{
				TotalSwings: 3,
				BallsInPlay: 1,
				ContactRate: 33.3,
				TotalPoints: 7,
			}),
			SkippedRows: 1,
		}
		mux := newTestMux(deps)

		Convey("When fetching a known session", func() {
			rec := doJSON(mux, http.MethodGet, "/v1/sessions/sess-1/report", nil)

			Convey("Then the report should render with absent sections as null", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var body map[string]json.RawMessage
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(string(body["session_id"]), ShouldEqual, `"sess-1"`)
				So(string(body["predicted_ball"]), ShouldEqual, "null")
				So(string(body["categories"]), ShouldEqual, "null")
				So(string(body["ball"]), ShouldContainSubstring, `"total_swings":3`)
				So(string(body["skipped_rows"]), ShouldEqual, "1")
			})
		})

		Convey("When the session is unknown", func() {
			deps.reportErr = repository.ErrNotFound
			rec := doJSON(mux, http.MethodGet, "/v1/sessions/ghost/report", nil)

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the path is incomplete", func() {
			So(doJSON(mux, http.MethodGet, "/v1/sessions/sess-1", nil).Code, ShouldEqual, http.StatusNotFound)
			So(doJSON(mux, http.MethodGet, "/v1/sessions//report", nil).Code, ShouldEqual, http.StatusNotFound)
			So(doJSON(mux, http.MethodGet, "/v1/sessions/sess-1/unknown", nil).Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When using the wrong method", func() {
			rec := doJSON(mux, http.MethodPost, "/v1/sessions/sess-1/report", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestBiomechEndpoint(t *testing.T) {
	Convey("Given the biomech upload endpoint", t, func() {
		deps := newFakeDeps()
		deps.aggScores = model.CategoryScores{Brain: model.Float64(78)}
		deps.aggCats = model.Categoricals{MotorProfile: model.String("WHIPPER")}
		mux := newTestMux(deps)

		samples := map[string]any{
			"samples": []map[string]any{
				{"status": "complete", "core_flow_score": 78},
			},
		}

		Convey("When posting a sample batch", func() {
			rec := doJSON(mux, http.MethodPost, "/v1/sessions/sess-1/biomech", samples)

			Convey("Then the aggregated scores should come back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"motor_profile":"WHIPPER"`)
			})
		})

		Convey("When the batch is empty", func() {
			rec := doJSON(mux, http.MethodPost, "/v1/sessions/sess-1/biomech", map[string]any{"samples": []any{}})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When no sample has completed processing", func() {
			deps.aggErr = biomech.ErrNoCompletedSamples
			rec := doJSON(mux, http.MethodPost, "/v1/sessions/sess-1/biomech", samples)

			Convey("Then the batch should be unprocessable, not a server error", func() {
				So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(rec.Body.String(), ShouldContainSubstring, "no_completed_samples")
			})
		})

		Convey("When using the wrong method", func() {
			rec := doJSON(mux, http.MethodGet, "/v1/sessions/sess-1/biomech", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestAnalyzeEndpoint(t *testing.T) {
	Convey("Given the swing analysis endpoint", t, func() {
		deps := newFakeDeps()
		mux := newTestMux(deps)

		Convey("When posting an elite metric bundle", func() {
			bundle := map[string]any{
				"bat_speed_mph":      85,
				"tempo_score":        70,
				"efficiency_rating":  8,
				"time_to_contact_ms": 150,
				"hand_speed_mph":     28,
				"attack_angle_deg":   9,
			}
			rec := doJSON(mux, http.MethodPost, "/v1/swings/analyze", bundle)

			Convey("Then the classification and projection should render", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var body struct {
					MotorProfile string `json:"motor_profile"`
					Projection   struct {
						Current int    `json:"current"`
						Ceiling int    `json:"ceiling"`
						Grade   string `json:"grade"`
					} `json:"projection"`
					Tier struct {
						Name string `json:"name"`
					} `json:"tier"`
					Recommendations []string `json:"recommendations"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.MotorProfile, ShouldEqual, "TITAN")
				So(body.Projection.Ceiling, ShouldBeGreaterThanOrEqualTo, body.Projection.Current)
				So(body.Projection.Grade, ShouldNotBeBlank)
				So(body.Tier.Name, ShouldNotBeBlank)
				So(body.Recommendations, ShouldNotBeEmpty)
			})
		})

		Convey("When the body is not JSON", func() {
			rec := doJSON(mux, http.MethodPost, "/v1/swings/analyze", "nope")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using the wrong method", func() {
			rec := doJSON(mux, http.MethodGet, "/v1/swings/analyze", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given the operational endpoints", t, func() {
		deps := newFakeDeps()
		mux := newTestMux(deps)

		Convey("When probing /healthz", func() {
			rec := doJSON(mux, http.MethodGet, "/healthz", nil)

			Convey("Then the metrics exposition should serve as liveness", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When fetching /stats", func() {
			rec := doJSON(mux, http.MethodGet, "/stats", nil)

			Convey("Then the provider's snapshot should render as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var body map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["sessions"], ShouldEqual, 2.0)
			})
		})

		Convey("When posting to /stats", func() {
			rec := doJSON(mux, http.MethodPost, "/stats", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
