package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sarthakkaushal65/predictscore/internal/adapters/http/api"
	service "github.com/sarthakkaushal65/predictscore/internal/app"
	"github.com/sarthakkaushal65/predictscore/internal/domain/encoding"
	"github.com/sarthakkaushal65/predictscore/internal/domain/prediction"
	"github.com/sarthakkaushal65/predictscore/internal/domain/schema"
	"github.com/sarthakkaushal65/predictscore/internal/domain/types"
	"github.com/sarthakkaushal65/predictscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// sumModel scores a row as the sum of its values.
type sumModel struct{}

func (sumModel) Predict(_ context.Context, rows types.Frame) ([]float64, error) {
	out := make([]float64, len(rows.Rows))
	for i, row := range rows.Rows {
		for _, v := range row {
			out[i] += v
		}
	}
	return out, nil
}

func (sumModel) Name() string { return "sum" }

// mockDependencies fails every prediction with err.
type mockDependencies struct {
	err   error
	ready bool
}

func (m *mockDependencies) Predict(context.Context, encoding.Inputs) (prediction.Result, error) {
	return prediction.Result{}, m.err
}

func (m *mockDependencies) Form() (schema.Form, error) {
	if !m.ready {
		return schema.Form{}, prediction.ErrModelUnavailable
	}
	return schema.StudentScoreV3().Form(), nil
}

func (m *mockDependencies) Ready() bool { return m.ready }

func (m *mockDependencies) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": m.ready}
}

const scenarioBody = `{"inputs": {
	"Hours_Studied": 20, "Attendance": 80, "Parental_Involvement": "Medium",
	"Access_to_Resources": "Good", "Extracurricular_Activities": "Active",
	"Sleep_Hours": 7, "Previous_Scores": 75, "Motivation_Level": "High",
	"Internet_Access": "Yes", "Tutoring_Sessions": 2, "Family_Income": "Medium",
	"Teacher_Quality": "Excellent", "School_Type": "Private", "Peer_Influence": "Positive",
	"Physical_Activity": 3, "Learning_Disabilities": "No", "Parental_Education_Level": "Graduate",
	"Distance_from_Home": "1-5 km", "Gender": "Female"
}}`

func newMux(deps api.Dependencies, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, opts...).Register(context.Background(), mux)
	return mux
}

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var out map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestServer_Predict(t *testing.T) {
	Convey("Given the API backed by a started service with a sum-of-inputs model", t, func() {
		svc := service.New(
			service.WithLogger(logger.NewNop()),
			service.WithSchema(schema.StudentScoreV3()),
			service.WithModel(sumModel{}),
		)
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		mux := newMux(svc)

		Convey("When the reference submission is posted", func() {
			w := do(mux, http.MethodPost, "/api/v1/predict", scenarioBody)

			Convey("Then it should return the score with its vector", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")

				var resp struct {
					ID        string  `json:"id"`
					Score     float64 `json:"score"`
					Formatted string  `json:"formatted"`
					Schema    string  `json:"schema"`
					Model     string  `json:"model"`
					Features  []struct {
						Name  string  `json:"name"`
						Value float64 `json:"value"`
					} `json:"features"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.ID, ShouldNotBeEmpty)
				So(resp.Score, ShouldEqual, 205)
				So(resp.Formatted, ShouldEqual, "205.00")
				So(resp.Schema, ShouldEqual, "student_score@v3")
				So(resp.Model, ShouldEqual, "sum")
				So(resp.Features, ShouldHaveLength, 19)
				So(resp.Features[2].Name, ShouldEqual, "Parental_Involvement")
				So(resp.Features[2].Value, ShouldEqual, 1)
			})
		})

		Convey("When a label is unknown", func() {
			w := do(mux, http.MethodPost, "/api/v1/predict", strings.Replace(scenarioBody, `"Female"`, `"Unknown"`, 1))

			Convey("Then it should answer 400 naming the slot", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decodeError(w)
				So(body["code"], ShouldEqual, service.KindUnknownCategory)
				So(body["slot"], ShouldEqual, "Gender")
			})
		})

		Convey("When a slider value is out of range", func() {
			w := do(mux, http.MethodPost, "/api/v1/predict", strings.Replace(scenarioBody, `"Attendance": 80`, `"Attendance": 120`, 1))

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, service.KindOutOfRange)
			})
		})

		Convey("When a slot is missing", func() {
			w := do(mux, http.MethodPost, "/api/v1/predict", strings.Replace(scenarioBody, `"Gender": "Female"`, `"Sex": "Female"`, 1))

			Convey("Then it should answer 422", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decodeError(w)["code"], ShouldEqual, service.KindSchemaMismatch)
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPost, "/api/v1/predict", `hours=20`)

			Convey("Then it should answer 400 bad_request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the body has no inputs", func() {
			w := do(mux, http.MethodPost, "/api/v1/predict", `{}`)

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "missing inputs")
			})
		})

		Convey("When the body carries trailing data", func() {
			w := do(mux, http.MethodPost, "/api/v1/predict", scenarioBody+`{}`)

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the method is wrong", func() {
			w := do(mux, http.MethodGet, "/api/v1/predict", "")

			Convey("Then it should answer 405", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, http.MethodPost)
			})
		})

		Convey("When the form is requested", func() {
			w := do(mux, http.MethodGet, "/api/v1/form", "")

			Convey("Then it should list every field", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var form schema.Form
				So(json.Unmarshal(w.Body.Bytes(), &form), ShouldBeNil)
				So(form.Fields, ShouldHaveLength, 19)
				So(form.Fields[18].Options, ShouldResemble, []string{"Male", "Female", "Other"})
			})
		})

		Convey("When health and stats are requested", func() {
			health := do(mux, http.MethodGet, "/healthz", "")
			stats := do(mux, http.MethodGet, "/stats", "")

			Convey("Then both should answer 200", func() {
				So(health.Code, ShouldEqual, http.StatusOK)
				So(health.Body.String(), ShouldContainSubstring, `"ok"`)
				So(stats.Code, ShouldEqual, http.StatusOK)
				So(stats.Body.String(), ShouldContainSubstring, `"model":"sum"`)
			})
		})
	})
}

func TestServer_BodyLimit(t *testing.T) {
	Convey("Given a server with a tiny body cap", t, func() {
		mux := newMux(&mockDependencies{ready: true}, api.WithMaxBodyBytes(32))

		Convey("When a larger body is posted", func() {
			w := do(mux, http.MethodPost, "/api/v1/predict", scenarioBody)

			Convey("Then it should answer 400 mentioning the limit", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "exceeds 32 bytes")
			})
		})
	})
}

func TestServer_ErrorMapping(t *testing.T) {
	Convey("Given dependencies that fail in each documented way", t, func() {
		cases := []struct {
			err    error
			status int
		}{
			{&encoding.CategoryError{Slot: "Gender", Label: "x"}, http.StatusBadRequest},
			{fmt.Errorf("wrapped: %w", encoding.ErrInvalidValue), http.StatusBadRequest},
			{encoding.ErrOutOfRange, http.StatusBadRequest},
			{encoding.ErrSchemaMismatch, http.StatusUnprocessableEntity},
			{&prediction.InferenceError{Model: "m", Err: errors.New("boom")}, http.StatusInternalServerError},
			{prediction.ErrModelUnavailable, http.StatusServiceUnavailable},
			{errors.New("unexpected"), http.StatusInternalServerError},
		}

		for _, tc := range cases {
			Convey(fmt.Sprintf("When predict fails with %q", tc.err), func() {
				mux := newMux(&mockDependencies{err: tc.err, ready: true})
				w := do(mux, http.MethodPost, "/api/v1/predict", scenarioBody)

				Convey(fmt.Sprintf("Then the status should be %d", tc.status), func() {
					So(w.Code, ShouldEqual, tc.status)
					So(decodeError(w)["message"], ShouldContainSubstring, "api.post_predict")
				})
			})
		}
	})
}

func TestServer_NotReady(t *testing.T) {
	Convey("Given dependencies with no model loaded", t, func() {
		mux := newMux(&mockDependencies{ready: false})

		Convey("Then health and form should answer 503", func() {
			So(do(mux, http.MethodGet, "/healthz", "").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(do(mux, http.MethodGet, "/api/v1/form", "").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("And metrics and the dashboard should still be served", func() {
			So(do(mux, http.MethodGet, "/metrics", "").Code, ShouldEqual, http.StatusOK)
			dash := do(mux, http.MethodGet, "/dashboard", "")
			So(dash.Code, ShouldEqual, http.StatusOK)
			So(dash.Body.String(), ShouldContainSubstring, "/stats")
		})
	})

	Convey("Given a server with metrics disabled", t, func() {
		mux := newMux(&mockDependencies{ready: true}, api.WithMetrics(false))

		Convey("Then /metrics should not be routed", func() {
			So(do(mux, http.MethodGet, "/metrics", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given tagged errors", t, func() {
		cause := errors.New("eof")

		Convey("Then kinds and causes should stay reachable", func() {
			err := api.WrapKind("op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "op: bad request: eof")

			So(api.NewKind("op", api.ErrMethodNotAllowed).Error(), ShouldEqual, "op: method not allowed")
			So(api.Wrap("op", nil), ShouldBeNil)
			So(errors.Is(api.Wrap("op", cause), cause), ShouldBeTrue)
		})

		Convey("Then StatusFor should cover every kind", func() {
			So(api.StatusFor(service.KindInvalidSchema), ShouldEqual, http.StatusInternalServerError)
			So(api.StatusFor(service.KindModelUnavailable), ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}
