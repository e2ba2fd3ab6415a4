package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	service "github.com/sarthakkaushal65/predictscore/internal/app"
	"github.com/sarthakkaushal65/predictscore/internal/config"
	"github.com/sarthakkaushal65/predictscore/pkg/logger"
	"github.com/sarthakkaushal65/predictscore/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

const shippedModel = "../models/student_score_model-3.json"

func startedService(ctx context.Context) (*service.Service, error) {
	svc := service.New(
		service.WithLogger(logger.NewNop()),
		service.WithModelPath(shippedModel),
	)
	return svc, svc.Start(ctx)
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a config pointing at the shipped model", t, func() {
		_ = os.Setenv("PREDICTSCORE_MODEL_PATH", shippedModel)
		_ = os.Setenv("PREDICTSCORE_SCHEMA_PATH", "../configs/student_score_v3.yaml")
		defer func() {
			_ = os.Unsetenv("PREDICTSCORE_MODEL_PATH")
			_ = os.Unsetenv("PREDICTSCORE_SCHEMA_PATH")
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)

		svc := service.New(
			service.WithLogger(logger.NewNop()),
			service.WithSchemaPath(cfg.SchemaPath),
			service.WithModelPath(cfg.ModelPath),
			service.WithArtifactMaxBytes(cfg.ArtifactMaxBytes),
		)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		srv := httptest.NewServer(newMux(ctx, cfg, svc, logger.NewNop()))
		defer srv.Close()

		convey.Convey("When the form page is requested", func() {
			resp, err := http.Get(srv.URL + "/")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then it should render", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(resp.Header.Get("Content-Type"), convey.ShouldStartWith, "text/html")
			})
		})

		convey.Convey("When the reference student is posted to the API", func() {
			body := `{"inputs":{
				"Hours_Studied":20,"Attendance":80,"Parental_Involvement":"Medium",
				"Access_to_Resources":"Good","Extracurricular_Activities":"Active",
				"Sleep_Hours":7,"Previous_Scores":75,"Motivation_Level":"High",
				"Internet_Access":"Yes","Tutoring_Sessions":2,"Family_Income":"Medium",
				"Teacher_Quality":"Excellent","School_Type":"Private","Peer_Influence":"Positive",
				"Physical_Activity":3,"Learning_Disabilities":"No",
				"Parental_Education_Level":"Graduate","Distance_from_Home":"1-5 km","Gender":"Female"}}`
			resp, err := http.Post(srv.URL+"/api/v1/predict", "application/json", strings.NewReader(body))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the score should come back formatted", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When the docs and health routes are requested", func() {
			for _, path := range []string{"/api-docs", "/openapi.yaml", "/healthz", "/metrics"} {
				resp, err := http.Get(srv.URL + path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				_ = resp.Body.Close()
			}
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the system metrics updater runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})

		convey.Convey("When the system metrics are updated once", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("When the service metrics are updated", func() {
			metrics.SetEnabled(true)
			ctx := context.Background()

			convey.Convey("Then a stopped service should report no model", func() {
				svc := service.New(service.WithLogger(logger.NewNop()))
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			})

			convey.Convey("Then a started service should report its width", func() {
				svc, err := startedService(ctx)
				convey.So(err, convey.ShouldBeNil)
				defer svc.Stop()

				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
				info, ok := svc.Info()
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(info.Features, convey.ShouldEqual, 19)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When the listen address is empty", func() {
			_ = os.Setenv("PREDICTSCORE_ADDR", "")
			defer func() { _ = os.Unsetenv("PREDICTSCORE_ADDR") }()

			cfg, err := config.Load(context.Background())

			convey.Convey("Then configuration loading should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the model artifact is missing", func() {
			svc := service.New(
				service.WithLogger(logger.NewNop()),
				service.WithModelPath("../models/absent.json"),
			)
			err := svc.Start(context.Background())

			convey.Convey("Then the service should refuse to start", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(service.ErrorKind(err), convey.ShouldEqual, service.KindModelUnavailable)
				convey.So(svc.Ready(), convey.ShouldBeFalse)
			})
		})
	})
}
