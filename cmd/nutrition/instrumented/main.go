package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/joeshaw/envdecode"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"nutritionagent"
	"nutritionagent/nutrition"
	"nutritionagent/session"
	"nutritionagent/slack"
	"nutritionagent/tools"
	"nutritionagent/tools/storage"
)

const defaultIngredients = `[{"item": "canned chickpeas", "qty": "200g"}, {"item": "tomato", "qty": "1"}]`

func main() {
	ctx := context.Background()

	var sessionConfig nutritionagent.SessionConfig
	if err := envdecode.Decode(&sessionConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var storeConfig nutritionagent.StoreConfig
	if err := envdecode.Decode(&storeConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	state := storage.NewFileStoreState(storeConfig.ArtifactsStorePath)
	store, err := nutrition.NewStore(ctx, state)
	if err != nil {
		slog.Error("SETUP: Failed to load nutrition store", "error", err)
		return
	}
	slog.Info("SETUP: Nutrition store loaded", "records", store.Count())

	registry, err := tools.NewRegistry(store, sessionConfig.MatchConfidenceFloor)
	if err != nil {
		slog.Error("SETUP: Failed to create tool registry", "error", err)
		return
	}

	ingredients, err := parseIngredients(argOr(1, defaultIngredients))
	if err != nil {
		slog.Error("SETUP: Failed to parse ingredients", "error", err)
		return
	}

	logger, cleanup, err := newSessionLogger("instrumented")
	if err != nil {
		slog.Error("SETUP: Failed to create session logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("SETUP: Failed to flush session log", "error", err)
		}
	}()

	tracerProvider, meterProvider, otelShutdown, err := nutritionagent.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	tracer := tracerProvider.Tracer(nutritionagent.TracerNameScripted)
	meter := meterProvider.Meter(nutritionagent.TracerNameScripted)

	ctx, span := tracer.Start(ctx, nutritionagent.TracerNameScripted, trace.WithAttributes(
		attribute.Int("session.max_iterations", sessionConfig.MaxIterations),
		attribute.Float64("session.timeout_seconds", sessionConfig.SessionTimeoutSeconds),
		attribute.Float64("session.confidence_floor", sessionConfig.MatchConfidenceFloor),
		attribute.Int("session.ingredient_count", len(ingredients)),
	))
	defer span.End()

	reasoner := session.NewScriptedReasoner(ingredients)
	sess := session.NewInstrumentedSession(reasoner, registry, sessionConfig, logger, tracer, meter)

	result, err := sess.Run(ctx, "Compute the aggregate nutrition profile for the given ingredients.")
	if err != nil {
		slog.Error("RESULT: Session aborted", "error", err, "reason", result.Reason, "has_partial", result.Partial != nil)
		return
	}

	var report nutritionagent.NutritionReport
	if err := json.Unmarshal([]byte(result.FinalAnswer), &report); err != nil {
		slog.Error("RESULT: Failed to decode final report", "error", err)
		return
	}

	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := new(bytes.Buffer)
		body.ReadFrom(r.Body) // nolint: errcheck
		slog.Info("FINAL: Received request",
			"method", r.Method,
			"path", r.URL.Path,
			"header", r.Header,
			"body", body.String(),
		)
		w.WriteHeader(http.StatusOK)
	}))
	defer testServer.Close()

	slackClient := slack.NewClient(testServer.URL, http.DefaultClient)
	if err := slackClient.PostReport(ctx, "#nutrition", report); err != nil {
		slog.Error("Failed to post result to Slack", "error", err)
	}
}

func parseIngredients(raw string) ([]session.Ingredient, error) {
	var ingredients []session.Ingredient
	if err := json.Unmarshal([]byte(raw), &ingredients); err != nil {
		return nil, fmt.Errorf("ingredients must be a JSON list of {item, qty}: %w", err)
	}
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("ingredients list is empty")
	}
	return ingredients, nil
}

func argOr(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}

func newSessionLogger(label string) (nutritionagent.SessionLogger, func() error, error) {
	logFilePath := nutritionagent.NewSessionLogFilePath(label)
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := nutritionagent.NewFileSessionLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
