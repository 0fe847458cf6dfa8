package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joeshaw/envdecode"

	"nutritionagent"
	"nutritionagent/nutrition"
	"nutritionagent/session"
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

	logger, cleanup, err := newSessionLogger("nutrition")
	if err != nil {
		slog.Error("SETUP: Failed to create session logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("SETUP: Failed to flush session log", "error", err)
		}
	}()

	reasoner := session.NewScriptedReasoner(ingredients)
	sess := session.New(reasoner, registry, sessionConfig, logger)

	result, err := sess.Run(ctx, "Compute the aggregate nutrition profile for the given ingredients.")
	if err != nil {
		slog.Error("FAILURE: Session aborted", "error", err, "reason", result.Reason)
		if result.Partial != nil {
			partial, _ := json.MarshalIndent(result.Partial, "", "  ")
			fmt.Println(string(partial))
		}
		return
	}

	fmt.Println(result.FinalAnswer)
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
