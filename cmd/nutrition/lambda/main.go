package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"nutritionagent"
	"nutritionagent/nutrition"
	"nutritionagent/session"
	"nutritionagent/tools"
	"nutritionagent/tools/storage"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"
)

type Params struct {
	Task        string               `json:"task"`
	Ingredients []session.Ingredient `json:"ingredients"`
}

type Results struct {
	Output     any `json:"output"`
	Iterations int `json:"iterations"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var sessionConfig nutritionagent.SessionConfig
		if err := envdecode.Decode(&sessionConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		if len(params.Ingredients) == 0 {
			return Results{}, fmt.Errorf("no ingredients provided")
		}

		// S3 config from env
		s3Bucket := os.Getenv("ARTIFACTS_S3_BUCKET")
		storeKey := os.Getenv("ARTIFACTS_STORE_S3_KEY")
		if s3Bucket == "" || storeKey == "" {
			return Results{}, fmt.Errorf("missing S3 config: ARTIFACTS_S3_BUCKET and ARTIFACTS_STORE_S3_KEY must be set")
		}

		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client := s3.NewFromConfig(awsCfg)

		state := storage.NewS3StoreState(s3Client, s3Bucket, storeKey)
		store, err := nutrition.NewStore(ctx, state)
		if err != nil {
			slog.Error("SETUP: Failed to load nutrition store from S3", "error", err)
			return Results{}, err
		}
		slog.Info("SETUP: Nutrition store loaded from S3", "records", store.Count())

		registry, err := tools.NewRegistry(store, sessionConfig.MatchConfidenceFloor)
		if err != nil {
			slog.Error("SETUP: Failed to create tool registry", "error", err)
			return Results{}, err
		}

		sessionLogger := nutritionagent.NewStdoutSessionLogger()

		task := params.Task
		if task == "" {
			task = "Compute the aggregate nutrition profile for the given ingredients."
		}

		reasoner := session.NewScriptedReasoner(params.Ingredients)
		sess := session.New(reasoner, registry, sessionConfig, sessionLogger)

		result, err := sess.Run(ctx, task)
		if err != nil {
			slog.Error("RESULT: Error handling task", "error", err, "reason", result.Reason)
			return Results{}, err
		}

		return Results{Output: result.FinalAnswer, Iterations: result.Iterations}, nil
	}

	lambda.Start(fn)
}
