package nutritionagent

type SessionConfig struct {
	MaxIterations         int     `env:"MAX_ITERATIONS,default=10"`
	SessionTimeoutSeconds float64 `env:"SESSION_TIMEOUT_SECONDS,default=60"`
	PerCallTimeoutSeconds float64 `env:"PER_CALL_TIMEOUT_SECONDS,default=10"`
	MatchConfidenceFloor  float64 `env:"MATCH_CONFIDENCE_FLOOR,default=0.4"`
}

type StoreConfig struct {
	ArtifactsStorePath string `env:"ARTIFACTS_STORE_PATH,default=artifacts/nutrition.json"`
}
