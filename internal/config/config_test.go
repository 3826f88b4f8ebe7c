package config

import (
	"benritz/bonds/internal/types"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{ENV_BUCKET_NAME, ENV_BUCKET_PREFIX, ENV_DEFAULT_CURRENCY, ENV_LOG_LEVEL, ENV_MAX_ITERATIONS, ENV_WORKERS} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DefaultCurrency != types.EUR || cfg.LogLevel != logrus.InfoLevel {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.MaxIterations != types.DefaultMaxIterations || cfg.Workers != defaultWorkers {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := cfg.RequireBucket(); err == nil {
		t.Error("RequireBucket succeeded without a bucket")
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv(ENV_BUCKET_NAME, "reports")
	t.Setenv(ENV_BUCKET_PREFIX, "bonds")
	t.Setenv(ENV_DEFAULT_CURRENCY, "gbp")
	t.Setenv(ENV_LOG_LEVEL, "debug")
	t.Setenv(ENV_MAX_ITERATIONS, "50")
	t.Setenv(ENV_WORKERS, "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Config{
		BucketName:      "reports",
		BucketPrefix:    "bonds",
		DefaultCurrency: types.GBP,
		LogLevel:        logrus.DebugLevel,
		MaxIterations:   50,
		Workers:         8,
	}
	if *cfg != want {
		t.Errorf("cfg = %+v, want %+v", *cfg, want)
	}
	if cfg.NewLogger().GetLevel() != logrus.DebugLevel {
		t.Error("logger level not applied")
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		ENV_DEFAULT_CURRENCY: "JPY",
		ENV_LOG_LEVEL:        "loud",
		ENV_MAX_ITERATIONS:   "0",
		ENV_WORKERS:          "many",
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := Load(); err == nil {
				t.Errorf("Load with %s=%q succeeded", k, v)
			}
		})
	}
}
