package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/rostersim/internal/config"
	"github.com/okian/rostersim/internal/domain/sampler"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ROSTERSIM_ADDR", ":8080")
			_ = os.Setenv("ROSTERSIM_MINUTES_THRESHOLD", "250.5")
			_ = os.Setenv("ROSTERSIM_ITERATIONS", "5001")
			_ = os.Setenv("ROSTERSIM_VERBOSE", "true")
			_ = os.Setenv("ROSTERSIM_SEED", "77")
			_ = os.Setenv("ROSTERSIM_STAT", "points")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MinutesThreshold, convey.ShouldEqual, 250.5)
				convey.So(cfg.Iterations, convey.ShouldEqual, 5001)
				convey.So(cfg.Verbose, convey.ShouldBeTrue)
				convey.So(cfg.Seed, convey.ShouldEqual, 77)
				convey.So(cfg.Stat, convey.ShouldEqual, "points")
				convey.So(cfg.RosterSize, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# simulation
addr: ""
epsilon: 0.5
roster_size: 5
max_trials: 1000
draw_range: 10
appearances_table:
  - upper: 5
    games: 1
  - upper: 10
    games: 2
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ROSTERSIM_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, "")
				convey.So(cfg.Epsilon, convey.ShouldEqual, 0.5)
				convey.So(cfg.RosterSize, convey.ShouldEqual, 5)
				convey.So(cfg.MaxTrials, convey.ShouldEqual, 1000)
				convey.So(cfg.Table(), convey.ShouldResemble, sampler.AppearancesTable{
					Range:   10,
					Buckets: []sampler.Bucket{{Upper: 5, Games: 1}, {Upper: 10, Games: 2}},
				})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("iterations: 101\ntop_n: 3\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ROSTERSIM_CONFIG", tmpFile)
			_ = os.Setenv("ROSTERSIM_TOP_N", "7")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars take precedence over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Iterations, convey.ShouldEqual, 101)
				convey.So(cfg.TopN, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("ROSTERSIM_CONFIG", "/nonexistent/rostersim.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail to load", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a loaded value is invalid", func() {
			_ = os.Setenv("ROSTERSIM_EPSILON", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "epsilon")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"ROSTERSIM_CONFIG",
		"ROSTERSIM_ADDR",
		"ROSTERSIM_MINUTES_THRESHOLD",
		"ROSTERSIM_ITERATIONS",
		"ROSTERSIM_VERBOSE",
		"ROSTERSIM_SEED",
		"ROSTERSIM_STAT",
		"ROSTERSIM_TOP_N",
		"ROSTERSIM_EPSILON",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "rostersim-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
