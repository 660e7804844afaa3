package config_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/merito/gigscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	vars := []string{
		"GIGSCORE_CONFIG",
		"GIGSCORE_ADDR",
		"GIGSCORE_LOG_LEVEL",
		"GIGSCORE_QUEUE_SIZE",
		"GIGSCORE_WORKER_COUNT",
		"GIGSCORE_SHARD_COUNT",
		"GIGSCORE_SPAM_PENALTY_ENABLED",
		"GIGSCORE_SPAM_THRESHOLD",
		"GIGSCORE_REPORT_SCALE",
		"GIGSCORE_LAMBDA_R",
	}
	for _, v := range vars {
		_ = os.Unsetenv(v)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.SpamPenaltyEnabled, convey.ShouldBeFalse)
				convey.So(cfg.SpamThreshold, convey.ShouldEqual, 0.7)
				convey.So(cfg.ReportScale, convey.ShouldEqual, 10)
				convey.So(cfg.LambdaR, convey.ShouldEqual, 0.7)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("GIGSCORE_ADDR", ":8080")
			_ = os.Setenv("GIGSCORE_QUEUE_SIZE", "500")
			_ = os.Setenv("GIGSCORE_WORKER_COUNT", "4")
			_ = os.Setenv("GIGSCORE_SPAM_PENALTY_ENABLED", "true")
			_ = os.Setenv("GIGSCORE_REPORT_SCALE", "1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.SpamPenaltyEnabled, convey.ShouldBeTrue)
				convey.So(cfg.ReportScale, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			content := "addr: \":7070\"\nlog_level: debug\nspam_threshold: 0.5\n"
			convey.So(os.WriteFile(path, []byte(content), 0o600), convey.ShouldBeNil)

			_ = os.Setenv("GIGSCORE_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values layer over the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.SpamThreshold, convey.ShouldEqual, 0.5)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When env vars layer over a file", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			convey.So(os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600), convey.ShouldBeNil)

			_ = os.Setenv("GIGSCORE_CONFIG", path)
			_ = os.Setenv("GIGSCORE_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the env var wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("GIGSCORE_CONFIG", "/nonexistent/config.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then the load sentinel is returned", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
			})
		})

		convey.Convey("When a value fails validation", func() {
			_ = os.Setenv("GIGSCORE_SPAM_THRESHOLD", "3.5")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then the invalid config sentinel is returned", func() {
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}
