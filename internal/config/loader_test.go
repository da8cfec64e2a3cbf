package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/astriel/siderea/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"SIDEREA_CONFIG",
	"SIDEREA_ADDR",
	"SIDEREA_LOG_LEVEL",
	"SIDEREA_QUEUE_SIZE",
	"SIDEREA_WORKER_COUNT",
	"SIDEREA_DEDUPE_SIZE",
	"SIDEREA_STORE_SHARD_COUNT",
	"SIDEREA_STORE_MAX_RECORDS",
	"SIDEREA_MAX_KEY_ASPECTS",
	"SIDEREA_RULERSHIP_MODE",
	"SIDEREA_EPHEMERIS_BASE_URL",
	"SIDEREA_EPHEMERIS_TIMEOUT_MS",
}

func clearConfigEnvVars() {
	for _, key := range configEnvVars {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "siderea-*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	_ = f.Close()
	return f.Name()
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it loads successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.MaxKeyAspects, convey.ShouldEqual, 6)
				convey.So(cfg.RulershipMode, convey.ShouldEqual, "classical")
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("SIDEREA_ADDR", ":8080")
			_ = os.Setenv("SIDEREA_MAX_KEY_ASPECTS", "4")
			_ = os.Setenv("SIDEREA_RULERSHIP_MODE", "modern")
			_ = os.Setenv("SIDEREA_EPHEMERIS_BASE_URL", "http://ephemeris.internal:9100")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxKeyAspects, convey.ShouldEqual, 4)
				convey.So(cfg.RulershipMode, convey.ShouldEqual, "modern")
				convey.So(cfg.EphemerisBaseURL, convey.ShouldEqual, "http://ephemeris.internal:9100")
			})
		})

		convey.Convey("When a YAML file is provided", func() {
			yamlContent := `
addr: ":9090"
worker_count: 6
max_key_aspects: 8
ephemeris_timeout_ms: 2500
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("SIDEREA_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 6)
				convey.So(cfg.MaxKeyAspects, convey.ShouldEqual, 8)
				convey.So(cfg.EphemerisTimeoutMS, convey.ShouldEqual, 2500)
			})
		})

		convey.Convey("When a file and env vars both set a field", func() {
			tmpFile := createTempConfigFile(t, "addr: \":9090\"\n")
			_ = os.Setenv("SIDEREA_CONFIG", tmpFile)
			_ = os.Setenv("SIDEREA_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the env var wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})

		convey.Convey("When a field is driven invalid", func() {
			_ = os.Setenv("SIDEREA_QUEUE_SIZE", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
