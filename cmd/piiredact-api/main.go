// @title         piiredact API
// @version       1.0
// @description   Rule based PII detection and redaction for Polish text

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"piiredact/internal/core/pipeline"
	"piiredact/internal/core/rulepack"
	"piiredact/internal/platform/config"
	"piiredact/internal/platform/logger"
	phttp "piiredact/internal/platform/net/http"

	"piiredact/internal/services/api"
)

func main() {
	_ = config.LoadDotenv(".env")
	logger.Init(logger.FromEnv())
	defer logger.Flush(2 * time.Second)
	l := logger.Get()

	// service-scoped config for HTTP (PIIREDACT_API_*)
	root := config.New()
	apiCfg := root.Prefix("PIIREDACT_")

	pack, err := rulepack.Load()
	if err != nil {
		l.Panic().Err(err).Msg("rulepack.Load failed")
	}
	p, err := pipeline.New(pack, pipeline.FromConfig(root))
	if err != nil {
		l.Panic().Err(err).Msg("pipeline.New failed")
	}

	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         apiCfg,
		Pipeline:       p,
		Service:        "piiredact-api",
		EnableSwagger:  apiCfg.MayBool("API_SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("API_PPROF", false),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info().Str("addr", srv.Addr()).Int("rule_pack", pack.Version).Msg("serving")
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}
}
