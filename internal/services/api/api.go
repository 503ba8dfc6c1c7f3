// Package api composes the HTTP API out of modkit modules
package api

import (
	"time"

	"piiredact/internal/core/classify"
	"piiredact/internal/core/pipeline"
	"piiredact/internal/platform/config"
	"piiredact/internal/platform/logger"
	phttp "piiredact/internal/platform/net/http"

	"piiredact/internal/modkit"
	"piiredact/internal/modkit/httpkit"
	"piiredact/internal/modkit/swaggerkit"

	metahttp "piiredact/internal/services/api/meta/http"
	metamod "piiredact/internal/services/api/meta/module"
	redactmod "piiredact/internal/services/api/redact/module"
	redactsvc "piiredact/internal/services/api/redact/service"
)

// Options are the API options
type Options struct {
	// Config is already scoped to the service prefix
	Config     config.Conf
	Pipeline   *pipeline.Pipeline
	Classifier classify.Classifier
	Service    string

	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Log:        logger.Named("api"),
		Cfg:        opt.Config,
		Pipeline:   opt.Pipeline,
		Classifier: opt.Classifier,
		Service:    opt.Service,
		StartedAt:  time.Now(),
	}
	if deps.Service == "" {
		deps.Service = "piiredact-api"
	}

	redact := redactmod.New(deps)
	svc := modkit.MustPortsOf[redactsvc.Service](redact)

	mods := []modkit.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{
			Checks: map[string]metahttp.Checker{"pipeline": svc},
		})),
		redact,
	}

	if opt.EnableSwagger {
		swaggerkit.Mount(r)
	}
	if opt.EnableProfiler {
		phttp.MountProfiler(r, "/debug")
	}

	stack := httpkit.CommonStack(httpkit.StackFromConfig(opt.Config))
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			deps.Log.Debug().Str("module", m.Name()).Msg("mounting module")
			m.MountRoutes(api)
		}
	})
}
