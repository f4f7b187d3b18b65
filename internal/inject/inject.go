// Package inject builds the service object graph.
package inject

import (
	"fmt"
	"net/http"

	"github.com/samber/do"

	"imagegw/internal/catalog"
	"imagegw/internal/http/handlers"
	"imagegw/internal/http/httpapi"
	"imagegw/internal/imagegen"
	"imagegw/internal/infra"
	"imagegw/internal/metrics"
	"imagegw/internal/providers/workersai"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "imagegw"

// Setup registers every service lazily. Callers resolve what they need with
// do.MustInvoke; the HTTP entrypoint asks for *infra.HTTPServer.
func Setup(cfg *infra.Config, logger infra.Logger) *do.Injector {
	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug().Msg(fmt.Sprintf(format, args...))
		},
	})

	do.ProvideValue[*infra.Config](injector, cfg)
	do.ProvideValue[infra.Logger](injector, logger)
	do.ProvideValue[*catalog.Registry](injector, catalog.Default())
	do.ProvideValue[*metrics.Collector](injector, metrics.NewCollector(MetricsNamespace))

	do.Provide[imagegen.Runner](injector, func(i *do.Injector) (imagegen.Runner, error) {
		cfg := do.MustInvoke[*infra.Config](i)
		logger := do.MustInvoke[infra.Logger](i)
		client := workersai.NewClient(workersai.Options{
			AccountID:      cfg.CloudflareAccountID,
			APIToken:       cfg.CloudflareAPIToken,
			BaseURL:        cfg.WorkersAIBaseURL,
			Logger:         &logger,
			RequestTimeout: cfg.ProviderTimeout,
		})
		if !client.HasCredentials() {
			return nil, workersai.ErrMissingCredentials
		}
		return client, nil
	})
	do.Provide[*imagegen.Dispatcher](injector, func(i *do.Injector) (*imagegen.Dispatcher, error) {
		cfg := do.MustInvoke[*infra.Config](i)
		logger := do.MustInvoke[infra.Logger](i)
		runner, err := do.Invoke[imagegen.Runner](i)
		if err != nil {
			return nil, err
		}
		return imagegen.NewDispatcher(runner, imagegen.DispatcherOptions{
			Concurrency: cfg.DispatchConcurrency,
			Timeout:     cfg.ProviderTimeout,
			Logger:      &logger,
			Observer:    do.MustInvoke[*metrics.Collector](i),
		}), nil
	})
	do.Provide[*imagegen.Generator](injector, func(i *do.Injector) (*imagegen.Generator, error) {
		dispatcher, err := do.Invoke[*imagegen.Dispatcher](i)
		if err != nil {
			return nil, err
		}
		return imagegen.NewGenerator(dispatcher), nil
	})
	do.Provide[*imagegen.Normalizer](injector, func(i *do.Injector) (*imagegen.Normalizer, error) {
		cfg := do.MustInvoke[*infra.Config](i)
		registry := do.MustInvoke[*catalog.Registry](i)
		if _, ok := registry.Lookup(cfg.DefaultModel); !ok {
			return nil, fmt.Errorf("default model %q is not in the catalog", cfg.DefaultModel)
		}
		return imagegen.NewNormalizer(registry, cfg.DefaultModel, imagegen.RandomSeed), nil
	})
	do.Provide[*handlers.App](injector, func(i *do.Injector) (*handlers.App, error) {
		normalizer, err := do.Invoke[*imagegen.Normalizer](i)
		if err != nil {
			return nil, err
		}
		generator, err := do.Invoke[*imagegen.Generator](i)
		if err != nil {
			return nil, err
		}
		return handlers.NewApp(
			do.MustInvoke[*catalog.Registry](i),
			normalizer,
			generator,
			do.MustInvoke[*metrics.Collector](i),
		), nil
	})
	do.Provide[http.Handler](injector, func(i *do.Injector) (http.Handler, error) {
		cfg := do.MustInvoke[*infra.Config](i)
		collector := do.MustInvoke[*metrics.Collector](i)
		app, err := do.Invoke[*handlers.App](i)
		if err != nil {
			return nil, err
		}
		opts := httpapi.Options{
			Logger:            do.MustInvoke[infra.Logger](i),
			Recorder:          collector,
			APIKeys:           cfg.APIKeys,
			CORSOrigins:       cfg.CORSAllowedOrigins,
			RateLimitPerMin:   cfg.RateLimitPerMin,
			TrustProxyHeaders: cfg.TrustProxyHeaders,
		}
		if cfg.MetricsEnabled {
			opts.Metrics = collector.Handler()
		}
		return httpapi.NewRouter(app, opts), nil
	})
	do.Provide[*infra.HTTPServer](injector, func(i *do.Injector) (*infra.HTTPServer, error) {
		handler, err := do.Invoke[http.Handler](i)
		if err != nil {
			return nil, err
		}
		return infra.NewHTTPServer(do.MustInvoke[*infra.Config](i), handler), nil
	})

	return injector
}
