package app

import (
	"fmt"
	"time"

	"vane/internal/calibration"
	vcfg "vane/internal/config"
	"vane/internal/gateway/binance"
	"vane/internal/logger"
	"vane/internal/market"
	"vane/internal/pipeline"
	"vane/internal/pipeline/middlewares"
	"vane/internal/store/runlog"
	vanehttp "vane/internal/transport/http"
)

func buildApp(cfg *vcfg.Config) (*App, error) {
	cal, err := buildCalibration(cfg)
	if err != nil {
		return nil, err
	}
	store, err := runlog.New(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open run log store failed: %w", err)
	}
	source, err := buildSource(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	svc, err := NewService(ServiceConfig{
		Source:      source,
		Pipeline:    buildPipeline(cfg.Market.Interval),
		Calibration: cal,
		Store:       store,
		MaxPosition: cfg.Decision.MaxPositionSize,
		Interval:    cfg.Market.Interval,
		HistoryBars: cfg.Market.HistoryBars,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	router := vanehttp.NewRouter(svc, store, cal)
	server, err := vanehttp.NewServer(cfg.App.HTTPAddr, router)
	if err != nil {
		store.Close()
		return nil, err
	}
	return &App{
		cfg:    cfg,
		svc:    svc,
		store:  store,
		server: server,
		cal:    cal,
	}, nil
}

func buildCalibration(cfg *vcfg.Config) (*calibration.Registry, error) {
	path := cfg.Index.CalibrationPath
	reg, err := calibration.NewRegistry(path)
	if err != nil {
		logger.Warnf("[app] calibration file unavailable (%v), using built-in defaults", err)
		return calibration.Default(), nil
	}
	reg.Subscribe(func(snap calibration.Snapshot) {
		logger.Infof("[app] calibration updated to v%d", snap.Version)
	})
	return reg, nil
}

func buildSource(cfg *vcfg.Config) (market.Source, error) {
	active := cfg.Market.ResolveActiveSource()
	src, err := binance.New(binance.Config{
		RESTBaseURL:  active.RESTBaseURL,
		HTTPTimeout:  15 * time.Second,
		ProxyEnabled: active.Proxy.Enabled,
		RESTProxyURL: active.Proxy.RESTURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init market source %s failed: %w", active.Name, err)
	}
	return src, nil
}

func buildPipeline(interval string) *pipeline.Pipeline {
	const stageTimeout = 20 * time.Second
	return pipeline.New("index",
		middlewares.NewPriceMiddleware(middlewares.PriceConfig{
			Interval: interval,
			Critical: true,
			Timeout:  stageTimeout,
		}),
		middlewares.NewVolatilityMiddleware(middlewares.VolatilityConfig{
			Interval: interval,
			Timeout:  stageTimeout,
		}),
		middlewares.NewVolumeMiddleware(middlewares.VolumeConfig{
			Interval: interval,
			Timeout:  stageTimeout,
		}),
		middlewares.NewImpulseMiddleware(middlewares.ImpulseConfig{
			Interval: interval,
			Timeout:  stageTimeout,
		}),
		middlewares.NewTechnicalMiddleware(middlewares.TechnicalConfig{
			Interval: interval,
			Timeout:  stageTimeout,
		}),
	)
}
