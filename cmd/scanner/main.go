package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"TickerScout/internal/alert"
	"TickerScout/internal/classify"
	"TickerScout/internal/cleaner"
	"TickerScout/internal/config"
	"TickerScout/internal/indicator"
	"TickerScout/internal/logger"
	"TickerScout/internal/metadata"
	"TickerScout/internal/metrics"
	"TickerScout/internal/pricecache"
	"TickerScout/internal/provider"
	"TickerScout/internal/recorder"
	"TickerScout/internal/scanner"
	"TickerScout/internal/scheduler"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.New(false).Errorf("load config: %v", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Debug)
	log.Infof("TickerScout starting...")
	if err := cfg.Validate(); err != nil {
		log.Errorf("config validation: %v", err)
		os.Exit(1)
	}

	// Data source
	var market interface {
		provider.MarketData
		provider.Fundamentals
	}
	if cfg.DataSource.UseMock {
		market = &provider.Mock{Price: 100}
		log.Warnf("using mock data source")
	} else {
		market = provider.NewRESTProvider(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
		log.Infof("data source: %s", cfg.DataSource.BaseURL)
	}

	// Metrics
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		log.Infof("metrics listening on %s", cfg.Metrics.ListenAddr)
		if err := http.ListenAndServe(cfg.Metrics.ListenAddr, mux); err != nil {
			log.Errorf("metrics server: %v", err)
		}
	}()

	// Price history path: provider -> cleaner -> cache
	cl := cleaner.New(market, log)
	prices := pricecache.New(market, cl, log)

	// Metadata store + service
	var meta *metadata.Service
	store, err := metadata.OpenStore(cfg.Database.MetadataPath)
	if err != nil {
		log.Warnf("open metadata store failed, metadata disabled: %v", err)
	} else {
		defer store.Close()
		meta, err = metadata.NewService(market, market, store, log)
		if err != nil {
			log.Warnf("init metadata service failed, metadata disabled: %v", err)
			meta = nil
		}
	}

	// Classification chain from configured triggers
	var classifiers []classify.Classifier
	if cfg.TriggerEnabled("rsi") {
		ob, osld := cfg.RSITrigger()
		classifiers = append(classifiers, classify.NewRSIClassifier(ob, osld))
	}
	if cfg.TriggerEnabled("creeper") {
		cc, err := classify.NewCreeperClassifier(cfg.Creeper)
		if err != nil {
			log.Errorf("creeper classifier: %v", err)
			os.Exit(1)
		}
		classifiers = append(classifiers, cc)
	}
	if len(classifiers) == 0 {
		log.Warnf("no triggers enabled, scans will never tag")
	}
	engine := classify.NewEngine(log, classifiers...)

	// Alert sink
	var sink alert.Sink
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		sink = alert.NewTelegramSink(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		log.Infof("alerts: telegram")
	} else {
		sink = alert.NewConsoleSink(log)
		log.Infof("alerts: console")
	}
	alerts := alert.NewManager(sink, log)

	// Recorder
	var rec recorder.Recorder
	if cfg.Database.RecorderPath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.RecorderPath, log)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	method, err := indicator.ParseMethod(cfg.RSISmoothingMethod)
	if err != nil {
		log.Errorf("rsi smoothing method: %v", err)
		os.Exit(1)
	}
	pipe, err := scanner.NewPipeline(prices, meta, market, engine, method, cfg.IndicatorPeriod, log, m)
	if err != nil {
		log.Errorf("init pipeline: %v", err)
		os.Exit(1)
	}

	ctrl, err := scanner.NewController(scanner.ControllerConfig{
		Pipeline:      pipe,
		Alerts:        alerts,
		Recorder:      rec,
		Universe:      market,
		Symbols:       cfg.Symbols,
		MaxConcurrent: cfg.MaxConcurrentScans,
		Progress:      func(pct int) { log.Infof("scan progress: %d%%", pct) },
		Log:           log,
		Metrics:       m,
	})
	if err != nil {
		log.Errorf("init controller: %v", err)
		os.Exit(1)
	}

	sched := scheduler.New(ctrl, log)
	if err := sched.Register(cfg.ScanInterval.Std()); err != nil {
		log.Errorf("register scan schedule: %v", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Infof("RUN_ON_START enabled, scanning now")
		sched.RunNow()
	}

	log.Infof("TickerScout is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Infof("shutdown signal received, stopping...")
	sched.Stop()
	ctrl.Stop()
	log.Infof("TickerScout stopped")
}
