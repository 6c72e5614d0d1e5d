package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"CoinTicker/internal/collector"
	"CoinTicker/internal/config"
	"CoinTicker/internal/notifier"
	"CoinTicker/internal/publisher"
	"CoinTicker/internal/recorder"
	"CoinTicker/internal/render"
	"CoinTicker/internal/scheduler"
	"CoinTicker/internal/window"
)

const chartGap = 10 * time.Minute

func main() {
	mode := flag.String("mode", "", "render mode: text or chart (overrides config)")
	mock := flag.Bool("mock", false, "use generated prices instead of the CoinGecko API")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	level, err := cfg.Level()
	if err != nil {
		logrus.Warnf("ignoring log level: %v", err)
	}
	logrus.SetLevel(level)
	if *mode != "" {
		cfg.Render.Mode = *mode
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("config validation: %v", err)
	}
	interval, err := scheduler.Interval(cfg.Schedule.Spec)
	if err != nil {
		logrus.Fatalf("config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if *mock {
		fetcher = &collector.MockFetcher{Symbol: cfg.DataSource.Symbol}
	} else {
		fetcher = collector.NewCoinGeckoFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey,
			cfg.DataSource.CoinID, cfg.DataSource.Symbol, cfg.Proxy, cfg.DataSource.Timeout)
	}
	logrus.Infof("data source: %s (%s)", fetcher.Name(), cfg.DataSource.CoinID)

	// Init recorder
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logrus.Warnf("init sqlite recorder failed, using noop: %v", err)
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init renderers
	var renderers []render.Renderer
	var chart *render.ChartRenderer
	switch cfg.Render.Mode {
	case config.ModeChart:
		chart = render.NewChartRenderer(cfg.Render.Capacity, cfg.Render.Padding, cfg.Render.Average)
		history, err := rec.Recent(cfg.DataSource.Symbol, chart.Capacity())
		if err != nil {
			logrus.Warnf("load chart history: %v", err)
		}
		chart.Warm(history)
		renderers = append(renderers, chart)
	default:
		renderers = append(renderers, render.NewTextRenderer(os.Stdout))
	}

	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		renderers = append(renderers, notifier.NewRenderer(tn))
	}

	if cfg.Redis.Addr != "" {
		rp, err := publisher.NewRedisPublisher(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix, 3*interval)
		if err != nil {
			logrus.Warnf("init redis publisher failed, skipping: %v", err)
		} else {
			renderers = append(renderers, rp)
			defer rp.Close()
		}
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, fetcher, rec, renderers...)
	sched.RenderTimeout = interval / 2
	if err := sched.Register(cfg.Schedule.Spec); err != nil {
		logrus.Fatalf("register tick: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logrus.Info("telegram polling started")
	}

	logrus.Infof("%s price fetcher started (%s, %s). Press Ctrl+C to exit", cfg.DataSource.Symbol, cfg.Render.Mode, cfg.Schedule.Spec)
	go sched.RunNow()

	if chart != nil {
		win, err := window.New(ctx, chart, cfg.DataSource.Symbol+" / USD", chartGap)
		if err != nil {
			logrus.Errorf("open chart window: %v", err)
			return
		}
		if err := win.Run(cfg.Render.Width, cfg.Render.Height); err != nil {
			logrus.Errorf("chart window: %v", err)
		}
		stop()
		logrus.Info("chart window closed")
		return
	}

	<-ctx.Done()
	logrus.Info("program terminated by user")
}
