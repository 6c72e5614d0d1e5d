package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"CoinTicker/internal/collector"
	"CoinTicker/internal/model"
	"CoinTicker/internal/notifier"
	"CoinTicker/internal/recorder"
	"CoinTicker/internal/render"
)

// DefaultRenderTimeout bounds how long a tick waits for its renderers.
const DefaultRenderTimeout = 20 * time.Second

var specParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Interval returns the gap between two consecutive runs of spec.
func Interval(spec string) (time.Duration, error) {
	sched, err := specParser.Parse(spec)
	if err != nil {
		return 0, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	first := sched.Next(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return sched.Next(first).Sub(first), nil
}

// Scheduler drives the fetch-and-render tick.
type Scheduler struct {
	Cron      *cron.Cron
	Fetcher   collector.Fetcher
	Recorder  recorder.Recorder
	Renderers []render.Renderer
	Ctx       context.Context

	// RenderTimeout bounds the render phase of a tick. A renderer still
	// busy from an earlier tick is skipped rather than queued.
	RenderTimeout time.Duration

	busy   []atomic.Bool
	ticks  atomic.Int64
	run    sync.Mutex
	mu     sync.Mutex
	latest *model.PriceSample
}

// NewScheduler creates a Scheduler. Overlapping ticks are skipped, never queued.
func NewScheduler(ctx context.Context, f collector.Fetcher, rec recorder.Recorder, renderers ...render.Renderer) *Scheduler {
	logger := cron.PrintfLogger(logrus.StandardLogger())
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(logger))),
		Fetcher:   f,
		Recorder:  rec,
		Renderers: renderers,
		Ctx:       ctx,

		RenderTimeout: DefaultRenderTimeout,
		busy:          make([]atomic.Bool, len(renderers)),
	}
}

// Register adds the tick under the given cron spec (seconds field or descriptor, e.g. "@every 60s").
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { _ = s.Tick(s.Ctx) }); err != nil {
		return fmt.Errorf("register tick %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logrus.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logrus.Info("scheduler stopped")
}

// RunNow executes one tick immediately.
func (s *Scheduler) RunNow() {
	_ = s.Tick(s.Ctx)
}

// Tick fetches one sample, records it and hands it to every renderer.
// A failed fetch skips the tick and is returned; recorder and renderer errors are only logged.
func (s *Scheduler) Tick(ctx context.Context) error {
	s.run.Lock()
	defer s.run.Unlock()

	n := s.ticks.Add(1)
	log := logrus.WithFields(logrus.Fields{"tick": n, "fetcher": s.Fetcher.Name()})

	sample, err := s.Fetcher.Fetch(ctx)
	if err != nil {
		log.Warnf("tick skipped: %v", err)
		return err
	}

	s.mu.Lock()
	s.latest = &sample
	s.mu.Unlock()

	if err := s.Recorder.RecordSample(&sample); err != nil {
		log.Errorf("record sample: %v", err)
	}
	s.render(ctx, log, sample)
	log.Debugf("tick done: %s $%.4f", sample.Symbol, sample.PriceUSD)
	return nil
}

// render hands sample to every renderer concurrently and returns once all of
// them finish or RenderTimeout expires, whichever comes first.
func (s *Scheduler) render(ctx context.Context, log *logrus.Entry, sample model.PriceSample) {
	rctx, cancel := context.WithTimeout(ctx, s.RenderTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for i, r := range s.Renderers {
		if !s.busy[i].CompareAndSwap(false, true) {
			log.Warnf("render %s skipped: previous render still running", r.Name())
			continue
		}
		wg.Add(1)
		go func(i int, r render.Renderer) {
			defer wg.Done()
			defer s.busy[i].Store(false)
			if err := r.Render(rctx, sample); err != nil {
				log.Errorf("render %s: %v", r.Name(), err)
			}
		}(i, r)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-rctx.Done():
		log.Warnf("render phase cut short after %v: %v", s.RenderTimeout, rctx.Err())
	}
}

// Ticks reports how many ticks have run, including skipped ones.
func (s *Scheduler) Ticks() int64 { return s.ticks.Load() }

// Latest returns the last successfully fetched sample.
func (s *Scheduler) Latest() (model.PriceSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return model.PriceSample{}, false
	}
	return *s.latest, true
}

// HandleCommand processes a chat command and returns a reply.
// Group chats address commands as "/price@BotName".
func (s *Scheduler) HandleCommand(command string) string {
	command, _, _ = strings.Cut(strings.TrimSpace(command), "@")
	switch command {
	case "/price", "/start":
		sample, ok := s.Latest()
		if !ok {
			return "No price fetched yet."
		}
		return notifier.FormatSample(sample)
	default:
		return notifier.FormatHelp()
	}
}
