package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/decision"
	"mercator-hq/callisto/pkg/entry"
	"mercator-hq/callisto/pkg/format"
	"mercator-hq/callisto/pkg/intercept"
	"mercator-hq/callisto/pkg/masking"
	"mercator-hq/callisto/pkg/queue"
	"mercator-hq/callisto/pkg/sink"
	"mercator-hq/callisto/pkg/telemetry/metrics"
)

// Pipeline wires the observability components together and owns their
// lifecycle.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger

	resolver    *decision.Resolver
	masker      *masking.Engine
	interceptor *intercept.Interceptor
	queue       *queue.Queue
	consumer    *queue.Consumer
	selector    *format.Selector
	sinks       *sink.Registry
	translators map[string]format.Translator
	collector   *metrics.Collector

	scheduler *cron.Cron
	watcher   *config.FileWatcher

	configPath  string
	registry    *prometheus.Registry
	watchCancel context.CancelFunc

	startOnce sync.Once
	stopOnce  sync.Once
}

// Option customizes pipeline construction.
type Option func(*Pipeline)

// WithLogger sets the pipeline's diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithSink registers a sink under a target name.
func WithSink(target string, s sink.Sink) Option {
	return func(p *Pipeline) { p.sinks.Register(target, s) }
}

// WithTranslator sets the translator applied to entries routed at the
// given target. Targets without one use the identity translator.
func WithTranslator(target string, t format.Translator) Option {
	return func(p *Pipeline) { p.translators[target] = t }
}

// WithPrometheusRegistry registers pipeline metrics on an existing
// registry instead of a fresh one.
func WithPrometheusRegistry(registry *prometheus.Registry) Option {
	return func(p *Pipeline) { p.registry = registry }
}

// WithConfigPath tells the pipeline where its configuration was loaded
// from, enabling the change watcher when telemetry.watch_config is set.
func WithConfigPath(path string) Option {
	return func(p *Pipeline) { p.configPath = path }
}

// New builds a pipeline over a loaded configuration.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pipeline: nil configuration")
	}

	p := &Pipeline{
		cfg:         cfg,
		logger:      slog.Default(),
		translators: make(map[string]format.Translator),
	}
	p.sinks = sink.NewRegistry(sink.NewConsole(nil))

	for _, opt := range opts {
		// Options touching the sink registry need it constructed first,
		// so the loop runs after the defaults above.
		opt(p)
	}

	p.queue = queue.New(cfg.Queue.Capacity)
	p.resolver = decision.NewResolver(cfg)
	p.masker = masking.NewEngine(cfg, p.logger)
	p.selector = format.NewSelector(cfg, p.logger)
	p.interceptor = intercept.New(p.resolver, p.masker, p.queue, p.logger)
	p.consumer = queue.NewConsumer(p.queue, cfg.Queue.BatchSize, cfg.Queue.FlushTimeout, p.processBatch, p.logger)

	if cfg.Telemetry.Metrics.Enabled == nil || *cfg.Telemetry.Metrics.Enabled {
		p.collector = metrics.NewCollector(&cfg.Telemetry.Metrics, p.registry, func() float64 {
			return float64(p.queue.Len())
		})
		p.interceptor.SetDropHook(p.collector.RecordDropped)
		p.interceptor.SetEnqueueHook(p.collector.RecordEnqueued)
		p.masker.SetFailureHook(p.collector.RecordMaskingFailure)
		p.selector.SetFailureHook(p.collector.RecordFormatFailure)
	}

	return p, nil
}

// Interceptor returns the interceptor that wraps service calls.
func (p *Pipeline) Interceptor() *intercept.Interceptor {
	return p.interceptor
}

// Resolver returns the decision resolver, for warm-up registration of
// per-method overrides and exclusions.
func (p *Pipeline) Resolver() *decision.Resolver {
	return p.resolver
}

// Masking returns the masking engine, for warm-up registration of
// call-site and type annotations.
func (p *Pipeline) Masking() *masking.Engine {
	return p.masker
}

// Metrics returns the prometheus collector, or nil when metrics are
// disabled.
func (p *Pipeline) Metrics() *metrics.Collector {
	return p.collector
}

// Queue exposes the background queue, mainly for tests and stats.
func (p *Pipeline) Queue() *queue.Queue {
	return p.queue
}

// Start launches the queue consumer and, as configured, the periodic stats
// report and the config file watcher. Registration (overrides, sinks,
// annotations) must be finished before Start.
func (p *Pipeline) Start() error {
	var err error
	p.startOnce.Do(func() {
		p.consumer.Start()

		if schedule := p.cfg.Telemetry.StatsSchedule; schedule != "" {
			p.scheduler = cron.New()
			if _, cronErr := p.scheduler.AddFunc(schedule, p.reportStats); cronErr != nil {
				err = fmt.Errorf("invalid stats schedule %q: %w", schedule, cronErr)
				return
			}
			p.scheduler.Start()
		}

		if p.cfg.Telemetry.WatchConfig && p.configPath != "" {
			watcher, watchErr := config.NewFileWatcher(p.configPath, 0, p.logger)
			if watchErr != nil {
				err = fmt.Errorf("starting config watcher: %w", watchErr)
				return
			}
			p.watcher = watcher

			ctx, cancel := context.WithCancel(context.Background())
			p.watchCancel = cancel
			go func() {
				if werr := watcher.Watch(ctx, nil); werr != nil {
					p.logger.Error("Config watcher exited", "error", werr)
				}
			}()
		}
	})
	return err
}

// Shutdown stops intake-side helpers and drains the queue best-effort
// until the context's deadline. Entries still queued at the deadline are
// abandoned.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	var left int
	p.stopOnce.Do(func() {
		if p.scheduler != nil {
			p.scheduler.Stop()
		}
		if p.watchCancel != nil {
			p.watchCancel()
		}
		if p.watcher != nil {
			if err := p.watcher.Stop(); err != nil {
				p.logger.Warn("Closing config watcher failed", "error", err)
			}
		}
		left = p.consumer.Stop(ctx)
	})
	if left > 0 {
		return fmt.Errorf("shutdown abandoned %d queued entries", left)
	}
	return nil
}

// processBatch runs on the consumer goroutine: format, translate, route.
func (p *Pipeline) processBatch(batch []*entry.Entry) {
	if p.collector != nil {
		p.collector.RecordDrained(len(batch))
	}

	ctx := context.Background()
	for _, e := range batch {
		result := p.selector.Format(e)

		// Raw results carry an empty template; translating it is harmless
		// and the parameter renaming still applies.
		if t, ok := p.translators[e.Target]; ok && result.OK {
			message, params := t.Translate(result.Message, result.Parameters)
			result.Message = message
			result.Parameters = params
		}

		s := p.sinks.For(e.Target)
		if err := s.Write(ctx, e.EffectiveLevel(), result); err != nil {
			p.logger.Warn("Sink write failed",
				"sink", s.Name(),
				"target", e.Target,
				"error", err,
			)
		}
	}
}

// reportStats logs a periodic snapshot of queue health.
func (p *Pipeline) reportStats() {
	p.logger.Info("Pipeline stats",
		"queue_depth", p.queue.Len(),
		"queue_capacity", p.queue.Capacity(),
		"enqueued_total", p.queue.Enqueued(),
		"dropped_total", p.queue.Dropped(),
	)
}
