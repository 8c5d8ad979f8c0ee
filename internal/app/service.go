// Package app runs one load, rank and render pass over a watch log.
package app

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/watchrank/internal/adapters/render"
	"github.com/okian/watchrank/internal/adapters/source"
	"github.com/okian/watchrank/internal/domain/model"
	"github.com/okian/watchrank/internal/domain/ranking"
	"github.com/okian/watchrank/pkg/logger"
	"github.com/okian/watchrank/pkg/metrics"
)

// TopNPlaceholder in a chart title is replaced by the requested top_n.
const TopNPlaceholder = "{n}"

// Result describes a successful run.
type Result struct {
	RunID    string
	Entries  []model.RankEntry
	Summary  ranking.Summary
	Duration time.Duration
}

// Service wires a source, the ranking builder and the renderer.
type Service struct {
	logger  logger.Logger
	metrics *metrics.Manager
	out     io.Writer
	builder *ranking.Builder

	column  string
	comma   rune
	comment rune

	title  string
	xLabel string
	yLabel string
	chart  render.Options

	metricsTextfile string

	now   func() time.Time
	newID func() string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records run metrics on m instead of the global manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithOutput sets where the chart is written.
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.out = w
		}
	}
}

// WithColumn sets the CSV header holding the title.
func WithColumn(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.column = name
		}
	}
}

// WithDelimiter sets the CSV field separator.
func WithDelimiter(r rune) Option {
	return func(s *Service) {
		if r != 0 {
			s.comma = r
		}
	}
}

// WithComment treats input lines starting with r as comments.
func WithComment(r rune) Option {
	return func(s *Service) { s.comment = r }
}

// WithLabels sets the chart title and axis captions. Empty values keep
// the defaults.
func WithLabels(title, xLabel, yLabel string) Option {
	return func(s *Service) {
		if title != "" {
			s.title = title
		}
		if xLabel != "" {
			s.xLabel = xLabel
		}
		if yLabel != "" {
			s.yLabel = yLabel
		}
	}
}

// WithChartOptions sets the renderer options.
func WithChartOptions(opts render.Options) Option {
	return func(s *Service) { s.chart = opts }
}

// WithMetricsTextfile exports metrics to path after every run.
func WithMetricsTextfile(path string) Option {
	return func(s *Service) { s.metricsTextfile = path }
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		metrics: metrics.Default(),
		out:     os.Stdout,
		builder: ranking.NewBuilder(),
		column:  source.DefaultColumn,
		comma:   ',',
		title:   "📺 Top " + TopNPlaceholder + " watched videos",
		xLabel:  "views",
		yLabel:  "title",
		now:     time.Now,
		newID:   uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

// Run loads src, ranks the topN most-watched titles and draws the chart.
// Failures come back as *RunError; nothing is drawn then.
func (s *Service) Run(ctx context.Context, src source.Source, topN int) (Result, error) {
	runID := s.newID()
	log := s.logger.With(logger.String("run_id", runID), logger.String("input", src.Name()))
	start := s.now()

	defer s.exportMetrics(ctx, log)

	res, err := s.run(ctx, log, src, topN)
	res.RunID = runID
	res.Duration = s.now().Sub(start)
	s.metrics.RecordRunDuration(res.Duration)

	if err != nil {
		rerr := newRunError(src.Name(), err)
		kind := Classify(rerr)
		s.metrics.RecordError(kind.String())
		log.Error(ctx, "run failed", logger.String("kind", kind.String()), logger.Error(err))
		return res, rerr
	}

	s.metrics.MarkSuccess(s.now())
	log.Info(ctx, "run finished",
		logger.Int("entries", len(res.Entries)),
		logger.Any("duration", res.Duration),
	)
	return res, nil
}

func (s *Service) run(ctx context.Context, log logger.Logger, src source.Source, topN int) (Result, error) {
	var res Result

	stageStart := s.now()
	records, err := source.Load(ctx, src,
		source.WithColumn(s.column),
		source.WithDelimiter(s.comma),
		source.WithComment(s.comment),
	)
	s.metrics.RecordStageDuration(metrics.StageLoad, s.now().Sub(stageStart))
	if err != nil {
		return res, err
	}
	s.metrics.RecordRecordsLoaded(len(records))
	log.Debug(ctx, "loaded records", logger.Int("records", len(records)))

	stageStart = s.now()
	entries, sum, err := s.builder.Build(ctx, records, topN)
	s.metrics.RecordStageDuration(metrics.StageRank, s.now().Sub(stageStart))
	res.Summary = sum
	s.metrics.RecordRecordsSkipped(sum.Skipped)
	s.metrics.UpdateDistinctTitles(sum.Distinct)
	if err != nil {
		return res, err
	}
	if sum.Skipped > 0 {
		log.Warn(ctx, "skipped records without a title",
			logger.Int("skipped", sum.Skipped),
			logger.Any("lines", sum.SkippedLines),
		)
	}
	log.Debug(ctx, "ranking built",
		logger.Int("distinct", sum.Distinct),
		logger.Int("top_n", topN),
		logger.Int("entries", len(entries)),
	)

	stageStart = s.now()
	err = render.Draw(s.out, s.chart, func(f *render.Figure) error {
		f.SetTitle(strings.ReplaceAll(s.title, TopNPlaceholder, strconv.Itoa(topN)))
		f.SetXLabel(s.xLabel)
		f.SetYLabel(s.yLabel)
		return f.BarH(entries)
	})
	s.metrics.RecordStageDuration(metrics.StageRender, s.now().Sub(stageStart))
	if err != nil {
		return res, err
	}

	s.metrics.UpdateRankedEntries(len(entries))
	res.Entries = entries
	return res, nil
}

func (s *Service) exportMetrics(ctx context.Context, log logger.Logger) {
	if s.metricsTextfile == "" {
		return
	}
	if err := s.metrics.WriteTextfile(s.metricsTextfile); err != nil {
		log.Warn(ctx, "metrics export failed", logger.String("path", s.metricsTextfile), logger.Error(err))
	}
}
