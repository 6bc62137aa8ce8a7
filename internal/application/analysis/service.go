// Package analysis is the application service tying the analytics engines to
// storage, cache and the event broker.  All orchestration lives here; the
// engines themselves stay free of I/O.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/uwazilabs/haki-analytics/internal/analytics/anomaly"
	"github.com/uwazilabs/haki-analytics/internal/analytics/cluster"
	"github.com/uwazilabs/haki-analytics/internal/analytics/text"
	"github.com/uwazilabs/haki-analytics/internal/config"
	"github.com/uwazilabs/haki-analytics/internal/domain/report"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/database/redis"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/prometheus"
	"github.com/uwazilabs/haki-analytics/pkg/errors"
)

// EventPublisher publishes analysis events to the broker.  Satisfied by the
// kafka producer; tests inject a capturing fake.
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload interface{}) error
	Topic() string
}

// AnomalyEvent is the broker payload emitted for every high-severity anomaly.
type AnomalyEvent struct {
	ReportID   string                 `json:"report_id"`
	Type       anomaly.Type           `json:"type"`
	Severity   anomaly.Severity       `json:"severity"`
	Score      float64                `json:"score"`
	Reason     string                 `json:"reason"`
	Details    map[string]interface{} `json:"details"`
	DetectedAt time.Time              `json:"detected_at"`
}

// Service orchestrates clustering, anomaly detection and text analysis over
// the persisted report corpus.  Expensive batch results are cached per batch
// signature, so a run is only recomputed when the corpus changes.
type Service struct {
	repo      report.Repository
	cache     redis.Cache
	publisher EventPublisher
	engine    *anomaly.Engine
	analyzer  *text.Analyzer
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
	cfg       config.AnalyticsConfig
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCache enables result caching.
func WithCache(c redis.Cache) ServiceOption {
	return func(s *Service) { s.cache = c }
}

// WithPublisher enables anomaly event publishing.
func WithPublisher(p EventPublisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

// WithAnomalyEngine overrides the default detector set.
func WithAnomalyEngine(e *anomaly.Engine) ServiceOption {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithAnalyzer overrides the default text analyzer.
func WithAnalyzer(a *text.Analyzer) ServiceOption {
	return func(s *Service) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithMetrics attaches application metrics.
func WithMetrics(m *prometheus.AppMetrics) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logging.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService builds the analysis service.  The repository is the only
// mandatory collaborator; cache and publisher are optional and the service
// degrades gracefully without them.
func NewService(repo report.Repository, cfg config.AnalyticsConfig, opts ...ServiceOption) *Service {
	s := &Service{
		repo:     repo,
		engine:   anomaly.NewEngine(nil),
		analyzer: text.NewAnalyzer(),
		metrics:  prometheus.NewNoopMetrics(),
		logger:   logging.Default(),
		cfg:      cfg,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// snapshot loads the current report corpus and its cache signature.
func (s *Service) snapshot(ctx context.Context) ([]*report.Report, string, error) {
	timer := prometheus.NewTimer(s.metrics.DBQueryDuration.WithLabelValues("list_reports"))
	reports, err := s.repo.List(ctx)
	timer.ObserveDuration()
	if err != nil {
		return nil, "", err
	}
	return reports, batchSignature(reports), nil
}

// batchSignature hashes the corpus identity: the set of report ids plus their
// submission times.  Two identical corpora share cached results; any insert
// changes the signature.
func batchSignature(reports []*report.Report) string {
	ids := make([]string, len(reports))
	byID := make(map[string]time.Time, len(reports))
	for i, r := range reports {
		ids[i] = r.ID
		byID[r.ID] = r.SubmittedAt
	}
	sort.Strings(ids)

	h := fnv.New64a()
	for _, id := range ids {
		h.Write([]byte(id))
		fmt.Fprintf(h, "%d", byID[id].UnixNano())
	}
	return fmt.Sprintf("%x", h.Sum64())
}

// reencode copies a computed value into dest through a JSON round trip, the
// same shape a cached value would arrive in.
func reencode(v interface{}, dest interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode result")
	}
	return json.Unmarshal(data, dest)
}

// cachedOrCompute resolves a batch result through the cache when one is
// configured, falling back to direct computation otherwise.
func (s *Service) cachedOrCompute(ctx context.Context, key string, dest interface{},
	compute func(ctx context.Context) (interface{}, error)) error {

	if s.cache == nil {
		v, err := compute(ctx)
		if err != nil {
			return err
		}
		return reencode(v, dest)
	}

	computed := false
	err := s.cache.GetOrSet(ctx, key, dest, s.cfg.ResultCacheTTL, func(ctx context.Context) (interface{}, error) {
		computed = true
		return compute(ctx)
	})
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeCacheError) {
			// Cache outage: compute directly rather than failing the request.
			s.logger.Warn("cache unavailable, computing directly", logging.Err(err))
			v, cerr := compute(ctx)
			if cerr != nil {
				return cerr
			}
			return reencode(v, dest)
		}
		return err
	}

	if computed {
		s.metrics.CacheMissesTotal.WithLabelValues("analysis").Inc()
	} else {
		s.metrics.CacheHitsTotal.WithLabelValues("analysis").Inc()
	}
	return nil
}

// ClusterReports groups the corpus into k behavioral clusters.  k <= 0 falls
// back to the configured default.
func (s *Service) ClusterReports(ctx context.Context, k int) ([]*cluster.Cluster, error) {
	if k <= 0 {
		k = s.cfg.DefaultClusterCount
	}

	reports, sig, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var clusters []*cluster.Cluster
	key := fmt.Sprintf("clusters:%s:k=%d", sig, k)
	err = s.cachedOrCompute(ctx, key, &clusters, func(ctx context.Context) (interface{}, error) {
		timer := prometheus.NewTimer(s.metrics.ClusteringDuration.WithLabelValues("service"))
		defer timer.ObserveDuration()

		c := cluster.NewClusterer(
			cluster.WithK(k),
			cluster.WithMaxIterations(s.cfg.MaxIterations),
			cluster.WithLogger(s.logger),
		)
		out, err := c.Cluster(reports)
		if err != nil {
			s.metrics.ClusteringRunsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		s.metrics.ClusteringRunsTotal.WithLabelValues("success").Inc()
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("clustering completed",
		logging.Int("reports", len(reports)),
		logging.Int("k", k),
		logging.Int("clusters", len(clusters)),
	)
	return clusters, nil
}

// DetectAnomalies runs the detector set over the corpus.  High-severity
// findings from a fresh (uncached) run are published to the broker; publish
// failures are logged and counted but never fail the detection call.
func (s *Service) DetectAnomalies(ctx context.Context) (*anomaly.Result, error) {
	reports, sig, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var result anomaly.Result
	key := "anomalies:" + sig
	err = s.cachedOrCompute(ctx, key, &result, func(ctx context.Context) (interface{}, error) {
		timer := prometheus.NewTimer(s.metrics.AnomalyDetectionDuration.WithLabelValues("service"))
		defer timer.ObserveDuration()

		res := s.engine.DetectAll(reports)
		s.metrics.AnomalyRunsTotal.WithLabelValues("success").Inc()
		for _, a := range res.Anomalies {
			s.metrics.AnomaliesFoundTotal.WithLabelValues(string(a.Type), string(a.Severity)).Inc()
		}
		s.publishHighSeverity(ctx, res.Anomalies)
		return res, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("anomaly detection completed",
		logging.Int("reports", len(reports)),
		logging.Int("anomalies", result.Stats.AnomalyCount),
	)
	return &result, nil
}

// publishHighSeverity emits one broker event per high-severity anomaly.
func (s *Service) publishHighSeverity(ctx context.Context, anomalies []anomaly.Anomaly) {
	if s.publisher == nil {
		return
	}
	now := time.Now().UTC()
	for _, a := range anomalies {
		if a.Severity != anomaly.SeverityHigh {
			continue
		}
		event := AnomalyEvent{
			ReportID:   a.ReportID,
			Type:       a.Type,
			Severity:   a.Severity,
			Score:      a.Score,
			Reason:     a.Reason,
			Details:    a.Details,
			DetectedAt: now,
		}
		if err := s.publisher.Publish(ctx, a.ReportID, event); err != nil {
			s.metrics.EventPublishErrors.WithLabelValues(s.publisher.Topic()).Inc()
			s.logger.Error("failed to publish anomaly event",
				logging.String("report_id", a.ReportID),
				logging.Err(err),
			)
			continue
		}
		s.metrics.EventsPublished.WithLabelValues(s.publisher.Topic()).Inc()
	}
}

// CheckReport returns the surviving anomaly for one report, judged against
// the full corpus, or nil when the report is normal.
func (s *Service) CheckReport(ctx context.Context, reportID string) (*anomaly.Anomaly, error) {
	if _, err := s.repo.GetByID(ctx, reportID); err != nil {
		return nil, err
	}

	result, err := s.DetectAnomalies(ctx)
	if err != nil {
		return nil, err
	}
	for i := range result.Anomalies {
		if result.Anomalies[i].ReportID == reportID {
			return &result.Anomalies[i], nil
		}
	}
	return nil, nil
}

// FindSimilar returns up to limit reports behaviorally similar to the given
// one.  An empty result is not an error.
func (s *Service) FindSimilar(ctx context.Context, reportID string, limit int) ([]*report.Report, error) {
	target, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	pool, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	c := cluster.NewClusterer(
		cluster.WithMaxIterations(s.cfg.MaxIterations),
		cluster.WithLogger(s.logger),
	)
	return c.FindSimilar(target, pool, limit), nil
}

// AnalyzeText runs the full linguistic pipeline over one text.
func (s *Service) AnalyzeText(raw string) *text.AnalysisResult {
	timer := prometheus.NewTimer(s.metrics.TextAnalysisDuration.WithLabelValues("analyze"))
	defer timer.ObserveDuration()
	s.metrics.TextAnalysisTotal.WithLabelValues("analyze").Inc()
	return s.analyzer.Analyze(raw)
}

// CompareTexts returns the similarity of two texts in [0, 1].
func (s *Service) CompareTexts(a, b string) float64 {
	s.metrics.TextAnalysisTotal.WithLabelValues("compare").Inc()
	return s.analyzer.Compare(a, b)
}

// DuplicateGroups finds groups of reports with near-identical descriptions,
// using the configured similarity threshold.
func (s *Service) DuplicateGroups(ctx context.Context) ([]text.DuplicateGroup, error) {
	reports, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	timer := prometheus.NewTimer(s.metrics.TextAnalysisDuration.WithLabelValues("duplicates"))
	defer timer.ObserveDuration()
	s.metrics.TextAnalysisTotal.WithLabelValues("duplicates").Inc()
	return text.FindDuplicates(reports, s.cfg.DuplicateThreshold), nil
}

// Summary condenses the corpus into a one-sentence overview.
func (s *Service) Summary(ctx context.Context) (string, error) {
	reports, _, err := s.snapshot(ctx)
	if err != nil {
		return "", err
	}
	s.metrics.TextAnalysisTotal.WithLabelValues("summary").Inc()
	return s.analyzer.Summarize(reports), nil
}
