package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/hazyhaar/addrnorm/pkg/address"
	"github.com/hazyhaar/addrnorm/pkg/journal"
	"github.com/hazyhaar/addrnorm/pkg/kit"
	"github.com/hazyhaar/addrnorm/pkg/pipeline"
)

// DefaultBatchLimit caps the number of addresses in one batch request.
const DefaultBatchLimit = 10000

// Config holds the API knobs loaded from the service config.
type Config struct {
	Version    string   `yaml:"-"`
	BatchLimit int      `yaml:"batch_limit"`
	Origins    []string `yaml:"cors_origins"`
	RateLimit  float64  `yaml:"rate_limit"` // requests per second, 0 disables
	RateBurst  int      `yaml:"rate_burst"`
}

// Service backs both the HTTP and MCP transports.
type Service struct {
	cfg      Config
	pipeline *pipeline.Pipeline
	validate *validator.Validate
	journal  *journal.Journal
	logger   *slog.Logger

	parse      kit.Endpoint
	batch      kit.Endpoint
	vocabulary kit.Endpoint
}

// NewService builds the endpoints. j may be nil to skip journaling batches.
func NewService(p *pipeline.Pipeline, cfg Config, j *journal.Journal, logger *slog.Logger) *Service {
	if cfg.BatchLimit <= 0 {
		cfg.BatchLimit = DefaultBatchLimit
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{cfg: cfg, pipeline: p, validate: newValidator(), journal: j, logger: logger}
	mw := func(name string) kit.Middleware {
		return kit.Chain(kit.Logging(logger, name), kit.Recover)
	}
	s.parse = mw("parse")(s.parseEndpoint)
	s.batch = mw("batch")(s.batchEndpoint)
	s.vocabulary = mw("vocabulary")(vocabularyEndpoint)
	return s
}

// Meta returns the response metadata.
func (s *Service) Meta() Meta {
	return Meta{Version: s.cfg.Version, Status: "OK"}
}

// Shared request/response types used by both HTTP and MCP transports.

type batchReq struct {
	Items  []AddressInput
	Source string
}

type labelInfo struct {
	Label  address.Label `json:"label"`
	Field  address.Field `json:"field,omitempty"`
	OSMKey string        `json:"osm_key,omitempty"`
}

type vocabularyResponse struct {
	Labels []labelInfo `json:"labels"`
}

// badRequest marks errors caused by the caller.
type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

func (s *Service) parseEndpoint(ctx context.Context, request any) (any, error) {
	in := request.(*AddressInput)
	if err := s.validate.Struct(in); err != nil {
		return nil, &badRequest{fmt.Sprintf("invalid input: %v", err)}
	}
	res, err := s.pipeline.Process(ctx, in.Address)
	if err != nil {
		return nil, err
	}
	return record(s.validate, *in, res.Fields, res.Removed), nil
}

func (s *Service) batchEndpoint(ctx context.Context, request any) (any, error) {
	req := request.(*batchReq)
	if len(req.Items) > s.cfg.BatchLimit {
		return nil, &badRequest{fmt.Sprintf("More than %d items. Submit request in smaller batches.", s.cfg.BatchLimit)}
	}
	seen := make(map[string]bool, len(req.Items))
	for i := range req.Items {
		in := &req.Items[i]
		if err := s.validate.Struct(in); err != nil {
			return nil, &badRequest{fmt.Sprintf("item %d: invalid input: %v", i, err)}
		}
		if seen[in.ID.key()] {
			return nil, &badRequest{"Ids [@id] are not unique."}
		}
		seen[in.ID.key()] = true
	}

	var runID string
	if s.journal != nil {
		id, err := s.journal.Start(req.Source, len(req.Items))
		if err != nil {
			s.logger.Warn("journal start failed", "error", err)
		}
		runID = id
	}

	out, st, err := s.Records(ctx, req.Items)

	if runID != "" {
		if jerr := s.journal.Finish(runID, st, err); jerr != nil {
			s.logger.Warn("journal finish failed", "run", runID, "error", jerr)
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Records normalizes items in order and builds one response record per item,
// either an AddressReturn or an ErrorReturn. It neither checks the batch
// limit nor id uniqueness.
func (s *Service) Records(ctx context.Context, items []AddressInput) ([]any, journal.Stats, error) {
	raw := make([]string, len(items))
	for i := range items {
		raw[i] = items[i].Address
	}
	results, err := s.pipeline.Batch(ctx, raw)
	st := journal.Stats{Items: len(items)}
	if err != nil {
		return nil, st, err
	}
	out := make([]any, 0, len(results))
	for i, res := range results {
		rec := record(s.validate, items[i], res.Fields, res.Removed)
		if _, bad := rec.(ErrorReturn); bad {
			st.Unparseable++
		}
		if len(res.Removed) > 0 {
			st.Ambiguous++
		}
		out = append(out, rec)
	}
	return out, st, nil
}

func vocabularyEndpoint(_ context.Context, _ any) (any, error) {
	resp := vocabularyResponse{Labels: make([]labelInfo, 0, len(address.Labels))}
	for _, l := range address.Labels {
		info := labelInfo{Label: l}
		if f, ok := address.FieldOf(l); ok {
			info.Field = f
			info.OSMKey = f.OSMKey()
		}
		resp.Labels = append(resp.Labels, info)
	}
	return resp, nil
}
