package gateway

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"ats-gateway/internal/ats"
	"ats-gateway/internal/domain/audit"
	"ats-gateway/internal/events"
	"ats-gateway/internal/pkg/logger"
	"ats-gateway/internal/resource"
	"ats-gateway/internal/session"
)

// ResourceInfo describes one catalog entry to consoles.
type ResourceInfo struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Parents []string `json:"parents"`
	Lookups []string `json:"lookups"`
}

// Service runs catalog operations on behalf of a signed-in operator.
// Errors are returned only for requests that never reach a resource client
// (unknown resource, no session); upstream outcomes travel in the Result.
type Service struct {
	catalog   *ats.Catalog
	audit     audit.Repository
	publisher events.Publisher
	lggr      logger.Logger
}

// NewService accepts a nil audit repository or publisher.
func NewService(catalog *ats.Catalog, auditRepo audit.Repository, publisher events.Publisher, lggr logger.Logger) *Service {
	if lggr == nil {
		lggr = logger.Nop()
	}
	if publisher == nil {
		publisher = events.Discard
	}
	return &Service{catalog: catalog, audit: auditRepo, publisher: publisher, lggr: lggr.Named("gateway")}
}

func (s *Service) Resources() []ResourceInfo {
	names := s.catalog.Names()
	out := make([]ResourceInfo, 0, len(names))
	for _, n := range names {
		c, err := s.catalog.Resource(n)
		if err != nil {
			continue
		}
		out = append(out, ResourceInfo{Name: n, Path: c.Config().Path, Parents: c.Parents(), Lookups: c.Lookups()})
	}
	return out
}

func (s *Service) FetchOne(ctx context.Context, name, id string) (ats.Result, error) {
	c, _, err := s.resolve(ctx, name)
	if err != nil {
		return ats.Result{}, err
	}
	return c.FetchOne(ctx, id), nil
}

func (s *Service) FetchAll(ctx context.Context, name string) (ats.ListResult, error) {
	c, _, err := s.resolve(ctx, name)
	if err != nil {
		return ats.ListResult{}, err
	}
	return c.FetchAll(ctx), nil
}

func (s *Service) FetchByParent(ctx context.Context, name, parent, parentID string) (ats.ListResult, error) {
	c, _, err := s.resolve(ctx, name)
	if err != nil {
		return ats.ListResult{}, err
	}
	return c.FetchByParent(ctx, parent, parentID), nil
}

func (s *Service) Lookup(ctx context.Context, name, key, value string) (ats.Result, error) {
	c, _, err := s.resolve(ctx, name)
	if err != nil {
		return ats.Result{}, err
	}
	return c.Lookup(ctx, key, value), nil
}

func (s *Service) Create(ctx context.Context, name string, payload ats.Record) (ats.Result, error) {
	c, sess, err := s.resolve(ctx, name)
	if err != nil {
		return ats.Result{}, err
	}
	res := c.Create(ctx, payload)
	s.afterMutation(ctx, sess, name, resource.OpCreate, recordID(res.Value), res)
	return res, nil
}

func (s *Service) Update(ctx context.Context, name, id string, payload ats.Record) (ats.Result, error) {
	c, sess, err := s.resolve(ctx, name)
	if err != nil {
		return ats.Result{}, err
	}
	res := c.Update(ctx, id, payload)
	s.afterMutation(ctx, sess, name, resource.OpUpdate, id, res)
	return res, nil
}

func (s *Service) Delete(ctx context.Context, name, id string) (ats.Result, error) {
	c, sess, err := s.resolve(ctx, name)
	if err != nil {
		return ats.Result{}, err
	}
	res := c.Delete(ctx, id)
	s.afterMutation(ctx, sess, name, resource.OpDelete, id, res)
	return res, nil
}

func (s *Service) resolve(ctx context.Context, name string) (*ats.Client, session.Session, error) {
	sess, err := session.MustFrom(ctx)
	if err != nil {
		return nil, session.Session{}, err
	}
	c, err := s.catalog.Resource(name)
	if err != nil {
		return nil, session.Session{}, err
	}
	return c, sess, nil
}

// afterMutation audits every attempt and announces successful ones. Neither
// step can change the outcome returned to the caller.
func (s *Service) afterMutation(ctx context.Context, sess session.Session, name string, op resource.Op, id string, res ats.Result) {
	entry := audit.Entry{
		OperatorID: sess.OperatorID,
		Resource:   name,
		Action:     string(op),
		RecordID:   id,
		Outcome:    audit.OutcomeSuccess,
		Status:     res.Status,
	}
	if !res.OK() {
		entry.Outcome = audit.OutcomeFailure
		s.lggr.Infow("upstream mutation failed", "resource", name, "op", op, "record_id", id,
			"kind", res.Failure.Kind.String(), "status", res.Status)
	}
	if s.audit != nil {
		if err := s.audit.Record(ctx, entry); err != nil {
			s.lggr.Errorw("audit record failed", "resource", name, "op", op, "err", err)
		}
	}

	if !res.OK() {
		return
	}
	e := events.RecordChanged(name, string(op), id, sess.OperatorID.String())
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.lggr.Warnw("publish record change failed", "resource", name, "op", op, "err", err)
	}
}

// recordID extracts the id an upstream assigned to a created record.
func recordID(r ats.Record) string {
	v, ok := r["id"]
	if !ok || v == nil {
		return ""
	}
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return fmt.Sprint(id)
	}
}
