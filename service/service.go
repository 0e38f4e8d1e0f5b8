package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/foomo/globalcontent-mcp/schema"
	"github.com/foomo/globalcontent-mcp/service/vo"
	"go.uber.org/zap"
)

type Service interface {
	GetGlobalHeader(ctx context.Context) (*vo.GlobalPageHeader, error)
	GetGlobalFooter(ctx context.Context) (*vo.GlobalPageFooter, error)
	GetGlobal(ctx context.Context) (*vo.GlobalPage, error)
	// Subscribe registers an observer for validation outcomes. The returned
	// func removes it again.
	Subscribe(observer Observer) func()
}

type Kind string

const (
	KindHeader Kind = "header"
	KindFooter Kind = "footer"
	KindGlobal Kind = "global"
)

// Event describes the outcome of validating content fetched from a source.
type Event struct {
	Kind      Kind                 `json:"kind"`
	Source    string               `json:"source"`
	Valid     bool                 `json:"valid"`
	Issues    []vo.ValidationIssue `json:"issues,omitempty"`
	Error     string               `json:"error,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

type Observer func(event Event)

type service struct {
	logger       *zap.Logger
	source       Source
	siteSettings SiteSettings

	observersMutex sync.RWMutex
	observers      map[int]Observer
	nextObserverID int
}

func NewService(
	logger *zap.Logger,
	siteSettings SiteSettings,
	source Source,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		logger:       logger.With(zap.String("source", source.Name())),
		source:       source,
		siteSettings: siteSettings,
		observers:    map[int]Observer{},
	}
}

func (s *service) GetGlobalHeader(ctx context.Context) (*vo.GlobalPageHeader, error) {
	raw, err := s.fetch(ctx, KindHeader)
	if err != nil {
		return nil, err
	}
	v, err := member(raw, string(KindHeader))
	var header vo.GlobalPageHeader
	if err == nil {
		header, err = schema.ParseGlobalPageHeader(v, s.siteSettings.schemaOptions()...)
		err = schema.WithPath(string(KindHeader), err)
	}
	if err := s.report(KindHeader, err); err != nil {
		return nil, err
	}
	s.logger.Debug("validated global header", zap.Int("navItems", len(header.NavItems)))
	return &header, nil
}

func (s *service) GetGlobalFooter(ctx context.Context) (*vo.GlobalPageFooter, error) {
	raw, err := s.fetch(ctx, KindFooter)
	if err != nil {
		return nil, err
	}
	v, err := member(raw, string(KindFooter))
	var footer vo.GlobalPageFooter
	if err == nil {
		footer, err = schema.ParseGlobalPageFooter(v, s.siteSettings.schemaOptions()...)
		err = schema.WithPath(string(KindFooter), err)
	}
	if err := s.report(KindFooter, err); err != nil {
		return nil, err
	}
	s.logger.Debug("validated global footer",
		zap.Int("navItems", len(footer.NavItems)),
		zap.Int("socialLinks", len(footer.SocialLinks)),
	)
	return &footer, nil
}

func (s *service) GetGlobal(ctx context.Context) (*vo.GlobalPage, error) {
	raw, err := s.fetch(ctx, KindGlobal)
	if err != nil {
		return nil, err
	}
	page, err := schema.ParseGlobalPage(raw, s.siteSettings.schemaOptions()...)
	if err := s.report(KindGlobal, err); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *service) fetch(ctx context.Context, kind Kind) (any, error) {
	raw, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Error("failed to fetch global content", zap.String("kind", string(kind)), zap.Error(err))
		s.notify(Event{Kind: kind, Error: err.Error()})
		return nil, fmt.Errorf("failed to fetch global content: %w", err)
	}
	return raw, nil
}

// report logs and broadcasts a validation outcome and passes err through.
func (s *service) report(kind Kind, err error) error {
	if err == nil {
		s.notify(Event{Kind: kind, Valid: true})
		return nil
	}
	issues := schema.Issues(err)
	s.logger.Warn("invalid global content",
		zap.String("kind", string(kind)),
		zap.Int("issues", len(issues)),
		zap.Error(err),
	)
	s.notify(Event{Kind: kind, Issues: issues, Error: err.Error()})
	return err
}

func (s *service) Subscribe(observer Observer) func() {
	s.observersMutex.Lock()
	defer s.observersMutex.Unlock()
	s.nextObserverID++
	id := s.nextObserverID
	s.observers[id] = observer
	return func() {
		s.observersMutex.Lock()
		defer s.observersMutex.Unlock()
		delete(s.observers, id)
	}
}

func (s *service) notify(event Event) {
	event.Source = s.source.Name()
	event.Timestamp = time.Now()
	s.observersMutex.RLock()
	defer s.observersMutex.RUnlock()
	for _, observer := range s.observers {
		observer(event)
	}
}
