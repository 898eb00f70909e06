package page

import (
	"time"

	"github.com/google/uuid"
	"github.com/liliang-cn/docqa/internal/domain"
	"github.com/liliang-cn/docqa/internal/service"
	"github.com/patrickmn/go-cache"
)

// WorkflowFactory creates the workflow backing a new page view
type WorkflowFactory func() *service.SessionWorkflow

// ViewStore keeps one workflow per open page view. Views that are idle for
// longer than the TTL are dropped.
type ViewStore struct {
	views   *cache.Cache
	factory WorkflowFactory
}

// NewViewStore creates a view store
func NewViewStore(ttl time.Duration, factory WorkflowFactory) *ViewStore {
	return &ViewStore{
		views:   cache.New(ttl, ttl),
		factory: factory,
	}
}

// Create opens a new page view with a fresh workflow
func (s *ViewStore) Create() (string, *service.SessionWorkflow) {
	id := uuid.New().String()
	wf := s.factory()
	s.views.SetDefault(id, wf)
	return id, wf
}

// Get returns the workflow of a page view and extends its lifetime
func (s *ViewStore) Get(id string) (*service.SessionWorkflow, error) {
	v, ok := s.views.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	wf := v.(*service.SessionWorkflow)
	s.views.SetDefault(id, wf)
	return wf, nil
}

// Count returns the number of live page views
func (s *ViewStore) Count() int {
	return s.views.ItemCount()
}
