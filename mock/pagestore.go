package mock

import (
	"context"

	"github.com/fwojciec/askdoc"
)

var _ askdoc.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of askdoc.PageStore.
type PageStore struct {
	SaveFn   func(ctx context.Context, page *askdoc.Page) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *PageStore) Save(ctx context.Context, page *askdoc.Page) error {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) Commit() error {
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	return s.AbortFn()
}
