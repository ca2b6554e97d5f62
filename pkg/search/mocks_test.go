package search_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/searchkit/pkg/search"
)

type mockConn struct {
	mock.Mock
}

func (m *mockConn) Query(ctx context.Context, req *search.Request) (*search.Result, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*search.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConn) Add(ctx context.Context, docs []search.Document) error {
	return m.Called(ctx, docs).Error(0)
}

func (m *mockConn) DeleteByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockConn) Commit(ctx context.Context) (*search.Response, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*search.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConn) Optimize(ctx context.Context) (*search.Response, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*search.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConn) methods() []string {
	out := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		out = append(out, c.Method)
	}
	return out
}

type report struct {
	kind search.Kind
	err  error
}

type recordingSink struct {
	reports []report
}

func (s *recordingSink) Report(_ context.Context, kind search.Kind, err error) {
	s.reports = append(s.reports, report{kind: kind, err: err})
}

// newTestRegistry wires conn behind a driver named "mock" for the "products" core.
func newTestRegistry(conn search.Conn, sink search.Sink) *search.Registry {
	return search.NewRegistry(
		search.StaticProvider{"products": {"driver": "mock"}},
		search.WithDriver("mock", func(context.Context, string, search.Options) (search.Conn, error) {
			return conn, nil
		}),
		search.WithSink(sink),
	)
}
