package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var ErrInvalidID = errors.New("invalid resource id")

// Doer performs one authenticated upstream call and decodes the JSON body
// into out.
type Doer interface {
	Do(ctx context.Context, method string, path string, query url.Values, bearer string, body any, out any) error
}

// RejectionObserver is notified once per violation of a rejected query.
type RejectionObserver interface {
	ObserveQueryRejected(resource string, kind string)
}

// Client fetches one entity type. Queries are validated before anything
// reaches the wire.
type Client[T any] struct {
	def      Definition
	doer     Doer
	observer RejectionObserver
}

func NewClient[T any](def Definition, doer Doer, observer RejectionObserver) *Client[T] {
	return &Client[T]{def: def, doer: doer, observer: observer}
}

func (c *Client[T]) Definition() Definition {
	return c.def
}

func (c *Client[T]) List(ctx context.Context, token string, q Query) (Page[T], error) {
	values, err := c.def.Encode(q)
	if err != nil {
		c.observe(err)
		return Page[T]{}, err
	}

	var page Page[T]
	if err := c.doer.Do(ctx, http.MethodGet, c.def.Path(), values, token, nil, &page); err != nil {
		return Page[T]{}, fmt.Errorf("list %s: %w", c.def.Name(), err)
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return page, nil
}

func (c *Client[T]) Get(ctx context.Context, token string, id string, q Query) (T, error) {
	var zero T

	id = strings.TrimSpace(id)
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, "/?#") {
		return zero, fmt.Errorf("get %s %q: %w", c.def.Name(), id, ErrInvalidID)
	}

	values, err := c.def.EncodeDetail(q)
	if err != nil {
		c.observe(err)
		return zero, err
	}

	var single Single[T]
	path := c.def.Path() + "/" + url.PathEscape(id)
	if err := c.doer.Do(ctx, http.MethodGet, path, values, token, nil, &single); err != nil {
		return zero, fmt.Errorf("get %s %s: %w", c.def.Name(), id, err)
	}
	return single.Data, nil
}

func (c *Client[T]) observe(err error) {
	if c.observer == nil {
		return
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		for _, v := range qe.Violations {
			c.observer.ObserveQueryRejected(qe.Resource, string(v.Kind))
		}
	}
}
