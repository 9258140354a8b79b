package resource

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

var ErrNotAllowed = errors.New("query parameter not allowed")

// Query is the request shape shared by every list and detail fetch.
type Query struct {
	Page    int
	PerPage int
	Search  string
	// Fields maps a resource name to the fields requested for it.
	Fields  map[string][]string
	Include []string
	// OrderBy entries may carry a "-" (descending) or "+" prefix.
	OrderBy []string
	Filter  map[string]string
}

type ViolationKind string

const (
	KindField   ViolationKind = "field"
	KindInclude ViolationKind = "include"
	KindSort    ViolationKind = "sort"
	KindFilter  ViolationKind = "filter"
)

type Violation struct {
	Kind  ViolationKind `json:"kind"`
	Value string        `json:"value"`
}

// QueryError lists every entry of a query that is outside the allow-lists.
type QueryError struct {
	Resource   string
	Violations []Violation
}

func (e *QueryError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s %q", v.Kind, v.Value))
	}
	return fmt.Sprintf("query for %q not allowed: %s", e.Resource, strings.Join(parts, ", "))
}

func (e *QueryError) Unwrap() error {
	return ErrNotAllowed
}

// Validate rejects the query when any include, sort, field or filter is not
// in the definition's allow-lists. Nothing is stripped.
func (d Definition) Validate(q Query) error {
	var violations []Violation

	for _, resourceName := range sortedMapKeys(q.Fields) {
		for _, field := range q.Fields[resourceName] {
			if !d.AllowsField(resourceName, field) {
				violations = append(violations, Violation{Kind: KindField, Value: resourceName + "." + field})
			}
		}
	}
	for _, include := range q.Include {
		if !d.AllowsInclude(include) {
			violations = append(violations, Violation{Kind: KindInclude, Value: include})
		}
	}
	for _, key := range q.OrderBy {
		if !d.AllowsSort(key) {
			violations = append(violations, Violation{Kind: KindSort, Value: key})
		}
	}
	for _, key := range sortedMapKeys(q.Filter) {
		if !d.AllowsFilter(key) {
			violations = append(violations, Violation{Kind: KindFilter, Value: key})
		}
	}

	if len(violations) > 0 {
		return &QueryError{Resource: d.name, Violations: violations}
	}
	return nil
}

// Normalize applies pagination defaults and trims the search term and the
// sort keys.
func Normalize(q Query) Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	q.Search = strings.TrimSpace(q.Search)
	if len(q.OrderBy) > 0 {
		orderBy := make([]string, 0, len(q.OrderBy))
		for _, key := range q.OrderBy {
			orderBy = append(orderBy, strings.TrimSpace(key))
		}
		q.OrderBy = orderBy
	}
	return q
}

// Encode validates q and renders it as upstream list parameters.
func (d Definition) Encode(q Query) (url.Values, error) {
	if err := d.Validate(q); err != nil {
		return nil, err
	}

	q = Normalize(q)
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("perPage", strconv.Itoa(q.PerPage))
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	encodeShape(values, q)
	if len(q.OrderBy) > 0 {
		values.Set("orderBy", strings.Join(q.OrderBy, ","))
	}
	for key, value := range q.Filter {
		values.Set("filter["+key+"]", value)
	}
	return values, nil
}

// EncodeDetail validates q and renders only the parameters that shape a
// single resource: fields and include.
func (d Definition) EncodeDetail(q Query) (url.Values, error) {
	if err := d.Validate(q); err != nil {
		return nil, err
	}

	values := url.Values{}
	encodeShape(values, q)
	return values, nil
}

func encodeShape(values url.Values, q Query) {
	for resourceName, fields := range q.Fields {
		if len(fields) == 0 {
			continue
		}
		values.Set("fields["+resourceName+"]", strings.Join(fields, ","))
	}
	if len(q.Include) > 0 {
		values.Set("include", strings.Join(q.Include, ","))
	}
}

// ParseQuery reads an incoming request's parameters. A flat fields=a,b
// applies to the definition's own resource name. Unparseable page numbers
// fall back to the defaults.
func ParseQuery(d Definition, values url.Values) Query {
	q := Query{
		Page:    parseIntOrDefault(values.Get("page"), DefaultPage),
		PerPage: parseIntOrDefault(values.Get("perPage"), DefaultPerPage),
		Search:  strings.TrimSpace(values.Get("search")),
		Include: splitList(values["include"]),
		OrderBy: splitList(values["orderBy"]),
	}

	for key, raw := range values {
		if key == "fields" {
			if list := splitList(raw); len(list) > 0 {
				q.Fields = addFields(q.Fields, d.name, list)
			}
			continue
		}
		if name, ok := bracketed(key, "fields"); ok {
			if list := splitList(raw); len(list) > 0 {
				q.Fields = addFields(q.Fields, name, list)
			}
			continue
		}
		if name, ok := bracketed(key, "filter"); ok && len(raw) > 0 {
			if q.Filter == nil {
				q.Filter = map[string]string{}
			}
			q.Filter[name] = strings.TrimSpace(raw[len(raw)-1])
		}
	}

	return Normalize(q)
}

func addFields(fields map[string][]string, resourceName string, list []string) map[string][]string {
	if fields == nil {
		fields = map[string][]string{}
	}
	fields[resourceName] = append(fields[resourceName], list...)
	return fields
}

func bracketed(key string, prefix string) (string, bool) {
	if !strings.HasPrefix(key, prefix+"[") || !strings.HasSuffix(key, "]") {
		return "", false
	}
	name := strings.TrimSpace(key[len(prefix)+1 : len(key)-1])
	return name, name != ""
}

// splitList flattens repeated and comma separated values, dropping blanks.
func splitList(raw []string) []string {
	var out []string
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func parseIntOrDefault(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func sortedMapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
