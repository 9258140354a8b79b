// Package resource defines the query contract shared by every entity list and
// detail fetch: pagination, search, sparse fields, includes, sorting and
// filters, each constrained by the entity's allow-lists.
package resource

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Schema declares an entity. It is only read by NewDefinition.
type Schema struct {
	// Name is the resource key used in fields[<name>] and in gateway routes.
	Name string
	// Path is the upstream collection path. Defaults to "/" + Name.
	Path string
	// Subject is the permission subject checked before reading the entity.
	Subject string
	// Fields maps a resource name (the entity or one of its relations) to
	// the field names that may be requested for it.
	Fields   map[string][]string
	Includes []string
	Sorts    []string
	Filters  []string
}

// Definition is the immutable, validated form of a Schema.
type Definition struct {
	name     string
	path     string
	subject  string
	fields   map[string]map[string]struct{}
	includes map[string]struct{}
	sorts    map[string]struct{}
	filters  map[string]struct{}
}

func NewDefinition(schema Schema) (Definition, error) {
	name := strings.TrimSpace(schema.Name)
	if name == "" {
		return Definition{}, fmt.Errorf("resource name is required")
	}

	path := strings.TrimSpace(schema.Path)
	if path == "" {
		path = "/" + name
	}
	if !strings.HasPrefix(path, "/") {
		return Definition{}, fmt.Errorf("resource %q: path must start with '/'", name)
	}

	subject := strings.TrimSpace(schema.Subject)
	if subject == "" {
		return Definition{}, fmt.Errorf("resource %q: subject is required", name)
	}

	def := Definition{
		name:    name,
		path:    strings.TrimRight(path, "/"),
		subject: subject,
		fields:  make(map[string]map[string]struct{}, len(schema.Fields)),
	}

	for resourceName, names := range schema.Fields {
		set, err := toSet(name, "fields["+resourceName+"]", names)
		if err != nil {
			return Definition{}, err
		}
		def.fields[resourceName] = set
	}

	var err error
	if def.includes, err = toSet(name, "includes", schema.Includes); err != nil {
		return Definition{}, err
	}
	for include := range def.includes {
		if strings.HasPrefix(include, ".") || strings.HasSuffix(include, ".") || strings.Contains(include, "..") {
			return Definition{}, fmt.Errorf("resource %q: malformed include path %q", name, include)
		}
	}
	if def.sorts, err = toSet(name, "sorts", schema.Sorts); err != nil {
		return Definition{}, err
	}
	for key := range def.sorts {
		if strings.HasPrefix(key, "-") || strings.HasPrefix(key, "+") {
			return Definition{}, fmt.Errorf("resource %q: sort key %q must be declared without direction", name, key)
		}
	}
	if def.filters, err = toSet(name, "filters", schema.Filters); err != nil {
		return Definition{}, err
	}

	return def, nil
}

// MustDefinition is NewDefinition for package-level declarations.
func MustDefinition(schema Schema) Definition {
	def, err := NewDefinition(schema)
	if err != nil {
		panic(err)
	}
	return def
}

func (d Definition) Name() string    { return d.name }
func (d Definition) Path() string    { return d.path }
func (d Definition) Subject() string { return d.subject }

func (d Definition) AllowsInclude(include string) bool {
	_, ok := d.includes[include]
	return ok
}

// AllowsSort accepts a sort key with an optional "-" or "+" direction prefix.
func (d Definition) AllowsSort(key string) bool {
	_, ok := d.sorts[sortKey(key)]
	return ok
}

func (d Definition) AllowsField(resourceName string, field string) bool {
	set, ok := d.fields[resourceName]
	if !ok {
		return false
	}
	_, ok = set[field]
	return ok
}

func (d Definition) AllowsFilter(key string) bool {
	_, ok := d.filters[key]
	return ok
}

// AllowList returns the declared allow-lists in sorted order.
func (d Definition) AllowList() AllowList {
	fields := make(map[string][]string, len(d.fields))
	for resourceName, set := range d.fields {
		fields[resourceName] = sortedKeys(set)
	}
	return AllowList{
		Fields:   fields,
		Includes: sortedKeys(d.includes),
		Sorts:    sortedKeys(d.sorts),
		Filters:  sortedKeys(d.filters),
	}
}

// AllowList is the serializable view of a Definition's allow-lists.
type AllowList struct {
	Fields   map[string][]string `json:"fields"`
	Includes []string            `json:"includes"`
	Sorts    []string            `json:"sorts"`
	Filters  []string            `json:"filters"`
}

// sortKey strips one direction prefix.
func sortKey(key string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "-") || strings.HasPrefix(key, "+") {
		return key[1:]
	}
	return key
}

func toSet(resourceName string, kind string, values []string) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" || trimmed != value {
			return nil, fmt.Errorf("resource %q: invalid %s entry %q", resourceName, kind, value)
		}
		set[trimmed] = struct{}{}
	}
	return set, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return slices.Clip(out)
}
