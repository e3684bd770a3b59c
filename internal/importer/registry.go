package importer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/scrooge/internal/statement"
	"github.com/MrJamesThe3rd/scrooge/internal/statement/cgd"
	"github.com/MrJamesThe3rd/scrooge/internal/statement/rabobank"
)

// UnknownFormatError is returned when an import names a format that is not registered.
type UnknownFormatError struct {
	Format string
	Known  []string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("%s is an unknown format. Known formats are %s.", e.Format, strings.Join(e.Known, ", "))
}

// Registry maps format names to their readers.
type Registry struct {
	formats map[string]statement.Format
}

func NewRegistry(formats ...statement.Format) (*Registry, error) {
	r := &Registry{formats: make(map[string]statement.Format, len(formats))}

	for _, f := range formats {
		if err := r.Register(f); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// DefaultRegistry holds every built-in bank format.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(rabobank.New(), cgd.New())
	if err != nil {
		panic(err)
	}

	return r
}

func (r *Registry) Register(f statement.Format) error {
	name := f.Name()
	if name == "" {
		return fmt.Errorf("register format: empty name")
	}

	if _, ok := r.formats[name]; ok {
		return fmt.Errorf("register format: %s already registered", name)
	}

	r.formats[name] = f

	return nil
}

func (r *Registry) Get(name string) (statement.Format, error) {
	f, ok := r.formats[name]
	if !ok {
		return nil, &UnknownFormatError{Format: name, Known: r.Names()}
	}

	return f, nil
}

// Names returns the registered format names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
