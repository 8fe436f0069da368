package fulltext

import (
	"fmt"
	"sort"

	"github.com/goto/fulltext/core/validator"
)

// Definition declares a searchable model, usually read from configuration.
type Definition struct {
	Table        string                        `json:"table" yaml:"table" mapstructure:"table" validate:"required"`
	Fields       map[string]string             `json:"fields" yaml:"fields" mapstructure:"fields" validate:"min=1"`
	SearchFields []string                      `json:"search_fields" yaml:"search_fields" mapstructure:"search_fields"`
	Relations    map[string]RelationDefinition `json:"relations" yaml:"relations" mapstructure:"relations" validate:"dive"`
}

type RelationDefinition struct {
	Model      string `json:"model" yaml:"model" mapstructure:"model" validate:"required"`
	Column     string `json:"column" yaml:"column" mapstructure:"column" validate:"required"`
	References string `json:"references" yaml:"references" mapstructure:"references"`
	Nullable   bool   `json:"nullable" yaml:"nullable" mapstructure:"nullable"`
}

func (d Definition) Validate() error {
	return validator.ValidateStruct(d)
}

// Registry holds linked models and a manager per model.
type Registry struct {
	models   map[string]*Model
	managers map[string]*Manager
}

// NewRegistry builds models from definitions and links their relations.
// Default search fields are resolved eagerly so a bad definition fails here
// rather than on the first search.
func NewRegistry(defs map[string]Definition) (*Registry, error) {
	r := &Registry{
		models:   make(map[string]*Model, len(defs)),
		managers: make(map[string]*Manager, len(defs)),
	}

	for name, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid model %q: %w", name, err)
		}
		r.models[name] = &Model{
			Name:      name,
			Table:     def.Table,
			Fields:    def.Fields,
			Relations: make(map[string]Relation, len(def.Relations)),
		}
	}

	for name, def := range defs {
		model := r.models[name]
		for relName, relDef := range def.Relations {
			target, ok := r.models[relDef.Model]
			if !ok {
				return nil, fmt.Errorf("model %q relation %q: %w", name, relName, ModelNotFoundError{Name: relDef.Model})
			}
			model.Relations[relName] = Relation{
				Model:      target,
				Column:     relDef.Column,
				References: relDef.References,
				Nullable:   relDef.Nullable,
			}
		}
	}

	for name, def := range defs {
		model := r.models[name]
		for _, field := range def.SearchFields {
			if _, err := model.Lookup(field); err != nil {
				return nil, fmt.Errorf("model %q search field %q: %w", name, field, err)
			}
		}
		r.managers[name] = NewManager(model, def.SearchFields...)
	}

	return r, nil
}

func (r *Registry) Model(name string) (*Model, error) {
	m, ok := r.models[name]
	if !ok {
		return nil, ModelNotFoundError{Name: name}
	}
	return m, nil
}

func (r *Registry) Manager(name string) (*Manager, error) {
	m, ok := r.managers[name]
	if !ok {
		return nil, ModelNotFoundError{Name: name}
	}
	return m, nil
}

// Names returns the registered model names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
