package fulltext

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMode = errors.New("unknown search mode")
	ErrNoColumns   = errors.New("match requires at least one column")
	ErrNoFields    = errors.New("no search fields defined")
	ErrEmptyQuery  = errors.New("search query is empty")
	ErrEmptyField  = errors.New("empty field name")
	ErrNilModel    = errors.New("nil model")
)

type FieldNotFoundError struct {
	Model string
	Field string
}

func (err FieldNotFoundError) Error() string {
	return fmt.Sprintf("model %q has no field named %q", err.Model, err.Field)
}

type RelationNotFoundError struct {
	Model    string
	Relation string
}

func (err RelationNotFoundError) Error() string {
	return fmt.Sprintf("model %q has no relation named %q", err.Model, err.Relation)
}

type ModelNotFoundError struct {
	Name string
}

func (err ModelNotFoundError) Error() string {
	if err.Name == "" {
		return "could not find model"
	}
	return fmt.Sprintf("no such model: %q", err.Name)
}
