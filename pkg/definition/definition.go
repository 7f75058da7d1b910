package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/transit/pkg/statemachine"
)

// allowKeyword marks an unconditional edge.
const allowKeyword = "allow"

// Registry resolves guard names used in a definition.
type Registry map[string]statemachine.Hook

// Definition is a parsed machine description.
type Definition struct {
	Name     string                                                  `yaml:"name,omitempty"`
	Initial  statemachine.State                                      `yaml:"initial"`
	FailFast bool                                                    `yaml:"fail_fast,omitempty"`
	States   map[statemachine.State]map[statemachine.State]EdgeSpec `yaml:"states"`
}

// EdgeSpec is one target entry. An empty Guard means the edge is allowed.
type EdgeSpec struct {
	Guard string
}

// UnmarshalYAML accepts the scalar "allow" or a mapping whose only key is guard.
func (e *EdgeSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value != allowKeyword {
			return fmt.Errorf("%w: line %d: expected %q or a guard mapping, got %q",
				ErrInvalidEdge, value.Line, allowKeyword, value.Value)
		}
		*e = EdgeSpec{}
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			if key := value.Content[i]; key.Value != "guard" {
				return fmt.Errorf("%w: line %d: unknown key %q", ErrInvalidEdge, key.Line, key.Value)
			}
		}
		var raw struct {
			Guard string `yaml:"guard"`
		}
		if err := value.Decode(&raw); err != nil {
			return errors.Join(ErrInvalidEdge, err)
		}
		if raw.Guard == "" {
			return fmt.Errorf("%w: line %d: guard name is empty", ErrInvalidEdge, value.Line)
		}
		*e = EdgeSpec{Guard: raw.Guard}
		return nil
	default:
		return fmt.Errorf("%w: line %d: unexpected node", ErrInvalidEdge, value.Line)
	}
}

// MarshalYAML writes the form accepted by UnmarshalYAML.
func (e EdgeSpec) MarshalYAML() (any, error) {
	if e.Guard == "" {
		return allowKeyword, nil
	}
	return map[string]string{"guard": e.Guard}, nil
}

// Parse decodes a YAML definition. Unknown keys are rejected.
func Parse(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDefinition
		}
		if errors.Is(err, ErrInvalidEdge) {
			return nil, err
		}
		return nil, errors.Join(ErrInvalidDefinition, err)
	}
	return &def, nil
}

// LoadFile reads and parses the definition at path.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}
	return Parse(data)
}

// Encode renders the definition back to YAML.
func (d *Definition) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Guards returns the sorted, de-duplicated guard names the definition uses.
func (d *Definition) Guards() []string {
	var names []string
	for _, targets := range d.States {
		for _, edge := range targets {
			if edge.Guard != "" && !slices.Contains(names, edge.Guard) {
				names = append(names, edge.Guard)
			}
		}
	}
	slices.Sort(names)
	return names
}

// Table builds the transition table, resolving guard names through reg.
func (d *Definition) Table(reg Registry) (statemachine.Table, error) {
	table := make(statemachine.Table, len(d.States))
	for from, targets := range d.States {
		edges := make(map[statemachine.State]statemachine.Edge, len(targets))
		for to, e := range targets {
			if e.Guard == "" {
				edges[to] = statemachine.Allowed()
				continue
			}
			hook, ok := reg[e.Guard]
			if !ok || hook == nil {
				return nil, fmt.Errorf("%w: %q on edge %q -> %q", ErrUnknownGuard, e.Guard, from, to)
			}
			edges[to] = statemachine.Guarded(hook)
		}
		table[from] = edges
	}
	return table, nil
}

// NewMachine builds a machine from the definition. The definition's fail-fast
// setting is applied before opts, so opts may override it.
func (d *Definition) NewMachine(reg Registry, opts ...statemachine.Option) (*statemachine.Machine, error) {
	table, err := d.Table(reg)
	if err != nil {
		return nil, err
	}
	all := make([]statemachine.Option, 0, len(opts)+1)
	all = append(all, statemachine.WithFailFast(d.FailFast))
	all = append(all, opts...)
	return statemachine.New(table, d.Initial, all...)
}
