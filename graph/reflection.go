// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// FieldKind tells whether a channel is consumed or produced by a pass.
type FieldKind int

const (
	// FieldInput is a resource the pass reads.
	FieldInput FieldKind = iota

	// FieldOutput is a resource the pass writes.
	FieldOutput
)

// String returns the string representation of FieldKind.
func (k FieldKind) String() string {
	switch k {
	case FieldInput:
		return "Input"
	case FieldOutput:
		return "Output"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Field is one declared channel of a pass.
type Field struct {
	Name     string
	Desc     string
	Kind     FieldKind
	Optional bool

	// Format is the requested texture format. TextureFormatUndefined lets
	// the graph pick its default.
	Format gputypes.TextureFormat
}

// SetOptional marks the field optional and returns it for chaining.
func (f *Field) SetOptional(optional bool) *Field {
	f.Optional = optional
	return f
}

// SetFormat sets the requested format and returns the field for chaining.
func (f *Field) SetFormat(format gputypes.TextureFormat) *Field {
	f.Format = format
	return f
}

// Reflection is the list of channels a pass declares at graph compile time.
// Declaration order is preserved.
type Reflection struct {
	fields []*Field
}

// NewReflection returns an empty reflection.
func NewReflection() *Reflection {
	return &Reflection{}
}

// AddInput declares an input channel.
func (r *Reflection) AddInput(name, desc string) *Field {
	return r.add(name, desc, FieldInput)
}

// AddOutput declares an output channel.
func (r *Reflection) AddOutput(name, desc string) *Field {
	return r.add(name, desc, FieldOutput)
}

func (r *Reflection) add(name, desc string, kind FieldKind) *Field {
	if f := r.Field(name); f != nil {
		f.Desc = desc
		f.Kind = kind
		return f
	}
	f := &Field{Name: name, Desc: desc, Kind: kind}
	r.fields = append(r.fields, f)
	return f
}

// Field returns the declared field with the given name, or nil.
func (r *Reflection) Field(name string) *Field {
	for _, f := range r.fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Fields returns all declared fields in declaration order.
func (r *Reflection) Fields() []Field {
	out := make([]Field, len(r.fields))
	for i, f := range r.fields {
		out[i] = *f
	}
	return out
}

// Inputs returns the declared input fields.
func (r *Reflection) Inputs() []Field {
	return r.filter(FieldInput)
}

// Outputs returns the declared output fields.
func (r *Reflection) Outputs() []Field {
	return r.filter(FieldOutput)
}

func (r *Reflection) filter(kind FieldKind) []Field {
	var out []Field
	for _, f := range r.fields {
		if f.Kind == kind {
			out = append(out, *f)
		}
	}
	return out
}
