// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"errors"
	"testing"
)

type stubPass struct {
	dict Dictionary
}

func (p *stubPass) Name() string                    { return "Stub" }
func (p *stubPass) Reflect() *Reflection            { return NewReflection() }
func (p *stubPass) ScriptingDictionary() Dictionary { return p.dict }

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	err := r.Register("Stub", "stub pass", func(d Dictionary) (RenderPass, error) {
		return &stubPass{dict: d}, nil
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	entry, ok := r.Lookup("Stub")
	if !ok {
		t.Fatal("registered class not found")
	}
	if entry.Desc != "stub pass" {
		t.Errorf("Desc = %q, want %q", entry.Desc, "stub pass")
	}

	p, err := r.NewPass("Stub", nil)
	if err != nil {
		t.Fatalf("NewPass: %v", err)
	}
	if p.ScriptingDictionary() == nil {
		t.Error("factory should receive a non-nil dictionary")
	}
}

func TestRegistryNilFactory(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("Nil", "", nil); !errors.Is(err, ErrNilFactory) {
		t.Errorf("Register(nil) = %v, want ErrNilFactory", err)
	}
}

func TestRegistryNotFound(t *testing.T) {
	r := NewRegistry()
	_, err := r.NewPass("Missing", nil)

	var nf *PassNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("NewPass(Missing) = %v, want PassNotFoundError", err)
	}
	if nf.Name != "Missing" {
		t.Errorf("Name = %q, want Missing", nf.Name)
	}
}

func TestRegistryClassesAndUnregister(t *testing.T) {
	r := NewRegistry()
	factory := func(d Dictionary) (RenderPass, error) { return &stubPass{}, nil }
	_ = r.Register("B", "", factory)
	_ = r.Register("A", "", factory)

	got := r.Classes()
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("Classes() = %v, want [A B]", got)
	}

	r.Unregister("A")
	if _, ok := r.Lookup("A"); ok {
		t.Error("class should be gone after Unregister")
	}
}
