// Package generator holds the random byte generators the comparison tool
// measures side by side.
package generator

import (
	"fmt"
	"sort"
)

// Generator interface for all RNG types
type Generator interface {
	Name() string
	GenerateBytes(numBytes int) ([]byte, error)
}

// factory builds a generator from the configured seed. Generators that
// draw their own entropy ignore it.
type factory func(seed []byte) (Generator, error)

var registry = map[string]factory{
	"system":   func([]byte) (Generator, error) { return NewSystemCSPRNG(), nil },
	"math":     func([]byte) (Generator, error) { return NewMathPRNG(), nil },
	"external": func(seed []byte) (Generator, error) { return NewExternal(seed) },
	"blake3":   func(seed []byte) (Generator, error) { return NewBlake3XOF(seed), nil },
	"chacha20": func(seed []byte) (Generator, error) { return NewChaCha20(seed), nil },
	"hkdf":     func(seed []byte) (Generator, error) { return NewHKDF(seed), nil },
}

// Names returns the registered generator names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is a registered generator.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// Lookup builds the generator registered under name.
func Lookup(name string, seed []byte) (Generator, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator %q", name)
	}
	g, err := build(seed)
	if err != nil {
		return nil, fmt.Errorf("building generator %q: %w", name, err)
	}
	return g, nil
}

// LookupAll builds every named generator, in order.
func LookupAll(names []string, seed []byte) ([]Generator, error) {
	generators := make([]Generator, 0, len(names))
	for _, name := range names {
		g, err := Lookup(name, seed)
		if err != nil {
			return nil, err
		}
		generators = append(generators, g)
	}
	return generators, nil
}
