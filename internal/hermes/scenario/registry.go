// Package scenario implements the test-case registry, the process
// environment, the callback channel, and the scoped connection contexts
// that compose connect+handshake for conformance scenarios (spec §3, §4.E).
package scenario

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Func is the body of one registered scenario. It receives the Environment
// carrying peer address, identity, and callback wiring for this run.
type Func func(env *Environment) error

type entry struct {
	fn          Func
	module      string
	description string
}

// TestInfo is the public view of one registered scenario (spec §6
// "Exported API", available_tests()).
type TestInfo struct {
	Name        string
	Module      string
	Description string
	Tag         string
}

// Registry is a name-keyed collection of scenario registrations. Unlike the
// Python original's import-time module global, a Registry here is an
// explicitly constructed value threaded through cmd/hermes-harness and
// tests (spec §9 "Avoid global mutation during a scenario").
type Registry struct {
	mu      sync.Mutex
	entries map[string]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a named scenario. Registering a duplicate name is a
// programming error and is rejected here, mirroring the original
// decorator's NameError at import time.
func (r *Registry) Register(name, module, description string, fn Func) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("duplicate test case declared: %s", name)
	}
	r.entries[name] = entry{fn: fn, module: module, description: dedent(description)}
	return nil
}

// MustRegister panics on a duplicate name. Intended for use from a
// package-level RegisterAll called once at process startup, where a
// duplicate registration is unambiguously a coding bug rather than a
// runtime condition to recover from (spec §9 "Registration by import
// side effect").
func (r *Registry) MustRegister(name, module, description string, fn Func) {
	if err := r.Register(name, module, description, fn); err != nil {
		panic(err)
	}
}

func (r *Registry) lookup(name string) (entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	return e, ok
}

// AvailableTests returns name -> {module, description, tag}; tag is
// "H" + first 4 hex digits of md5(name) (spec §6 "Exported API").
func (r *Registry) AvailableTests() map[string]TestInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]TestInfo, len(r.entries))
	for name, e := range r.entries {
		out[name] = TestInfo{
			Name:        name,
			Module:      e.module,
			Description: e.description,
			Tag:         tagFor(name),
		}
	}
	return out
}

// Names returns the registered scenario names in sorted order, for stable
// CLI listings.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func tagFor(name string) string {
	sum := md5.Sum([]byte(name))
	return "H" + hex.EncodeToString(sum[:])[:4]
}

// dedent strips the common leading whitespace shared by every non-blank
// line, the way the original's docstrings are cleaned before display.
func dedent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	prefix := ""
	havePrefix := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !havePrefix {
			prefix = indent
			havePrefix = true
			continue
		}
		for !strings.HasPrefix(indent, prefix) && prefix != "" {
			prefix = prefix[:len(prefix)-1]
		}
	}
	if prefix == "" {
		return strings.TrimSpace(s)
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
