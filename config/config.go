// Copyright 2026 The Transit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cast"
)

// Package-level errors.
var (
	ErrUnknownFormat   = errors.New("config: unknown format")
	ErrUnknownCallback = errors.New("config: unknown callback")
)

// Format identifies a manifest encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Option configures a Loader.
type Option func(*Loader) error

// Loader reads route manifests from one or more sources and merges them in
// order, later sources overriding earlier ones. Safe for concurrent reads
// after New returns.
type Loader struct {
	mu     sync.RWMutex
	values map[string]any
}

// New builds a loader from the given sources.
func New(opts ...Option) (*Loader, error) {
	l := &Loader{values: map[string]any{}}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// MustNew is New, panicking on error.
func MustNew(opts ...Option) *Loader {
	l, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return l
}

// WithFile loads a manifest file, detecting the format from its extension
// (.yaml, .yml, .toml). Paths support ${VAR} environment expansion.
func WithFile(path string) Option {
	return func(l *Loader) error {
		path = os.ExpandEnv(path)
		format, err := detectFormat(path)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		return l.mergeRaw(raw, format)
	}
}

// WithBytes loads a manifest from memory in the given format.
func WithBytes(raw []byte, format Format) Option {
	return func(l *Loader) error {
		return l.mergeRaw(raw, format)
	}
}

// WithValues merges an already-decoded value tree.
func WithValues(values map[string]any) Option {
	return func(l *Loader) error {
		return l.merge(values)
	}
}

func (l *Loader) mergeRaw(raw []byte, format Format) error {
	var values map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("config: decode yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("config: decode toml: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return l.merge(values)
}

func (l *Loader) merge(values map[string]any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := mergo.Merge(&l.values, values, mergo.WithOverride); err != nil {
		return fmt.Errorf("config: merge: %w", err)
	}
	return nil
}

// Get returns the raw value at a dotted path, or nil when absent.
func (l *Loader) Get(path string) any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var cur any = l.values
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[part]
		if !ok {
			return nil
		}
	}
	return cur
}

// GetString returns the value at path as a string.
func (l *Loader) GetString(path string) string {
	return cast.ToString(l.Get(path))
}

// GetInt returns the value at path as an int.
func (l *Loader) GetInt(path string) int {
	return cast.ToInt(l.Get(path))
}

// GetBool returns the value at path as a bool.
func (l *Loader) GetBool(path string) bool {
	return cast.ToBool(l.Get(path))
}

// GetDuration returns the value at path as a time.Duration.
func (l *Loader) GetDuration(path string) time.Duration {
	return cast.ToDuration(l.Get(path))
}

// Manifest decodes the merged values into a typed manifest.
func (l *Loader) Manifest() (*Manifest, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var m Manifest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &m,
		TagName: "config",
	})
	if err != nil {
		return nil, fmt.Errorf("config: decoder: %w", err)
	}
	if err := dec.Decode(l.values); err != nil {
		return nil, fmt.Errorf("config: decode manifest: %w", err)
	}
	return &m, nil
}

func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}
