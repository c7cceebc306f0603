/*
Copyright 2022 the acct-manager contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package quota turns a declarative scaling specification into concrete
// ResourceQuota and LimitRange payloads for a project.
package quota

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	corev1 "k8s.io/api/core/v1"
)

// Scope is a quota scope as it appears in the quota file.
type Scope string

const (
	// ScopeProject is a sentinel meaning "the whole project"; it maps to no
	// scope restriction on the generated ResourceQuota.
	ScopeProject        Scope = "Project"
	ScopeBestEffort     Scope = "BestEffort"
	ScopeNotBestEffort  Scope = "NotBestEffort"
	ScopeTerminating    Scope = "Terminating"
	ScopeNotTerminating Scope = "NotTerminating"
)

var validScopes = map[Scope]bool{
	ScopeProject:        true,
	ScopeBestEffort:     true,
	ScopeNotBestEffort:  true,
	ScopeTerminating:    true,
	ScopeNotTerminating: true,
}

// ScaledValue is a quota value expressed as base + coefficient, resolved
// against a caller-supplied multiplier at generation time.
type ScaledValue struct {
	Base        int64   `json:"base"`
	Coefficient float64 `json:"coefficient"`
	Units       string  `json:"units,omitempty"`
}

// Resolve converts base, coefficient, and multiplier into a value string.
//
// A coefficient of 0 means "fixed value, ignore multiplier": base is used
// unmodified. Otherwise the value is round(base * coefficient * multiplier).
func (v ScaledValue) Resolve(multiplier int) string {
	value := v.Base
	if v.Coefficient != 0 {
		value = int64(math.Round(float64(v.Base) * v.Coefficient * float64(multiplier)))
	}

	return fmt.Sprintf("%d%s", value, v.Units)
}

// UnmarshalJSON accepts numeric fields both quoted and unquoted; quota files
// written for earlier versions of this service quoted their numbers.
func (v *ScaledValue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Base        json.RawMessage `json:"base"`
		Coefficient json.RawMessage `json:"coefficient"`
		Units       string          `json:"units"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	base, err := parseInt(raw.Base)
	if err != nil {
		return fmt.Errorf("invalid base: %w", err)
	}

	coefficient, err := parseFloat(raw.Coefficient)
	if err != nil {
		return fmt.Errorf("invalid coefficient: %w", err)
	}

	v.Base = base
	v.Coefficient = coefficient
	v.Units = raw.Units

	return nil
}

func unquote(data json.RawMessage) string {
	return string(bytes.Trim(bytes.TrimSpace(data), `"`))
}

func parseInt(data json.RawMessage) (int64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	return strconv.ParseInt(unquote(data), 10, 64)
}

func parseFloat(data json.RawMessage) (float64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	return strconv.ParseFloat(unquote(data), 64)
}

// QuotaSpec is one quota group in the quota file: a set of scopes plus a
// map of resource name to scaled value.
type QuotaSpec struct {
	Scopes []Scope                `json:"scopes"`
	Values map[string]ScaledValue `json:"values"`
}

// LimitSpec declares the limits for a single limit type. Each category maps
// resource names to scaled values.
type LimitSpec struct {
	Type                 corev1.LimitType       `json:"type"`
	Max                  map[string]ScaledValue `json:"max,omitempty"`
	Min                  map[string]ScaledValue `json:"min,omitempty"`
	Default              map[string]ScaledValue `json:"default,omitempty"`
	DefaultRequest       map[string]ScaledValue `json:"defaultRequest,omitempty"`
	MaxLimitRequestRatio map[string]ScaledValue `json:"maxLimitRequestRatio,omitempty"`
}

// File is the quota definition file.
type File struct {
	Quotas []QuotaSpec `json:"quotas,omitempty"`
	Limits []LimitSpec `json:"limits,omitempty"`
}

// Empty returns true when the file declares neither quotas nor limits.
func (f *File) Empty() bool {
	return len(f.Quotas) == 0 && len(f.Limits) == 0
}

// Validate checks scope names in all declared quota groups.
func (f *File) Validate() error {
	for _, q := range f.Quotas {
		for _, scope := range q.Scopes {
			if !validScopes[scope] {
				return fmt.Errorf("invalid quota scope %q", scope)
			}
		}
	}

	return nil
}
