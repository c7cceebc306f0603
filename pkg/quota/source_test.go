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

package quota

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
)

func TestFileSourceMissingFile(t *testing.T) {
	source := NewFileSource(filepath.Join(t.TempDir(), "does-not-exist.json"))

	file, err := source.Read()
	if err != nil {
		t.Fatalf("a missing quota file must not be an error, got %v", err)
	}
	if !file.Empty() {
		t.Fatalf("expected an empty definition, got %+v", file)
	}
}

func TestFileSourceJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotas.json")
	data := `{
  "quotas": [
    {
      "scopes": ["Project"],
      "values": {
        "requests.cpu": {"base": "2", "coefficient": "1"}
      }
    }
  ]
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	file, err := NewFileSource(path).Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := &File{
		Quotas: []QuotaSpec{
			{
				Scopes: []Scope{ScopeProject},
				Values: map[string]ScaledValue{
					"requests.cpu": {Base: 2, Coefficient: 1},
				},
			},
		},
	}
	if diff := deep.Equal(file, expected); diff != nil {
		t.Fatalf("unexpected definition: %v", diff)
	}
}

func TestFileSourceYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotas.yaml")
	data := `
quotas:
  - scopes: [Terminating]
    values:
      limits.cpu:
        base: 4
        coefficient: 0.5
limits:
  - type: Container
    default:
      cpu:
        base: 500
        units: m
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	file, err := NewFileSource(path).Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(file.Quotas) != 1 || len(file.Limits) != 1 {
		t.Fatalf("unexpected definition: %+v", file)
	}
	if file.Quotas[0].Values["limits.cpu"].Coefficient != 0.5 {
		t.Errorf("unexpected coefficient %v", file.Quotas[0].Values["limits.cpu"].Coefficient)
	}
}

func TestFileSourceInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotas.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileSource(path).Read(); err == nil {
		t.Fatal("expected an error for an unparseable file")
	}
}
