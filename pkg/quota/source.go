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
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Source provides the current quota definition. Implementations are expected
// to return a fresh view on every call; the orchestrator re-reads the
// definition at the top of each quota operation so that operators can change
// policy without restarting the service.
type Source interface {
	Read() (*File, error)
}

// FileSource reads the quota definition from a JSON or YAML file.
type FileSource struct {
	path string
}

var _ Source = &FileSource{}

// NewFileSource returns a Source backed by the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Read parses the quota file. A missing file yields an empty definition
// rather than an error; the service then degrades to "no quotas configured"
// instead of failing requests outright.
func (s *FileSource) Read() (*File, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to read quota file %s: %w", s.path, err)
	}

	file := &File{}
	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse quota file %s: %w", s.path, err)
	}

	return file, nil
}
