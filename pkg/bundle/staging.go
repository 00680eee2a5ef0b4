// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Prefix starts every staging directory and archive name.
const Prefix = "konnector-support-bundle"

const timestampLayout = "20060102-150405"

// StagingName returns the bundle name for a run started at t.
func StagingName(namespace, release string, t time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%s", Prefix, namespace, release, t.Format(timestampLayout))
}

// Staging is the run-private directory artifacts are written to.
type Staging struct {
	// Name is the directory base name, reused for the archive.
	Name string
	// Dir is the absolute directory path.
	Dir string

	once sync.Once
	err  error
}

// acquireStaging creates workDir/name. An existing path is an error; the
// directory belongs to exactly one run.
func acquireStaging(workDir, name string) (*Staging, error) {
	dir, err := filepath.Abs(filepath.Join(workDir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve staging directory: %w", err)
	}
	if err := os.Mkdir(dir, 0o700); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("staging directory %s already exists", dir)
		}
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &Staging{Name: name, Dir: dir}, nil
}

// Release removes the staging directory. Only the first call does work.
func (s *Staging) Release() error {
	s.once.Do(func() {
		if err := os.RemoveAll(s.Dir); err != nil {
			s.err = fmt.Errorf("failed to remove staging directory %s: %w", s.Dir, err)
		}
	})
	return s.err
}
