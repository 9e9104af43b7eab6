// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the per-run scratch area. Inputs holds the fetched source
// objects, Outputs collects everything produced for publication. A workspace
// lives exactly as long as one run.
type Workspace struct {
	Root    string
	Inputs  string
	Outputs string
}

// NewWorkspace creates a fresh scratch area under baseDir (os.TempDir when
// empty) with separate input and output directories
func NewWorkspace(baseDir string) (*Workspace, error) {
	root, err := os.MkdirTemp(baseDir, "hls-vi-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch workspace: %w", err)
	}

	ws := &Workspace{
		Root:    root,
		Inputs:  filepath.Join(root, "inputs"),
		Outputs: filepath.Join(root, "outputs"),
	}
	for _, dir := range []string{ws.Inputs, ws.Outputs} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			os.RemoveAll(root)
			return nil, fmt.Errorf("creating scratch workspace: %w", err)
		}
	}
	return ws, nil
}

// Destroy removes the workspace and everything in it. Safe to call more than
// once.
func (ws *Workspace) Destroy() error {
	return os.RemoveAll(ws.Root)
}
