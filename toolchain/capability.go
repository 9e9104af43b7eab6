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

// Package toolchain invokes the external VI computation binaries. Each
// binary is wrapped as a Capability with a fixed contract (input directory,
// output directory and granule identifier in, files on disk out) so an
// in-process computation engine could substitute for process invocation
// without touching the orchestrator.
package toolchain

import (
	"context"

	"github.com/NASA-IMPACT/hls-vi-historical/model"
)

// Capability is one computation step that reads granule inputs from a
// directory and materializes declared outputs in another
type Capability interface {
	Name() string
	Run(ctx context.Context, inputDir, outputDir string, g *model.GranuleID) error
}

// CapabilityFunc adapts a function to the Capability interface
type CapabilityFunc struct {
	CapabilityName string
	RunFunc        func(ctx context.Context, inputDir, outputDir string, g *model.GranuleID) error
}

// Name implements the Capability interface
func (c CapabilityFunc) Name() string { return c.CapabilityName }

// Run implements the Capability interface
func (c CapabilityFunc) Run(ctx context.Context, inputDir, outputDir string, g *model.GranuleID) error {
	return c.RunFunc(ctx, inputDir, outputDir, g)
}
