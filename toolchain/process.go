//go:build !windows

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

package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/NASA-IMPACT/hls-vi-historical/model"
	"github.com/NASA-IMPACT/hls-vi-historical/util"
)

// Diagnostic output kept from a failed process; anything longer is truncated
// from the front so the tail (where tracebacks end up) survives.
const maxCapturedOutput = 8 * 1024

// ArgsFunc builds the command line for one invocation
type ArgsFunc func(inputDir, outputDir string, g *model.GranuleID) []string

// OutputsFunc declares the file names a stage must have produced in the
// output directory for the invocation to count as complete
type OutputsFunc func(g *model.GranuleID) []string

// ProcessCapability runs an external binary as an isolated process bound to
// the workspace directories and granule identifier
type ProcessCapability struct {
	name    string
	bin     string
	args    ArgsFunc
	outputs OutputsFunc
	timeout time.Duration
	logCtx  util.LogContext
}

// NewProcessCapability wraps a binary as a Capability with a wall-clock
// budget per invocation
func NewProcessCapability(name, bin string, timeout time.Duration, logCtx util.LogContext, args ArgsFunc, outputs OutputsFunc) *ProcessCapability {
	return &ProcessCapability{
		name:    name,
		bin:     bin,
		args:    args,
		outputs: outputs,
		timeout: timeout,
		logCtx:  logCtx,
	}
}

// Name implements the Capability interface
func (c *ProcessCapability) Name() string { return c.name }

// Run implements the Capability interface. A budget overrun is
// ComputationTimeout (fatal, not retried: the computation is deterministic,
// so a timeout means a stuck input, not transience). A non-zero exit is
// ComputationFailed with captured diagnostics. Declared outputs missing or
// empty afterwards is IncompleteComputationOutput.
func (c *ProcessCapability) Run(ctx context.Context, inputDir, outputDir string, g *model.GranuleID) error {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := c.args(inputDir, outputDir, g)
	cmd := exec.CommandContext(runCtx, c.bin, args...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	// Dedicated process group so cancellation kills the tool and any
	// children it spawned, never leaving computation running detached.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	util.LogAudit(c.logCtx, util.LogAuditInput{
		Actor: "toolchain", Action: "exec", Actee: c.bin,
		Message:  fmt.Sprintf("Running %s for granule %s", c.name, g),
		Severity: util.INFO,
	})

	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return model.Errorf(model.ComputationTimeout,
				"%s exceeded its %v budget for granule %s", c.name, c.timeout, g)
		}
		if ctx.Err() != nil {
			// Externally induced termination, not a computation verdict.
			return ctx.Err()
		}
		return model.Errorf(model.ComputationFailed,
			"%s exited with error for granule %s: %v\n%s", c.name, g, err, tail(output.Bytes()))
	}

	return c.verifyOutputs(outputDir, g)
}

func (c *ProcessCapability) verifyOutputs(outputDir string, g *model.GranuleID) error {
	for _, name := range c.outputs(g) {
		info, err := os.Stat(filepath.Join(outputDir, name))
		if err != nil {
			return model.Errorf(model.IncompleteComputationOutput,
				"%s did not produce declared output %s for granule %s", c.name, name, g)
		}
		if info.Size() == 0 {
			return model.Errorf(model.IncompleteComputationOutput,
				"%s produced empty output %s for granule %s", c.name, name, g)
		}
	}
	return nil
}

func tail(output []byte) []byte {
	if len(output) > maxCapturedOutput {
		return output[len(output)-maxCapturedOutput:]
	}
	return output
}
