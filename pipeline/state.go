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

import "github.com/NASA-IMPACT/hls-vi-historical/model"

// State is the stage a run has reached. States advance strictly forward; a
// run that cannot advance moves to Failed and stays there.
type State string

// Run states, in pipeline order
const (
	Initialized         State = "Initialized"
	SourcesResolved     State = "SourcesResolved"
	SourcesAcquired     State = "SourcesAcquired"
	MetadataSanitized   State = "MetadataSanitized"
	ComputationComplete State = "ComputationComplete"
	CatalogRecordBuilt  State = "CatalogRecordBuilt"
	Published           State = "Published"
	Complete            State = "Complete"
	Failed              State = "Failed"
)

// Result is the outcome of one pipeline run
type Result struct {
	GranuleID string
	State     State
	Err       error
}

// ExitCode maps the result onto a process exit code: 0 for a completed run,
// the failure kind's code otherwise
func (r Result) ExitCode() int {
	if r.Err == nil {
		return 0
	}
	return model.KindOf(r.Err).ExitCode()
}
