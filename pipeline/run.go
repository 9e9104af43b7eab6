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

// Package pipeline orchestrates one granule's journey from source objects to
// published VI data product. A run walks a fixed sequence of states and
// either reaches Complete or stops at the first failure; the scratch
// workspace is destroyed on every exit path.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/NASA-IMPACT/hls-vi-historical/catalog"
	"github.com/NASA-IMPACT/hls-vi-historical/metadata"
	"github.com/NASA-IMPACT/hls-vi-historical/model"
	"github.com/NASA-IMPACT/hls-vi-historical/objectstore"
	"github.com/NASA-IMPACT/hls-vi-historical/publish"
	"github.com/NASA-IMPACT/hls-vi-historical/stac"
	"github.com/NASA-IMPACT/hls-vi-historical/toolchain"
	"github.com/NASA-IMPACT/hls-vi-historical/util"
)

// Config holds the per-deployment settings of a pipeline
type Config struct {
	SourceBuckets catalog.Buckets
	Destination   publish.Destination
	ScratchDir    string
	JobID         string
}

// Pipeline wires together the components a run needs. Construct one per
// process; runs are independent and may execute concurrently. Source and
// destination stores are distinct clients: source-bucket access uses the
// externally refreshed read credentials, which must never sign destination
// writes.
type Pipeline struct {
	SourceStore objectstore.Client
	DestStore   objectstore.Client
	Indices     toolchain.Capability
	Metadata    toolchain.Capability
	Catalog     *stac.Builder
	Config      Config
	Log         util.LogContext
}

// Run executes the full pipeline for one granule identifier and reports the
// terminal state. Output object keys derive from the granule identifier, so
// re-running a granule overwrites its previous product rather than
// duplicating it.
func (p *Pipeline) Run(ctx context.Context, granuleID string) Result {
	state := Initialized
	fail := func(stage string, err error) Result {
		classified := model.Classify(err, "", stage, granuleID)
		util.LogAlert(p.Log, fmt.Sprintf("Run failed at %s: %v", state, classified))
		return Result{GranuleID: granuleID, State: Failed, Err: classified}
	}

	g, sources, err := catalog.Resolve(granuleID, p.Config.SourceBuckets)
	if err != nil {
		return fail("resolve", err)
	}
	state = SourcesResolved

	ws, err := NewWorkspace(p.Config.ScratchDir)
	if err != nil {
		return fail("workspace", err)
	}
	defer func() {
		if derr := ws.Destroy(); derr != nil {
			util.LogSimpleErr(p.Log, fmt.Sprintf("Could not destroy workspace %s: ", ws.Root), derr)
		}
	}()
	util.LogInfo(p.Log, fmt.Sprintf("Processing granule %s in workspace %s", g, ws.Root))

	objects := make([]objectstore.Object, len(sources))
	for i, source := range sources {
		objects[i] = objectstore.Object{Bucket: source.Bucket, Key: source.Key}
	}
	if err := objectstore.FetchAll(ctx, p.SourceStore, objects, ws.Inputs); err != nil {
		return fail("acquire", err)
	}
	state = SourcesAcquired

	metadataPath := filepath.Join(ws.Inputs, catalog.MetadataFilename(g))
	if err := metadata.SanitizeFile(metadataPath); err != nil {
		return fail("sanitize", err)
	}
	state = MetadataSanitized

	if err := p.Indices.Run(ctx, ws.Inputs, ws.Outputs, g); err != nil {
		return fail("compute", err)
	}
	if err := p.Metadata.Run(ctx, ws.Inputs, ws.Outputs, g); err != nil {
		return fail("compute", err)
	}
	state = ComputationComplete

	if err := p.Catalog.Build(ctx, ws.Inputs, ws.Outputs, g); err != nil {
		return fail("catalog", err)
	}
	state = CatalogRecordBuilt

	publisher := &publish.Publisher{Store: p.DestStore, Log: p.Log}
	manifest, err := publisher.Publish(ctx, g, ws.Outputs, p.Config.JobID, p.Config.Destination)
	if err != nil {
		return fail("publish", err)
	}
	state = Published

	util.LogAudit(p.Log, util.LogAuditInput{
		Actor: "pipeline", Action: "complete", Actee: g.VIGranuleID(),
		Message:  fmt.Sprintf("Run complete; manifest %s references %d files", manifest.Filename(), len(manifest.Files)),
		Severity: util.INFO,
	})
	state = Complete
	return Result{GranuleID: granuleID, State: state, Err: nil}
}
