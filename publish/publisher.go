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

// Package publish uploads a granule's produced artifact set and its manifest
// to the destination bucket. The manifest is the downstream ingestion
// trigger, so it is built only after every artifact upload has succeeded and
// is always the last object written: an interrupted run can leave orphan
// artifacts, but never a manifest referencing an absent object.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/NASA-IMPACT/hls-vi-historical/model"
	"github.com/NASA-IMPACT/hls-vi-historical/objectstore"
	"github.com/NASA-IMPACT/hls-vi-historical/util"
)

const uploadWorkers = 4

// Manifests written in debug mode go under this prefix, which the downstream
// ingestion trigger does not watch.
const debugManifestPrefix = "_debug/"

// Destination selects the bucket a run publishes to. Debug destinations must
// never trigger downstream ingestion.
type Destination struct {
	Bucket string
	Debug  bool
}

// Publisher uploads produced artifacts plus a manifest
type Publisher struct {
	Store objectstore.Client
	Log   util.LogContext
}

// Publish scans outputDir for the produced artifact set, uploads every
// artifact (concurrently, each to its own destination key), then builds the
// manifest and uploads it last. Destination keys are derived from the
// granule identifier, so re-running a granule overwrites the same keys.
func (p *Publisher) Publish(ctx context.Context, g *model.GranuleID, outputDir, jobID string, dest Destination) (*model.Manifest, error) {
	artifacts, err := model.ScanOutputDir(outputDir)
	if err != nil {
		return nil, model.Errorf(model.PublicationFailed, "scanning output area: %v", err)
	}
	if len(artifacts) == 0 {
		return nil, model.Errorf(model.PublicationFailed, "output area is empty for granule %s", g)
	}

	prefix := g.OutputKeyPrefix()
	if err := p.uploadArtifacts(ctx, artifacts, dest.Bucket, prefix); err != nil {
		return nil, err
	}

	creators := make([]model.ManifestEntryCreator, len(artifacts))
	for i, artifact := range artifacts {
		creators[i] = artifact
	}
	manifest := model.NewManifest(g, jobID, dest.Bucket, creators)

	manifestKey := prefix + "/" + manifest.Filename()
	if dest.Debug {
		manifestKey = debugManifestPrefix + manifestKey
	}
	if err := p.uploadManifest(ctx, manifest, outputDir, dest.Bucket, manifestKey); err != nil {
		return nil, err
	}

	util.LogInfo(p.Log, fmt.Sprintf("Published %d artifacts and manifest for granule %s to s3://%s/%s",
		len(artifacts), g, dest.Bucket, prefix))
	return manifest, nil
}

// uploadArtifacts uploads the artifact set with a small worker pool; order
// among artifacts does not matter since every one targets a distinct key
func (p *Publisher) uploadArtifacts(ctx context.Context, artifacts []model.Artifact, bucket, prefix string) error {
	tasks := make(chan model.Artifact, len(artifacts))
	for _, artifact := range artifacts {
		tasks <- artifact
	}
	close(tasks)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for w := 0; w < uploadWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for artifact := range tasks {
				err := p.Store.Put(ctx, objectstore.Upload{
					Object:      objectstore.Object{Bucket: bucket, Key: prefix + "/" + artifact.Name},
					Path:        artifact.Path,
					ContentType: contentTypeFor(artifact.Name),
				})
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return model.Errorf(model.PublicationFailed, "uploading artifacts: %v", firstErr)
	}
	return nil
}

func (p *Publisher) uploadManifest(ctx context.Context, manifest *model.Manifest, outputDir, bucket, key string) error {
	body, err := manifest.JSON()
	if err != nil {
		return model.Errorf(model.PublicationFailed, "serializing manifest: %v", err)
	}

	manifestPath := filepath.Join(outputDir, manifest.Filename())
	if err := os.WriteFile(manifestPath, body, 0o644); err != nil {
		return model.Errorf(model.PublicationFailed, "writing manifest: %v", err)
	}

	err = p.Store.Put(ctx, objectstore.Upload{
		Object:      objectstore.Object{Bucket: bucket, Key: key},
		Path:        manifestPath,
		ContentType: "application/json",
	})
	if err != nil {
		return model.Errorf(model.PublicationFailed, "uploading manifest: %v", err)
	}
	return nil
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tif", ".tiff":
		return "image/tiff"
	case ".xml":
		return "application/xml"
	case ".json":
		return "application/json"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	return "application/octet-stream"
}
