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

// Package stac produces the spatio-temporal catalog record for a VI granule.
package stac

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/venicegeo/geojson-go/geojson"

	"github.com/NASA-IMPACT/hls-vi-historical/model"
	"github.com/NASA-IMPACT/hls-vi-historical/toolchain"
	"github.com/NASA-IMPACT/hls-vi-historical/util"
)

// Builder runs the catalog record generation capability and validates its
// product. A granule without a discoverable catalog record is not usable
// downstream even when its rasters exist, so every failure here is fatal.
type Builder struct {
	Generator toolchain.Capability
	Log       util.LogContext
}

// Build generates the STAC item for the granule into the output directory
// and verifies it is a well-formed GeoJSON Feature with a geometry
func (b *Builder) Build(ctx context.Context, inputDir, outputDir string, g *model.GranuleID) error {
	if err := b.Generator.Run(ctx, inputDir, outputDir, g); err != nil {
		if ctx.Err() != nil {
			return err
		}
		// However the generator failed, the verdict for this stage is that no
		// catalog record could be produced.
		return &model.PipelineError{
			Kind:      model.CatalogRecordGenerationFailed,
			GranuleID: g.String(),
			Err:       err,
		}
	}

	itemPath := filepath.Join(outputDir, toolchain.StacItemFilename(g))
	body, err := os.ReadFile(itemPath)
	if err != nil {
		return b.invalidRecord(g,
			fmt.Sprintf("catalog record absent after generation at %s: %v", itemPath, err),
			"catalog record was not produced")
	}

	parsed, err := geojson.Parse(body)
	if err != nil {
		return b.invalidRecord(g,
			fmt.Sprintf("catalog record does not parse as GeoJSON: %v\n%s", err, body),
			"catalog record is not valid GeoJSON")
	}
	feature, ok := parsed.(*geojson.Feature)
	if !ok {
		return b.invalidRecord(g,
			fmt.Sprintf("catalog record parsed as %T, expected a Feature", parsed),
			"catalog record is not a GeoJSON Feature")
	}
	if feature.Geometry == nil {
		return b.invalidRecord(g, "catalog record Feature has no geometry", "catalog record has no geometry")
	}

	util.LogInfo(b.Log, fmt.Sprintf("Catalog record built for granule %s: %s", g, itemPath))
	return nil
}

// invalidRecord logs the full validation detail and returns the classified
// failure carrying the user-facing message
func (b *Builder) invalidRecord(g *model.GranuleID, logMsg, simpleMsg string) error {
	detail := util.Error{LogMsg: logMsg, SimpleMsg: simpleMsg}
	return &model.PipelineError{
		Kind:      model.CatalogRecordGenerationFailed,
		GranuleID: g.String(),
		Err:       detail.Log(b.Log, fmt.Sprintf("Catalog record for granule %s", g)),
	}
}
