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

// Package catalog derives the remote source object set for a granule from
// HLS naming conventions. It performs no I/O.
package catalog

import (
	"fmt"

	"github.com/NASA-IMPACT/hls-vi-historical/model"
)

// Source roles
const (
	RoleThumbnail      = "thumbnail"
	RoleFmask          = "fmask"
	RoleSourceMetadata = "source-metadata"
)

// BandRole returns the role name for a spectral band, e.g. band-B04
func BandRole(band string) string {
	return "band-" + band
}

// SourceObject is one remote object required as pipeline input
type SourceObject struct {
	Role   string
	Bucket string
	Key    string
}

// SourceSet is the ordered set of source objects for one granule
type SourceSet []SourceObject

// Buckets names the two logical source buckets
type Buckets struct {
	Protected string
	Public    string
}

// Resolve maps a granule identifier onto its ordered source object set: the
// browse thumbnail from the public bucket, then the VI-relevant band rasters,
// the Fmask, and the CMR metadata document from the protected bucket. Only
// files needed to produce VI outputs are included.
func Resolve(granuleID string, buckets Buckets) (*model.GranuleID, SourceSet, error) {
	g, err := model.ParseGranuleID(granuleID)
	if err != nil {
		return nil, nil, err
	}

	folder := fmt.Sprintf("%s/%s", g.Collection(), g)
	sources := SourceSet{{
		Role:   RoleThumbnail,
		Bucket: buckets.Public,
		Key:    fmt.Sprintf("%s/%s.jpg", folder, g),
	}}

	for _, band := range g.Bands() {
		sources = append(sources, SourceObject{
			Role:   BandRole(band),
			Bucket: buckets.Protected,
			Key:    fmt.Sprintf("%s/%s.%s.tif", folder, g, band),
		})
	}

	sources = append(sources,
		SourceObject{
			Role:   RoleFmask,
			Bucket: buckets.Protected,
			Key:    fmt.Sprintf("%s/%s.Fmask.tif", folder, g),
		},
		SourceObject{
			Role:   RoleSourceMetadata,
			Bucket: buckets.Protected,
			Key:    fmt.Sprintf("%s/%s.cmr.xml", folder, g),
		},
	)

	return g, sources, nil
}

// ByRole finds the source object with the given role
func (s SourceSet) ByRole(role string) (SourceObject, bool) {
	for _, source := range s {
		if source.Role == role {
			return source, true
		}
	}
	return SourceObject{}, false
}

// MetadataFilename returns the local file name of the granule's CMR metadata
// document once downloaded into a workspace input area
func MetadataFilename(g *model.GranuleID) string {
	return g.String() + ".cmr.xml"
}
