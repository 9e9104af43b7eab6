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

// Package objectstore wraps S3-compatible bucket access for the pipeline.
// Transient failures (timeouts, throttling, 5xx) are retried with bounded
// exponential backoff inside this package; all other failures surface
// immediately.
package objectstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/NASA-IMPACT/hls-vi-historical/model"
)

// Object addresses one remote object
type Object struct {
	Bucket string
	Key    string
}

func (o Object) String() string {
	return "s3://" + o.Bucket + "/" + o.Key
}

// Upload describes one local file to be written to a remote object
type Upload struct {
	Object
	Path        string
	ContentType string
}

// Client is the set of object store primitives the pipeline needs
type Client interface {
	// Exists reports whether the object is present, without retrieving it
	Exists(ctx context.Context, obj Object) (bool, error)
	// Fetch downloads the object to a local file
	Fetch(ctx context.Context, obj Object, destPath string) error
	// Put uploads a local file to the object
	Put(ctx context.Context, up Upload) error
}

// FetchAll downloads a source object set into destDir, all-or-nothing: every
// object's existence is verified before any download starts, and a failure
// mid-download removes whatever was already written so no partial input set
// is left behind for computation. Local file names are the key basenames.
func FetchAll(ctx context.Context, client Client, sources []Object, destDir string) error {
	for _, source := range sources {
		exists, err := client.Exists(ctx, source)
		if err != nil {
			return err
		}
		if !exists {
			return model.Errorf(model.MissingSourceObject, "source object absent: %v", source)
		}
	}

	var fetched []string
	for _, source := range sources {
		destPath := filepath.Join(destDir, path.Base(source.Key))
		if err := client.Fetch(ctx, source, destPath); err != nil {
			for _, p := range fetched {
				os.Remove(p)
			}
			os.Remove(destPath)
			return fmt.Errorf("fetching %v: %w", source, err)
		}
		fetched = append(fetched, destPath)
	}

	return nil
}
