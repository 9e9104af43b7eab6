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

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/NASA-IMPACT/hls-vi-historical/catalog"
	"github.com/NASA-IMPACT/hls-vi-historical/objectstore"
	"github.com/NASA-IMPACT/hls-vi-historical/pipeline"
	"github.com/NASA-IMPACT/hls-vi-historical/publish"
	"github.com/NASA-IMPACT/hls-vi-historical/stac"
	"github.com/NASA-IMPACT/hls-vi-historical/toolchain"
	"github.com/NASA-IMPACT/hls-vi-historical/util"
)

// Exit code for configuration and usage errors, distinct from any pipeline
// failure code
const configErrorCode = 2

func newLogContext() util.LogContext {
	if jobID := util.GetJobID(); jobID != "" {
		return util.JobLogContext{JobID: jobID}
	}
	return &(util.BasicLogContext{})
}

// buildPipeline assembles a pipeline from the process environment. The
// externally refreshed credential triple is scoped to the HLS source buckets;
// destination uploads go through a separate client signing with the ambient
// role instead.
func buildPipeline(logCtx util.LogContext) (*pipeline.Pipeline, error) {
	creds, _ := util.GetSourceCredentials(logCtx)
	sourceStore, err := objectstore.NewMinioClient(util.GetS3Endpoint(), creds, logCtx)
	if err != nil {
		return nil, err
	}
	destStore, err := objectstore.NewMinioClient(util.GetS3Endpoint(), nil, logCtx)
	if err != nil {
		return nil, err
	}

	var destination publish.Destination
	if debugBucket, ok := util.GetDebugBucket(); ok {
		destination = publish.Destination{Bucket: debugBucket, Debug: true}
	} else {
		destination = publish.Destination{Bucket: util.GetOutputBucket(logCtx)}
	}
	if destination.Bucket == "" {
		return nil, errors.New("no output bucket configured; set " + util.VI_OUTPUT_BUCKET + " or " + util.VI_DEBUG_BUCKET)
	}

	timeout := util.GetToolTimeout(logCtx)

	return &pipeline.Pipeline{
		SourceStore: sourceStore,
		DestStore:   destStore,
		Indices:     toolchain.NewIndexGenerator(timeout, logCtx),
		Metadata:    toolchain.NewMetadataGenerator(timeout, logCtx),
		Catalog: &stac.Builder{
			Generator: toolchain.NewStacItemGenerator(util.GetStacEndpoint(), util.GetStacVersion(), timeout, logCtx),
			Log:       logCtx,
		},
		Config: pipeline.Config{
			SourceBuckets: catalog.Buckets{
				Protected: util.GetProtectedBucket(),
				Public:    util.GetPublicBucket(),
			},
			Destination: destination,
			ScratchDir:  util.GetScratchDir(),
			JobID:       util.GetJobID(),
		},
		Log: logCtx,
	}, nil
}

func processAction(c *cli.Context) error {
	granuleID := c.Args().First()
	if granuleID == "" {
		granuleID = util.GetGranuleID()
	}
	if granuleID == "" {
		return cli.NewExitError("no granule identifier: pass one as an argument or set "+util.GRANULE_ID, configErrorCode)
	}

	logCtx := newLogContext()
	pipe, err := buildPipeline(logCtx)
	if err != nil {
		return cli.NewExitError(util.LogSimpleErr(logCtx, "Failed to build pipeline: ", err).Error(), configErrorCode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := pipe.Run(ctx, granuleID)
	if result.Err != nil {
		return cli.NewExitError(result.Err.Error(), result.ExitCode())
	}
	return nil
}
