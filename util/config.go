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

package util

import (
	"os"
	"time"
)

// Environment variables
const (
	HLS_PROTECTED_BUCKET = "HLS_PROTECTED_BUCKET"
	HLS_PUBLIC_BUCKET    = "HLS_PUBLIC_BUCKET"
	VI_OUTPUT_BUCKET     = "VI_OUTPUT_BUCKET"
	VI_DEBUG_BUCKET      = "VI_DEBUG_BUCKET"
	VI_SCRATCH_DIR       = "VI_SCRATCH_DIR"
	VI_TOOL_TIMEOUT      = "VI_TOOL_TIMEOUT"
	S3_ENDPOINT          = "S3_ENDPOINT"
	JOB_ID               = "JOB_ID"
	GRANULE_ID           = "GRANULE_ID"
	STAC_ENDPOINT        = "STAC_ENDPOINT"
	STAC_VERSION         = "STAC_VERSION"
)

const (
	defaultProtectedBucket = "lp-prod-protected"
	defaultPublicBucket    = "lp-prod-public"
	defaultToolTimeout     = 30 * time.Minute
	defaultStacEndpoint    = "data.lpdaac.earthdatacloud.nasa.gov"
	defaultStacVersion     = "020"
)

// GetProtectedBucket returns the bucket holding HLS band rasters and metadata
func GetProtectedBucket() string {
	if bucket, ok := os.LookupEnv(HLS_PROTECTED_BUCKET); ok {
		return bucket
	}
	return defaultProtectedBucket
}

// GetPublicBucket returns the bucket holding HLS browse imagery
func GetPublicBucket() string {
	if bucket, ok := os.LookupEnv(HLS_PUBLIC_BUCKET); ok {
		return bucket
	}
	return defaultPublicBucket
}

// GetOutputBucket returns the production bucket VI outputs are published to
func GetOutputBucket(ctx LogContext) string {
	bucket, ok := os.LookupEnv(VI_OUTPUT_BUCKET)
	if !ok {
		LogAlert(ctx, "Did not get VI output bucket from the environment. Publication will not be available.")
	}
	return bucket
}

// GetDebugBucket returns the debug bucket, if one is configured. When set,
// outputs are diverted there and downstream ingestion is not triggered.
func GetDebugBucket() (string, bool) {
	return os.LookupEnv(VI_DEBUG_BUCKET)
}

// GetScratchDir returns the directory under which per-run scratch workspaces
// are created
func GetScratchDir() string {
	if dir, ok := os.LookupEnv(VI_SCRATCH_DIR); ok {
		return dir
	}
	return os.TempDir()
}

// GetToolTimeout returns the wall-clock budget for each external toolchain
// stage
func GetToolTimeout(ctx LogContext) time.Duration {
	raw, ok := os.LookupEnv(VI_TOOL_TIMEOUT)
	if !ok {
		return defaultToolTimeout
	}
	timeout, err := time.ParseDuration(raw)
	if err != nil || timeout <= 0 {
		LogAlert(ctx, "Invalid "+VI_TOOL_TIMEOUT+" value '"+raw+"'. Using default.")
		return defaultToolTimeout
	}
	return timeout
}

// GetS3Endpoint returns an alternate S3 endpoint (e.g. a local MinIO server),
// or empty for the default AWS endpoint
func GetS3Endpoint() string {
	return os.Getenv(S3_ENDPOINT)
}

// GetJobID returns the external job/run identifier used for log correlation,
// or empty if none was assigned
func GetJobID() string {
	return os.Getenv(JOB_ID)
}

// GetGranuleID returns the granule assigned via the environment for
// batch-style invocations, or empty if none was assigned
func GetGranuleID() string {
	return os.Getenv(GRANULE_ID)
}

// GetStacEndpoint returns the catalog endpoint identifier stamped into
// generated STAC items
func GetStacEndpoint() string {
	if endpoint, ok := os.LookupEnv(STAC_ENDPOINT); ok {
		return endpoint
	}
	return defaultStacEndpoint
}

// GetStacVersion returns the collection version tag stamped into generated
// STAC items
func GetStacVersion() string {
	if version, ok := os.LookupEnv(STAC_VERSION); ok {
		return version
	}
	return defaultStacVersion
}
