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

package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/NASA-IMPACT/hls-vi-historical/util"
)

const defaultEndpoint = "s3.amazonaws.com"

// MinioClient is a Client backed by the minio-go SDK, which speaks to both
// AWS S3 and a local MinIO server
type MinioClient struct {
	client *minio.Client
	logCtx util.LogContext
}

// NewMinioClient connects to the endpoint (empty for AWS S3) with the given
// credential triple (nil for anonymous/ambient access)
func NewMinioClient(endpoint string, creds *util.Credentials, logCtx util.LogContext) (*MinioClient, error) {
	host := defaultEndpoint
	secure := true
	if endpoint != "" {
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid S3 endpoint %q: %w", endpoint, err)
		}
		if parsed.Host != "" {
			host = parsed.Host
			secure = parsed.Scheme != "http"
		} else {
			host = endpoint
		}
	}

	options := &minio.Options{
		Secure:    secure,
		Transport: util.HTTPTransport(),
	}
	if creds != nil {
		options.Creds = credentials.NewStaticV4(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken)
	}

	client, err := minio.New(host, options)
	if err != nil {
		return nil, fmt.Errorf("creating S3 client for %s: %w", host, err)
	}

	return &MinioClient{client: client, logCtx: logCtx}, nil
}

// Exists implements the Client interface
func (c *MinioClient) Exists(ctx context.Context, obj Object) (bool, error) {
	var exists bool
	err := withRetry(ctx, c.logCtx, "stat "+obj.String(), func() error {
		_, err := c.client.StatObject(ctx, obj.Bucket, obj.Key, minio.StatObjectOptions{})
		if isNotFound(err) {
			exists = false
			return nil
		}
		if err == nil {
			exists = true
		}
		return err
	})
	return exists, err
}

// Fetch implements the Client interface
func (c *MinioClient) Fetch(ctx context.Context, obj Object, destPath string) error {
	util.LogAudit(c.logCtx, util.LogAuditInput{
		Actor: "objectstore", Action: "GET", Actee: obj.String(),
		Message: "Downloading " + obj.String() + " to " + destPath, Severity: util.INFO,
	})
	return withRetry(ctx, c.logCtx, "fetch "+obj.String(), func() error {
		return c.client.FGetObject(ctx, obj.Bucket, obj.Key, destPath, minio.GetObjectOptions{})
	})
}

// Put implements the Client interface
func (c *MinioClient) Put(ctx context.Context, up Upload) error {
	util.LogAudit(c.logCtx, util.LogAuditInput{
		Actor: "objectstore", Action: "PUT", Actee: up.String(),
		Message: "Uploading " + up.Path + " to " + up.String(), Severity: util.INFO,
	})
	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return withRetry(ctx, c.logCtx, "put "+up.String(), func() error {
		_, err := c.client.FPutObject(ctx, up.Bucket, up.Key, up.Path, minio.PutObjectOptions{
			ContentType: contentType,
		})
		return err
	})
}

// isNotFound reports whether err is a definitive object-absent response
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	response := minio.ToErrorResponse(err)
	return response.Code == "NoSuchKey" || response.Code == "NoSuchBucket"
}

// isTransient reports whether err is worth retrying: server-side throttling
// and 5xx responses, timeouts, and network-level failures. Not-found and
// access-denied responses are conclusive and never retried.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	response := minio.ToErrorResponse(err)
	switch response.Code {
	case "NoSuchKey", "NoSuchBucket", "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return false
	case "SlowDown", "RequestTimeout", "InternalError", "ServiceUnavailable", "Throttling", "ThrottlingException":
		return true
	}
	if response.StatusCode >= 500 {
		return true
	}
	if response.StatusCode >= 400 && response.StatusCode != 429 {
		return false
	}
	if response.StatusCode == 429 {
		return true
	}

	// No structured response: assume a network-level failure.
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "unexpected eof") ||
		strings.Contains(errStr, "broken pipe")
}
