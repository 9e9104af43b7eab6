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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"

	"github.com/NASA-IMPACT/hls-vi-historical/model"
	"github.com/NASA-IMPACT/hls-vi-historical/pipeline"
	"github.com/NASA-IMPACT/hls-vi-historical/util"
)

const workerTestGranuleID = "HLS.L30.T58UFF.2025105T234951.v2.0"

// stubRunGranule swaps the granule runner for the duration of a test; the
// failures map names granule IDs that should fail and with what error
func stubRunGranule(t *testing.T, failures map[string]error) *[]string {
	t.Helper()
	original := runGranuleFunc
	t.Cleanup(func() { runGranuleFunc = original })

	ran := &[]string{}
	runGranuleFunc = func(ctx context.Context, logCtx util.LogContext, granuleID string) pipeline.Result {
		*ran = append(*ran, granuleID)
		if err, found := failures[granuleID]; found {
			return pipeline.Result{GranuleID: granuleID, State: pipeline.Failed, Err: err}
		}
		return pipeline.Result{GranuleID: granuleID, State: pipeline.Complete}
	}
	return ran
}

func sqsRecord(messageID, body string) events.SQSMessage {
	return events.SQSMessage{MessageId: messageID, Body: body}
}

func TestHandleQueueEventAllSucceed(t *testing.T) {
	ran := stubRunGranule(t, nil)

	response, err := handleQueueEvent(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
		sqsRecord("msg-1", `{"granule_id": "`+workerTestGranuleID+`"}`),
		sqsRecord("msg-2", `{"granule_id": "HLS.S30.T59VNH.2025105T234641.v2.0"}`),
	}})
	assert.NoError(t, err)
	assert.Empty(t, response.BatchItemFailures)
	assert.Equal(t, []string{workerTestGranuleID, "HLS.S30.T59VNH.2025105T234641.v2.0"}, *ran)
}

func TestHandleQueueEventPartialFailure(t *testing.T) {
	stubRunGranule(t, map[string]error{
		"HLS.S30.T59VNH.2025105T234641.v2.0": model.Errorf(model.ComputationFailed, "boom"),
	})

	response, err := handleQueueEvent(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
		sqsRecord("msg-1", `{"granule_id": "`+workerTestGranuleID+`"}`),
		sqsRecord("msg-2", `{"granule_id": "HLS.S30.T59VNH.2025105T234641.v2.0"}`),
	}})
	assert.NoError(t, err)
	assert.Len(t, response.BatchItemFailures, 1)
	assert.Equal(t, "msg-2", response.BatchItemFailures[0].ItemIdentifier)
}

func TestHandleQueueEventMalformedMessage(t *testing.T) {
	ran := stubRunGranule(t, nil)

	response, err := handleQueueEvent(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
		sqsRecord("msg-1", `{not json`),
		sqsRecord("msg-2", `{"something_else": true}`),
		sqsRecord("msg-3", `{"granule_id": "`+workerTestGranuleID+`"}`),
	}})
	assert.NoError(t, err)
	assert.Len(t, response.BatchItemFailures, 2)
	assert.Equal(t, "msg-1", response.BatchItemFailures[0].ItemIdentifier)
	assert.Equal(t, "msg-2", response.BatchItemFailures[1].ItemIdentifier)
	assert.Equal(t, []string{workerTestGranuleID}, *ran)
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := createRouter(&(util.BasicLogContext{}))

	for _, path := range []string{"/", "/healthz"} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "OK", recorder.Body.String())
	}
}

func TestRouterStatus(t *testing.T) {
	router := createRouter(&(util.BasicLogContext{}))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	var status map[string]interface{}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
	assert.Equal(t, "hls-vi-historical", status["app"])
	assert.EqualValues(t, 0, status["processed"])
}

func TestRouterProcessSuccess(t *testing.T) {
	stubRunGranule(t, nil)
	router := createRouter(&(util.BasicLogContext{}))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/process/"+workerTestGranuleID, nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, workerTestGranuleID, body["granule_id"])
	assert.Equal(t, string(pipeline.Complete), body["state"])
}

func TestRouterProcessInvalidGranule(t *testing.T) {
	stubRunGranule(t, map[string]error{
		"bogus": model.Errorf(model.InvalidGranuleIdentifier, "nope"),
	})
	router := createRouter(&(util.BasicLogContext{}))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/process/bogus", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, string(model.InvalidGranuleIdentifier), body["kind"])
}

func TestRouterProcessFailure(t *testing.T) {
	stubRunGranule(t, map[string]error{
		workerTestGranuleID: model.Errorf(model.PublicationFailed, "bucket on fire"),
	})
	router := createRouter(&(util.BasicLogContext{}))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/process/"+workerTestGranuleID, nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRouterProcessRequiresPost(t *testing.T) {
	stubRunGranule(t, nil)
	router := createRouter(&(util.BasicLogContext{}))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/process/"+workerTestGranuleID, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestRouterStatusCountsRuns(t *testing.T) {
	stubRunGranule(t, map[string]error{
		"bogus": model.Errorf(model.InvalidGranuleIdentifier, "nope"),
	})
	router := createRouter(&(util.BasicLogContext{}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/process/"+workerTestGranuleID, nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/process/bogus", nil))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/status", nil))

	var status map[string]interface{}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
	assert.EqualValues(t, 2, status["processed"])
	assert.EqualValues(t, 1, status["failed"])
}
