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
	"fmt"
	"log"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gorilla/mux"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/NASA-IMPACT/hls-vi-historical/model"
	"github.com/NASA-IMPACT/hls-vi-historical/pipeline"
	"github.com/NASA-IMPACT/hls-vi-historical/util"
)

func getPortStr() string {
	if port, ok := os.LookupEnv("PORT"); ok {
		return ":" + port
	}
	return ":8080"
}

// runGranuleFunc is swapped out in tests
var runGranuleFunc = runGranule

func runGranule(ctx context.Context, logCtx util.LogContext, granuleID string) pipeline.Result {
	pipe, err := buildPipeline(logCtx)
	if err != nil {
		util.LogSimpleErr(logCtx, "Failed to build pipeline: ", err)
		return pipeline.Result{GranuleID: granuleID, State: pipeline.Failed, Err: err}
	}
	return pipe.Run(ctx, granuleID)
}

// granuleMessage is the queue message body requesting one granule be processed
type granuleMessage struct {
	GranuleID string `json:"granule_id"`
}

// handleQueueEvent processes a batch of queued granule requests, reporting
// per-message failures so the queue only redelivers the granules that did not
// complete
func handleQueueEvent(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	var response events.SQSEventResponse

	for _, record := range event.Records {
		logCtx := util.JobLogContext{JobID: record.MessageId}

		var msg granuleMessage
		if err := json.Unmarshal([]byte(record.Body), &msg); err != nil || msg.GranuleID == "" {
			util.LogAlert(logCtx, fmt.Sprintf("Discarding malformed queue message %s: %q", record.MessageId, record.Body))
			response.BatchItemFailures = append(response.BatchItemFailures,
				events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
			continue
		}

		result := runGranuleFunc(ctx, logCtx, msg.GranuleID)
		if result.Err != nil {
			response.BatchItemFailures = append(response.BatchItemFailures,
				events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}

	return response, nil
}

// workerStats tracks run outcomes for the status endpoint
type workerStats struct {
	started   time.Time
	processed uint64
	failed    uint64
}

func createRouter(logCtx util.LogContext) *mux.Router {
	stats := &workerStats{started: time.Now()}

	router := mux.NewRouter()
	router.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("OK"))
	})
	router.HandleFunc("/healthz", func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("OK"))
	})
	router.HandleFunc("/status", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(map[string]interface{}{
			"app":       logCtx.AppName(),
			"session":   logCtx.SessionID(),
			"uptime":    time.Since(stats.started).String(),
			"processed": atomic.LoadUint64(&stats.processed),
			"failed":    atomic.LoadUint64(&stats.failed),
		})
	})
	router.HandleFunc("/process/{granule_id}", func(writer http.ResponseWriter, request *http.Request) {
		granuleID := mux.Vars(request)["granule_id"]
		result := runGranuleFunc(request.Context(), logCtx, granuleID)

		atomic.AddUint64(&stats.processed, 1)
		body := map[string]interface{}{
			"granule_id": result.GranuleID,
			"state":      result.State,
		}
		writer.Header().Set("Content-Type", "application/json")

		if result.Err == nil {
			json.NewEncoder(writer).Encode(body)
			return
		}

		atomic.AddUint64(&stats.failed, 1)
		httpErr := util.HTTPErr{Status: http.StatusInternalServerError, Message: result.Err.Error()}
		if kind := model.KindOf(result.Err); kind != "" {
			body["kind"] = kind
			if kind == model.InvalidGranuleIdentifier {
				httpErr.Status = http.StatusBadRequest
			}
		}
		body["error"] = httpErr.Error()
		writer.WriteHeader(httpErr.Status)
		json.NewEncoder(writer).Encode(body)
	}).Methods(http.MethodPost)

	return router
}

func workerAction(*cli.Context) {
	logCtx := newLogContext()

	// Inside a Lambda runtime the worker consumes the queue; anywhere else it
	// serves HTTP.
	if _, inLambda := os.LookupEnv("AWS_LAMBDA_RUNTIME_API"); inLambda {
		util.LogInfo(logCtx, "Starting queue consumer")
		lambda.Start(handleQueueEvent)
		return
	}

	portStr := getPortStr()
	util.LogInfo(logCtx, fmt.Sprintf("Starting worker webserver on %s", portStr))
	launchServerFunc(portStr, createRouter(logCtx))
}

var launchServerFunc = launchServer

func launchServer(portStr string, router *mux.Router) {
	server := http.Server{
		Addr:    portStr,
		Handler: router,
	}

	log.Fatal(server.ListenAndServe())
}
