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
	"fmt"

	cli "gopkg.in/urfave/cli.v1"
)

const version = "1.0.0"

var commands = cli.Commands{
	cli.Command{
		Name:      "process",
		Aliases:   []string{"p"},
		Usage:     "Process one HLS granule into a published VI data product",
		ArgsUsage: "[granule-id]",
		Action:    processAction,
	},
	cli.Command{
		Name:    "worker",
		Aliases: []string{"w"},
		Usage:   "Launch the hls-vi-historical worker (queue consumer or webserver)",
		Action:  workerAction,
	},
	cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print the version number of the hls-vi-historical CLI",
		Action:  versionAction,
	},
}

func createCliApp() (app *cli.App) {
	app = cli.NewApp()
	app.Name = "hls-vi-historical"
	app.Usage = "Produce HLS vegetation index data products for historical granules"
	app.Commands = commands
	return
}

func versionAction(c *cli.Context) {
	fmt.Fprintf(c.App.Writer, "hls-vi-historical version %s\n", version)
}
