// Copyright 2017 HootSuite Media Inc.
//
// Licensed under the Apache License, Version 2.0 (the License);
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an AS IS BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Modified hereafter by contributors to runatlantis/atlantis.
//
// Package main is the entrypoint for the CLI.
package main

import (
	"github.com/Codehub169/tempo-6db3fc58/cmd"
	"github.com/alecthomas/kong"
)

const tempoVersion = "0.6.0"

func main() {
	ctx := kong.Parse(
		&cmd.CLI,
		kong.Name("tempo"),
		kong.Description("Self-updating host for the pre-built frontend bundle."),
		kong.DefaultEnvars("TEMPO"),
		kong.Bind(cmd.Context{
			Version: tempoVersion,
		}),
	)
	err := ctx.Run(cmd.Context{
		Version: tempoVersion,
	})
	ctx.FatalIfErrorf(err)
}
