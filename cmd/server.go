// Copyright 2017 HootSuite Media Inc.
//
// Licensed under the Apache License, Version 2.0 (the License);
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//    http://www.apache.org/licenses/LICENSE-2.0
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an AS IS BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Modified hereafter by contributors to runatlantis/atlantis.

package cmd

import (
	"fmt"

	"github.com/Codehub169/tempo-6db3fc58/server"
	"github.com/Codehub169/tempo-6db3fc58/server/logging"
	"github.com/Codehub169/tempo-6db3fc58/server/metrics"
	"github.com/pkg/errors"
)

type Context struct {
	Version string
}

type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx Context) error {
	fmt.Printf("tempo %s\n", ctx.Version)
	return nil
}

type ServerCmd struct {
	server.UserConfig `kong:"embed"`
}

func (cmd *ServerCmd) Run(ctx Context) error {
	userConfig := cmd.UserConfig

	ctxLogger, err := logging.NewLoggerFromLevel(userConfig.LogLevel)
	if err != nil {
		return errors.Wrap(err, "initializing logger")
	}
	if rejected := userConfig.Port.Rejected; rejected != "" {
		ctxLogger.Warn(fmt.Sprintf("invalid port value %q, defaulting to %d", rejected, server.DefaultPort))
	}

	scope, closer, err := metrics.NewScope(userConfig.StatsNamespace, userConfig.Statsd())
	if err != nil {
		return errors.Wrap(err, "creating stats scope")
	}

	srv, err := server.NewServer(&server.Config{
		CtxLogger:   ctxLogger,
		Port:        userConfig.Port.Value,
		StaticDir:   userConfig.StaticDir,
		RepoDir:     userConfig.RepoDir,
		SyncTimeout: userConfig.SyncTimeout,
		Scope:       scope,
		Closer:      closer,
	})
	if err != nil {
		return errors.Wrap(err, "initializing server")
	}
	return srv.Start()
}

var CLI struct {
	Version VersionCmd `cmd:"version" help:"Print the current tempo version"`
	Server  ServerCmd  `cmd:"server" default:"withargs" help:"Start the frontend host"`
}
