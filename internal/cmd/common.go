// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mia-platform/aggregator/internal/connector"
	"github.com/mia-platform/aggregator/internal/server"
	"github.com/mia-platform/aggregator/internal/source"
	"github.com/mia-platform/aggregator/internal/source/file"
	"github.com/mia-platform/aggregator/internal/source/remote"
	"github.com/mia-platform/aggregator/internal/source/static"
)

var (
	errNoArguments   = errors.New("no model name provided")
	errInvalidModule = errors.New("invalid module name provided")
	errInvalidFilter = errors.New("invalid filter")

	// availableModules holds the factories that source entries can reference by module name.
	availableModules = source.Factories{
		static.ModuleName: static.New,
		file.ModuleName:   file.New,
		remote.ModuleName: remote.New,
	}

	// moduleDescriptions holds the description of every available module for command
	// completion and help messages.
	moduleDescriptions = map[string]string{
		static.ModuleName: "documents listed inline in the configuration",
		file.ModuleName:   "documents read from a local YAML or JSON file",
		remote.ModuleName: "documents read from a remote overview endpoint",
	}
)

// serverGetter returns the server exposing the connector.
type serverGetter func(context.Context, connector.DataAccessConnector) (server.Server, error)

// handleError will do custom print error handling based on the type of error received.
// it will return nil if the command must return 0 exit code, otherwise it will return
// the original error.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errNoArguments):
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return nil
	case errors.Is(err, errInvalidModule), errors.Is(err, errInvalidFilter):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}

func validArgsFunc(modules map[string]string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var comps []string
		if len(args) == 0 {
			for name, description := range modules {
				if strings.HasPrefix(name, toComplete) {
					comps = append(comps, cobra.CompletionWithDesc(name, description))
				}
			}
		}

		return comps, cobra.ShellCompDirectiveNoFileComp
	}
}
