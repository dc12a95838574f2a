// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	allCmdUsage = "all MODEL"
	allCmdShort = "read a model from every configured source"
	allCmdLong  = `Read a model from every configured source.
	All the sources listed in the settings file are queried in parallel and their
	documents are printed as a single JSON array, ordered by source name.
	If any source fails the command fails and nothing is printed.`

	allCmdExample = `# Read the users model with the default settings file
	aggregator all users

	# Read only the active users with a custom settings file
	aggregator all users -c settings.yaml --filter '{"active":true}'`

	serveCmdUsage = "serve"
	serveCmdShort = "expose the aggregated connector over HTTP"
	serveCmdLong  = `Expose the aggregated connector over HTTP.
	The server listens on HTTP_HOST and HTTP_PORT until it receives an interrupt
	or a termination signal.`

	serveCmdExample = `# Serve the connector with a custom settings file
	aggregator serve -c settings.yaml`

	modulesCmdUsageTemplate = "modules [%s]"
	modulesCmdShort         = "list the modules that sources can be built from"
)

// AllCmd returns the Cobra command that reads a model from every source.
func AllCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     allCmdUsage,
		Short:   heredoc.Doc(allCmdShort),
		Long:    heredoc.Doc(allCmdLong),
		Example: heredoc.Doc(allCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions(cmd, args)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.executeAll(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	flags.addFilterFlag(cmd)
	return cmd
}

// ServeCmd returns the Cobra command that serves the connector over HTTP.
func ServeCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     serveCmdUsage,
		Short:   heredoc.Doc(serveCmdShort),
		Long:    heredoc.Doc(serveCmdLong),
		Example: heredoc.Doc(serveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions(cmd, args)
			if err != nil {
				return handleError(cmd, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := opts.executeServe(ctx); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// ModulesCmd returns the Cobra command that describes the available source modules.
func ModulesCmd() *cobra.Command {
	allModules := slices.Sorted(maps.Keys(moduleDescriptions))
	return &cobra.Command{
		Use:   fmt.Sprintf(modulesCmdUsageTemplate, strings.Join(allModules, "|")),
		Short: heredoc.Doc(modulesCmdShort),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: validArgsFunc(moduleDescriptions),
		RunE: func(cmd *cobra.Command, args []string) error {
			modules := allModules
			if len(args) > 0 {
				name := strings.ToLower(args[0])
				if _, ok := moduleDescriptions[name]; !ok {
					return handleError(cmd, fmt.Errorf("%w: %s", errInvalidModule, args[0]))
				}
				modules = []string{name}
			}

			for _, name := range modules {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, moduleDescriptions[name])
			}
			return nil
		},
	}
}
