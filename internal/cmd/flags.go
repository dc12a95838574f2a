// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mia-platform/aggregator/internal/connector"
	"github.com/mia-platform/aggregator/internal/server"
)

const (
	configPathFlagName  = "config"
	configPathFlagShort = "c"
	configPathFlagUsage = "Path to the settings file. Defaults to the AGGREGATOR_CONFIG_PATH environment variable."

	filterFlagName  = "filter"
	filterFlagUsage = "JSON object forwarded to every source as the read filter"
)

// flags collects the CLI options shared by the all and serve commands.
type flags struct {
	configPath string
	filter     string
}

// addFlags registers the CLI flags on cmd.
func (f *flags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, configPathFlagName, configPathFlagShort, "", configPathFlagUsage)
}

// addFilterFlag registers the read filter flag on cmd.
func (f *flags) addFilterFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.filter, filterFlagName, "", filterFlagUsage)
}

// toOptions builds an options instance from the parsed flags and CLI arguments.
func (f *flags) toOptions(cmd *cobra.Command, args []string) (*options, error) {
	model := ""
	if len(args) > 0 {
		model = strings.TrimSpace(args[0])
	}

	var filter connector.Filter
	if f.filter != "" {
		if err := json.Unmarshal([]byte(f.filter), &filter); err != nil {
			return nil, fmt.Errorf("%w: %w", errInvalidFilter, err)
		}
	}

	return &options{
		model:        model,
		configPath:   f.configPath,
		filter:       filter,
		factories:    availableModules,
		serverGetter: server.NewServer,
		out:          cmd.OutOrStdout(),
	}, nil
}
