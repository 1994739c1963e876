/*
 * Copyright 2025 The RepoQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cli implements the repoql command line tool.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repoql/repoql/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
}

var logLevels = map[string]logger.Level{
	"debug": logger.DEBUG,
	"info":  logger.INFO,
	"warn":  logger.WARN,
	"error": logger.ERROR,
	"off":   logger.OFF,
}

// NewRootCommand creates the root command for the repoql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "repoql",
		Short: "RepoQL - repository query derivation and rewriting",
		Long:  "Derives, rewrites and sorts entity-level queries from the command line.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, ok := logLevels[strings.ToLower(opts.LogLevel)]
			if !ok {
				return fmt.Errorf("invalid log level %q: must be debug, info, warn, error or off", opts.LogLevel)
			}
			logger.GetDefault().SetLevel(level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error|off)")

	cmd.AddCommand(NewDeriveCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewDTOCommand(opts))
	cmd.AddCommand(NewSortCommand(opts))

	return cmd
}
