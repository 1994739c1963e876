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

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repoql/repoql"
)

// CountOptions holds flags for the count command.
type CountOptions struct {
	Projection string
}

// NewCountCommand creates the count command, which rewrites a select query
// into its matching count query.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountOptions{}

	cmd := &cobra.Command{
		Use:   "count <query>",
		Short: "Rewrite a select query into a count query",
		Long: `Rewrites a select query into the count query that returns the number of
rows the original would produce, for example:

  repoql count "select p from Person p where p.age > ?1 order by p.lastname"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rewritten, err := repoql.New().RewriteCount(args[0], opts.Projection)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rewritten)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Projection, "projection", "", "override the counted expression, e.g. p.id")

	return cmd
}
