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
	"strings"

	"github.com/spf13/cobra"

	"github.com/repoql/repoql"
	"github.com/repoql/repoql/eql"
)

// DTOOptions holds flags for the dto command.
type DTOOptions struct {
	Type       string
	Properties string
	Record     bool
}

// NewDTOCommand creates the dto command, which rewrites a query's selection
// into a constructor expression for a projection type.
func NewDTOCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DTOOptions{}

	cmd := &cobra.Command{
		Use:   "dto <query>",
		Short: "Rewrite a query's selection into a DTO constructor expression",
		Long: `Rewrites the selection of a query into a constructor expression for the
given projection type, for example:

  repoql dto --type com.example.Names --properties "firstname,lastname" \
      "select p from Person p"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDTO(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "fully qualified projection type name")
	cmd.Flags().StringVar(&opts.Properties, "properties", "", "constructor properties, comma separated")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "treat the type as positionally mapped")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("properties")

	return cmd
}

func runDTO(cmd *cobra.Command, opts *DTOOptions, query string) error {
	var props []string
	for _, p := range strings.Split(opts.Properties, ",") {
		if p = strings.TrimSpace(p); p != "" {
			props = append(props, p)
		}
	}
	target := eql.Projection{
		TypeName:   opts.Type,
		Properties: props,
		Record:     opts.Record,
	}
	rewritten, err := repoql.New().RewriteDTO(query, target)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), rewritten)
	return nil
}
