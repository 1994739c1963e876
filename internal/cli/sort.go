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
	"github.com/repoql/repoql/types"
)

// SortOptions holds flags for the sort command.
type SortOptions struct {
	By string
}

// NewSortCommand creates the sort command, which appends an order-by clause
// to a query.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SortOptions{}

	cmd := &cobra.Command{
		Use:   "sort <query>",
		Short: "Apply a dynamic sort to a query",
		Long: `Appends or extends the order-by clause of a query with the given sort
properties, for example:

  repoql sort --by "lastname:desc,firstname" "select p from Person p"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sort, err := parseSort(opts.By)
			if err != nil {
				return err
			}
			rewritten, err := repoql.New().ApplySort(args[0], sort)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rewritten)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.By, "by", "", "sort properties as property[:asc|desc] pairs, comma separated")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

func parseSort(spec string) (types.Sort, error) {
	var orders []types.Order
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		property, direction, hasDir := strings.Cut(pair, ":")
		if property = strings.TrimSpace(property); property == "" {
			return types.Unsorted(), fmt.Errorf("invalid sort entry %q", pair)
		}
		order := types.Asc(property)
		if hasDir {
			order.Direction = types.ParseDirection(strings.TrimSpace(direction))
		}
		orders = append(orders, order)
	}
	if len(orders) == 0 {
		return types.Unsorted(), fmt.Errorf("no sort properties given")
	}
	return types.NewSort(orders...), nil
}
