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
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/repoql/repoql"
)

// DeriveOptions holds flags for the derive command.
type DeriveOptions struct {
	Entity string
	Fields string
}

var fieldTypes = map[string]reflect.Type{
	"string":  reflect.TypeOf(""),
	"int":     reflect.TypeOf(int(0)),
	"int64":   reflect.TypeOf(int64(0)),
	"float64": reflect.TypeOf(float64(0)),
	"bool":    reflect.TypeOf(false),
	"time":    reflect.TypeOf(time.Time{}),
}

// NewDeriveCommand creates the derive command. It builds an entity type from
// the --fields flag and derives a query from the given method name.
func NewDeriveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeriveOptions{}

	cmd := &cobra.Command{
		Use:   "derive <method-name>",
		Short: "Derive a query from a repository method name",
		Long: `Derives an entity-level query from a repository method name such as
findByLastnameAndAgeGreaterThanOrderByFirstnameAsc.

The entity is described by --entity and --fields, for example:

  repoql derive --entity Person --fields "id:int64,lastname:string,age:int" \
      findByLastnameOrderByAgeDesc`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Entity, "entity", "Entity", "entity name used in the derived query")
	cmd.Flags().StringVar(&opts.Fields, "fields", "", "entity fields as name:type pairs, comma separated (types: string, int, int64, float64, bool, time)")
	_ = cmd.MarkFlagRequired("fields")

	return cmd
}

func runDerive(cmd *cobra.Command, opts *DeriveOptions, method string) error {
	entity, err := buildEntityType(opts.Fields)
	if err != nil {
		return err
	}

	engine := repoql.New()
	if _, err := engine.Registry().RegisterAs(entity, opts.Entity); err != nil {
		return err
	}

	derived, err := engine.Derive(entity, method)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "query:     %s\n", derived.Text)
	fmt.Fprintf(out, "mode:      %s\n", derived.Mode)
	fmt.Fprintf(out, "arguments: %d\n", derived.ArgumentCount)
	if derived.Distinct {
		fmt.Fprintln(out, "distinct:  true")
	}
	if derived.Limit > 0 {
		fmt.Fprintf(out, "limit:     %d\n", derived.Limit)
	}
	return nil
}

// buildEntityType assembles a struct type from a "name:type,..." field list.
func buildEntityType(spec string) (reflect.Type, error) {
	var fields []reflect.StructField
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, typeName, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid field %q: expected name:type", pair)
		}
		goType, ok := fieldTypes[strings.TrimSpace(typeName)]
		if !ok {
			return nil, fmt.Errorf("unknown field type %q for %q", typeName, name)
		}
		name = strings.TrimSpace(name)
		field := reflect.StructField{
			Name: exportedName(name),
			Type: goType,
		}
		if strings.EqualFold(name, "id") {
			field.Tag = `eql:"id"`
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields given")
	}
	return reflect.StructOf(fields), nil
}

func exportedName(name string) string {
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
