package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

type queryFlags struct {
	query  string
	filter string
	fields []string
	sort   []string
	rows   int
	page   int
}

func newQueryCmd(flags *rootFlags) *cobra.Command {
	qf := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query <core>",
		Short: "Run a query against a core and print the result as JSON",
		Example: `  searchd query products -q 'name:lamp' --fq 'category:home' --fl id,name --sort 'price DESC' --rows 10
  searchd query products --rows 20 --page 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer a.close(ctx)

			res, err := a.registry.Core(args[0]).
				Limit(qf.rows, qf.page).
				Order(qf.sort...).
				Fetch(ctx, qf.fields, qf.query, qf.filter)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVarP(&qf.query, "query", "q", "", "query string (empty matches all documents)")
	cmd.Flags().StringVar(&qf.filter, "fq", "", "filter query")
	cmd.Flags().StringSliceVar(&qf.fields, "fl", nil, "fields to return")
	cmd.Flags().StringArrayVar(&qf.sort, "sort", nil, `sort key as "field" or "field ASC|DESC", repeatable`)
	cmd.Flags().IntVar(&qf.rows, "rows", 10, "page size (0 disables paging)")
	cmd.Flags().IntVar(&qf.page, "page", 1, "page number, starting at 1")
	return cmd
}
