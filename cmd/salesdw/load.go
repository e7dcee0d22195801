package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"salesdw/internal/etl"
	"salesdw/internal/warehouse"
)

func newLoadCmd(a *app) *cobra.Command {
	var atomic bool

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the CRM extracts into the warehouse",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.prepare(); err != nil {
				return err
			}
			if cmd.Flags().Changed("atomic") {
				a.cfg.Storage.Atomic = atomic
			}
			flush := a.installMetrics()
			defer flush()

			sum, err := etl.Run(cmd.Context(), a.cfg)
			for _, table := range []string{warehouse.TableFactSales, warehouse.TableDimProduct, warehouse.TableDimCustomer} {
				if n, ok := sum.Load.RowCounts[table]; ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d rows\n", table, n)
				}
			}
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: fingerprint %016x\n", sum.Load.RunID, sum.Load.Fingerprint)
			return nil
		},
	}
	cmd.Flags().BoolVar(&atomic, "atomic", false, "replace all tables in a single transaction")
	return cmd
}
