package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nadhmi12/api-dev-marketplace/target"
)

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the registered target profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, id := range target.IDs() {
				p, err := target.Lookup(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.ID, p.Persistence, p.FileExt)
			}
			return nil
		},
	}
}
