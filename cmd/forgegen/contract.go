package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nadhmi12/api-dev-marketplace/compiler/gen"
	"github.com/nadhmi12/api-dev-marketplace/compiler/load"
	"github.com/nadhmi12/api-dev-marketplace/target"
)

func newContractCmd() *cobra.Command {
	var (
		file    string
		out     string
		title   string
		version string
	)

	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Export the validated API contract as an OpenAPI document",
		Long: "Runs the full pipeline against every registered target, proves the\n" +
			"contracts identical and writes the canonical OpenAPI document. The\n" +
			"contract fingerprint is printed on success.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			resources, err := load.DecodeBytes(data)
			if err != nil {
				return err
			}
			if title == "" {
				title = apiTitle(file)
			}
			sess, err := gen.NewSession(resources, target.IDs(), gen.WithContractInfo(title, version))
			if err != nil {
				return err
			}
			if _, err := sess.Run(cmd.Context()); err != nil {
				return err
			}
			doc, err := sess.ExportContract()
			if err != nil {
				return err
			}
			encoded, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			if out == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			} else if err := os.WriteFile(out, encoded, 0o644); err != nil {
				return err
			}
			fingerprint, err := sess.Fingerprint()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), fingerprint)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "resources.yaml", "Path to the resource description")
	cmd.Flags().StringVarP(&out, "out", "o", "openapi.json", `Output path ("-" for stdout)`)
	cmd.Flags().StringVar(&title, "title", "", "API title (default: derived from the file name)")
	cmd.Flags().StringVar(&version, "version", "0.1.0", "API version")
	return cmd
}
