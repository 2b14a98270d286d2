package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ai-speech-delivery-service/internal/format"
	"ai-speech-delivery-service/internal/service/critique"
)

func newPersonasCmd() *cobra.Command {
	var personas, mode string
	cmd := &cobra.Command{
		Use:   "personas",
		Short: "List the critique personas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := critique.DefaultTable()
			if personas != "" {
				var err error
				if table, err = critique.LoadTable(personas); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if strings.EqualFold(mode, "json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(table.Personas())
			}
			m, err := format.ParseMode(mode)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, format.Personas(table.Personas(), m))
			return err
		},
	}
	cmd.Flags().StringVar(&personas, "personas", "", "Path to a persona table YAML file")
	cmd.Flags().StringVarP(&mode, "format", "f", "table", "Output format: json, table or markdown")
	return cmd
}
