package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jobmatch-backend/internal/extract"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the plain text of a pdf, docx or txt file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			text, err := extract.ExtractTextFromBytes(cmd.Context(), data, "", filepath.Base(args[0]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}
