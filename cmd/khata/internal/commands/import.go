package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/khata/internal/importer"
)

func newImportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Post the vouchers of a day book CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer f.Close()

			a, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := a.Importer.Import(cmd.Context(), importer.Format(format), f)
			if res != nil {
				printImport(cmd.OutOrStdout(), res)
			}

			if err != nil {
				return err
			}

			if len(res.Failed) > 0 {
				return fmt.Errorf("%d of %d vouchers not imported", len(res.Failed), len(res.Failed)+len(res.Posted))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(importer.FormatDaybook), "file format")

	return cmd
}

func printImport(w io.Writer, res *importer.Result) {
	for _, v := range res.Posted {
		fmt.Fprintf(w, "posted  %-20s %s\n", v.Number, v.Reference)
	}

	for _, f := range res.Failed {
		fmt.Fprintf(w, "failed  %-20s line %d: %v\n", f.Ref, f.Line, f.Err)
	}

	fmt.Fprintf(w, "%d posted, %d failed\n", len(res.Posted), len(res.Failed))
}
