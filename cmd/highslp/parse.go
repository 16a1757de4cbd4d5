/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"io"
	"os"

	"github.com/costela/highslp"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [FILE]",
		Short: "Parse a saved solution report",
		Long:  "Parse a pretty solution report written by HiGHS (write_solution_style = 1) and print it. Reads stdin when no file is given.",
		Example: `
# Parse a solution file written by highs --solution_file
highslp parse --status Optimal model.sol

# Parse from a pipe, as YAML
cat model.sol | highslp parse -f yaml
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}

	cmd.Flags().String("status", "", "Model status to attach to the result")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	status, _ := cmd.Flags().GetString("status")

	var (
		in   io.Reader = cmd.InOrStdin()
		file string
	)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in, file = f, args[0]
	}

	res, err := highslp.ReadReport(in, status)
	if err != nil {
		return err
	}

	return writeReports(cmd.OutOrStdout(), cfg.Format, []report{newReport(file, res)})
}
