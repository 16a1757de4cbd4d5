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

// Command highslp solves CPLEX LP files with HiGHS and prints the parsed
// solution as JSON or YAML.
package main

import (
	goflag "flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	flagConfig  = "config"
	flagFormat  = "format"
	flagVerbose = "verbose"
)

func main() {
	// glog writes to files by default
	_ = goflag.Set("logtostderr", "true")

	if err := newRootCmd().Execute(); err != nil {
		glog.Error(err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Flush()
}

func newRootCmd() *cobra.Command {
	var verbose int

	root := &cobra.Command{
		Use:           "highslp",
		Short:         "Solve LP models with HiGHS",
		Long:          "highslp solves linear programs in CPLEX LP format with the HiGHS solver and prints the solution report as structured data.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose > 0 {
				return goflag.Set("v", strconv.Itoa(verbose))
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String(flagConfig, "", "YAML config file")
	flags.StringP(flagFormat, "f", formatJSON, "Output format (json, yaml)")
	flags.CountVarP(&verbose, flagVerbose, "v", "Log solver output to stderr (repeat for more detail)")
	addGlogFlags(flags)

	root.AddCommand(
		newSolveCmd(),
		newParseCmd(),
		newVersionCmd(),
	)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\nSee '%s --help'", err, cmd.CommandPath())
	})

	return root
}

// addGlogFlags exposes glog's flags on the cobra flag set. glog's own -v
// would clash with --verbose and is driven through it instead.
func addGlogFlags(flags *pflag.FlagSet) {
	goflag.CommandLine.VisitAll(func(f *goflag.Flag) {
		if f.Name == "v" || flags.Lookup(f.Name) != nil {
			return
		}
		flags.AddFlag(pflag.PFlagFromGoFlag(f))
	})
}

// glogLogger feeds solver output into glog.
type glogLogger struct{}

func (glogLogger) Print(v ...interface{}) {
	glog.InfoDepth(1, fmt.Sprint(v...))
}
