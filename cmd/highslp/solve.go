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
	"fmt"
	"os"
	"strings"

	"github.com/costela/highslp"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve [flags] FILE...",
		Short: "Solve LP files",
		Long:  "Solve one or more CPLEX LP files and print the parsed solution reports",
		Example: `
# Solve a model with the linked library
highslp solve model.lp

# Solve several models with the highs binary, two at a time, as YAML
highslp solve --engine exec --jobs 2 -f yaml a.lp b.lp

# Pass HiGHS options
highslp solve --time-limit 60 --option presolve=off --option threads=4 model.lp
`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSolve,
	}

	flags := cmd.Flags()
	flags.String(flagEngine, defaultEngine(), "Solver engine ("+strings.Join(engineNames(), "|")+")")
	flags.String(flagHighs, "highs", "highs binary used by the exec engine")
	flags.IntP(flagJobs, "j", 0, "Number of models solved concurrently (default: number of CPUs)")
	flags.String(flagWorkDir, "", "Directory for model and solution files (default: system temp dir)")
	flags.Bool(flagKeepFiles, false, "Keep model and solution files after solving")
	flags.Float64(flagTimeLimit, 0, "HiGHS time limit in seconds")
	flags.StringArrayP(flagOption, "o", nil, "HiGHS option as name=value (repeatable)")

	return cmd
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	engine, err := engines[cfg.Engine].new(cfg)
	if err != nil {
		return err
	}

	opts := cfg.solverOptions()
	if glog.V(1) {
		opts = append(opts, highslp.WithLogger(glogLogger{}))
	}

	solver, err := highslp.NewSolver(engine, opts...)
	if err != nil {
		return err
	}

	reports := make([]report, len(args))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Jobs)

	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			model, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			glog.V(2).Infof("solving %s with the %s engine", path, cfg.Engine)

			res, err := solver.SolveWithContext(ctx, string(model))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = newReport(path, res)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return writeReports(cmd.OutOrStdout(), cfg.Format, reports)
}
