package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/mat"
	"q.log/revsimplex/instance"
	"q.log/revsimplex/model"
	"q.log/revsimplex/simplex"
)

type solveCmd struct {
	vip *viper.Viper
	log *logrus.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	vip := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:          "revsimplex",
		Short:        "Solve linear programs with the revised simplex method",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			vip.SetEnvPrefix("RSM")
			vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			vip.AutomaticEnv()
			if cfgFile == "" {
				return nil
			}
			vip.SetConfigFile(cfgFile)
			return vip.ReadInConfig()
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	root.AddCommand(newSolveCmd(vip))
	return root
}

func newSolveCmd(vip *viper.Viper) *cobra.Command {
	c := &solveCmd{vip: vip, log: logrus.New()}
	cmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "Solve a problem read from a free MPS file",
		Example: `
  revsimplex solve afiro.mps
  revsimplex solve --dual --kkt afiro.mps
  RSM_IT_LIM=500 revsimplex solve afiro.mps
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(args[0])
		},
	}

	def := simplex.DefaultOptions()
	f := cmd.Flags()
	f.Bool("dual", false, "use the dual simplex when the starting basis is dual feasible")
	f.Bool("textbook", false, "use textbook pricing instead of steepest edge")
	f.Int("it-lim", 0, "iteration limit (0 means none)")
	f.Duration("tm-lim", 0, "time limit (0 means none)")
	f.Float64("tol-bnd", def.TolBnd, "relative tolerance on primal feasibility")
	f.Float64("tol-dj", def.TolDj, "relative tolerance on dual feasibility")
	f.Float64("tol-piv", def.TolPiv, "relative tolerance on pivot elements")
	f.Float64("relax", def.Relax, "Harris ratio test relaxation")
	f.Int("retries", def.MaxRetries, "recoveries from numerical instability before giving up")
	f.Bool("kkt", false, "print the KKT conditions check")
	f.Bool("cross-check", false, "solve with glpk as well and compare the objective")
	f.Bool("print-matrix", false, "print the constraint matrix")
	f.BoolP("verbose", "v", false, "log solver progress")
	if err := vip.BindPFlags(f); err != nil {
		panic(err)
	}
	return cmd
}

func (c *solveCmd) options() []simplex.Option {
	vip := c.vip
	pricing := simplex.SteepestEdge
	if vip.GetBool("textbook") {
		pricing = simplex.Textbook
	}
	return []simplex.Option{
		simplex.WithLogger(c.log),
		simplex.WithPricing(pricing),
		simplex.WithDual(vip.GetBool("dual")),
		simplex.WithIterationLimit(vip.GetInt("it-lim")),
		simplex.WithTimeLimit(vip.GetDuration("tm-lim")),
		simplex.WithTolerances(vip.GetFloat64("tol-bnd"), vip.GetFloat64("tol-dj"), vip.GetFloat64("tol-piv")),
		simplex.WithRelax(vip.GetFloat64("relax")),
		simplex.WithRetries(vip.GetInt("retries")),
	}
}

func (c *solveCmd) run(filename string) error {
	if c.vip.GetBool("verbose") {
		c.log.SetLevel(logrus.DebugLevel)
	}

	p, err := instance.NewReader(filename).Problem()
	if err != nil {
		return err
	}
	fmt.Println(p)
	if c.vip.GetBool("print-matrix") {
		fmt.Printf("A = %v\n\n", mat.Formatted(p.Dense(), mat.Prefix("    "), mat.Squeeze()))
	}

	s, err := simplex.NewSolver(p, c.options()...)
	if err != nil {
		return err
	}
	start := time.Now()
	st := s.Solve()
	elapsed := time.Since(start)

	fmt.Printf("status:     %s\n", st)
	fmt.Printf("iterations: %d\n", s.Iterations())
	fmt.Printf("time:       %s\n", elapsed)
	sol, err := s.Solution(st)
	if err != nil {
		// no basic solution to report
		return nil
	}
	fmt.Printf("objective:  %.10g\n\n", sol.Objective)
	printColumns(p, sol)

	if c.vip.GetBool("kkt") {
		kkt, err := s.CheckKKT(false)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s", kkt)
	}

	if c.vip.GetBool("cross-check") {
		want, err := instance.CrossCheck(filename)
		if err != nil {
			return err
		}
		fmt.Printf("\nglpk objective: %.10g (difference %.3g)\n", want, math.Abs(want-sol.Objective))
	}
	return nil
}

func printColumns(p *model.Problem, sol *simplex.Solution) {
	fmt.Printf("%-12s %2s %14s %14s\n", "column", "st", "value", "dual")
	for j, v := range p.Cols() {
		name := v.Name
		if name == "" {
			name = v.ID.String()
		}
		fmt.Printf("%-12s %2s %14.6g %14.6g\n", name, sol.ColTags[j], sol.ColValues[j], sol.ColDuals[j])
	}
}
