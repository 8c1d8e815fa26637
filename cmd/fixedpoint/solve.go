package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	fixedpoint "github.com/njchilds90/gofixedpoint"
	"github.com/njchilds90/gofixedpoint/internal/logging"
)

var solveExample = `# square root of two
%[1]s solve --equation "x**2 - 2" --guess 1

# Dottie number as JSON, with the candidate diagnostics
%[1]s solve -e "x - cos(x)" -g 1 --tol 0.0001 --output json --candidates
`

var (
	styleGood  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4")).Bold(true)
	styleBad   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	styleMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d"))
	styleHead  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell  = lipgloss.NewStyle().Padding(0, 1)
)

type SolveFlags struct {
	Equation      string
	Guess         float64
	MaxIterations int
	Tolerance     float64
	DecimalPlaces int
	Output        string
	Candidates    bool
	LogLevel      string
}

type SolveOpts struct {
	Request    fixedpoint.Request
	Output     string
	Candidates bool
	Logger     *logging.Logger

	Out io.Writer
}

func (f *SolveFlags) ToOptions(out, errout io.Writer) (*SolveOpts, error) {
	level, err := logging.ParseLevel(f.LogLevel)
	if err != nil {
		return nil, err
	}
	return &SolveOpts{
		Request: fixedpoint.Request{
			Equation:      f.Equation,
			InitialGuess:  f.Guess,
			MaxIterations: f.MaxIterations,
			Tolerance:     f.Tolerance,
			DecimalPlaces: f.DecimalPlaces,
		},
		Output:     f.Output,
		Candidates: f.Candidates,
		Logger:     logging.New(logging.Config{Level: level, Output: errout}),
		Out:        out,
	}, nil
}

func NewCmdSolve(parent string, out, errout io.Writer) *cobra.Command {
	flags := &SolveFlags{}

	cmd := &cobra.Command{
		Use:     "solve --equation EXPR",
		Short:   "Run one fixed-point iteration and print the trace",
		Example: fmt.Sprintf(solveExample, parent),
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := flags.ToOptions(out, errout)
			if err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			return opts.Run(c)
		},
	}

	cmd.Flags().StringVarP(&flags.Equation, "equation", "e", "", "f(x) in terms of x, e.g. \"x**2 - 2\"")
	cmd.Flags().Float64VarP(&flags.Guess, "guess", "g", 1, "initial guess x0")
	cmd.Flags().IntVar(&flags.MaxIterations, "max-iter", 50, "maximum number of iterations")
	cmd.Flags().Float64Var(&flags.Tolerance, "tol", 0.001, "stopping tolerance in percent")
	cmd.Flags().IntVar(&flags.DecimalPlaces, "decimals", 6, "decimal places in reported values")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "table", "output format: table, json or yaml")
	cmd.Flags().BoolVar(&flags.Candidates, "candidates", false, "also print every derived g(x) with its derivative")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", "warn", "log level: debug, info, warn or error")
	_ = cmd.MarkFlagRequired("equation")

	return cmd
}

func (o *SolveOpts) Validate() error {
	switch o.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", o.Output)
	}
	return o.Request.Validate()
}

func (o *SolveOpts) Run(c *cobra.Command) error {
	trace := fixedpoint.Solve(c.Context(), o.Request, fixedpoint.WithLogger(o.Logger.Logger))

	switch o.Output {
	case "json":
		return o.printJSON(trace)
	case "yaml":
		return o.printYAML(trace)
	}
	if o.Candidates {
		printCandidates(o.Out, trace)
	}
	printTrace(o.Out, trace)
	return nil
}

type candidateJSON struct {
	Method    string `json:"method" yaml:"method"`
	G         string `json:"g" yaml:"g"`
	LaTeX     string `json:"latex" yaml:"latex"`
	GPrime    string `json:"gPrime" yaml:"gPrime"`
	Converges *bool  `json:"converges" yaml:"converges"`
	Selected  bool   `json:"selected" yaml:"selected"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

func candidateDocs(trace *fixedpoint.Trace) []candidateJSON {
	out := make([]candidateJSON, 0, len(trace.Candidates))
	for i, c := range trace.Candidates {
		doc := candidateJSON{
			Method:    c.Method,
			G:         c.G.String(),
			LaTeX:     c.G.LaTeX(),
			GPrime:    gPrime(c),
			Converges: c.Converges,
			Selected:  i == trace.Selected,
		}
		if c.Err != nil {
			doc.Error = c.Err.Error()
		}
		out = append(out, doc)
	}
	return out
}

// gPrime renders |g'(x0)|, or N/A when the derivative failed.
func gPrime(c fixedpoint.Candidate) string {
	if c.GPrime == nil {
		return "N/A"
	}
	return fixedpoint.FormatFloat(*c.GPrime)
}

func (o *SolveOpts) printJSON(trace *fixedpoint.Trace) error {
	doc := struct {
		Iterations []fixedpoint.Record `json:"iterations"`
		Status     fixedpoint.Status   `json:"status"`
		Candidates []candidateJSON     `json:"candidates,omitempty"`
	}{Iterations: trace.Records, Status: trace.Status}
	if o.Candidates {
		doc.Candidates = candidateDocs(trace)
	}
	enc := json.NewEncoder(o.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (o *SolveOpts) printYAML(trace *fixedpoint.Trace) error {
	doc := yaml.MapSlice{
		{Key: "iterations", Value: trace.Records},
		{Key: "status", Value: string(trace.Status)},
	}
	if o.Candidates {
		doc = append(doc, yaml.MapItem{Key: "candidates", Value: candidateDocs(trace)})
	}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = o.Out.Write(b)
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleMuted).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHead
			}
			return styleCell
		})
}

func printCandidates(w io.Writer, trace *fixedpoint.Trace) {
	t := newTable("", "method", "g(x)", "LaTeX", "|g'(x0)|")
	for i, c := range trace.Candidates {
		mark := ""
		if i == trace.Selected {
			mark = "*"
		}
		t.Row(mark, c.Method, c.G.String(), c.G.LaTeX(), gPrime(c))
	}
	if len(trace.Candidates) == 0 {
		fmt.Fprintln(w, styleMuted.Render("no candidates derived"))
		return
	}
	fmt.Fprintln(w, t.Render())
}

func printTrace(w io.Writer, trace *fixedpoint.Trace) {
	t := newTable("i", "Xi", "G(Xi)", "E")
	rows := 0
	for _, r := range trace.Records {
		if r.Kind != fixedpoint.KindProgress {
			continue
		}
		t.Row(fmt.Sprint(r.I), fixedpoint.FormatFloat(r.Xi), fixedpoint.FormatFloat(r.GXi), r.E)
		rows++
	}
	if rows > 0 {
		fmt.Fprintln(w, t.Render())
	}

	last := trace.Last()
	switch last.Kind {
	case fixedpoint.KindResult:
		style := styleBad
		if trace.Status == fixedpoint.StatusConverged {
			style = styleGood
		}
		fmt.Fprintf(w, "%s\n%s %s\n", style.Render(last.Result), styleMuted.Render("Root:"), fixedpoint.FormatFloat(last.Root))
	case fixedpoint.KindError:
		fmt.Fprintln(w, styleBad.Render(last.Error))
		if last.Candidates != "" {
			for _, c := range strings.Split(last.Candidates, "; ") {
				fmt.Fprintln(w, styleMuted.Render("  "+c))
			}
		}
	}
}
