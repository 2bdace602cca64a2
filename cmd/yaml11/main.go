// Copyright 2025 The yaml11 Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Command yaml11 inspects and reformats YAML 1.1 streams: it prints token
// and event streams, round-trips documents through the node tree, and
// converts to JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/xerrors"

	yaml "go.yaml.in/yaml11"
	"go.yaml.in/yaml11/internal/libyaml"
)

var stderr = colorable.NewColorableStderr()

func main() {
	root := &cobra.Command{
		Use:           "yaml11",
		Short:         "Inspect and reformat YAML 1.1 streams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newTokensCmd(), newEventsCmd(), newFmtCmd(), newJSONCmd())
	if err := root.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(stderr, "error: ")
		fmt.Fprintln(stderr, err)
		os.Exit(1)
	}
}

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", xerrors.Errorf("read stdin: %w", err)
		}
		return data, "<stdin>", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", xerrors.Errorf("read %s: %w", args[0], err)
	}
	return data, args[0], nil
}

func newTokensCmd() *cobra.Command {
	var comments bool
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a YAML document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := readInput(args)
			if err != nil {
				return err
			}
			scanner := libyaml.NewScanner(libyaml.NewReaderBytes(name, data), comments)
			return printTokens(cmd.OutOrStdout(), scanner)
		},
	}
	cmd.Flags().BoolVar(&comments, "comments", false, "emit comment tokens")
	return cmd
}

func printTokens(w io.Writer, scanner *libyaml.Scanner) (err error) {
	defer libyaml.HandleErr(&err)
	bold := color.New(color.Bold)
	for {
		token := scanner.NextToken()
		if token == nil {
			return nil
		}
		bold.Fprint(w, token.Type)
		if token.Value != "" {
			fmt.Fprintf(w, " %q", token.Value)
		}
		fmt.Fprintf(w, "  (%s)\n", token.StartMark.Position())
		if token.Type == libyaml.STREAM_END_TOKEN {
			return nil
		}
	}
}

func newEventsCmd() *cobra.Command {
	var comments bool
	cmd := &cobra.Command{
		Use:   "events [file]",
		Short: "Print the event stream of a YAML document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := readInput(args)
			if err != nil {
				return err
			}
			scanner := libyaml.NewScanner(libyaml.NewReaderBytes(name, data), comments)
			parser := libyaml.NewParser(scanner)
			return printEvents(cmd.OutOrStdout(), parser)
		},
	}
	cmd.Flags().BoolVar(&comments, "comments", false, "emit comment events")
	return cmd
}

func printEvents(w io.Writer, parser *libyaml.Parser) (err error) {
	defer libyaml.HandleErr(&err)
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	for {
		event := parser.NextEvent()
		if event == nil {
			return nil
		}
		bold.Fprintf(w, "%-15s", event.Type)
		if event.Anchor != "" {
			fmt.Fprintf(w, " &%s", event.Anchor)
		}
		if event.Tag != "" {
			fmt.Fprintf(w, " <%s>", event.Tag)
		}
		if event.Type == libyaml.SCALAR_EVENT || event.Type == libyaml.COMMENT_EVENT {
			fmt.Fprintf(w, " %q", event.Value)
		}
		dim.Fprintf(w, "  (%s)", event.StartMark.Position())
		fmt.Fprintln(w)
		if event.Type == libyaml.STREAM_END_EVENT {
			return nil
		}
	}
}

// fmtOptions converts the shared dump flags into yaml options.
type fmtOptions struct {
	indent        int
	width         int
	canonical     bool
	explicitStart bool
	explicitEnd   bool
	flow          bool
	prettyFlow    bool
	comments      bool
}

func (o *fmtOptions) register(flags *pflag.FlagSet) {
	flags.IntVar(&o.indent, "indent", 2, "spaces per block level (1-10)")
	flags.IntVar(&o.width, "width", 80, "preferred wrap column")
	flags.BoolVar(&o.canonical, "canonical", false, "canonical output")
	flags.BoolVar(&o.explicitStart, "explicit-start", false, "always write ---")
	flags.BoolVar(&o.explicitEnd, "explicit-end", false, "always write ...")
	flags.BoolVar(&o.flow, "flow", false, "use flow style for all collections")
	flags.BoolVar(&o.prettyFlow, "pretty-flow", false, "one flow entry per line")
	flags.BoolVar(&o.comments, "comments", false, "preserve comments")
}

func (o *fmtOptions) yamlOptions() []yaml.Option {
	opts := []yaml.Option{
		yaml.WithIndent(o.indent),
		yaml.WithWidth(o.width),
		yaml.WithCanonical(o.canonical),
		yaml.WithExplicitStart(o.explicitStart),
		yaml.WithExplicitEnd(o.explicitEnd),
		yaml.WithPrettyFlow(o.prettyFlow),
		yaml.WithComments(o.comments),
	}
	if o.flow {
		opts = append(opts, yaml.WithDefaultFlowStyle(yaml.FlowStyle))
	}
	return opts
}

func newFmtCmd() *cobra.Command {
	var opts fmtOptions
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Round-trip a YAML stream through the node tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _, err := readInput(args)
			if err != nil {
				return err
			}
			nodes, err := yaml.ComposeAll(data, opts.yamlOptions()...)
			if err != nil {
				return err
			}
			dumper, err := yaml.NewDumper(cmd.OutOrStdout(), opts.yamlOptions()...)
			if err != nil {
				return err
			}
			for _, node := range nodes {
				if err := dumper.DumpNode(node); err != nil {
					return err
				}
			}
			return dumper.Close()
		},
	}
	opts.register(cmd.Flags())
	return cmd
}

func newJSONCmd() *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "json [file]",
		Short: "Convert a YAML stream to JSON, one value per document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _, err := readInput(args)
			if err != nil {
				return err
			}
			docs, err := yaml.LoadAll(data)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			for _, doc := range docs {
				if err := enc.Encode(jsonable(doc)); err != nil {
					return xerrors.Errorf("encode json: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "one-line output")
	return cmd
}

// jsonable rewrites constructed values into shapes encoding/json accepts:
// map[any]any keys become strings, MapSlice becomes an object.
func jsonable(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = jsonable(val)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = jsonable(val)
		}
		return m
	case yaml.MapSlice:
		m := make(map[string]any, len(v))
		for _, item := range v {
			m[fmt.Sprint(item.Key)] = jsonable(item.Value)
		}
		return m
	case map[any]bool:
		keys := make([]any, 0, len(v))
		for k := range v {
			keys = append(keys, jsonable(k))
		}
		return keys
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = jsonable(item)
		}
		return items
	default:
		return v
	}
}
