package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reoring/lasso"
	"github.com/reoring/lasso/codec"
	"github.com/reoring/lasso/decl"
)

var version = "dev"

// errInvalid is returned when at least one document failed validation.
var errInvalid = errors.New("one or more documents are invalid")

type globalFlags struct {
	schema          string
	logLevel        string
	maxDepth        int
	maxBytes        int64
	allowDuplicates bool
	numbers         string
}

type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	flags  globalFlags
	log    zerolog.Logger
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}
	root := &cobra.Command{
		Use:           "lasso",
		Short:         "Validate and convert documents against shape files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogger()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.schema, "schema", "s", "", "shape document (.json, .yaml or .yml)")
	pf.StringVar(&a.flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.IntVar(&a.flags.maxDepth, "max-depth", 512, "maximum nesting depth of input documents (0 for unlimited)")
	pf.Int64Var(&a.flags.maxBytes, "max-bytes", 0, "maximum size of input documents in bytes (0 for unlimited)")
	pf.BoolVar(&a.flags.allowDuplicates, "allow-duplicates", false, "let the last duplicate JSON object key win instead of failing")
	pf.StringVar(&a.flags.numbers, "numbers", "native", "number representation (native, json-number, decimal)")
	_ = root.MarkPersistentFlagRequired("schema")

	root.AddCommand(a.checkCmd(), a.convertCmd())
	return root
}

func (a *app) setupLogger() error {
	level, err := zerolog.ParseLevel(a.flags.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	output := zerolog.ConsoleWriter{Out: a.errOut, NoColor: true, TimeFormat: time.RFC3339}
	a.log = zerolog.New(output).Level(level).With().Timestamp().Logger()
	return nil
}

func (a *app) checkCmd() *cobra.Command {
	var (
		format  string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "check [flags] FILE...",
		Short: "Validate documents against the shape",
		Long:  "Validate each document against the shape. A FILE of - reads standard input. The exit status is 1 if any document is invalid.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shape, opts, err := a.load()
			if err != nil {
				return err
			}
			failed := 0
			for _, name := range args {
				v, err := a.decodeFile(name, format, shape, opts)
				if err != nil {
					failed++
					a.log.Error().Str("file", name).Msg(describe(err))
					continue
				}
				a.log.Info().Str("file", name).Msg("valid")
				if verbose {
					fmt.Fprintf(a.out, "%s: %s\n", name, pretty.Sprint(v))
				}
			}
			if failed > 0 {
				a.log.Warn().Int("invalid", failed).Int("total", len(args)).Msg("check failed")
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format (json or yaml); defaults to the file extension")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print each validated document")
	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	var from, to, indent string
	cmd := &cobra.Command{
		Use:   "convert [flags] FILE",
		Short: "Validate a document and re-encode it in another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := codec.ByName(to)
			if err != nil {
				return err
			}
			shape, opts, err := a.load()
			if err != nil {
				return err
			}
			v, err := a.decodeFile(args[0], from, shape, opts)
			if err != nil {
				a.log.Error().Str("file", args[0]).Msg(describe(err))
				return errInvalid
			}
			out, err := target.Encode(v, codec.WithIndent(indent))
			if err != nil {
				return err
			}
			if _, err := a.out.Write(out); err != nil {
				return err
			}
			a.log.Debug().Str("file", args[0]).Str("to", target.Name()).Int("bytes", len(out)).Msg("converted")
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "input format (json or yaml); defaults to the file extension")
	cmd.Flags().StringVar(&to, "to", "", "output format (json or yaml)")
	cmd.Flags().StringVar(&indent, "indent", "", "indentation for the output")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (a *app) load() (lasso.Validator, []codec.Option, error) {
	mode, err := numberMode(a.flags.numbers)
	if err != nil {
		return nil, nil, err
	}
	shape, err := decl.Load(a.flags.schema)
	if err != nil {
		return nil, nil, err
	}
	a.log.Debug().Str("schema", a.flags.schema).Strs("fields", shape.Fields()).Msg("shape loaded")

	dup := codec.DuplicateError
	if a.flags.allowDuplicates {
		dup = codec.DuplicateIgnore
	}
	opts := []codec.Option{
		codec.WithNumberMode(mode),
		codec.WithDuplicates(dup),
		codec.WithMaxDepth(a.flags.maxDepth),
		codec.WithMaxBytes(a.flags.maxBytes),
	}
	return shape, opts, nil
}

func (a *app) decodeFile(name, format string, shape lasso.Validator, opts []codec.Option) (any, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(a.in)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = filepath.Ext(name)
		if name == "-" {
			format = "json"
		}
	}
	c, err := codec.ByName(format)
	if err != nil {
		return nil, err
	}
	return c.Decode(data, shape, opts...)
}

func numberMode(s string) (codec.NumberMode, error) {
	for _, m := range []codec.NumberMode{codec.NumberNative, codec.NumberJSONNumber, codec.NumberDecimal} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid --numbers %q", s)
}

// describe renders an error for the log, naming the location of decode
// problems.
func describe(err error) string {
	var de *codec.DecodeError
	if errors.As(err, &de) {
		return fmt.Sprintf("%s at %s: %s", de.Code, de.Path, de.Message)
	}
	return err.Error()
}
