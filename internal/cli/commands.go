package cli

import (
	"context"
	"strings"

	"github.com/specialistvlad/climeta/internal/app"
	"github.com/specialistvlad/climeta/internal/codegen"
	"github.com/specialistvlad/climeta/internal/config"
	"github.com/spf13/cobra"
)

func (r *runner) generateCommand() *cobra.Command {
	var opts app.GenerateOptions
	var format string
	cmd := &cobra.Command{
		Use:   "generate <document>",
		Short: "Validate a document and write it out",
		Long: `Validate a document and write it in the flat or HCL format.

The output format is taken from --format, then from the extension of
--output, then from the input document. Every invalid field is reported and
nothing is written when the document does not validate.`,
		Args: cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, args []string) error {
			opts.Input = args[0]
			if format != "" {
				opts.Format = config.Format(format)
				if _, err := r.app.Codecs().Codec(opts.Format); err != nil {
					return usageError("%v", err)
				}
			}
			return r.app.Generate(ctx, opts)
		}),
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file. Defaults to standard output.")
	cmd.Flags().StringVar(&format, "format", "", "Output format: 'toml' or 'hcl'.")
	cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{string(config.FormatFlat), string(config.FormatHCL)}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (r *runner) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>...",
		Short: "Validate documents, searching directories recursively",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.run(func(ctx context.Context, args []string) error {
			return r.app.Check(ctx, args...)
		}),
	}
}

func (r *runner) codegenCommand() *cobra.Command {
	var opts app.CodegenOptions
	langs := codegen.Languages()
	cmd := &cobra.Command{
		Use:   "codegen <document>",
		Short: "Generate argument-parsing code from a document",
		Example: `  climeta codegen args.toml -l python
  climeta codegen args.toml -l js-cla -o parser
  climeta codegen args.toml -l cpp-cxxopts -o parser  # parser.cpp and parser.hpp`,
		Args: cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, args []string) error {
			if _, err := codegen.Lookup(opts.Lang); err != nil {
				return usageError("%v", err)
			}
			opts.Input = args[0]
			_, err := r.app.Codegen(ctx, opts)
			return err
		}),
	}
	cmd.Flags().StringVarP(&opts.Lang, "lang", "l", "", "Language for the generated code: "+strings.Join(langs, ", ")+".")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file base WITHOUT extension. Defaults to standard output.")
	cmd.MarkFlagRequired("lang")
	cmd.RegisterFlagCompletionFunc("lang", cobra.FixedCompletions(langs, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (r *runner) serveCommand() *cobra.Command {
	var opts app.ServeOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the document editor server",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, args []string) error {
			ctx, stop := interruptible(ctx)
			defer stop()
			return r.app.Serve(ctx, opts)
		}),
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", app.DefaultAddr, "Address to listen on.")
	cmd.Flags().StringVar(&opts.Import, "import", "", "Document to load into the editor on start.")
	return cmd
}

func (r *runner) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <url>",
		Short: "Print the changes of a running editor",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, args []string) error {
			ctx, stop := interruptible(ctx)
			defer stop()
			return r.app.Watch(ctx, args[0])
		}),
	}
}

func (r *runner) pushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push <url> <document>",
		Short: "Replace the content of a running editor with a document",
		Args:  cobra.ExactArgs(2),
		RunE: r.run(func(ctx context.Context, args []string) error {
			return r.app.Push(ctx, args[0], args[1])
		}),
	}
}
