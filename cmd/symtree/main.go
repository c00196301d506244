package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/symtree/outline"
	"github.com/arjunmahishi/symtree/output"
)

func main() {
	app := &cli.Command{
		Name:  "symtree",
		Usage: "incrementally maintained symbol trees for source files",
		Commands: []*cli.Command{
			outlineCommand(),
			symbolsCommand(),
			scopeCommand(),
			watchCommand(),
			languagesCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		output.WriteError(err)
		stop()
		os.Exit(1)
	}
}

func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "sort",
			Value: "name",
			Usage: "sibling order: name, line",
		},
		&cli.StringFlag{
			Name:  "format",
			Value: "json",
			Usage: "output format: json, text",
		},
		&cli.BoolFlag{
			Name:  "compact",
			Usage: "minimize JSON output",
		},
		&cli.StringFlag{
			Name:  "lang",
			Usage: "force a language instead of detecting it by extension",
		},
	}
}

func newWriter(cmd *cli.Command) (*output.Writer, error) {
	format, err := output.ParseFormat(cmd.String("format"))
	if err != nil {
		return nil, err
	}
	return output.New(output.Config{
		Compact: cmd.Bool("compact"),
		Format:  format,
	}), nil
}

func outlineCommand() *cli.Command {
	return &cli.Command{
		Name:  "outline",
		Usage: "print the symbol tree of a file",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "file to analyze (required)",
				Required: true,
			},
		}, formatFlags()...),
		Action: runOutline,
	}
}

func runOutline(ctx context.Context, cmd *cli.Command) error {
	w, err := newWriter(cmd)
	if err != nil {
		return err
	}

	doc, err := outline.Outline(ctx, outline.OutlineOptions{
		File:     cmd.String("file"),
		Language: cmd.String("lang"),
		Sort:     cmd.String("sort"),
	})
	if err != nil {
		return err
	}

	return w.WriteDocument(doc.Render())
}

func symbolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "symbols",
		Usage: "build symbol trees for every file under a directory",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Value: ".",
				Usage: "root path to scan",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   runtime.NumCPU(),
				Usage:   "number of parallel workers",
			},
			&cli.Int64Flag{
				Name:  "max-bytes",
				Value: 2 * 1024 * 1024,
				Usage: "skip files larger than this",
			},
			&cli.BoolFlag{
				Name:  "no-gitignore",
				Usage: "include files matched by .gitignore",
			},
		}, formatFlags()...),
		Action: runSymbols,
	}
}

func runSymbols(ctx context.Context, cmd *cli.Command) error {
	w, err := newWriter(cmd)
	if err != nil {
		return err
	}

	docs, err := outline.Outlines(ctx, outline.SymbolsOptions{
		Language:    cmd.String("lang"),
		Path:        cmd.String("path"),
		Sort:        cmd.String("sort"),
		Jobs:        cmd.Int("jobs"),
		MaxBytes:    cmd.Int64("max-bytes"),
		NoGitignore: cmd.Bool("no-gitignore"),
	})
	if err != nil {
		return err
	}

	rendered := make([]output.Document, 0, len(docs))
	for _, doc := range docs {
		rendered = append(rendered, doc.Render())
	}
	return w.WriteDocuments(rendered)
}

func scopeCommand() *cli.Command {
	return &cli.Command{
		Name:  "scope",
		Usage: "print the innermost scope enclosing a line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "file to analyze (required)",
				Required: true,
			},
			&cli.IntFlag{
				Name:     "line",
				Aliases:  []string{"l"},
				Usage:    "1-based line number (required)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "force a language instead of detecting it by extension",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "minimize output",
			},
		},
		Action: runScope,
	}
}

func runScope(ctx context.Context, cmd *cli.Command) error {
	tag, err := outline.Scope(ctx, outline.ScopeOptions{
		File:     cmd.String("file"),
		Language: cmd.String("lang"),
		Line:     cmd.Int("line"),
	})
	if err != nil {
		return err
	}

	// A line outside every scope prints null.
	return writeJSON(tag, cmd.Bool("compact"))
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "re-print a file's symbol tree whenever it changes",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "file to watch (required)",
				Required: true,
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Value: outline.DefaultDebounce,
				Usage: "quiet period before a change is re-parsed",
			},
		}, formatFlags()...),
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	format, err := output.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	// One JSON document per line so the stream can be piped.
	w := output.New(output.Config{
		Compact: format == output.FormatJSON || cmd.Bool("compact"),
		Format:  format,
	})

	return outline.Watch(ctx, outline.WatchOptions{
		File:     cmd.String("file"),
		Language: cmd.String("lang"),
		Sort:     cmd.String("sort"),
		Debounce: cmd.Duration("debounce"),
	}, func(doc *outline.Document) error {
		return w.WriteDocument(doc.Render())
	})
}

func languagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "list supported languages and their categories",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "minimize output",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return writeJSON(outline.Languages(), cmd.Bool("compact"))
		},
	}
}

// JSON output helpers
func writeJSON(v any, compact bool) error {
	if err := output.New(output.Config{Compact: compact}).Write(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
