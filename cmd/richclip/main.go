package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/labi-le/richclip/internal/bulk"
	"github.com/labi-le/richclip/internal/clipsource"
	"github.com/labi-le/richclip/internal/daemonize"
	"github.com/labi-le/richclip/internal/rcerrors"
	"github.com/labi-le/richclip/internal/selection"
	"github.com/labi-le/richclip/internal/singleton"
	"github.com/labi-le/richclip/pkg/macselection"
	"github.com/labi-le/richclip/pkg/wlselection"
	"github.com/labi-le/richclip/pkg/x11selection"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "copy":
		runCopy(os.Args[2:])
	case "paste":
		runPaste(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "richclip: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  richclip copy  [-p] [--foreground] [--one-shot] [-t MIME ...] [--chunk-size N]
  richclip paste [-l] [-t MIME] [-p]`)
}

type copyFlags struct {
	primary      bool
	foreground   bool
	oneShot      bool
	verbose      bool
	types        []string
	chunkSizeRaw string
}

func parseCopyFlags(args []string) copyFlags {
	var cfg copyFlags
	fs := flag.NewFlagSet("copy", flag.ExitOnError)
	fs.BoolVarP(&cfg.primary, "primary", "p", false, "Use the primary selection")
	fs.BoolVar(&cfg.foreground, "foreground", false, "Do not detach from terminal")
	fs.BoolVar(&cfg.oneShot, "one-shot", false, "Read stdin verbatim, publish under default or -t MIMEs")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Verbose logs")
	fs.StringArrayVarP(&cfg.types, "type", "t", nil, "MIME to publish under (repeatable, order preserved)")
	fs.StringVar(&cfg.chunkSizeRaw, "chunk-size", "", "Override X11 INCR chunk size (bytes)")
	_ = fs.Parse(args)
	return cfg
}

func runCopy(args []string) {
	cfg := parseCopyFlags(args)
	if len(cfg.types) > 0 {
		cfg.oneShot = true
	}

	logger := initLogger(cfg.verbose)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	stdin, err := io.ReadAll(os.Stdin)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read stdin")
		os.Exit(1)
	}

	var src *clipsource.Source
	if cfg.oneShot {
		src = clipsource.OneShot(cfg.types, stdin)
	} else {
		src, err = bulk.Decode(bytes.NewReader(stdin))
		if err != nil {
			logger.Error().Err(err).Msg("failed to decode bulk stream")
			os.Exit(1)
		}
	}

	kind, err := selection.Probe(selection.CurrentGOOS())
	if err != nil {
		logger.Error().Err(err).Msg("no display available")
		os.Exit(1)
	}
	role := roleFor(cfg.primary)

	var chunkSize uint32
	if cfg.chunkSizeRaw != "" {
		size, err := humanize.ParseBytes(cfg.chunkSizeRaw)
		if err != nil {
			logger.Error().Err(err).Msg("invalid --chunk-size")
			os.Exit(1)
		}
		chunkSize = uint32(size)
	}

	if err := daemonize.Detach(cfg.foreground, stdin); err != nil {
		logger.Error().Err(err).Msg("failed to detach from terminal")
		os.Exit(1)
	}

	guard, err := singleton.Acquire(kind, role, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to acquire selection lock")
		os.Exit(1)
	}
	defer guard.Release()

	sink, err := sinkFor(kind, logger, chunkSize)
	if err != nil {
		logger.Error().Err(err).Msg("unsupported backend")
		os.Exit(1)
	}

	if err := sink.Publish(ctx, src, role); err != nil {
		if errors.Is(err, rcerrors.ErrSelectionLost) || errors.Is(err, context.Canceled) {
			return
		}
		logger.Error().Err(err).Msg("failed to publish selection")
		os.Exit(1)
	}
}

type pasteFlags struct {
	listTypes bool
	mimeType  string
	primary   bool
	verbose   bool
}

func parsePasteFlags(args []string) pasteFlags {
	var cfg pasteFlags
	fs := flag.NewFlagSet("paste", flag.ExitOnError)
	fs.BoolVarP(&cfg.listTypes, "list-types", "l", false, "Print advertised MIMEs only, one per line")
	fs.StringVarP(&cfg.mimeType, "type", "t", "", "Require this MIME")
	fs.BoolVarP(&cfg.primary, "primary", "p", false, "Use the primary selection")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Verbose logs")
	_ = fs.Parse(args)
	return cfg
}

func runPaste(args []string) {
	cfg := parsePasteFlags(args)
	logger := initLogger(cfg.verbose)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kind, err := selection.Probe(selection.CurrentGOOS())
	if err != nil {
		logger.Error().Err(err).Msg("no display available")
		os.Exit(1)
	}
	role := roleFor(cfg.primary)

	source, err := sourceFor(kind, logger)
	if err != nil {
		logger.Error().Err(err).Msg("unsupported backend")
		os.Exit(1)
	}

	if cfg.listTypes {
		mimes, err := source.List(ctx, role)
		if err != nil {
			logger.Error().Err(err).Msg("failed to list selection targets")
			os.Exit(1)
		}
		if kind == selection.KindX11 {
			fmt.Println("TARGETS")
		}
		for _, m := range mimes {
			fmt.Println(m)
		}
		return
	}

	data, err := source.Fetch(ctx, role, cfg.mimeType)
	if err != nil {
		if errors.Is(err, rcerrors.ErrNoSuchMime) {
			os.Exit(0)
		}
		logger.Error().Err(err).Msg("failed to fetch selection")
		os.Exit(1)
	}
	os.Stdout.Write(data)
}

func roleFor(primary bool) selection.Role {
	if primary {
		return selection.Primary
	}
	return selection.Regular
}

func sinkFor(kind selection.Kind, logger zerolog.Logger, chunkSize uint32) (selection.Sink, error) {
	switch kind {
	case selection.KindX11:
		return x11selection.Sink{Logger: logger, ChunkSize: chunkSize}, nil
	case selection.KindWayland:
		return wlselection.Sink{Logger: logger}, nil
	case selection.KindMacOS:
		return macselection.Sink{}, nil
	default:
		return nil, fmt.Errorf("richclip: no sink for backend %s", kind)
	}
}

func sourceFor(kind selection.Kind, logger zerolog.Logger) (selection.Source, error) {
	switch kind {
	case selection.KindX11:
		return x11selection.Paste{Logger: logger}, nil
	case selection.KindWayland:
		return wlselection.Paste{Logger: logger}, nil
	case selection.KindMacOS:
		return macselection.Paste{}, nil
	default:
		return nil, fmt.Errorf("richclip: no paste source for backend %s", kind)
	}
}

func initLogger(verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	if verbose {
		zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
			short := file
			for i := len(file) - 1; i > 0; i-- {
				if file[i] == '/' {
					short = file[i+1:]
					break
				}
			}
			return fmt.Sprintf("%s:%d", short, line)
		}
		return zerolog.New(output).
			Level(zerolog.TraceLevel).
			With().
			Timestamp().
			Caller().
			Logger()
	}

	return zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}
