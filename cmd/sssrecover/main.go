// Command sssrecover reconstructs Shamir-shared secrets from share records.
//
//	sssrecover [flags] <input.json> [input...]
//
// The secret of each input is printed to stdout; logs go to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vitalvas/sssrecover/config"
	"github.com/vitalvas/sssrecover/reconstruct"
	"github.com/vitalvas/sssrecover/xlogger"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sssrecover", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: sssrecover [flags] <input> [input...]")
		fs.PrintDefaults()
	}

	var configFiles stringList
	fs.Var(&configFiles, "config", "config file (yaml or json), may be repeated")
	prime := fs.String("prime", "", "field prime in decimal or 0x hex (default 2^127-1)")
	base := fs.Int("base", 10, "radix of the printed secret (2-36)")
	verify := fs.Bool("verify", false, "fail if shares beyond the threshold disagree")
	workers := fs.Int("workers", 4, "max inputs reconstructed at once (0 = no cap)")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	logFormat := fs.String("log-format", "", "log format: text or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		fs.Usage()
		return exitUsage
	}

	conf, err := config.Load(config.WithFiles(configFiles...), config.WithEnv(config.DefaultEnvPrefix))
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitFail
	}

	// Flags given explicitly win over files and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "prime":
			conf.Prime = *prime
		case "base":
			conf.OutputBase = *base
		case "verify":
			conf.Verify = *verify
		case "workers":
			conf.Workers = *workers
		case "log-level":
			conf.Logger.Level = *logLevel
		case "log-format":
			conf.Logger.Format = *logFormat
		}
	})

	if err := conf.Validate(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitFail
	}

	conf.Logger.Output = stderr
	logger := xlogger.New(conf.Logger)

	f, err := conf.Field()
	if err != nil {
		logger.Error("invalid field", "error", err)
		return exitFail
	}

	r := reconstruct.New(f,
		reconstruct.WithLogger(logger),
		reconstruct.WithVerify(conf.Verify),
		reconstruct.WithWorkers(conf.Workers),
	)

	results, err := r.ReconstructFiles(ctx, inputs)
	if err != nil {
		logger.Error("reconstruction failed", "error", err)
		return exitFail
	}

	for _, res := range results {
		secret, err := res.Format(conf.OutputBase)
		if err != nil {
			logger.Error("format secret", "source", res.Source, "error", err)
			return exitFail
		}

		if len(results) > 1 {
			fmt.Fprintf(stdout, "%s: %s\n", res.Source, secret)
		} else {
			fmt.Fprintln(stdout, secret)
		}
	}

	return exitOK
}
