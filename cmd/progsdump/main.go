package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quaketools/progs/dis"
	"github.com/quaketools/progs/progs"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "progsdump [flags] <progs.dat>",
		Short:   "Dump compiled QuakeC progs.dat files",
		Long:    "Progsdump decodes a compiled QuakeC progs.dat file and prints its\nfunctions, a best-effort disassembly of its statements, and its named\nglobals with their values.",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Args:    cobra.ExactArgs(1),
		RunE:    run,

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.Flags()
	flags.BoolP("functions", "f", false, "Print the function table")
	flags.BoolP("disasm", "d", false, "Print the statement disassembly")
	flags.BoolP("globals", "g", false, "Print the global definitions with values")
	flags.StringP("output", "o", "text", "Output format: text or json")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Bool("tolerant", false, "Skip invalid records instead of failing")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	if err := viper.BindPFlags(flags); err != nil {
		fatal(err)
	}
	if err := viper.BindEnv("no-color", "NO_COLOR"); err != nil {
		fatal(err)
	}
	cobra.OnInitialize(initConfig)

	if err := rootCmd.Execute(); err != nil {
		fatal(err)
	}
}

// initConfig reads an optional ~/.progsdump config file.
func initConfig() {
	home, err := homedir.Dir()
	if err != nil {
		return
	}
	viper.AddConfigPath(home)
	viper.SetConfigName(".progsdump")
	_ = viper.ReadInConfig()
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

type sections struct {
	functions bool
	disasm    bool
	globals   bool
}

// selectedSections returns which report sections were requested. With no
// selection flags set, all sections are printed.
func selectedSections() sections {
	s := sections{
		functions: viper.GetBool("functions"),
		disasm:    viper.GetBool("disasm"),
		globals:   viper.GetBool("globals"),
	}
	if !s.functions && !s.disasm && !s.globals {
		return sections{functions: true, disasm: true, globals: true}
	}
	return s
}

func run(cmd *cobra.Command, args []string) error {
	processGlobalFlags()
	logger := newLogger()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var opts []progs.Option
	if viper.GetBool("tolerant") {
		opts = append(opts, progs.WithTolerantRecords())
	}
	p, err := progs.Load(f, opts...)
	if err != nil {
		if p == nil {
			return fmt.Errorf("unreadable progs file %s: %w", args[0], err)
		}
		// Tolerant mode: the aggregate is usable, report what was skipped.
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, recErr := range merr.Errors {
				logger.Warn().Err(recErr).Msg("skipped record")
			}
		} else {
			logger.Warn().Err(err).Msg("skipped records")
		}
	}
	logger.Debug().
		Uint32("version", p.Version()).
		Uint32("crc", p.CRC()).
		Int("functions", p.FunctionCount()).
		Int("statements", p.StatementCount()).
		Int("global_defs", p.GlobalDefCount()).
		Int("field_defs", p.FieldDefCount()).
		Msg("loaded progs")

	s := selectedSections()
	switch viper.GetString("output") {
	case "json":
		out, err := getOutputJSON(buildReport(p, s))
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	case "text", "":
		printText(p, s, os.Stdout)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", viper.GetString("output"))
	}
}

func printText(p *progs.Progs, s sections, w io.Writer) {
	if s.functions {
		dis.PrintFunctions(p, w)
	}
	if s.disasm {
		if s.functions {
			fmt.Fprintln(w)
		}
		dis.Print(dis.Disassemble(p), w)
	}
	if s.globals {
		if s.functions || s.disasm {
			fmt.Fprintln(w)
		}
		dis.PrintGlobals(p, w)
	}
}
