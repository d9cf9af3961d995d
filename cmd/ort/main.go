// ort - Object Record Table CLI tool
//
// Usage:
//
//	ort to-json [file]          Convert ORT to indented JSON
//	ort from-json [file]        Convert JSON to ORT
//	ort to-yaml [file]          Convert ORT to YAML
//	ort from-yaml [file]        Convert YAML to ORT
//	ort fmt [file]              Re-serialize ORT in canonical form
//	ort check [file]            Validate ORT and report warnings
//	ort dump [file]             Print the parsed document structure
//	ort get <key> [file]        Print one section as ORT
//	ort stats [file]            Compare ORT and JSON sizes
//	ort hash [file]             Print the document fingerprint
//	ort version                 Print version info
//
// If no file is given, reads from stdin. Gzip and zstd input is
// decompressed automatically.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/ORT-format/ort/ort"
)

const version = "0.3.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// env is what a command needs to run: resolved settings and the process
// streams.
type env struct {
	cfg    Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
}

func (e *env) parseOptions() ort.ParseOptions {
	opts := ort.DefaultParseOptions()
	if e.cfg.MaxDepth > 0 {
		opts.MaxDepth = e.cfg.MaxDepth
	}
	opts.Logger = e.logger
	return opts
}

func (e *env) serializeOptions() ort.SerializeOptions {
	opts := ort.DefaultSerializeOptions()
	opts.FieldOrder = e.cfg.FieldOrder
	return opts
}

// stdinArgs rewrites a bare "-" to an empty argument. kingpin reads "-" as
// a short flag, and an empty file argument already means stdin.
func stdinArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "-" {
			a = ""
		}
		out[i] = a
	}
	return out
}

// run executes one command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := kingpin.New("ort", "Object Record Table converter and checker.")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	exited := false
	app.Terminate(func(int) { exited = true })

	configPath := app.Flag("config", "YAML config file.").Envar("ORT_CONFIG").String()
	verbose := app.Flag("verbose", "Log debug output to stderr.").Short('v').Bool()
	fieldOrder := app.Flag("field-order", "Fields that lead every table header, comma separated.").String()
	maxDepth := app.Flag("max-depth", "Maximum nesting depth.").Int()

	fileArg := func(cmd *kingpin.CmdClause) *string {
		return cmd.Arg("file", "Input file; stdin when omitted or '-'.").String()
	}

	toJSON := app.Command("to-json", "Convert ORT to indented JSON.")
	toJSONFile := fileArg(toJSON)
	fromJSON := app.Command("from-json", "Convert JSON to ORT.")
	fromJSONFile := fileArg(fromJSON)
	toYAML := app.Command("to-yaml", "Convert ORT to YAML.")
	toYAMLFile := fileArg(toYAML)
	fromYAML := app.Command("from-yaml", "Convert YAML to ORT.")
	fromYAMLFile := fileArg(fromYAML)
	fmtCmd := app.Command("fmt", "Re-serialize ORT in canonical form.")
	fmtFile := fileArg(fmtCmd)
	check := app.Command("check", "Validate ORT and report warnings.")
	checkFile := fileArg(check)
	dump := app.Command("dump", "Print the parsed document structure.")
	dumpFile := fileArg(dump)
	get := app.Command("get", "Print one section as ORT.")
	getKey := get.Arg("key", "Section key.").Required().String()
	getFile := fileArg(get)
	stats := app.Command("stats", "Compare ORT and JSON sizes.")
	statsFile := fileArg(stats)
	hash := app.Command("hash", "Print the SHA-256 fingerprint of the canonical form.")
	hashFile := fileArg(hash)
	versionCmd := app.Command("version", "Print version info.")

	cmd, err := app.Parse(stdinArgs(args))
	if exited {
		return 0
	}
	if err != nil {
		app.Errorf("%s", err)
		return 2
	}

	cfg, err := resolveConfig(*configPath, *verbose, *fieldOrder, *maxDepth)
	if err != nil {
		fmt.Fprintf(stderr, "ort: %v\n", err)
		return 1
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	e := &env{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		stdin:  stdin,
		stdout: stdout,
	}
	e.logger.Debug("config", slog.Int("max_depth", cfg.MaxDepth), slog.String("field_order", strings.Join(cfg.FieldOrder, ",")))

	switch cmd {
	case toJSON.FullCommand():
		err = e.cmdToJSON(*toJSONFile)
	case fromJSON.FullCommand():
		err = e.cmdFromJSON(*fromJSONFile)
	case toYAML.FullCommand():
		err = e.cmdToYAML(*toYAMLFile)
	case fromYAML.FullCommand():
		err = e.cmdFromYAML(*fromYAMLFile)
	case fmtCmd.FullCommand():
		err = e.cmdFmt(*fmtFile)
	case check.FullCommand():
		err = e.cmdCheck(*checkFile)
	case dump.FullCommand():
		err = e.cmdDump(*dumpFile)
	case get.FullCommand():
		err = e.cmdGet(*getKey, *getFile)
	case stats.FullCommand():
		err = e.cmdStats(*statsFile)
	case hash.FullCommand():
		err = e.cmdHash(*hashFile)
	case versionCmd.FullCommand():
		fmt.Fprintf(stdout, "ort %s\n", version)
	}

	if err != nil {
		fmt.Fprintf(stderr, "ort: %v\n", err)
		return 1
	}
	return 0
}
