package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"piiredact/internal/core/annotation"
	"piiredact/internal/core/classify"
	"piiredact/internal/core/pipeline"
	"piiredact/internal/core/rulepack"
	"piiredact/internal/platform/config"
	perr "piiredact/internal/platform/errors"
	"piiredact/internal/platform/logger"
)

// stdin is read when -in is "-"
var stdin io.Reader = os.Stdin

type options struct {
	in       string
	asJSON   bool
	classify bool
	mode     string
	out      string
	timeout  time.Duration
}

func main() {
	var o options
	flag.StringVar(&o.in, "in", "-", "input file, - for stdin")
	flag.BoolVar(&o.asJSON, "json", false, "input is an annotator document (text, sentences, tokens, entities)")
	flag.BoolVar(&o.classify, "classify", false, "run the chunk classifier and apply its labels")
	flag.StringVar(&o.mode, "mode", "context", "classifier chunks: context or hints")
	flag.StringVar(&o.out, "out", "text", "output: text or json")
	flag.DurationVar(&o.timeout, "timeout", time.Minute, "overall deadline")
	flag.Parse()

	_ = config.LoadDotenv(".env")
	logger.Init(logger.FromEnv())
	defer logger.Flush(2 * time.Second)

	if err := run(context.Background(), o, os.Stdout); err != nil {
		logger.Get().Error().Err(err).Msg("redaction failed")
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, w io.Writer) error {
	if o.out != "text" && o.out != "json" {
		return perr.InvalidArgf("-out must be text or json, got %q", o.out)
	}
	mode := pipeline.ModeContext
	switch o.mode {
	case "context":
	case "hints":
		mode = pipeline.ModeHints
	default:
		return perr.InvalidArgf("-mode must be context or hints, got %q", o.mode)
	}

	doc, err := readDocument(o.in, o.asJSON)
	if err != nil {
		return err
	}

	pack, err := rulepack.Load()
	if err != nil {
		return err
	}
	p, err := pipeline.New(pack, pipeline.FromConfig(config.New()))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	res, err := p.Process(ctx, doc)
	if err != nil {
		return err
	}
	if !o.classify {
		if o.out == "json" {
			return writeJSON(w, res)
		}
		_, err = fmt.Fprintln(w, res.Redacted)
		return err
	}

	fin, err := p.Classify(ctx, res, classify.Confirm(), mode)
	if err != nil {
		return err
	}
	if o.out == "json" {
		return writeJSON(w, struct {
			pipeline.Result
			Final pipeline.Final `json:"final"`
		}{res, fin})
	}
	_, err = fmt.Fprintln(w, fin.Redacted)
	return err
}

func readDocument(path string, asJSON bool) (annotation.Document, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" || path == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return annotation.Document{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read %s", path)
	}
	if !asJSON {
		return annotation.Document{Text: string(data)}, nil
	}
	var doc annotation.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return annotation.Document{}, perr.Wrap(err, perr.ErrorCodeJSON, "decode annotator document")
	}
	return doc, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
