// Command promptgen prints the prompt descriptors for a configuration file.
//
//	promptgen [-format json|yaml] [-prefix name] [-message template] file
//
// A file of "-" reads standard input, which requires -format or defaults to json.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/akave-ai/confprompt/internal/infrastructure/sources"
	"github.com/akave-ai/confprompt/internal/prompt"

	_ "github.com/akave-ai/confprompt/internal/infrastructure/sources/jsonsource"
	_ "github.com/akave-ai/confprompt/internal/infrastructure/sources/yamlsource"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("promptgen")
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("promptgen", flag.ContinueOnError)
	format := fs.String("format", "", "document format ("+fmt.Sprint(sources.GlobalRegistry.ListRegistered())+"); default from file extension")
	prefix := fs.String("prefix", "", "name prefix for every descriptor")
	message := fs.String("message", "", "message template over .Type and .Name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument, got %d", fs.NArg())
	}
	path := fs.Arg(0)

	d, err := pickDecoder(sources.GlobalRegistry, *format, path)
	if err != nil {
		return err
	}

	var data []byte
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	m, err := d.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	opts := []prompt.Option{prompt.WithPrefix(*prefix)}
	if *message != "" {
		f, err := prompt.NewTemplateFormatter(*message)
		if err != nil {
			return fmt.Errorf("message template: %w", err)
		}
		opts = append(opts, prompt.WithFormatter(f))
	}

	descriptors, err := prompt.Generate(m, opts...)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(descriptors)
}

func pickDecoder(reg *sources.Registry, format, path string) (sources.Decoder, error) {
	if format != "" {
		d, ok := reg.Get(format)
		if !ok {
			return nil, fmt.Errorf("%w: %q", sources.ErrUnknownFormat, format)
		}
		return d, nil
	}
	if d, ok := reg.ForPath(path); ok {
		return d, nil
	}
	d, ok := reg.Get("json")
	if !ok {
		return nil, fmt.Errorf("%w: json", sources.ErrUnknownFormat)
	}
	return d, nil
}
