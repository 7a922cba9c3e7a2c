package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/config"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/telemetry"
	"github.com/davidleathers/phonenumbers-na/internal/service/extraction"
)

const usage = `usage: phonenumbers-na [flags] [extract|validate|parse|areacode|states] [input ...]

Input is taken from the arguments, or from stdin when none are given.
`

// exitInvalid is returned when validate or parse rejects an input.
const exitInvalid = 1

var modes = []string{"extract", "validate", "parse", "areacode", "states"}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("phonenumbers-na", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	format := fs.String("format", "text", "Output format: text, json, yaml")
	source := fs.String("source", "cli", "Source recorded on extracted numbers")
	logLevel := fs.String("log-level", "warn", "Log level for diagnostics on stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !slices.Contains([]string{"text", "json", "yaml"}, *format) {
		fmt.Fprintf(stderr, "unknown format %q\n", *format)
		return 2
	}

	logger := telemetry.SetupLoggerTo(stderr, *logLevel)
	slog.SetDefault(logger)

	defaults := config.Defaults().Ingest
	svc := extraction.NewService(defaults, nil, nil, logger)

	mode := "extract"
	rest := fs.Args()
	if len(rest) > 0 && slices.Contains(modes, rest[0]) {
		mode, rest = rest[0], rest[1:]
	}

	inputs, err := collectInputs(mode, rest, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "reading input: %v\n", err)
		return 2
	}

	out := &printer{w: stdout, format: *format}
	code := 0
	switch mode {
	case "extract":
		resp, err := svc.Extract(ctx, &extraction.ExtractRequest{Text: strings.Join(inputs, "\n"), Source: *source})
		if err != nil {
			return fail(stderr, err)
		}
		err = out.print(resp, func(w io.Writer) {
			for _, n := range resp.DialedNumbers {
				fmt.Fprintln(w, n)
			}
		})
		if err != nil {
			return fail(stderr, err)
		}

	case "validate":
		results := make([]*extraction.ValidateResponse, 0, len(inputs))
		for _, in := range inputs {
			r := svc.Validate(ctx, in)
			if !r.Valid {
				code = exitInvalid
			}
			results = append(results, r)
		}
		err := out.print(results, func(w io.Writer) {
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%t\n", r.Input, r.Valid)
			}
		})
		if err != nil {
			return fail(stderr, err)
		}

	case "parse":
		type parsed struct {
			Input  string      `json:"input"`
			Number interface{} `json:"number,omitempty"`
			Error  string      `json:"error,omitempty"`
		}
		results := make([]parsed, 0, len(inputs))
		for _, in := range inputs {
			p, err := svc.Parse(ctx, in)
			if err != nil {
				code = exitInvalid
				results = append(results, parsed{Input: in, Error: err.Error()})
				continue
			}
			results = append(results, parsed{Input: in, Number: p})
		}
		err := out.print(results, func(w io.Writer) {
			for _, r := range results {
				if r.Error != "" {
					fmt.Fprintf(w, "%s\tinvalid\n", r.Input)
					continue
				}
				fmt.Fprintf(w, "%s\t%v\n", r.Input, r.Number)
			}
		})
		if err != nil {
			return fail(stderr, err)
		}

	case "areacode":
		infos := make([]*extraction.AreaCodeInfo, 0, len(inputs))
		for _, in := range inputs {
			info, err := svc.LookupAreaCode(ctx, in)
			if err != nil {
				return fail(stderr, err)
			}
			infos = append(infos, info)
		}
		err := out.print(infos, func(w io.Writer) {
			for _, info := range infos {
				state := "-"
				if info.State != nil {
					state = info.State.Abbreviation
				}
				fmt.Fprintf(w, "%s\tvalid=%t\ttype=%s\tstate=%s\n", info.NPA, info.Valid, info.Type, state)
			}
		})
		if err != nil {
			return fail(stderr, err)
		}

	case "states":
		states := svc.States(ctx)
		err := out.print(states, func(w io.Writer) {
			for _, s := range states {
				codes := make([]string, len(s.AreaCodes))
				for i, c := range s.AreaCodes {
					codes[i] = strconv.Itoa(c)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Abbreviation, s.Name, strings.Join(codes, ","))
			}
		})
		if err != nil {
			return fail(stderr, err)
		}
	}
	return code
}

// collectInputs returns the arguments, or stdin when there are none. Extract
// reads stdin whole; the other modes read one input per non-empty line.
func collectInputs(mode string, args []string, stdin io.Reader) ([]string, error) {
	if mode == "states" || len(args) > 0 {
		return args, nil
	}
	if mode == "extract" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return []string{string(data)}, nil
	}
	var lines []string
	sc := bufio.NewScanner(stdin)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

func fail(stderr io.Writer, err error) int {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		fmt.Fprintf(stderr, "%s: %s\n", appErr.Code, appErr.Message)
		return exitInvalid
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return exitInvalid
}

type printer struct {
	w      io.Writer
	format string
}

func (p *printer) print(v interface{}, text func(io.Writer)) error {
	switch p.format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.w, string(data))
		return err
	case "yaml":
		// Round trip through JSON so YAML keys match the JSON field names.
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(p.w)
		return nil
	}
}
