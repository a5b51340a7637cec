package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/app"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/cloud"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/tools"
)

const usage = `usage: solarctl [flags] <tool>
       solarctl --list

Runs one analytics tool and prints the JSON report. By default the tool runs
in-process against the configured database; --remote invokes the tool Lambda.

flags:
`

type options struct {
	tool   string
	args   json.RawMessage
	list   bool
	remote bool
}

// parse reads flags into opts and binds the config-backed ones into v.
func parse(argv []string, v *viper.Viper, stderr io.Writer) (options, error) {
	fs := pflag.NewFlagSet("solarctl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	rawArgs := fs.String("args", "{}", "tool arguments as a JSON object")
	list := fs.Bool("list", false, "list the available tools")
	remote := fs.Bool("remote", false, "invoke the tool Lambda instead of querying the database")
	fs.String("lambda", "", "Lambda function name (overrides aws.lambda_function)")
	fs.String("region", "", "AWS region (overrides aws.region)")
	fs.String("log-level", "", "log level (overrides log_level)")

	if err := fs.Parse(argv); err != nil {
		return options{}, err
	}
	for key, flag := range map[string]string{
		"aws.lambda_function": "lambda",
		"aws.region":          "region",
		"log_level":           "log-level",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return options{}, err
		}
	}

	opts := options{list: *list, remote: *remote}
	if opts.list {
		return opts, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, errors.New("exactly one tool name is required")
	}
	opts.tool = fs.Arg(0)
	if !json.Valid([]byte(*rawArgs)) {
		return options{}, fmt.Errorf("--args is not valid JSON: %s", *rawArgs)
	}
	opts.args = json.RawMessage(*rawArgs)
	return opts, nil
}

func listTools(w io.Writer, defs []tools.Definition) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range defs {
		fmt.Fprintf(tw, "%s\t%s\n", d.Name, d.Description)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runLocal(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts options, stdout io.Writer) error {
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.Tools.Call(ctx, opts.tool, opts.args)
	if err != nil {
		return err
	}
	return printJSON(stdout, rep)
}

func runRemote(ctx context.Context, cfg *config.Config, opts options, stdout io.Writer) error {
	client, err := cloud.NewLambdaClient(ctx, cfg.AWS.Region, cfg.AWS.LambdaFunction)
	if err != nil {
		return err
	}
	resp, err := client.InvokeTool(ctx, cloud.ToolEvent{Tool: opts.tool, Arguments: opts.args})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s: %s", opts.tool, resp.Error)
	}
	return printJSON(stdout, resp.Result)
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
	v := viper.GetViper()
	opts, err := parse(argv, v, stderr)
	if err != nil {
		return err
	}
	if opts.list {
		return listTools(stdout, tools.New(nil).Definitions())
	}

	cfg, err := config.LoadFrom(v)
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.LogLevel)
	if opts.remote {
		return runRemote(ctx, cfg, opts, stdout)
	}
	return runLocal(ctx, cfg, logger, opts, stdout)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "solarctl:", err)
		os.Exit(1)
	}
}
