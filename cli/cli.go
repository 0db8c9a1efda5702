package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lambdaeval/cli/cmd"
	"github.com/ardnew/lambdaeval/pkg"
)

// CLI is the top-level command-line interface for lambdaeval.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Frame     string `help:"Frame snapshot file or '-' for stdin" placeholder:"FILE" short:"f" type:"existingfile"`
	Enclosing string `default:"Program" help:"Enclosing type of the empty frame used without --frame"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Init     cmd.Init     `cmd:"" help:"Initialize configuration file"`
	Typename cmd.Typename `cmd:"" help:"Decompose a type name and resolve deferred lambda types"`
	Invoke   cmd.Invoke   `cmd:"" help:"Linearize a lambda and call it with arguments"`
	Repl     cmd.Repl     `cmd:"" help:"Start an interactive session"`

	Linearize cmd.Linearize `cmd:"" default:"withargs" help:"Linearize a lambda against the frame"`
}

// Run executes the lambdaeval CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(load, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithFrameSource(ctx, cmd.FrameSource{
		Path:      cli.Frame,
		Enclosing: cli.Enclosing,
	})

	// Finalize logger configuration with all parsed values.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
