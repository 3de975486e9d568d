// Command qwencoder sends code and questions to a locally hosted
// Qwen2.5-Coder inference server and renders the reply in the terminal. It is
// the command-line counterpart of the editor extension: each subcommand maps
// to an editor action (explain selection, refactor, add comments, review,
// summarize workspace).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abhishek-7-singh/qwen2-coder-extension/pkg/config"
	"github.com/abhishek-7-singh/qwen2-coder-extension/pkg/gateway"
	"github.com/abhishek-7-singh/qwen2-coder-extension/pkg/prompts"
	"github.com/abhishek-7-singh/qwen2-coder-extension/pkg/workspace"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error

	switch cmd {
	case "ask":
		err = runAsk(ctx, args)
	case "explain":
		err = runFileCommand(ctx, "explain", args, prompts.Explain)
	case "comment":
		err = runFileCommand(ctx, "comment", args, prompts.Comment)
	case "review":
		err = runFileCommand(ctx, "review", args, prompts.Review)
	case "refactor":
		err = runRefactor(ctx, args)
	case "workspace":
		err = runWorkspace(ctx, args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: qwencoder <command> [flags] [input]

Commands:
  ask        Send a free-form question (from arguments or stdin)
  explain    Explain code from a file or stdin
  comment    Add documentation comments to code from a file or stdin
  review     Review code from a file or stdin
  refactor   Refactor code and show a diff against the input
  workspace  Summarize the project tree in a directory

Run "qwencoder <command> -h" for command flags.
`)
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	configPath string
	envFile    string
	baseURL    string
	mode       string
	maxTokens  int
	plain      bool
}

func registerCommon(fs *flag.FlagSet) *commonFlags {
	cf := &commonFlags{}
	fs.StringVar(&cf.configPath, "config", "", "path to configuration file (default: "+config.DefaultFileName+")")
	fs.StringVar(&cf.envFile, "env", ".env", "path to .env file (ignored if missing)")
	fs.StringVar(&cf.baseURL, "base-url", "", "override the model service base URL")
	fs.StringVar(&cf.mode, "mode", "", "override the API mode (auto, openai or simple)")
	fs.IntVar(&cf.maxTokens, "max-tokens", 0, "override the response token budget")
	fs.BoolVar(&cf.plain, "plain", false, "print the raw reply without markdown rendering")
	return cf
}

// gateway builds the model gateway: config file read fresh per call, with
// flag overrides layered on top.
func (cf *commonFlags) gateway() (*gateway.Gateway, error) {
	switch gateway.Mode(cf.mode) {
	case "", gateway.ModeAuto, gateway.ModeOpenAI, gateway.ModeSimple:
	default:
		return nil, fmt.Errorf("invalid -mode %q (want auto, openai or simple)", cf.mode)
	}

	if err := loadDotEnv(cf.envFile); err != nil {
		return nil, err
	}

	path := config.ResolvePath(cf.configPath)

	// Fail early on an unreadable explicit config instead of silently
	// falling back to defaults on every call.
	if _, err := config.Load(path); err != nil {
		return nil, err
	}

	var src gateway.ConfigSource = config.FileSource{Path: path}
	if cf.baseURL != "" || cf.mode != "" {
		src = overrideSource{inner: src, baseURL: cf.baseURL, mode: cf.mode}
	}

	return gateway.New(src), nil
}

func (cf *commonFlags) options() gateway.Options {
	var opts gateway.Options
	if cf.maxTokens != 0 {
		opts.MaxTokens = &cf.maxTokens
	}
	return opts
}

// overrideSource applies flag overrides on top of another config source.
type overrideSource struct {
	inner   gateway.ConfigSource
	baseURL string
	mode    string
}

func (o overrideSource) GatewayConfig() gateway.Config {
	cfg := o.inner.GatewayConfig()
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.mode != "" {
		cfg.Mode = gateway.Mode(o.mode)
	}
	return cfg
}

func runAsk(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	cf := registerCommon(fs)
	_ = fs.Parse(args)

	prompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prompt == "" {
		data, err := readStdin()
		if err != nil {
			return err
		}
		prompt = strings.TrimSpace(data)
	}
	if prompt == "" {
		return fmt.Errorf("ask: empty prompt (pass a question or pipe one on stdin)")
	}

	g, err := cf.gateway()
	if err != nil {
		return err
	}

	reply, err := g.Text(ctx, prompt, cf.options())
	if err != nil {
		return err
	}

	fmt.Println(renderMarkdown(reply, cf.plain))
	return nil
}

// runFileCommand handles the explain/comment/review commands, which differ
// only in their prompt builder.
func runFileCommand(ctx context.Context, name string, args []string, build func(filename, code string) string) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cf := registerCommon(fs)
	_ = fs.Parse(args)

	code, filename, err := readInput(fs.Args())
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	g, err := cf.gateway()
	if err != nil {
		return err
	}

	reply, err := g.Text(ctx, build(filename, code), cf.options())
	if err != nil {
		return err
	}

	fmt.Println(renderMarkdown(reply, cf.plain))
	return nil
}

func runRefactor(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("refactor", flag.ExitOnError)
	cf := registerCommon(fs)
	instruction := fs.String("instruction", "", "what to change (default: general cleanup)")
	_ = fs.Parse(args)

	code, filename, err := readInput(fs.Args())
	if err != nil {
		return fmt.Errorf("refactor: %w", err)
	}

	g, err := cf.gateway()
	if err != nil {
		return err
	}

	reply, err := g.Text(ctx, prompts.Refactor(filename, code, *instruction), cf.options())
	if err != nil {
		return err
	}

	fmt.Println(renderMarkdown(reply, cf.plain))

	if updated := extractCodeBlock(reply); updated != "" {
		diff, err := unifiedDiff(code, updated, filename)
		if err != nil {
			return fmt.Errorf("refactor: %w", err)
		}
		if diff != "" {
			fmt.Println()
			fmt.Println(headerStyle.Render("Diff against input:"))
			fmt.Println(renderDiff(diff, cf.plain))
		}
	}

	return nil
}

func runWorkspace(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("workspace", flag.ExitOnError)
	cf := registerCommon(fs)
	depth := fs.Int("depth", 0, "directory depth to include (default 3)")
	listOnly := fs.Bool("list", false, "print the snapshot instead of asking the model")
	_ = fs.Parse(args)

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	snap, err := workspace.Snapshot(root, *depth)
	if err != nil {
		return err
	}

	if *listOnly {
		fmt.Println(snap)
		return nil
	}

	g, err := cf.gateway()
	if err != nil {
		return err
	}

	reply, err := g.Text(ctx, prompts.WorkspaceSummary(snap), cf.options())
	if err != nil {
		return err
	}

	fmt.Println(renderMarkdown(reply, cf.plain))
	return nil
}
