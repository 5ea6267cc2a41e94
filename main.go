package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/wasya-io/les-environs/app/boundary/filemanager"
	"github.com/wasya-io/les-environs/app/boundary/history"
	"github.com/wasya-io/les-environs/app/boundary/lsp"
	"github.com/wasya-io/les-environs/app/boundary/writer"
	"github.com/wasya-io/les-environs/app/config"
	"github.com/wasya-io/les-environs/app/entity/session"
	"github.com/wasya-io/les-environs/app/entity/workspace"
	"github.com/wasya-io/les-environs/app/usecase/build"
	"github.com/wasya-io/les-environs/app/usecase/controller"
	"github.com/wasya-io/les-environs/app/usecase/keymap"
)

const version = "0.1.0"

const usage = `Usage: les-environs <command> [flags]

Commands:
  lsp                         run the language server on stdio
  run -file F -line L [-col C] [-sel aL:aC-hL:hC] [-key CHORD | -action ACTION]
                              evaluate the block at the cursor
  resolve -file F -line L [-col C] [-sel aL:aC-hL:hC]
                              print the block at the cursor
  control INPUT               run an app-control command (ls, cc, load NAME)
  build SKETCH                build index.html for a sketch
  history [-n N]              print recent evaluations
`

func main() {
	// グローバルなパニックハンドラを設定
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "les-environs crashed: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s", debug.Stack())
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	conf := config.LoadConfig()
	args := os.Args[2:]

	var err error
	switch os.Args[1] {
	case "lsp":
		err = runLSP(conf)
	case "run":
		err = runEvaluate(conf, args, os.Stdout)
	case "resolve":
		err = runResolve(conf, args, os.Stdout)
	case "control":
		err = runControl(conf, args, os.Stdout)
	case "build":
		err = runBuild(conf, args, os.Stdout)
	case "history":
		err = runHistory(conf, args, os.Stdout)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		die(err)
	}
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runLSP(conf *config.Config) error {
	configureLSPLog(conf)

	// 標準出力はプロトコルが使うのでコンソールは書き出さない
	ed, _, err := NewEditor(conf, editorOptions{
		console: writer.DiscardConsoleWriter{},
		history: true,
		signals: true,
	})
	if err != nil {
		return err
	}

	server := lsp.NewServer(ed.Controller(), ed.Bus(), ed.Logger(), version)
	return ed.Serve(server)
}

// locationFlags は run と resolve で共通のフラグを登録する
func locationFlags(fs *flag.FlagSet) (*string, *location) {
	loc := &location{}
	file := fs.String("file", "", "source file (.scd or .js)")
	fs.IntVar(&loc.line, "line", 0, "cursor line (0-based)")
	fs.IntVar(&loc.col, "col", 0, "cursor column in characters (0-based)")
	fs.StringVar(&loc.sel, "sel", "", "selection as anchorLine:anchorCol-headLine:headCol")
	return file, loc
}

func runEvaluate(conf *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	file, loc := locationFlags(fs)
	chord := fs.String("key", "", "key chord to dispatch, e.g. Cmd-Enter")
	actionName := fs.String("action", string(keymap.ActionRunBlock), "action to run when -key is not given")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := loc.parse(); err != nil {
		return err
	}

	ed, _, err := NewEditor(conf, editorOptions{
		console: writer.NewConsoleWriter(out),
		history: true,
		signals: true,
	})
	if err != nil {
		return err
	}
	defer ed.Cleanup()

	c := ed.Controller()
	s, err := openSession(filemanager.NewFileManager(ed.Logger()), c.Workspace(), *file)
	if err != nil {
		return err
	}
	loc.apply(s)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if *chord != "" {
		err = c.HandleKey(ctx, *chord, s)
	} else {
		var action keymap.Action
		action, err = keymap.ParseAction(*actionName)
		if err == nil {
			err = c.HandleAction(ctx, action, s)
		}
	}
	if err != nil {
		return err
	}

	ed.WaitOutput(ctx)
	return nil
}

func runResolve(conf *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	file, loc := locationFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := loc.parse(); err != nil {
		return err
	}

	ed, _, err := NewEditor(conf, editorOptions{})
	if err != nil {
		return err
	}
	defer ed.Cleanup()

	c := ed.Controller()
	s, err := openSession(filemanager.NewFileManager(ed.Logger()), c.Workspace(), *file)
	if err != nil {
		return err
	}
	loc.apply(s)

	_, err = fmt.Fprintln(out, c.Resolve(s))
	return err
}

func runControl(conf *config.Config, args []string, out io.Writer) error {
	ed, _, err := NewEditor(conf, editorOptions{console: writer.NewConsoleWriter(out)})
	if err != nil {
		return err
	}
	defer ed.Cleanup()

	message, err := ed.Controller().HandleControl(strings.Join(args, " "))
	if errors.Is(err, controller.ErrInvalidControl) {
		message = controller.InvalidControlMessage
	} else if err != nil {
		return err
	}
	if message != "" {
		_, err = fmt.Fprintln(out, message)
	}
	return err
}

func runBuild(conf *config.Config, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("build takes exactly one sketch name")
	}

	log := newLogger(conf)
	defer log.Flush()

	if err := build.NewBuilder(conf.ProjectDir, log).Build(args[0]); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "Built %s.\n", args[0])
	return err
}

func runHistory(conf *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	n := fs.Int("n", 20, "number of evaluations to print")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := history.Open(conf.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	evaluations, err := store.Recent(context.Background(), *n)
	if err != nil {
		return err
	}
	for _, e := range evaluations {
		fmt.Fprintf(out, "%s  %s (%s)\n", e.EvaluatedAt.Format(time.RFC3339), e.File, e.Kind)
		for _, line := range strings.Split(strings.TrimRight(e.Code, "\n"), "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
	return nil
}

// openSession はファイルを開いてワークスペースのセッションとして登録する
// 同名のセッションがあればファイルの内容で置き換える
func openSession(fm filemanager.FileManager, ws *workspace.Workspace, file string) (*session.Session, error) {
	if file == "" {
		return nil, filemanager.ErrNoFilename
	}

	s, err := fm.OpenFile(file)
	if err != nil {
		return nil, err
	}

	ws.Remove(s.Name)
	if err := ws.Add(s); err != nil {
		return nil, err
	}
	if _, err := ws.Activate(s.Name); err != nil {
		return nil, err
	}
	return s, nil
}
