package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/host"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/internal/console"
)

const (
	historyFile = ".atmdensity_history"
	promptMain  = ">> "
	promptCont  = ".. "
)

const replHelp = `Statements:
  d = get_atm_density(20, 30, 120, '2019-01-25 14:30:00')
  h = 20;                 assign a variable (';' suppresses display)
  d                       display a variable
Commands:
  :help                   show this help
  :who                    list variables
  :functions              list callable functions
  :quit                   exit
`

// lineReader is the part of liner.State the REPL uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func cmdRepl(args []string) int {
	fs, cf := newFlagSet("repl", os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx := context.Background()
	a, err := setup(ctx, cf, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close(ctx)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Println("atmdensity REPL. Type :help for help, :quit or Ctrl+D to exit.")
	newRepl(a.env.Session, os.Stdout, os.Stderr).loop(ctx, ln)
	return 0
}

// repl evaluates statements against a session and keeps a workspace.
type repl struct {
	session *host.Session
	vars    map[string]entities.Argument
	stdout  io.Writer
	stderr  io.Writer
}

func newRepl(session *host.Session, stdout, stderr io.Writer) *repl {
	return &repl{session: session, vars: make(map[string]entities.Argument), stdout: stdout, stderr: stderr}
}

func (r *repl) loop(ctx context.Context, ln lineReader) {
	for {
		src, ok := readStatement(ln)
		if !ok {
			fmt.Fprintln(r.stdout)
			return
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if quit := r.command(trimmed); quit {
				return
			}
			continue
		}
		if err := r.eval(ctx, src); err != nil {
			fmt.Fprintln(r.stderr, err)
		}
	}
}

// readStatement keeps prompting while the statement is incomplete.
func readStatement(ln lineReader) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if _, perr := console.Parse(b.String()); console.IsIncomplete(perr) {
			continue
		}
		return b.String(), true
	}
}

func (r *repl) command(cmd string) (quit bool) {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprint(r.stdout, replHelp)
	case ":who":
		names := make([]string, 0, len(r.vars))
		for name := range r.vars {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(r.stdout, strings.Join(names, "  "))
	case ":functions":
		fmt.Fprintln(r.stdout, strings.Join(r.session.Functions().List(), "\n"))
	default:
		fmt.Fprintf(r.stderr, "unknown command %s. Type :help for help.\n", cmd)
	}
	return false
}

func (r *repl) eval(ctx context.Context, src string) error {
	st, err := console.Parse(src)
	if err != nil || st == nil {
		return err
	}

	if len(st.Targets) == 0 && !st.Call {
		if v, ok := r.vars[st.Name]; ok {
			if !st.Silent {
				fmt.Fprintln(r.stdout, console.Format(st.Name, v))
			}
			return nil
		}
	}

	outputs, err := r.outputs(ctx, st)
	if err != nil {
		return err
	}

	targets := st.Targets
	if len(targets) == 0 && len(outputs) > 0 {
		targets = []string{"ans"}
	}
	for i, name := range targets {
		if i >= len(outputs) {
			break
		}
		r.vars[name] = outputs[i]
		if !st.Silent {
			fmt.Fprintln(r.stdout, console.Format(name, outputs[i]))
		}
	}
	return nil
}

// outputs evaluates the right-hand side of st.
func (r *repl) outputs(ctx context.Context, st *console.Statement) ([]entities.Argument, error) {
	if st.Value != nil {
		v, err := (&console.Statement{Args: []console.Expr{*st.Value}}).Resolve(r.vars)
		if err != nil {
			return nil, err
		}
		return v, nil
	}

	if !st.Call {
		if v, ok := r.vars[st.Name]; ok {
			return []entities.Argument{v}, nil
		}
	}

	args, err := st.Resolve(r.vars)
	if err != nil {
		return nil, err
	}
	return r.session.Call(ctx, st.Name, st.Nargout(), args)
}
