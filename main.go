package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"github.com/Jogll1/J-JMPL/runtime"
)

func main() {
	args := os.Args[1:]
	switch len(args) {
	case 0:
		runREPL()
	case 1:
		os.Exit(runtime.RunFile(args[0]))
	default:
		fmt.Fprintln(os.Stderr, "Usage: jmpl [script]")
		os.Exit(64)
	}
}

func runREPL() {
	if !isInteractive() {
		runBufferedREPL(bufio.NewReader(os.Stdin))
		return
	}
	runInteractiveREPL()
}

// runBufferedREPL is the non-TTY fallback (piped input, CI): each line is
// read and run independently, one statement run per newline, exactly as
// spec.md describes — no incomplete-input buffering, so a statement split
// across several lines is parsed one line at a time.
func runBufferedREPL(reader *bufio.Reader) {
	session := runtime.NewSession("")
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			session.Run(line, os.Stderr)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			return
		}
	}
}

func runInteractiveREPL() {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	session := runtime.NewSession("")
	for {
		line, err := state.Prompt("> ")
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				return
			default:
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return
			}
		}
		state.AppendHistory(line)
		session.Run(line, os.Stderr)
	}
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".jmpl_history")
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
