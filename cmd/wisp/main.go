// Command wisp is an interactive REPL for the wisp interpreter.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/rphilander/wisp"
)

const prompt = "λ> "

// evalLine reads every form in line and evaluates them in order against
// env, returning the canonical printed form of the last result.
func evalLine(line string, env *wisp.Env) (string, error) {
	forms, err := wisp.ReadAll(line)
	if err != nil {
		return "", fmt.Errorf("Parse Error: %w", err)
	}

	var result wisp.Value
	for _, form := range forms {
		result, err = wisp.Eval(form, env)
		if err != nil {
			return "", fmt.Errorf("Error: %w", err)
		}
	}
	return wisp.Format(result), nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".wisp_history")
}

func main() {
	fmt.Println("wisp")
	fmt.Println("Press Ctrl+C or Ctrl+D to exit")

	env := wisp.NewGlobalEnv()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println("Exiting (Ctrl+D)")
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println("Interrupted (Ctrl+C)")
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Readline Error: %v\n", err)
			break
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		out, err := evalLine(line, env)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(out)
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}
}
