package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/phuslu/log"

	"bshell"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := bshell.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bshell: %v\n", err)
		return 1
	}

	logs := bshell.SetupLogging(cfg)
	defer logs.Close()

	state, err := bshell.InitShell(bshell.StdinTerminal(), bshell.OSProcessControl())
	if err != nil {
		fmt.Fprintf(os.Stderr, "bshell: %v\n", err)
		if errors.Is(err, bshell.ErrProcessGroupSetup) {
			log.Error().Err(err).Msg("fatal")
		}
		return 1
	}
	defer state.Close()

	shell := bshell.NewShell(cfg, state)
	defer shell.Close()

	shell.Run()
	return 0
}
