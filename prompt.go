package bshell

import (
	"os"
	"strings"
)

// expandPrompt replaces the prompt escapes:
//
//	%u  user name
//	%h  host name
//	%w  working directory
//	%W  working directory with $HOME shortened to ~
//	%$  '#' for root, '$' otherwise
func expandPrompt(prompt string) string {
	if !strings.Contains(prompt, "%") {
		return prompt
	}

	cwd, _ := os.Getwd()
	hostname, _ := os.Hostname()
	sigil := "$"
	if os.Geteuid() == 0 {
		sigil = "#"
	}

	r := strings.NewReplacer(
		"%u", os.Getenv("USER"),
		"%h", hostname,
		"%w", cwd,
		"%W", shortenPath(cwd),
		"%$", sigil,
	)
	return r.Replace(prompt)
}

func shortenPath(path string) string {
	home := os.Getenv("HOME")
	if home != "" && (path == home || strings.HasPrefix(path, home+"/")) {
		return "~" + path[len(home):]
	}
	return path
}
