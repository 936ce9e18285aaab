package bshell

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Completer completes command names from the builtins and PATH, and
// arguments from the file system. It satisfies readline.AutoCompleter.
type Completer struct {
	commands     []string
	commandsLock sync.RWMutex
	loaded       chan struct{}
}

func NewCompleter(builtins BuiltinTable) *Completer {
	c := &Completer{
		commands: builtins.Names(),
		loaded:   make(chan struct{}),
	}
	go c.loadCommands(filepath.SplitList(os.Getenv("PATH")))
	return c
}

func (c *Completer) loadCommands(pathDirs []string) {
	defer close(c.loaded)

	seen := make(map[string]bool)
	c.commandsLock.RLock()
	for _, name := range c.commands {
		seen[name] = true
	}
	c.commandsLock.RUnlock()

	var found []string
	for _, dir := range pathDirs {
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, file := range files {
			if seen[file.Name()] {
				continue
			}
			info, err := file.Info()
			if err != nil || !info.Mode().IsRegular() || info.Mode().Perm()&0111 == 0 {
				continue
			}
			seen[file.Name()] = true
			found = append(found, file.Name())
		}
	}
	sort.Strings(found)

	c.commandsLock.Lock()
	c.commands = append(c.commands, found...)
	c.commandsLock.Unlock()
}

// Wait blocks until the PATH scan has finished.
func (c *Completer) Wait() {
	<-c.loaded
}

func (c *Completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	lineStr := string(line[:pos])
	start := strings.LastIndex(lineStr, " ") + 1
	word := lineStr[start:]

	if strings.TrimLeft(lineStr[:start], " ") == "" {
		return c.completeCommands(word)
	}
	return c.completeFilenames(word)
}

func (c *Completer) completeCommands(prefix string) (newLine [][]rune, length int) {
	c.commandsLock.RLock()
	defer c.commandsLock.RUnlock()

	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			newLine = append(newLine, []rune(cmd[len(prefix):]))
		}
	}

	if len(newLine) == 1 {
		newLine[0] = append(newLine[0], ' ')
	}

	return newLine, len([]rune(prefix))
}

func (c *Completer) completeFilenames(word string) (newLine [][]rune, length int) {
	dir, prefix := ".", word
	if i := strings.LastIndex(word, "/"); i >= 0 {
		dir, prefix = word[:i+1], word[i+1:]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, len([]rune(prefix))
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		completion := name[len(prefix):]
		if entry.IsDir() {
			completion += "/"
		}
		newLine = append(newLine, []rune(completion))
	}

	return newLine, len([]rune(prefix))
}
