package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// terminalPrompter reads interactive input from stdin.
type terminalPrompter struct {
	in *bufio.Reader
}

func newTerminalPrompter() *terminalPrompter {
	return &terminalPrompter{in: bufio.NewReader(os.Stdin)}
}

func (p *terminalPrompter) Prompt(label, initial string) (string, bool) {
	if initial != "" {
		fmt.Printf("%s [%s]: ", label, initial)
	} else {
		fmt.Printf("%s: ", label)
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		return "", false
	}

	value := strings.TrimSpace(line)
	if value == "" {
		return "", false
	}
	return value, true
}

func (p *terminalPrompter) Confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)

	line, err := p.in.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// flagPrompter answers prompts from command-line flags, so scripted
// invocations skip the interactive round-trip.
type flagPrompter struct {
	title   string
	confirm bool
}

func (p *flagPrompter) Prompt(label, initial string) (string, bool) {
	if p.title == "" {
		return "", false
	}
	return p.title, true
}

func (p *flagPrompter) Confirm(question string) bool { return p.confirm }
