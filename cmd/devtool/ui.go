package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	colorGreen  = "\033[0;32m"
	colorRed    = "\033[0;31m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
	colorReset  = "\033[0m"
)

func printTagged(color, tag, format string, a ...interface{}) {
	fmt.Printf(color+tag+" "+format+colorReset+"\n", a...)
}

func PrintInfo(format string, a ...interface{}) {
	printTagged(colorBlue, "ℹ", format, a...)
}

func PrintSuccess(format string, a ...interface{}) {
	printTagged(colorGreen, "✓", format, a...)
}

func PrintError(format string, a ...interface{}) {
	printTagged(colorRed, "✗", format, a...)
}

func PrintHeader(title string) {
	fmt.Printf("\n"+colorYellow+"=== %s ==="+colorReset+"\n", title)
}

// rejectShellMeta refuses arguments that could split or chain commands if an
// argument ever reaches a shell. '&' and ';' alone stay allowed since they
// appear in connection strings and SQL the tool passes around.
func rejectShellMeta(inputs ...string) error {
	metaPatterns := []string{"|", "`", "$(", "&&", "||", ">", "<"}

	for _, s := range inputs {
		if strings.ContainsAny(s, "\n\r") {
			return fmt.Errorf("refusing argument with line break: %q", s)
		}
		if strings.Contains(s, "\x00") {
			return fmt.Errorf("refusing argument with null byte")
		}
		for _, p := range metaPatterns {
			if strings.Contains(s, p) {
				return fmt.Errorf("refusing argument with shell metacharacter %q: %q", p, s)
			}
		}
	}
	return nil
}

// getCommandOutput runs a command and returns its trimmed stdout.
func getCommandOutput(name string, args ...string) (string, error) {
	if err := rejectShellMeta(append([]string{name}, args...)...); err != nil {
		return "", err
	}
	// #nosec G204 - arguments are vetted above
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// runCommand runs a command, discarding its output.
func runCommand(name string, args ...string) error {
	if err := rejectShellMeta(append([]string{name}, args...)...); err != nil {
		return err
	}
	// #nosec G204 - arguments are vetted above
	return exec.Command(name, args...).Run()
}

// runCommandVerbose runs a command with output wired to the terminal.
func runCommandVerbose(name string, args ...string) error {
	if err := rejectShellMeta(append([]string{name}, args...)...); err != nil {
		return err
	}
	// #nosec G204 - arguments are vetted above
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
