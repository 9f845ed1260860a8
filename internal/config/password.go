package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PasswordEnvVar holds the appliance password for non-interactive use
const PasswordEnvVar = "VZUG_PASSWORD"

// PasswordSource reads a password without echo.
type PasswordSource interface {
	IsTerminal() bool
	ReadPassword(prompt string) (string, error)
}

type terminalSource struct {
	in  *os.File
	out io.Writer
}

// StdinPasswordSource prompts on stderr and reads from stdin.
func StdinPasswordSource() PasswordSource {
	return terminalSource{in: os.Stdin, out: os.Stderr}
}

func (s terminalSource) IsTerminal() bool {
	return term.IsTerminal(int(s.in.Fd()))
}

func (s terminalSource) ReadPassword(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	pw, err := term.ReadPassword(int(s.in.Fd()))
	fmt.Fprintln(s.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

// ResolvePassword returns the password for username: the flag value if set,
// then VZUG_PASSWORD, then a prompt when src is a terminal. Without a
// username no password is needed.
func ResolvePassword(username, flagValue string, src PasswordSource) (string, error) {
	if username == "" {
		return "", nil
	}
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(PasswordEnvVar); env != "" {
		return env, nil
	}
	if src == nil || !src.IsTerminal() {
		return "", fmt.Errorf("password for %q required: use --password or %s", username, PasswordEnvVar)
	}
	pw, err := src.ReadPassword(fmt.Sprintf("Password for %s: ", username))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(pw, "\r\n"), nil
}
