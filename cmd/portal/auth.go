package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
)

type loginOptions struct {
	Username string
	Password string
}

func parseLoginFlags(args []string) (loginOptions, error) {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts loginOptions
	fs.StringVar(&opts.Username, "username", "", "Account username (prompted when omitted)")
	fs.StringVar(&opts.Password, "password", "", "Account password (prompted when omitted)")

	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}
	return opts, nil
}

func runLogin(cmdCtx *commandContext, args []string) error {
	opts, err := parseLoginFlags(args)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	if opts.Username == "" {
		opts.Username, err = promptLine(reader, "Username: ")
		if err != nil {
			return err
		}
	}
	if opts.Password == "" {
		opts.Password, err = promptLine(reader, "Password: ")
		if err != nil {
			return err
		}
	}

	user, err := cmdCtx.Portal.Session.Login(cmdCtx.Ctx, opts.Username, opts.Password)
	if err != nil {
		return err
	}

	fmt.Printf("Signed in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func runLogout(cmdCtx *commandContext, _ []string) error {
	cmdCtx.Portal.Session.Logout(cmdCtx.Ctx)
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmdCtx *commandContext, _ []string) error {
	if err := restoreSession(cmdCtx); err != nil {
		return err
	}

	user, _ := cmdCtx.Portal.Session.Current()
	fmt.Printf("Username:  %s\n", user.Username)
	fmt.Printf("Full name: %s\n", user.FullName)
	fmt.Printf("Role:      %s\n", user.Role)
	if user.Department != nil {
		fmt.Printf("Department: %s\n", *user.Department)
	}
	if user.ClearanceDepartment != nil {
		fmt.Printf("Clearance desk: %s\n", *user.ClearanceDepartment)
	}
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// confirmPrompt asks a yes/no question on stdin.
func confirmPrompt(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
