// Package genhash implements the genhash command: it reads a password
// without echo and prints its bcrypt hash, e.g. to seed an admin account.
package genhash

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/airconsole/internal/server/auth"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var errMismatch = errors.New("passwords do not match")

// GetPassword prints prompt to w and reads a password from the terminal
// without echo.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// Run parses args, prompts twice for the password and writes the hash to
// out. Prompts and warnings go to errOut so out stays pipeable.
func Run(args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("genhash", flag.ContinueOnError)
	fs.SetOutput(errOut)
	cost := fs.Int("b", bcrypt.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	hasher, err := auth.NewBcryptHasher(*cost)
	if err != nil {
		return err
	}

	pw, err := GetPassword(errOut, "Enter password: ")
	if err != nil {
		return err
	}
	defer wipe(pw)

	confirm, err := GetPassword(errOut, "Repeat password: ")
	if err != nil {
		return err
	}
	defer wipe(confirm)

	if string(pw) != string(confirm) {
		return errMismatch
	}

	if err := auth.ValidatePassword(string(pw)); err != nil {
		fmt.Fprintf(errOut, "warning: %v\n", err)
	}

	hash, err := hasher.Hash(string(pw))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, hash)
	return err
}

// wipe zeroes b so the password does not linger in memory.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
