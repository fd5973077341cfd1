package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/tripvault/internal/common"
	"golang.org/x/term"
)

// ErrEmptyPassphrase is returned when the user enters no document passphrase.
var ErrEmptyPassphrase = errors.New("passphrase must not be empty")

// ErrPassphraseMismatch is returned when the confirmation differs.
var ErrPassphraseMismatch = errors.New("passphrases do not match")

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo. A newline is printed after
// the read to keep the UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	return readSecret(w, "Enter password: ")
}

// GetPassphrase reads a document passphrase without echo. Empty input is
// rejected here so nothing further happens with it.
func GetPassphrase(w io.Writer, prompt string) ([]byte, error) {
	pp, err := readSecret(w, prompt)
	if err != nil {
		return nil, err
	}
	if len(pp) == 0 {
		return nil, ErrEmptyPassphrase
	}
	return pp, nil
}

// GetNewPassphrase asks for a passphrase twice. A typo here would make the
// document unreadable, so both entries must match.
func GetNewPassphrase(w io.Writer) ([]byte, error) {
	pp, err := GetPassphrase(w, "Document passphrase: ")
	if err != nil {
		return nil, err
	}
	confirm, err := readSecret(w, "Repeat passphrase: ")
	if err != nil {
		common.WipeByteArray(pp)
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pp, confirm) {
		common.WipeByteArray(pp)
		return nil, ErrPassphraseMismatch
	}
	return pp, nil
}

func readSecret(w io.Writer, prompt string) ([]byte, error) {
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
