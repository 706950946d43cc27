// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential stores the Sideseat API key at rest. The key is
// encrypted with age using a passphrase (scrypt recipient), so a
// leaked config directory does not leak server access. Prompting goes
// through the terminal with echo disabled.
//
// The file format is raw age ciphertext; it can be decrypted with the
// standalone age tool in a pinch.
package credential

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"golang.org/x/term"
)

// Save encrypts apiKey with the passphrase and writes it to path,
// creating parent directories as needed. The file is written 0600 via
// a temp file and rename, so a crash never leaves a partial
// credential behind.
func Save(path, apiKey string, passphrase []byte) error {
	recipient, err := age.NewScryptRecipient(string(passphrase))
	if err != nil {
		return fmt.Errorf("prepare passphrase recipient: %w", err)
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipient)
	if err != nil {
		return fmt.Errorf("encrypt credential: %w", err)
	}
	if _, err := io.WriteString(writer, apiKey); err != nil {
		return fmt.Errorf("encrypt credential: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize credential ciphertext: %w", err)
	}

	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return fmt.Errorf("create credential directory %s: %w", directory, err)
	}

	temp, err := os.CreateTemp(directory, ".credential-*")
	if err != nil {
		return fmt.Errorf("create credential temp file: %w", err)
	}
	tempPath := temp.Name()
	defer os.Remove(tempPath)

	if err := temp.Chmod(0o600); err != nil {
		temp.Close()
		return fmt.Errorf("chmod credential file: %w", err)
	}
	if _, err := temp.Write(ciphertext.Bytes()); err != nil {
		temp.Close()
		return fmt.Errorf("write credential file: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("close credential file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("install credential file %s: %w", path, err)
	}
	return nil
}

// ErrWrongPassphrase indicates the passphrase did not decrypt the
// credential file.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// Load decrypts the credential file at path with the passphrase and
// returns the API key.
func Load(path string, passphrase []byte) (string, error) {
	ciphertext, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read credential file %s: %w", path, err)
	}

	identity, err := age.NewScryptIdentity(string(passphrase))
	if err != nil {
		return "", fmt.Errorf("prepare passphrase identity: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		var incorrect *age.NoIdentityMatchError
		if errors.As(err, &incorrect) {
			return "", ErrWrongPassphrase
		}
		return "", fmt.Errorf("decrypt credential file %s: %w", path, err)
	}

	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decrypt credential file %s: %w", path, err)
	}

	apiKey := strings.TrimSpace(string(plaintext))
	if apiKey == "" {
		return "", fmt.Errorf("credential file %s is empty", path)
	}
	return apiKey, nil
}

// Exists reports whether a credential file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// PromptSecret reads a line from the terminal with echo disabled.
// Used for both the API key (first run) and the passphrase.
func PromptSecret(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal; cannot prompt for %s", prompt)
	}

	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", prompt, err)
	}

	trimmed := bytes.TrimSpace(secret)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%s is empty", prompt)
	}
	return trimmed, nil
}
