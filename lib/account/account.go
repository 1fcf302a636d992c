// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"bufio"
	"fmt"
	"os"
	"os/user"
	"strings"
)

// passwdPath is the account database consulted for login shells.
const passwdPath = "/etc/passwd"

// Account is a resolved user account. UID and GID are strings
// because that is what the platform account databases store; on
// Linux they hold decimal numbers.
type Account struct {
	Username string `json:"username"`
	UID      string `json:"uid"`
	GID      string `json:"gid"`
	// Name is the display name from the GECOS field, often empty.
	Name    string `json:"name,omitempty"`
	HomeDir string `json:"home_dir"`
	// Shell is the login shell, or "" when no passwd record exists
	// for the account.
	Shell string `json:"shell,omitempty"`
}

// String renders the account for terminal output.
func (a Account) String() string {
	if a.Shell != "" {
		return fmt.Sprintf("%s (uid %s, %s)", a.Username, a.UID, a.Shell)
	}
	return fmt.Sprintf("%s (uid %s)", a.Username, a.UID)
}

// Current returns the account of the calling process. The shell is
// taken from the passwd record, falling back to $SHELL so login
// environments resolved through NSS still report one.
func Current() (Account, error) {
	u, err := user.Current()
	if err != nil {
		return Account{}, fmt.Errorf("account: current user: %w", err)
	}
	a := fromUser(u)
	if a.Shell == "" {
		a.Shell = os.Getenv("SHELL")
	}
	return a, nil
}

// Lookup resolves an account by username.
func Lookup(username string) (Account, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return Account{}, fmt.Errorf("account: lookup %q: %w", username, err)
	}
	return fromUser(u), nil
}

// LookupID resolves an account by user ID.
func LookupID(uid string) (Account, error) {
	u, err := user.LookupId(uid)
	if err != nil {
		return Account{}, fmt.Errorf("account: lookup uid %q: %w", uid, err)
	}
	return fromUser(u), nil
}

func fromUser(u *user.User) Account {
	return Account{
		Username: u.Username,
		UID:      u.Uid,
		GID:      u.Gid,
		Name:     u.Name,
		HomeDir:  u.HomeDir,
		Shell:    shellFromPasswd(passwdPath, u.Username),
	}
}

// shellFromPasswd scans a passwd-format file for the named user and
// returns the shell field of their record. Malformed lines are
// skipped and a missing file or record yields "", never an error:
// the shell is enrichment, not a requirement.
func shellFromPasswd(path, username string) string {
	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// name:password:uid:gid:gecos:home:shell
		parts := strings.Split(line, ":")
		if len(parts) != 7 {
			continue
		}
		if parts[0] == username {
			return strings.TrimSpace(parts[6])
		}
	}
	return ""
}
