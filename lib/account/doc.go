// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package account looks up user accounts and presents them as one
// plain value type.
//
// [Current], [Lookup], and [LookupID] wrap os/user and enrich the
// result with the login shell, which os/user does not expose: the
// shell comes from the account's /etc/passwd record when one exists,
// and for [Current] falls back to $SHELL. Accounts resolved through
// NSS sources that never touch /etc/passwd simply report an empty
// Shell.
package account
