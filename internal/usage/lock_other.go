// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !unix

package usage

import "os"

// Appends are not locked on platforms without flock.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) {}
