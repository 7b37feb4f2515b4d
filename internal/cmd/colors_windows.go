//go:build windows

package cmd

import "os"

// fileColumns is not implemented on Windows; callers use $COLUMNS.
func fileColumns(*os.File) int {
	return 0
}
