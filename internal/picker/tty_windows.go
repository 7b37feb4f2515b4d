//go:build windows

package picker

import (
	"errors"
	"os"
)

func checkTTY(*os.File) error {
	return errors.New("the built-in picker needs a Unix terminal")
}
