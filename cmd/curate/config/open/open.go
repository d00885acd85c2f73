//go:build !windows

package open

import "os"

// Private opens path as an empty file only the current user can read and write.
//
// An existing file is truncated, and its mode is narrowed to 0600.
func Private(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	if err := f.Chmod(0600); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
