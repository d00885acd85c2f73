//go:build windows

package open

import (
	"os"

	winacl "github.com/hectane/go-acl"
)

// Private opens path as an empty file only the current user can read and write.
//
// File modes do not reach ACLs on Windows, so the ACL is set after the file is created.
func Private(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	if err := winacl.Chmod(path, 0600); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
