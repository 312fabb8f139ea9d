//go:build !unix

package agent

import "os"

// AcquireLock creates path exclusively. It returns ErrLocked when the file
// already exists; release removes it.
func AcquireLock(path string) (release func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrLocked
		}
		return nil, err
	}
	return func() error {
		f.Close()
		return os.Remove(path)
	}, nil
}
