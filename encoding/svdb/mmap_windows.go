package svdb

import (
	"io/ioutil"
	"os"
)

// mmapFile reads f into memory; windows builds do not map files.
func mmapFile(f *os.File, size int) ([]byte, func() error, error) {
	data, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
