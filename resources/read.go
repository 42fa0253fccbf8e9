package resources

import (
	"fmt"
	"io"
	"os"
)

// Read returns the content of the named resource as a string. A resource that
// does not exist is not an error and results in an empty string.
func Read(filename string) (string, error) {
	b, err := ReadBytes(filename)
	return string(b), err
}

// ReadBytes is the same as Read() but returns the raw content
func ReadBytes(filename string) ([]byte, error) {
	pth, err := JoinPath(filename)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(pth)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// Write replaces the content of the named resource
func Write(filename string, content string) error {
	return WriteBytes(filename, []byte(content))
}

// WriteBytes is the same as Write() but for raw content
func WriteBytes(filename string, content []byte) error {
	pth, err := JoinPath(filename)
	if err != nil {
		return err
	}

	f, err := os.Create(pth)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := f.Write(content)
	if err != nil {
		return err
	}
	if n != len(content) {
		return fmt.Errorf("content not completely written to %s", pth)
	}

	return nil
}
