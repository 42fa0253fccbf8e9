//go:build !release

package resources

const configDir = ".test9918"

func resourcePath() (string, error) {
	return configDir, nil
}
