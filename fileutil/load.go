package fileutil

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	// FileSource specifies to load config from a file
	FileSource = "file://"
	// EnvSource specifies to load config from an environment variable
	EnvSource = "env://"
)

// Source is a loaded configuration
type Source struct {
	// Location is the original location of the source
	Location string
	// Dir is the folder of the source file,
	// or the current folder for env:// and inline sources
	Dir string
	// Content of the source
	Content []byte
}

// LoadConfigWithSchema returns a configuration loaded from file:// or env://
// If config does not start with file:// or env://, then the value is returned as is
func LoadConfigWithSchema(config string) (string, error) {
	if strings.HasPrefix(config, FileSource) {
		f, err := ioutil.ReadFile(strings.TrimPrefix(config, FileSource))
		if err != nil {
			return config, errors.WithStack(err)
		}
		return string(f), nil
	}
	if strings.HasPrefix(config, EnvSource) {
		env := strings.TrimPrefix(config, EnvSource)
		value := os.Getenv(env)
		if value == "" {
			return "", errors.Errorf("environment variable %q is not set", env)
		}
		return value, nil
	}
	return config, nil
}

// LoadSource loads the content of the location,
// which can be file://, env:// or a plain file path
func LoadSource(location string) (*Source, error) {
	if location == "" {
		return nil, errors.New("location is not specified")
	}

	src := &Source{Location: location}
	switch {
	case strings.HasPrefix(location, EnvSource):
		content, err := LoadConfigWithSchema(location)
		if err != nil {
			return nil, err
		}
		src.Content = []byte(content)
		src.Dir, _ = os.Getwd()
	default:
		fn := strings.TrimPrefix(location, FileSource)
		if err := FileExists(fn); err != nil {
			return nil, err
		}
		content, err := ioutil.ReadFile(fn)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		abs, err := filepath.Abs(fn)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		src.Content = content
		src.Dir = filepath.Dir(abs)
	}
	return src, nil
}

// ResolveDirectory returns absolute dir name relative to baseDir.
// The folder is created if it does not exist and create is true.
func ResolveDirectory(dir string, baseDir string, create bool) (string, error) {
	if dir == "" {
		return dir, nil
	}
	resolved := dir
	if !filepath.IsAbs(dir) {
		resolved = filepath.Join(baseDir, dir)
	}
	if _, err := os.Stat(resolved); os.IsNotExist(err) {
		if !create {
			return resolved, errors.WithMessagef(err, "not found: %v", resolved)
		}
		if err = os.MkdirAll(resolved, 0755); err != nil {
			return "", errors.WithMessagef(err, "create dir: %q", resolved)
		}
	}
	return resolved, nil
}
