package fileutil_test

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-phorce/oneshot/algorithms/guid"
	"github.com/go-phorce/oneshot/fileutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadConfigWithSchema(t *testing.T) {
	c, err := fileutil.LoadConfigWithSchema("test_data")
	require.NoError(t, err)
	assert.Equal(t, "test_data", c)

	c, err = fileutil.LoadConfigWithSchema("file://./load.go")
	require.NoError(t, err)
	assert.Contains(t, c, "package fileutil")

	_, err = fileutil.LoadConfigWithSchema("file://./notfound.go")
	require.Error(t, err)

	_, err = fileutil.LoadConfigWithSchema("env://ONESHOT_TEST_NOT_SET")
	require.Error(t, err)
	assert.Equal(t, `environment variable "ONESHOT_TEST_NOT_SET" is not set`, err.Error())

	c, err = fileutil.LoadConfigWithSchema("env://PATH")
	require.NoError(t, err)
	assert.NotEmpty(t, c)
}

func Test_LoadSource(t *testing.T) {
	_, err := fileutil.LoadSource("")
	require.Error(t, err)

	src, err := fileutil.LoadSource("load.go")
	require.NoError(t, err)
	assert.Contains(t, string(src.Content), "package fileutil")
	wd, _ := os.Getwd()
	assert.Equal(t, wd, src.Dir)

	src, err = fileutil.LoadSource("file://load.go")
	require.NoError(t, err)
	assert.Contains(t, string(src.Content), "package fileutil")

	_, err = fileutil.LoadSource("notfound.yaml")
	require.Error(t, err)

	_, err = fileutil.LoadSource(".")
	require.Error(t, err)
	assert.Equal(t, `not a file: "."`, err.Error())

	os.Setenv("ONESHOT_TEST_SOURCE", "tasks: []")
	defer os.Unsetenv("ONESHOT_TEST_SOURCE")
	src, err = fileutil.LoadSource("env://ONESHOT_TEST_SOURCE")
	require.NoError(t, err)
	assert.Equal(t, "tasks: []", string(src.Content))
	assert.Equal(t, wd, src.Dir)
}

func Test_ResolveDirectory(t *testing.T) {
	tmpDir := filepath.Join(os.TempDir(), "fileutil-test", guid.MustCreate())
	defer os.RemoveAll(tmpDir)

	dir, err := fileutil.ResolveDirectory("", tmpDir, true)
	require.NoError(t, err)
	assert.Empty(t, dir)

	_, err = fileutil.ResolveDirectory("logs", tmpDir, false)
	require.Error(t, err)

	dir, err = fileutil.ResolveDirectory("logs", tmpDir, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "logs"), dir)
	assert.NoError(t, fileutil.FolderExists(dir))

	dir, err = fileutil.ResolveDirectory(tmpDir, "/unused", false)
	require.NoError(t, err)
	assert.Equal(t, tmpDir, dir)
}

func Test_FolderExists(t *testing.T) {
	tmpDir := filepath.Join(os.TempDir(), "fileutil-test", guid.MustCreate())
	err := os.MkdirAll(tmpDir, os.ModePerm)
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	assert.Error(t, fileutil.FolderExists(""))
	assert.NoError(t, fileutil.FolderExists(tmpDir))

	err = fileutil.FolderExists(tmpDir + "/a")
	require.Error(t, err)
	assert.Equal(t, fmt.Sprintf("stat %s: no such file or directory", tmpDir+"/a"), err.Error())

	err = fileutil.FolderExists("./folders.go")
	require.Error(t, err)
	assert.Equal(t, `not a folder: "./folders.go"`, err.Error())
}

func Test_FileExists(t *testing.T) {
	tmpDir := filepath.Join(os.TempDir(), "fileutil-test", guid.MustCreate())
	err := os.MkdirAll(tmpDir, os.ModePerm)
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	file := filepath.Join(tmpDir, "file.txt")
	err = ioutil.WriteFile(file, []byte("FileExists"), 0644)
	require.NoError(t, err)

	assert.Error(t, fileutil.FileExists(""))
	assert.NoError(t, fileutil.FileExists(file))

	err = fileutil.FileExists(tmpDir)
	require.Error(t, err)
	assert.Equal(t, fmt.Sprintf("not a file: %q", tmpDir), err.Error())

	err = fileutil.FileExists(tmpDir + "/a")
	require.Error(t, err)
	assert.Equal(t, fmt.Sprintf("stat %s: no such file or directory", tmpDir+"/a"), err.Error())
}
