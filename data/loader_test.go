package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileEmbedding(t *testing.T) {
	files, err := dataFilesRoot.ReadDir(dataBasePath + "/" + LoginDataPath)
	require.NoError(t, err)
	assert.NotEqual(t, 0, len(files))
}

func TestLoadDataFileExpandsParameters(t *testing.T) {
	sources, err := LoadDataFile(LoginDataPath + "/valid.yaml")
	require.NoError(t, err)
	require.Len(t, sources, 2)
	for _, s := range sources {
		assert.Equal(t, LoginDataPath+"/valid.yaml", s.FilePath)
		assert.Equal(t, "valid.yaml", s.BaseName)
	}
	assert.Equal(t, "(DISPLAY_NAME=Alice,PASSWORD=pw,USERNAME=alice)", sources[0].ParamsString())
}

func TestLoadAllDataFilesInNameOrder(t *testing.T) {
	sources, err := LoadAllDataFiles(LoginDataPath)
	require.NoError(t, err)
	var names []string
	for _, s := range sources {
		if len(names) == 0 || names[len(names)-1] != s.BaseName {
			names = append(names, s.BaseName)
		}
	}
	assert.Equal(t, []string{"invalid.yaml", "languages.yaml", "valid.yaml"}, names)
}

func TestLoadDataFileMissing(t *testing.T) {
	_, err := LoadDataFile(LoginDataPath + "/nonexistent.yaml")
	assert.Error(t, err)
}

func TestLoadAllDataFilesMissingDirectory(t *testing.T) {
	_, err := LoadAllDataFiles("nonexistent")
	assert.Error(t, err)
}
