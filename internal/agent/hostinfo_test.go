package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOSRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(path, []byte(`NAME="Ubuntu"
VERSION="14.04.5 LTS, Trusty Tahr"
ID=ubuntu
ID_LIKE=debian
VERSION_ID="14.04"
UBUNTU_CODENAME=trusty
`), 0o644))

	id, release, codename := readOSRelease(path)
	assert.Equal(t, "ubuntu", id)
	assert.Equal(t, "14.04", release)
	assert.Equal(t, "trusty", codename)
}

func TestReadOSRelease_Missing(t *testing.T) {
	id, release, codename := readOSRelease(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, id+release+codename)
}

func TestReadHostFacts(t *testing.T) {
	f := ReadHostFacts()
	assert.Positive(t, f.CPUTotal)
	assert.NotEmpty(t, f.CPUType)
}
