package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_TimestampPrefixAndContents(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	name, err := s.Save(strings.NewReader("image-bytes"), "photo.jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "-photo.jpg"), "got %q", name)

	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestSave_SanitizesHostileNames(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	name, err := s.Save(strings.NewReader("x"), "../../etc/pass wd.png")
	require.NoError(t, err)
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "..")
	assert.True(t, strings.HasSuffix(name, "pass_wd.png"), "got %q", name)

	name, err = s.Save(strings.NewReader("x"), "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "-upload"), "got %q", name)
}

func TestPublicURL(t *testing.T) {
	s := &Storage{Dir: "public"}
	assert.Equal(t, "https://reg.example.com/public/1-a.png",
		s.PublicURL("https", "reg.example.com", "1-a.png"))
}
