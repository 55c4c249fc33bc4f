package adapter_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/testforge/internal/adapter"
	adaptermocks "github.com/mouse-blink/testforge/internal/adapter/mocks"
	m "github.com/mouse-blink/testforge/internal/model"
)

func touch(t *testing.T, path string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o600))
}

func TestFileLocator_Locate(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "B.sln"))
	touch(t, filepath.Join(root, "A.sln"))
	touch(t, filepath.Join(root, "src", "Shop", "Shop.csproj"))
	touch(t, filepath.Join(root, "src", "Shop", "Services", "OrderService.cs"))
	touch(t, filepath.Join(root, "tools", "Tools.sln"))
	touch(t, filepath.Join(root, "tools", "gen", "Gen.cs"))

	fs := adapter.NewLocalSourceFSAdapter()
	descriptors := adapter.NewDescriptorLocator(fs, adapter.FirstMatch)
	projects := adapter.NewFileLocator(fs, adapter.ProjectPattern, nil)

	tests := []struct {
		name    string
		locator adapter.Locator
		start   string
		want    string
	}{
		{"first descriptor in ancestor", descriptors, "src/Shop/Services/OrderService.cs", "A.sln"},
		{"nearest descriptor wins", descriptors, "tools/gen/Gen.cs", "tools/Tools.sln"},
		{"directory start", descriptors, "src", "A.sln"},
		{"file that does not exist yet", descriptors, "src/Shop/Services/New.cs", "A.sln"},
		{"owning project", projects, "src/Shop/Services/OrderService.cs", "src/Shop/Shop.csproj"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.locator.Locate(m.Path(filepath.Join(root, tt.start)))
			require.NoError(t, err)
			assert.Equal(t, m.Path(filepath.Join(root, tt.want)), got)
		})
	}
}

func TestFileLocator_ChooserGetsAllCandidates(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "A.sln"))
	touch(t, filepath.Join(root, "B.sln"))

	var seen []m.Path

	locator := adapter.NewDescriptorLocator(adapter.NewLocalSourceFSAdapter(), func(candidates []m.Path) (m.Path, error) {
		seen = candidates
		return candidates[len(candidates)-1], nil
	})

	got, err := locator.Locate(m.Path(root))
	require.NoError(t, err)
	assert.Equal(t, m.Path(filepath.Join(root, "B.sln")), got)
	assert.Len(t, seen, 2)
}

func TestFileLocator_NotFound(t *testing.T) {
	fs := adaptermocks.NewMockSourceFSAdapter(t)
	fs.EXPECT().FileInfo(mock.Anything).Return(nil, os.ErrNotExist).Once()
	fs.EXPECT().Glob(mock.Anything, adapter.DescriptorPattern).Return(nil, nil)

	_, err := adapter.NewDescriptorLocator(fs, nil).Locate("/repo/src/A.cs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, adapter.ErrDescriptorNotFound))
}

func TestFileLocator_GlobError(t *testing.T) {
	fs := adaptermocks.NewMockSourceFSAdapter(t)
	fs.EXPECT().FileInfo(mock.Anything).Return(nil, os.ErrNotExist).Once()
	fs.EXPECT().Glob(mock.Anything, adapter.DescriptorPattern).Return(nil, errors.New("bad pattern")).Once()

	_, err := adapter.NewDescriptorLocator(fs, nil).Locate("/repo/src/A.cs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad pattern")
}

func TestChooserFor(t *testing.T) {
	for _, policy := range []string{"", "first", "FIRST", "interactive"} {
		choose, err := adapter.ChooserFor(policy)
		require.NoError(t, err, policy)
		assert.NotNil(t, choose)
	}

	_, err := adapter.ChooserFor("random")
	assert.Error(t, err)
}

func TestFirstMatchAndInteractiveSingle(t *testing.T) {
	got, err := adapter.FirstMatch([]m.Path{"a.sln", "b.sln"})
	require.NoError(t, err)
	assert.Equal(t, m.Path("a.sln"), got)

	_, err = adapter.FirstMatch(nil)
	assert.ErrorIs(t, err, adapter.ErrDescriptorNotFound)

	got, err = adapter.Interactive([]m.Path{"only.sln"})
	require.NoError(t, err)
	assert.Equal(t, m.Path("only.sln"), got)
}
