package mirror

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/streamiz/internal/catalog"
)

func sampleSnapshot() catalog.Snapshot {
	return catalog.Snapshot{
		Movies: []catalog.Movie{
			{TMDBID: "603", Sources: []catalog.Source{{Quality: "1080p", URL: "https://cdn.example/matrix.m3u8"}}},
			{TMDBID: "27205", Sources: []catalog.Source{{Quality: "4K", URL: "https://cdn.example/inception.m3u8"}}},
		},
		Shows: []catalog.Show{
			{TMDBID: "1399", Seasons: []catalog.Season{
				{Number: 1, Episodes: []catalog.Episode{
					{Number: 1, Sources: []catalog.Source{{Quality: "720p", URL: "https://cdn.example/got/s1e1"}}},
					{Number: 2, Sources: []catalog.Source{{Quality: "720p", URL: "https://cdn.example/got/s1e2"}}},
				}},
			}},
		},
	}
}

// mirrors returns one fresh instance of every implementation.
func mirrors(t *testing.T) map[string]catalog.Mirror {
	t.Helper()
	sq, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })

	return map[string]catalog.Mirror{
		"memory": NewMemory(),
		"file":   NewFile(afero.NewMemMapFs(), "/data/mirror.json"),
		"sqlite": sq,
	}
}

func TestMirror_LoadNeverSaved(t *testing.T) {
	for name, m := range mirrors(t) {
		t.Run(name, func(t *testing.T) {
			snap, saved, err := m.Load(context.Background())
			require.NoError(t, err)
			assert.False(t, saved)
			assert.Equal(t, 0, snap.Len())
		})
	}
}

func TestMirror_SaveLoadRoundTrip(t *testing.T) {
	for name, m := range mirrors(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleSnapshot()
			require.NoError(t, m.Save(ctx, want))

			got, saved, err := m.Load(ctx)
			require.NoError(t, err)
			assert.True(t, saved)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMirror_SaveReplaces(t *testing.T) {
	for name, m := range mirrors(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, m.Save(ctx, sampleSnapshot()))

			smaller := catalog.Snapshot{Movies: sampleSnapshot().Movies[1:]}
			require.NoError(t, m.Save(ctx, smaller))

			got, _, err := m.Load(ctx)
			require.NoError(t, err)
			require.Len(t, got.Movies, 1)
			assert.Equal(t, "27205", got.Movies[0].ID())
			assert.Empty(t, got.Shows)
		})
	}
}

func TestMirror_SaveEmptyMarksSaved(t *testing.T) {
	for name, m := range mirrors(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, m.Save(ctx, catalog.Snapshot{}))

			snap, saved, err := m.Load(ctx)
			require.NoError(t, err)
			assert.True(t, saved)
			assert.Equal(t, 0, snap.Len())
		})
	}
}

func TestFile_CorruptDocument(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/data/mirror.json", []byte("{not json"), 0o644))

	_, _, err := NewFile(fsys, "/data/mirror.json").Load(context.Background())
	assert.Error(t, err)
}

func TestFile_ReadsLegacyURL(t *testing.T) {
	fsys := afero.NewMemMapFs()
	doc := `{"movies":[{"tmdbId":603,"url":"https://cdn.example/m.mp4"}],"tv":[]}`
	require.NoError(t, afero.WriteFile(fsys, "/m.json", []byte(doc), 0o644))

	snap, saved, err := NewFile(fsys, "/m.json").Load(context.Background())
	require.NoError(t, err)
	assert.True(t, saved)
	require.Len(t, snap.Movies, 1)
	assert.Equal(t, "603", snap.Movies[0].ID())
	assert.Equal(t, []catalog.Source{{Quality: "Default", URL: "https://cdn.example/m.mp4"}}, snap.Movies[0].Sources)
}

func TestFile_NoTempFileLeft(t *testing.T) {
	fsys := afero.NewMemMapFs()
	f := NewFile(fsys, "/data/mirror.json")
	require.NoError(t, f.Save(context.Background(), sampleSnapshot()))

	exists, err := afero.Exists(fsys, "/data/mirror.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemory_Isolation(t *testing.T) {
	m := NewMemory()
	snap := sampleSnapshot()
	require.NoError(t, m.Save(context.Background(), snap))

	snap.Movies[0].Sources[0].URL = "changed"
	got, _, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/matrix.m3u8", got.Movies[0].Sources[0].URL)
	assert.Equal(t, 1, m.Saves())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	m, err := Open(ctx, DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, m)

	m, err = Open(ctx, DriverFile, t.TempDir()+"/mirror.json")
	require.NoError(t, err)
	assert.IsType(t, &File{}, m)

	m, err = Open(ctx, DriverSQLite, t.TempDir()+"/mirror.db")
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, m)
	require.NoError(t, m.Close())

	_, err = Open(ctx, "redis", "")
	assert.ErrorContains(t, err, "unknown mirror driver")
}
