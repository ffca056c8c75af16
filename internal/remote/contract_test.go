package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/streamiz/internal/catalog"
)

// testRemoteContract exercises behavior every driver must share. r must be empty.
func testRemoteContract(t *testing.T, r catalog.Remote) {
	t.Helper()
	ctx := context.Background()

	snap, err := r.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())

	matrix := catalog.Movie{TMDBID: "603", Sources: []catalog.Source{{Quality: "1080p", URL: "https://cdn.example/603"}}}
	inception := catalog.Movie{TMDBID: "27205", Sources: []catalog.Source{{Quality: "4K", URL: "https://cdn.example/27205"}}}
	got := catalog.Show{TMDBID: "1399", Seasons: []catalog.Season{{Number: 1, Episodes: []catalog.Episode{
		{Number: 1, Sources: []catalog.Source{{Quality: "720p", URL: "https://cdn.example/1399/1/1"}}},
	}}}}

	require.NoError(t, r.PutMovie(ctx, matrix))
	require.NoError(t, r.PutMovie(ctx, inception))
	require.NoError(t, r.PutShow(ctx, got))

	snap, err = r.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Movies, 2)
	assert.Equal(t, matrix, snap.Movies[0], "insertion order kept")
	assert.Equal(t, inception, snap.Movies[1])
	require.Len(t, snap.Shows, 1)
	assert.Equal(t, got, snap.Shows[0])

	// Upsert replaces in place.
	matrix.Sources = []catalog.Source{{Quality: "4K", URL: "https://cdn.example/603-4k"}}
	require.NoError(t, r.PutMovie(ctx, matrix))
	snap, err = r.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Movies, 2)
	assert.Equal(t, "https://cdn.example/603-4k", snap.Movies[0].Sources[0].URL)

	require.NoError(t, r.DeleteMovie(ctx, "603"))
	require.NoError(t, r.DeleteMovie(ctx, "603"), "absent id is not an error")
	require.NoError(t, r.DeleteShow(ctx, "1399"))

	snap, err = r.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Movies, 1)
	assert.Equal(t, "27205", snap.Movies[0].ID())
	assert.Empty(t, snap.Shows)
}
