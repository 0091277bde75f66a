package cluster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"MediaMiner/internal/export"
	"MediaMiner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMovies() []models.Movie {
	return []models.Movie{
		{Title: "A1", Director: "Dee", Cast: []string{"Ann", "Bob", "Dee"}},
		{Title: "A2", Director: "Dee", Cast: []string{"Ann", "Bob"}},
		{Title: "A3", Director: "Eve", Cast: []string{"Ann", "Bob"}},
		{Title: "A4", Director: "Eve", Cast: []string{"Bob"}},
		{Title: "B1", Director: "Fay", Cast: []string{"Cal", "Guy"}},
		{Title: "B2", Director: "Fay", Cast: []string{"Cal", "Guy"}},
		{Title: "B3", Director: "Hal", Cast: []string{"Cal", "Guy"}},
		{Title: "B4", Director: "Hal", Cast: []string{"Guy"}},
		{Title: "C1", Director: "Ivy", Cast: []string{"Jon"}},
	}
}

func TestBuild(t *testing.T) {
	g := Build(testMovies(), 2)

	_, ok := g.Lookup("Ivy")
	assert.False(t, ok, "directors below the film threshold are left out")
	_, ok = g.Lookup("Jon")
	assert.False(t, ok)

	dee, ok := g.Lookup("Dee")
	require.True(t, ok)
	assert.Equal(t, Director, dee.Kind)
	assert.Equal(t, 2, g.Degree(dee), "no self edge")

	ann, _ := g.Lookup("Ann")
	assert.Equal(t, Actor, ann.Kind)
	assert.Equal(t, 2.0, g.WeightedEdge(dee.ID(), ann.ID()).Weight(), "two films together")
	assert.Equal(t, 8, g.Nodes().Len())

	top := g.TopDirectors(1)
	require.Len(t, top, 1)
	assert.Equal(t, "Dee", top[0].Name)
}

func TestDetect(t *testing.T) {
	g := Build(testMovies(), 2)
	n, q := g.Detect(1, 42)
	assert.Equal(t, 2, n)
	assert.Greater(t, q, 0.0)

	cluster := func(name string) int {
		node, ok := g.Lookup(name)
		require.True(t, ok, name)
		return node.Cluster
	}
	assert.Equal(t, 0, cluster("Ann"), "numbered by first member")
	assert.Equal(t, cluster("Ann"), cluster("Dee"))
	assert.Equal(t, cluster("Ann"), cluster("Eve"))
	assert.Equal(t, 1, cluster("Cal"))
	assert.Equal(t, cluster("Cal"), cluster("Hal"))

	members := g.Members()
	assert.Equal(t, "Dee", members[0].Name, "directors first within a cluster")
}

func TestDetectEmpty(t *testing.T) {
	n, q := Build(nil, 1).Detect(1, 1)
	assert.Zero(t, n)
	assert.Zero(t, q)
}

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	g := Build(testMovies(), 2)
	g.Detect(1, 42)

	dotPath := filepath.Join(dir, "graph.dot")
	require.NoError(t, g.WriteDOT(dotPath))
	data, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	dot := string(data)
	assert.True(t, strings.HasPrefix(dot, "strict graph collaborations {"))
	assert.Contains(t, dot, "cluster=1")
	assert.Contains(t, dot, "kind=director")

	csvPath := filepath.Join(dir, "clusters.csv")
	require.NoError(t, g.WriteCSV(csvPath))
	rows, err := export.ReadRows(csvPath)
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, map[string]string{"name": "Dee", "kind": "director", "cluster": "0", "degree": "2"}, rows[0])
}
