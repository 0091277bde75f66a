// Package cluster groups prolific directors and their casts into
// communities of a bipartite collaboration graph.
package cluster

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"MediaMiner/internal/export"
	"MediaMiner/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// Node kinds.
const (
	Director = "director"
	Actor    = "actor"
)

// Node is a director or an actor. Cluster is -1 until Detect runs.
type Node struct {
	id      int64
	Name    string
	Kind    string
	Cluster int
}

// ID implements graph.Node.
func (n *Node) ID() int64 { return n.id }

// DOTID implements dot.Node.
func (n *Node) DOTID() string { return n.Name }

// Attributes implements encoding.Attributer.
func (n *Node) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "kind", Value: n.Kind},
		{Key: "cluster", Value: strconv.Itoa(n.Cluster)},
	}
}

// Graph links directors to the actors they cast. Edge weights are the
// number of films made together.
type Graph struct {
	*simple.WeightedUndirectedGraph
	byName map[string]*Node
}

// Build keeps directors with at least minFilms movies and connects them to
// their casts. A director credited in their own cast gets no self edge.
func Build(movies []models.Movie, minFilms int) *Graph {
	films := make(map[string]int)
	for _, m := range movies {
		if m.Director != "" {
			films[m.Director]++
		}
	}

	g := &Graph{
		WeightedUndirectedGraph: simple.NewWeightedUndirectedGraph(0, 0),
		byName:                  make(map[string]*Node),
	}
	type pair struct{ d, a int64 }
	weights := make(map[pair]float64)
	for _, m := range movies {
		if m.Director == "" || films[m.Director] < minFilms {
			continue
		}
		d := g.node(m.Director, Director)
		for _, actor := range m.Cast {
			if actor == m.Director {
				continue
			}
			a := g.node(actor, Actor)
			weights[pair{d.id, a.id}]++
		}
	}
	for p, w := range weights {
		g.SetWeightedEdge(g.NewWeightedEdge(g.Node(p.d), g.Node(p.a), w))
	}
	log.Info().Int("nodes", g.Nodes().Len()).Int("edges", g.Edges().Len()).Msg("collaboration graph built")
	return g
}

func (g *Graph) node(name, kind string) *Node {
	if n, ok := g.byName[name]; ok {
		if kind == Director {
			n.Kind = Director
		}
		return n
	}
	n := &Node{id: int64(len(g.byName)), Name: name, Kind: kind, Cluster: -1}
	g.byName[name] = n
	g.AddNode(n)
	return n
}

// Lookup returns the node called name.
func (g *Graph) Lookup(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// Degree is the number of distinct neighbours of n.
func (g *Graph) Degree(n *Node) int {
	return g.From(n.id).Len()
}

// Members returns every node ordered by cluster, kind (directors first) and
// name.
func (g *Graph) Members() []*Node {
	out := make([]*Node, 0, len(g.byName))
	for _, n := range g.byName {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Cluster != b.Cluster {
			return a.Cluster < b.Cluster
		}
		if a.Kind != b.Kind {
			return a.Kind == Director
		}
		return a.Name < b.Name
	})
	return out
}

// Detect runs Louvain community detection and stores each node's cluster.
// Clusters are numbered by their alphabetically first member so the
// numbering does not depend on iteration order. It returns the number of
// clusters and the modularity of the partition.
func (g *Graph) Detect(resolution float64, seed int64) (int, float64) {
	if g.Nodes().Len() == 0 {
		return 0, 0
	}
	reduced := community.Modularize(g, resolution, rand.NewSource(uint64(seed)))
	communities := reduced.Communities()

	type group struct {
		first string
		ids   []int64
	}
	groups := make([]group, 0, len(communities))
	for _, c := range communities {
		if len(c) == 0 {
			continue
		}
		grp := group{}
		for _, n := range c {
			name := g.WeightedUndirectedGraph.Node(n.ID()).(*Node).Name
			if grp.first == "" || name < grp.first {
				grp.first = name
			}
			grp.ids = append(grp.ids, n.ID())
		}
		groups = append(groups, grp)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].first < groups[j].first })
	for i, grp := range groups {
		for _, id := range grp.ids {
			g.WeightedUndirectedGraph.Node(id).(*Node).Cluster = i
		}
	}

	q := community.Q(g, communities, resolution)
	log.Info().Int("clusters", len(groups)).Float64("modularity", q).Msg("communities detected")
	return len(groups), q
}

// WriteDOT saves the graph in Graphviz format with kind and cluster
// attributes on every node.
func (g *Graph) WriteDOT(path string) error {
	data, err := dot.Marshal(g, "collaborations", "", "  ")
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("graph saved")
	return nil
}

// WriteCSV saves one name,kind,cluster,degree row per node.
func (g *Graph) WriteCSV(path string) error {
	members := g.Members()
	rows := make([][]string, 0, len(members))
	for _, n := range members {
		rows = append(rows, []string{n.Name, n.Kind, strconv.Itoa(n.Cluster), strconv.Itoa(g.Degree(n))})
	}
	return export.WriteCSV(path, []string{"name", "kind", "cluster", "degree"}, rows)
}

// TopDirectors returns directors ordered by degree, highest first.
func (g *Graph) TopDirectors(n int) []*Node {
	var out []*Node
	for _, node := range g.byName {
		if node.Kind == Director {
			out = append(out, node)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := g.Degree(out[i]), g.Degree(out[j])
		if di != dj {
			return di > dj
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

var _ graph.Node = (*Node)(nil)
