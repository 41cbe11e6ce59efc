package analyzer

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/codescan/domain"
)

// GroupingMode represents the mode of grouping strategy
type GroupingMode string

const (
	GroupingModeConnected  GroupingMode = "connected"
	GroupingModeStarMedoid GroupingMode = "star_medoid"
)

// GroupingConfig holds configuration for clone grouping
type GroupingConfig struct {
	Mode      GroupingMode
	Threshold float64
}

// GroupingStrategy defines a strategy for grouping clone pairs into clone groups.
type GroupingStrategy interface {
	// GroupClones groups the given clone pairs into clone groups.
	GroupClones(pairs []*domain.ClonePair) []*domain.CloneGroup
	// GetName returns the strategy name.
	GetName() string
}

// CreateGroupingStrategy creates a grouping strategy based on config
func CreateGroupingStrategy(config GroupingConfig) GroupingStrategy {
	switch config.Mode {
	case GroupingModeStarMedoid:
		return NewStarMedoidGrouping(config.Threshold)
	case GroupingModeConnected:
		fallthrough
	default:
		return NewConnectedGrouping(config.Threshold)
	}
}

// ---------------------------------------------------------------------------
// ConnectedGrouping merges pairs into connected components
// ---------------------------------------------------------------------------

// ConnectedGrouping groups every set of transitively related clones into one
// group. Large sprawling groups are possible; the star strategy trades
// completeness for tighter groups.
type ConnectedGrouping struct {
	threshold float64
}

func NewConnectedGrouping(threshold float64) *ConnectedGrouping {
	return &ConnectedGrouping{threshold: threshold}
}

func (c *ConnectedGrouping) GetName() string { return "Connected Components" }

func (c *ConnectedGrouping) GroupClones(pairs []*domain.ClonePair) []*domain.CloneGroup {
	g := newPairGraph(pairs, c.threshold)

	visited := make(map[string]bool)
	var groups []*domain.CloneGroup
	for _, id := range g.sortedIDs() {
		if visited[id] {
			continue
		}
		var component []string
		stack := []string{id}
		visited[id] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, cur)
			for nb := range g.neighbors[cur] {
				if !visited[nb] {
					visited[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		if len(component) < 2 {
			continue // Skip singletons
		}
		groups = append(groups, g.buildGroup(component))
	}
	return finalizeGroups(groups)
}

// ---------------------------------------------------------------------------
// StarMedoidGrouping builds star groups around the most connected block
// ---------------------------------------------------------------------------

// StarMedoidGrouping repeatedly takes the unassigned clone with the most
// unassigned neighbors as a group center and claims those neighbors. Each
// clone belongs to at most one group.
type StarMedoidGrouping struct {
	threshold float64
}

func NewStarMedoidGrouping(threshold float64) *StarMedoidGrouping {
	return &StarMedoidGrouping{threshold: threshold}
}

func (s *StarMedoidGrouping) GetName() string { return "Star/Medoid" }

func (s *StarMedoidGrouping) GroupClones(pairs []*domain.ClonePair) []*domain.CloneGroup {
	g := newPairGraph(pairs, s.threshold)
	ids := g.sortedIDs()

	used := make(map[string]bool)
	var groups []*domain.CloneGroup
	for {
		center := ""
		centerDegree := 0
		for _, id := range ids {
			if used[id] {
				continue
			}
			degree := 0
			for nb := range g.neighbors[id] {
				if !used[nb] {
					degree++
				}
			}
			if degree > centerDegree {
				center, centerDegree = id, degree
			}
		}
		if centerDegree == 0 {
			break
		}

		members := []string{center}
		used[center] = true
		for nb := range g.neighbors[center] {
			if !used[nb] {
				members = append(members, nb)
				used[nb] = true
			}
		}
		groups = append(groups, g.buildGroup(members))
	}
	return finalizeGroups(groups)
}

// ---------------------------------------------------------------------------
// pairGraph indexes clone pairs for the grouping strategies
// ---------------------------------------------------------------------------

type pairGraph struct {
	members   map[string]*domain.Clone
	neighbors map[string]map[string]struct{}
	sims      map[string]float64
	types     map[string]domain.CloneType
}

func newPairGraph(pairs []*domain.ClonePair, threshold float64) *pairGraph {
	g := &pairGraph{
		members:   make(map[string]*domain.Clone),
		neighbors: make(map[string]map[string]struct{}),
		sims:      make(map[string]float64),
		types:     make(map[string]domain.CloneType),
	}
	for _, p := range pairs {
		if p == nil || p.Clone1 == nil || p.Clone2 == nil {
			continue
		}
		if p.Similarity < threshold {
			continue
		}
		id1, id2 := cloneID(p.Clone1), cloneID(p.Clone2)
		if id1 == id2 {
			continue
		}
		g.members[id1] = p.Clone1
		g.members[id2] = p.Clone2
		g.link(id1, id2)

		key := clonePairKey(p.Clone1, p.Clone2)
		g.sims[key] = p.Similarity
		g.types[key] = p.Type
	}
	return g
}

func (g *pairGraph) link(a, b string) {
	if g.neighbors[a] == nil {
		g.neighbors[a] = make(map[string]struct{})
	}
	if g.neighbors[b] == nil {
		g.neighbors[b] = make(map[string]struct{})
	}
	g.neighbors[a][b] = struct{}{}
	g.neighbors[b][a] = struct{}{}
}

// sortedIDs returns member IDs in deterministic order.
func (g *pairGraph) sortedIDs() []string {
	ids := make([]string, 0, len(g.members))
	for id := range g.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// buildGroup assembles a group from member IDs. The group carries the
// average pairwise similarity and the weakest clone type among its edges.
func (g *pairGraph) buildGroup(ids []string) *domain.CloneGroup {
	members := make([]*domain.Clone, 0, len(ids))
	for _, id := range ids {
		members = append(members, g.members[id])
	}
	sort.Slice(members, func(i, j int) bool { return cloneLess(members[i], members[j]) })

	return &domain.CloneGroup{
		Clones:     members,
		Similarity: averageGroupSimilarity(g.sims, members),
		Type:       weakestCloneType(g.types, members),
		Size:       len(members),
	}
}

// finalizeGroups orders groups by their first member and assigns IDs.
func finalizeGroups(groups []*domain.CloneGroup) []*domain.CloneGroup {
	if len(groups) == 0 {
		return nil
	}
	sort.Slice(groups, func(i, j int) bool {
		return cloneLess(groups[i].Clones[0], groups[j].Clones[0])
	})
	for i, g := range groups {
		g.ID = i + 1
	}
	return groups
}

// ---------------------------------------------------------------------------
// Helper functions
// ---------------------------------------------------------------------------

// clonePairKey creates a canonical key for a pair of clones
func clonePairKey(a, b *domain.Clone) string {
	ka := cloneID(a)
	kb := cloneID(b)
	if ka <= kb {
		return ka + "||" + kb
	}
	return kb + "||" + ka
}

// cloneID returns a stable identifier for a clone based on its location
func cloneID(c *domain.Clone) string {
	if c == nil || c.Location == nil {
		return fmt.Sprintf("%p", c)
	}
	loc := c.Location
	return fmt.Sprintf("%s|%d|%d|%d|%d", loc.FilePath, loc.StartLine, loc.EndLine, loc.StartCol, loc.EndCol)
}

// cloneLess provides deterministic ordering between two clones by location
func cloneLess(a, b *domain.Clone) bool {
	if a == b {
		return false
	}
	if a == nil {
		return true
	}
	if b == nil {
		return false
	}
	al, bl := a.Location, b.Location
	if al == nil && bl == nil {
		return false
	}
	if al == nil {
		return true
	}
	if bl == nil {
		return false
	}
	if al.FilePath != bl.FilePath {
		return al.FilePath < bl.FilePath
	}
	if al.StartLine != bl.StartLine {
		return al.StartLine < bl.StartLine
	}
	if al.StartCol != bl.StartCol {
		return al.StartCol < bl.StartCol
	}
	if al.EndLine != bl.EndLine {
		return al.EndLine < bl.EndLine
	}
	return al.EndCol < bl.EndCol
}

// cloneSimilarity returns cached similarity, or 0 if not present
func cloneSimilarity(sims map[string]float64, a, b *domain.Clone) float64 {
	if a == nil || b == nil {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	if s, ok := sims[clonePairKey(a, b)]; ok {
		return s
	}
	return 0.0
}

// averageGroupSimilarity computes average pairwise similarity among members
func averageGroupSimilarity(sims map[string]float64, members []*domain.Clone) float64 {
	if len(members) < 2 {
		return 1.0
	}
	sum := 0.0
	cnt := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			sum += cloneSimilarity(sims, members[i], members[j])
			cnt++
		}
	}
	if cnt == 0 {
		return 0.0
	}
	return sum / float64(cnt)
}

// weakestCloneType returns the loosest clone type among the pair edges
// connecting members. A group is only as strong as its weakest edge.
func weakestCloneType(typeMap map[string]domain.CloneType, members []*domain.Clone) domain.CloneType {
	weakest := domain.CloneType(0)
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			if t, ok := typeMap[clonePairKey(members[i], members[j])]; ok && t > weakest {
				weakest = t
			}
		}
	}
	if weakest == 0 {
		return domain.Type4Clone
	}
	return weakest
}
