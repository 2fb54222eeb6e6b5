package layout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"plexus/pkg/common"
)

func pairGraph(strength float64) *common.GraphData {
	return &common.GraphData{
		Nodes: []common.Node{
			{ID: "a", Label: "A", Type: common.NodeTypeConcept},
			{ID: "b", Label: "B", Type: common.NodeTypePerson},
		},
		Links: []common.Link{
			{Source: common.NodeRef{ID: "a"}, Target: common.NodeRef{ID: "b"}, Strength: strength},
		},
	}
}

func triangleGraph() *common.GraphData {
	g := &common.GraphData{
		Nodes: []common.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
	}
	pairs := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}}
	for _, p := range pairs {
		g.Links = append(g.Links, common.Link{
			Source:   common.NodeRef{ID: p[0]},
			Target:   common.NodeRef{ID: p[1]},
			Strength: 10,
		})
	}
	return g
}

// randomGraph builds a connected graph of n nodes where each node
// links back to an earlier one, plus a few cross links.
func randomGraph(n int) *common.GraphData {
	g := &common.GraphData{}
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, common.Node{ID: fmt.Sprintf("n%d", i)})
	}
	for i := 1; i < n; i++ {
		g.Links = append(g.Links, common.Link{
			Source:   common.NodeRef{ID: fmt.Sprintf("n%d", i)},
			Target:   common.NodeRef{ID: fmt.Sprintf("n%d", i/2)},
			Strength: float64(1 + i%10),
		})
	}
	for i := 4; i < n; i += 5 {
		g.Links = append(g.Links, common.Link{
			Source:   common.NodeRef{ID: fmt.Sprintf("n%d", i)},
			Target:   common.NodeRef{ID: fmt.Sprintf("n%d", i-3)},
			Strength: 5,
		})
	}
	return g
}

func nodeDistance(positions []Position, a, b string) float64 {
	var pa, pb Position
	for _, p := range positions {
		if p.ID == a {
			pa = p
		}
		if p.ID == b {
			pb = p
		}
	}
	return math.Hypot(pa.X-pb.X, pa.Y-pb.Y)
}

func TestNewDanglingLinkFailsConstruction(t *testing.T) {
	g := &common.GraphData{
		Nodes: []common.Node{{ID: "a"}},
		Links: []common.Link{
			{Source: common.NodeRef{ID: "a"}, Target: common.NodeRef{ID: "nowhere"}, Strength: 5},
		},
	}

	_, err := New(g, DefaultConfig())
	if err == nil {
		t.Fatal("expected construction to fail on dangling link")
	}
	var dangling *common.DanglingLinkError
	if !errors.As(err, &dangling) {
		t.Fatalf("expected DanglingLinkError, got %v", err)
	}
	if dangling.ID != "nowhere" {
		t.Fatalf("error names %q, want %q", dangling.ID, "nowhere")
	}
}

func TestNewRejectsMalformedStrength(t *testing.T) {
	for _, strength := range []float64{0, -2, 10.5, math.NaN(), math.Inf(1)} {
		g := pairGraph(strength)
		if _, err := New(g, DefaultConfig()); err == nil {
			t.Fatalf("expected construction to fail for strength %v", strength)
		}
	}
}

func TestNewResolvesLinkReferences(t *testing.T) {
	g := pairGraph(5)
	if _, err := New(g, DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	l := g.Links[0]
	if l.Source.Node == nil || l.Target.Node == nil {
		t.Fatal("link endpoints not resolved at construction")
	}
	if l.Source.Node.ID != "a" || l.Target.Node.ID != "b" {
		t.Fatalf("resolved wrong nodes: %s -> %s", l.Source.Node.ID, l.Target.Node.ID)
	}
}

func TestDeterminismSameSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7

	run := func() []Position {
		e, err := New(randomGraph(30), cfg)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 120; i++ {
			e.Step()
		}
		return e.Positions()
	}

	first := run()
	second := run()
	for i := range first {
		if math.Abs(first[i].X-second[i].X) > 1e-9 || math.Abs(first[i].Y-second[i].Y) > 1e-9 {
			t.Fatalf("run diverged at node %s: (%v,%v) vs (%v,%v)",
				first[i].ID, first[i].X, first[i].Y, second[i].X, second[i].Y)
		}
	}
}

func TestDifferentSeedsDifferentLayouts(t *testing.T) {
	cfgA := DefaultConfig()
	cfgA.Seed = 1
	cfgB := DefaultConfig()
	cfgB.Seed = 2

	a, err := New(randomGraph(10), cfgA)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(randomGraph(10), cfgB)
	if err != nil {
		t.Fatal(err)
	}

	pa := a.Positions()
	pb := b.Positions()
	same := true
	for i := range pa {
		if pa[i] != pb[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical initial placement")
	}
}

func TestAlphaMonotoneNonIncreasing(t *testing.T) {
	e, err := New(randomGraph(20), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	prev := e.Alpha()
	for e.Step() {
		if e.Alpha() > prev {
			t.Fatalf("alpha increased from %v to %v at tick %d", prev, e.Alpha(), e.Ticks())
		}
		prev = e.Alpha()
	}
}

func TestConvergesWithinTickBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTicks = 0

	e, err := New(randomGraph(50), cfg)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 400 && e.Step(); i++ {
	}

	if !e.Converged() {
		t.Fatalf("engine still hot after %d ticks, alpha %v", e.Ticks(), e.Alpha())
	}
	if e.Ticks() > 300 {
		t.Fatalf("took %d ticks to converge, want <= 300", e.Ticks())
	}
}

func TestScenarioLinkedPairSettlesAtRestLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 11

	e, err := New(pairGraph(5), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}

	d := nodeDistance(e.Positions(), "a", "b")
	if d < 135 || d > 165 {
		t.Fatalf("converged distance %v, want 150 +/- 10%%", d)
	}
}

func TestScenarioTriangleSettlesEquilateral(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42

	e, err := New(triangleGraph(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}

	pos := e.Positions()
	sides := []float64{
		nodeDistance(pos, "a", "b"),
		nodeDistance(pos, "b", "c"),
		nodeDistance(pos, "c", "a"),
	}

	minSide, maxSide := sides[0], sides[0]
	for _, s := range sides {
		if s < 135 || s > 165 {
			t.Fatalf("side %v, want 150 +/- 10%%, sides %v", s, sides)
		}
		if s < minSide {
			minSide = s
		}
		if s > maxSide {
			maxSide = s
		}
	}
	if maxSide-minSide > 15 {
		t.Fatalf("triangle far from equilateral: sides %v", sides)
	}
}

func TestCenteringPullsCentroidToWorldCenter(t *testing.T) {
	cfg := DefaultConfig()
	e, err := New(randomGraph(12), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}

	var cx, cy float64
	pos := e.Positions()
	for _, p := range pos {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pos))
	cy /= float64(len(pos))

	if math.Abs(cx-cfg.Width/2) > 5 || math.Abs(cy-cfg.Height/2) > 5 {
		t.Fatalf("centroid (%v,%v), want near (%v,%v)", cx, cy, cfg.Width/2, cfg.Height/2)
	}
}

func TestCollidePassSeparatesOverlappingPair(t *testing.T) {
	e, err := New(&common.GraphData{Nodes: []common.Node{{ID: "a"}, {ID: "b"}}}, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	e.SetPositions([]Position{
		{ID: "a", X: 100, Y: 100},
		{ID: "b", X: 150, Y: 100},
	})

	e.collide()

	d := nodeDistance(e.Positions(), "a", "b")
	if d < 2*e.cfg.NodeRadius-1e-6 {
		t.Fatalf("pair still overlapping after collision pass: distance %v", d)
	}
}

func TestCollidePassesResolveCluster(t *testing.T) {
	g := &common.GraphData{Nodes: []common.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}}
	e, err := New(g, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	e.SetPositions([]Position{
		{ID: "a", X: 100, Y: 100},
		{ID: "b", X: 140, Y: 110},
		{ID: "c", X: 120, Y: 150},
		{ID: "d", X: 100, Y: 101},
	})

	overlap := func() float64 {
		total := 0.0
		pos := e.Positions()
		for i := range pos {
			for j := i + 1; j < len(pos); j++ {
				d := math.Hypot(pos[i].X-pos[j].X, pos[i].Y-pos[j].Y)
				if o := 2*e.cfg.NodeRadius - d; o > 0 {
					total += o
				}
			}
		}
		return total
	}

	before := overlap()
	e.collide()
	after := overlap()
	if after >= before {
		t.Fatalf("collision pass did not reduce overlap: before %v after %v", before, after)
	}

	for i := 0; i < 50 && overlap() > 1e-6; i++ {
		e.collide()
	}
	if o := overlap(); o > 1e-6 {
		t.Fatalf("cluster still overlapping after repeated passes: total overlap %v", o)
	}
}

func TestDragPinsNodeToPointerExactly(t *testing.T) {
	e, err := New(pairGraph(5), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	e.SetPositions([]Position{
		{ID: "a", X: 200, Y: 300},
		{ID: "b", X: 600, Y: 300},
	})
	if !e.PointerDown(200, 300) {
		t.Fatal("pointer down on node did not start a drag")
	}
	if id, ok := e.Dragging(); !ok || id != "a" {
		t.Fatalf("Dragging() = %q,%v, want a,true", id, ok)
	}

	e.PointerMove(777, -333)
	for i := 0; i < 25; i++ {
		e.Step()
	}

	pos := e.Positions()
	if pos[0].X != 777 || pos[0].Y != -333 {
		t.Fatalf("dragged node at (%v,%v), want exactly (777,-333)", pos[0].X, pos[0].Y)
	}

	e.PointerUp()
	if _, ok := e.Dragging(); ok {
		t.Fatal("drag still active after pointer up")
	}
}

func TestDragReheatsSimulation(t *testing.T) {
	e, err := New(pairGraph(5), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if !e.Converged() {
		t.Fatal("engine should have converged")
	}

	pos := e.Positions()
	if !e.PointerDown(pos[0].X, pos[0].Y) {
		t.Fatal("pointer down missed node")
	}
	if e.Alpha() < dragReheatAlpha {
		t.Fatalf("alpha %v after drag, want >= %v", e.Alpha(), dragReheatAlpha)
	}
	if !e.Step() {
		t.Fatal("reheated engine did not tick")
	}
}

func TestPinnedNodeStillExertsForces(t *testing.T) {
	cfg := DefaultConfig()
	e, err := New(pairGraph(5), cfg)
	if err != nil {
		t.Fatal(err)
	}

	e.SetPositions([]Position{
		{ID: "a", X: 200, Y: 300},
		{ID: "b", X: 400, Y: 300},
	})
	if !e.PointerDown(200, 300) {
		t.Fatal("pointer down missed node")
	}
	e.PointerMove(850, 300)
	e.Reheat(1)

	for e.Step() {
	}

	d := nodeDistance(e.Positions(), "a", "b")
	if math.Abs(d-cfg.LinkDistance) > 25 {
		t.Fatalf("free node settled %v from pinned neighbor, want near %v", d, cfg.LinkDistance)
	}
}

func TestDragThroughZoomedViewport(t *testing.T) {
	e, err := New(pairGraph(5), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	e.SetPositions([]Position{
		{ID: "a", X: 200, Y: 300},
		{ID: "b", X: 600, Y: 300},
	})
	e.Pan(40, -20)
	e.Zoom(2, 100, 100)

	sx, sy := e.Viewport().Apply(200, 300)
	if !e.PointerDown(sx, sy) {
		t.Fatal("pointer down through transformed viewport missed node")
	}

	e.PointerMove(300, 400)
	wx, wy := e.Viewport().Invert(300, 400)
	got := e.Positions()
	if math.Abs(got[0].X-wx) > 1e-9 || math.Abs(got[0].Y-wy) > 1e-9 {
		t.Fatalf("pinned at (%v,%v), want pointer world position (%v,%v)", got[0].X, got[0].Y, wx, wy)
	}
}

func TestClickEmitsNode(t *testing.T) {
	e, err := New(pairGraph(5), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	var clicked []common.Node
	e.OnNodeClick(func(n common.Node) {
		clicked = append(clicked, n)
	})

	e.SetPositions([]Position{
		{ID: "a", X: 200, Y: 300},
		{ID: "b", X: 600, Y: 300},
	})
	if !e.Click(600, 300) {
		t.Fatal("click on node not registered")
	}
	if len(clicked) != 1 || clicked[0].ID != "b" {
		t.Fatalf("clicked = %+v, want single node b", clicked)
	}

	if e.Click(1e6, 1e6) {
		t.Fatal("click on empty space reported a hit")
	}
	if len(clicked) != 1 {
		t.Fatal("empty-space click emitted a node")
	}
}

func TestStopDetachesFrameCallback(t *testing.T) {
	e, err := New(pairGraph(5), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	frames := 0
	e.OnFrame(func(Frame) { frames++ })

	if !e.RunTick() {
		t.Fatal("first tick should report an active simulation")
	}
	if frames != 1 {
		t.Fatalf("frames = %d, want 1", frames)
	}

	e.Stop()
	if e.RunTick() {
		t.Fatal("tick after Stop should report inactive")
	}
	if frames != 1 {
		t.Fatalf("callback fired after Stop: frames = %d", frames)
	}
}

func TestRunHonorsMaxTicks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTicks = 10

	e, err := New(randomGraph(8), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if e.Ticks() != 10 {
		t.Fatalf("ran %d ticks, want MaxTicks = 10", e.Ticks())
	}
	if e.Converged() {
		t.Fatal("10 ticks should not have cooled the simulation")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	e, err := New(randomGraph(8), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Run(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
}

func TestSetPositionsRestoresSnapshot(t *testing.T) {
	e, err := New(pairGraph(5), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	e.SetPositions([]Position{
		{ID: "a", X: 10, Y: 20},
		{ID: "b", X: 30, Y: 40},
		{ID: "ghost", X: 1, Y: 2},
	})

	pos := e.Positions()
	if pos[0].X != 10 || pos[0].Y != 20 || pos[1].X != 30 || pos[1].Y != 40 {
		t.Fatalf("positions not restored: %+v", pos)
	}
	if !e.Converged() {
		t.Fatal("restored snapshot should leave the simulation cold")
	}
	if e.Step() {
		t.Fatal("cold engine should not tick")
	}

	e.Reheat(0.5)
	if !e.Step() {
		t.Fatal("reheated engine should tick again")
	}
}

func TestFrameSnapshot(t *testing.T) {
	e, err := New(pairGraph(8), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	e.SetPositions([]Position{
		{ID: "a", X: 100, Y: 200},
		{ID: "b", X: 300, Y: 250},
	})

	f := e.Frame("b")
	if len(f.Nodes) != 2 || len(f.Links) != 1 {
		t.Fatalf("frame has %d nodes, %d links", len(f.Nodes), len(f.Links))
	}

	if f.Nodes[0].Highlight || !f.Nodes[1].Highlight {
		t.Fatal("highlight should follow the selected id")
	}

	l := f.Links[0]
	if l.X1 != 100 || l.Y1 != 200 || l.X2 != 300 || l.Y2 != 250 {
		t.Fatalf("link endpoints (%v,%v)-(%v,%v) do not match node positions", l.X1, l.Y1, l.X2, l.Y2)
	}
	if l.Width != 4 {
		t.Fatalf("strength 8 should render width 4, got %v", l.Width)
	}

	n := f.Nodes[0]
	if n.LabelX != n.X || n.LabelY != n.Y+n.Radius+labelOffsetY {
		t.Fatalf("label offset not fixed relative to circle: %+v", n)
	}

	// Selection-only change: same positions, different highlight.
	g := e.Frame("a")
	if !g.Nodes[0].Highlight || g.Nodes[1].Highlight {
		t.Fatal("selection change did not update highlight")
	}
	if g.Nodes[0].X != f.Nodes[0].X || g.Nodes[1].Y != f.Nodes[1].Y {
		t.Fatal("selection change moved nodes")
	}
}

func TestFrameLinkWidthFloor(t *testing.T) {
	e, err := New(pairGraph(1), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if w := e.Frame("").Links[0].Width; w != 1 {
		t.Fatalf("strength 1 should render width 1, got %v", w)
	}
}
