package locate_test

import (
	"testing"

	"github.com/vovakirdan/gridpath/internal/core"
	"github.com/vovakirdan/gridpath/internal/locate"
)

func TestWalkableQueryReturnsItself(t *testing.T) {
	g := core.NewGrid(4, 4)
	res := locate.Nearest(g, core.C(2, 3), locate.Options{})
	if !res.Found || res.Coord != core.C(2, 3) || res.Distance != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestBlockedCornerPicksFirstNeighbor(t *testing.T) {
	g := core.MustParseGrid(`
		#..
		...
		...
	`)

	for _, conn := range []locate.Connectivity{locate.Four, locate.Eight} {
		res := locate.Nearest(g, core.C(0, 0), locate.Options{Connectivity: conn})
		if !res.Found {
			t.Fatalf("connectivity %d: expected a cell", conn)
		}
		if res.Coord != core.C(0, 1) || res.Distance != 1 {
			t.Errorf("connectivity %d: got %v at distance %d, want (0,1) at 1", conn, res.Coord, res.Distance)
		}
	}
}

func TestConnectivityChangesDistance(t *testing.T) {
	g := core.MustParseGrid(`
		.##
		###
		###
	`)

	tests := []struct {
		name     string
		conn     locate.Connectivity
		wantDist int
	}{
		{"four", locate.Four, 2},
		{"eight", locate.Eight, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := locate.Nearest(g, core.C(1, 1), locate.Options{Connectivity: tc.conn})
			if !res.Found || res.Coord != core.C(0, 0) {
				t.Fatalf("expected (0,0), got %+v", res)
			}
			if res.Distance != tc.wantDist {
				t.Errorf("expected distance %d, got %d", tc.wantDist, res.Distance)
			}
		})
	}
}

func TestOutOfBoundsQueryReachesGrid(t *testing.T) {
	g := core.NewGrid(3, 3)
	res := locate.Nearest(g, core.C(-2, 1), locate.Options{Connectivity: locate.Four})
	if !res.Found || res.Coord != core.C(0, 1) || res.Distance != 2 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestBudgetExhaustedIsNotFound(t *testing.T) {
	g := core.NewGrid(9, 9)
	for i := range g.Cells {
		g.Cells[i] = core.Blocked
	}
	g.Set(core.C(8, 8), core.Walkable)

	res := locate.Nearest(g, core.C(0, 0), locate.Options{Budget: 3, Connectivity: locate.Four})
	if res.Found {
		t.Fatalf("expected NotFound, got %+v", res)
	}
	if res.Levels != 3 {
		t.Errorf("expected the search to stop at ring 3, got %d", res.Levels)
	}

	wide := locate.Nearest(g, core.C(0, 0), locate.Options{Budget: 16, Connectivity: locate.Four})
	if !wide.Found || wide.Coord != core.C(8, 8) || wide.Distance != 16 {
		t.Errorf("expected (8,8) at distance 16, got %+v", wide)
	}
}

func TestDefaultBudgetTerminates(t *testing.T) {
	g := core.NewGrid(5, 5)
	for i := range g.Cells {
		g.Cells[i] = core.Blocked
	}

	res := locate.Nearest(g, core.C(2, 2), locate.Options{})
	if res.Found {
		t.Fatalf("expected NotFound on a fully blocked grid, got %+v", res)
	}
	if res.Levels != locate.DefaultBudget {
		t.Errorf("expected %d levels, got %d", locate.DefaultBudget, res.Levels)
	}
}

func TestParseConnectivity(t *testing.T) {
	if c, err := locate.ParseConnectivity(4); err != nil || c != locate.Four {
		t.Errorf("ParseConnectivity(4) = %v, %v", c, err)
	}
	if c, err := locate.ParseConnectivity(8); err != nil || c != locate.Eight {
		t.Errorf("ParseConnectivity(8) = %v, %v", c, err)
	}
	if _, err := locate.ParseConnectivity(6); err == nil {
		t.Error("expected an error for 6")
	}
}
