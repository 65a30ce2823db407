package core

import (
	"github.com/automoto/groundmesh/shared/gamemath"
	"github.com/automoto/groundmesh/tags"
	"github.com/solarlune/resolv"
)

// DropOnto drops a w×h box from (x, y) straight down and returns the Y at
// which it rests on solid ground or on a ramp surface. It reports false when
// nothing is below.
func (l *ServerLevel) DropOnto(x, y, w, h float64) (float64, bool) {
	fall := float64(l.Level.Height()) - y
	if fall <= 0 || w <= 0 || h <= 0 {
		return 0, false
	}

	probe := resolv.NewObject(x, y, w, h)
	probe.SetShape(resolv.NewRectangle(0, 0, w, h))
	l.Space.Add(probe)
	defer l.Space.Remove(probe)

	// Check only looks at the destination cells, so fall in steps no larger
	// than the probe or a space cell.
	step := min(h, float64(l.Space.CellHeight))
	for dy := step; ; dy += step {
		dy = min(dy, fall)
		if check := probe.Check(0, dy, tags.ResolvSolid, tags.ResolvRamp); check != nil {
			if rest, ok := restingY(probe, check); ok {
				return rest, true
			}
		}
		if dy >= fall {
			return 0, false
		}
	}
}

// restingY picks the highest surface under the probe among the objects of a
// collision. Objects beside or above the probe are ignored.
func restingY(probe *resolv.Object, check *resolv.Collision) (float64, bool) {
	best, found := 0.0, false
	for _, obj := range check.Objects {
		if obj.X >= probe.X+probe.W || obj.X+obj.W <= probe.X {
			continue
		}

		var rest float64
		switch {
		case obj.HasTags(tags.ResolvRamp):
			surface := gamemath.SlopeSurfaceY(probe.X+probe.W/2, obj)
			rest = gamemath.SnapToSlopeY(probe.H, surface)
		case obj.HasTags(tags.ResolvSolid):
			// Landing
			rest = probe.Y + check.ContactWithObject(obj).Y()
		default:
			continue
		}

		if rest < probe.Y {
			continue
		}
		if !found || rest < best {
			best, found = rest, true
		}
	}
	return best, found
}
