package relationship

import (
	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/query"
)

// TargetsWithStatAtLeast derives role candidates from relationship edges:
// for a bound subject, enumerate the targets whose named stat has a scaled
// value of at least min. This is how life events discover role-fillers
// connected to an already-bound entity rather than via component membership.
func TargetsWithStatAtLeast(name string, min int) query.DeriveFunc {
	return func(w *ecs.World, subject ecs.EntityID) []ecs.EntityID {
		mgr, ok := ecs.TryGet[Manager](w, subject)
		if !ok {
			return nil
		}
		var out []ecs.EntityID
		for _, target := range mgr.Targets() {
			r := mgr.outgoing[target]
			s, err := r.Stat(name)
			if err != nil {
				continue
			}
			if s.Scaled() >= min && w.Alive(target) && !w.PendingDeletion(target) {
				out = append(out, target)
			}
		}
		return out
	}
}
