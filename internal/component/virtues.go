package component

import (
	"fmt"
	"math"

	"github.com/storyloom/loom/internal/core/ecs"
)

// Virtue axes of the personality vector. Fixed size; every character's
// vector has a value per axis in [VirtueMin, VirtueMax].
const (
	VirtueAmbition = iota
	VirtueCompassion
	VirtueCuriosity
	VirtueDiscipline
	VirtueHonor
	VirtueLoyalty
	VirtueSociability
	VirtueTradition
	VirtueCount
)

const (
	VirtueMin = -50.0
	VirtueMax = 50.0
)

var virtueNames = [VirtueCount]string{
	"ambition", "compassion", "curiosity", "discipline",
	"honor", "loyalty", "sociability", "tradition",
}

// Virtues is the fixed-size personality vector used for compatibility
// scoring between characters.
type Virtues struct {
	ecs.BaseComponent
	Values [VirtueCount]float64 `yaml:"values,flow"`
}

func (v *Virtues) Validate() error {
	for i, val := range v.Values {
		if val < VirtueMin || val > VirtueMax {
			return fmt.Errorf("virtue %s out of range: %v", virtueNames[i], val)
		}
	}
	return nil
}

func (v *Virtues) Snapshot() map[string]any {
	out := make(map[string]any, VirtueCount)
	for i, val := range v.Values {
		out[virtueNames[i]] = val
	}
	return out
}

// maxVirtueDistance is the largest possible Euclidean distance between two
// virtue vectors: every axis at opposite extremes.
var maxVirtueDistance = math.Sqrt(VirtueCount * (VirtueMax - VirtueMin) * (VirtueMax - VirtueMin))

// Compatibility scores two virtue vectors in [-0.5, 1]: the average of
// their cosine similarity and a normalized Euclidean-distance term,
// (cos(a,b) + (1 - |a-b|/maxDist)) / 2. The formula is a designed
// heuristic; both terms and the final averaging are load-bearing.
func Compatibility(a, b *Virtues) float64 {
	var dot, normA, normB, distSq float64
	for i := 0; i < VirtueCount; i++ {
		dot += a.Values[i] * b.Values[i]
		normA += a.Values[i] * a.Values[i]
		normB += b.Values[i] * b.Values[i]
		d := a.Values[i] - b.Values[i]
		distSq += d * d
	}

	var cos float64
	if normA > 0 && normB > 0 {
		cos = dot / (math.Sqrt(normA) * math.Sqrt(normB))
	}
	proximity := 1 - math.Sqrt(distSq)/maxVirtueDistance
	return (cos + proximity) / 2
}
