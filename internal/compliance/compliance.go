// Package compliance decides whether a candidate's normalized qualifications
// satisfy a position's required qualification set.
package compliance

import "github.com/staffmatch/staffmatch/internal/taxonomy"

// Strength values are on the 0-100 scale. Every scoring pass in this engine
// works on that scale; profiles rescale only at the output edge.
const (
	FullStrength    = 100.0
	PartialStrength = 40.0
	NoStrength      = 0.0
)

// Result is the outcome of a compliance check.
type Result struct {
	Compliant bool
	// Strength grades how well the requirement is met: 100 for a full or
	// superior match, 40 when the candidate holds related childcare codes
	// that fall short of the requirement, 0 otherwise.
	Strength float64
}

// supersedes grants taxonomy-level superiority: holding any code on the right
// fully satisfies a requirement for the code on the left, even without an
// exact match. The table is explicit; superiority is never inferred.
var supersedes = map[taxonomy.Code][]taxonomy.Code{
	taxonomy.CAPAEPE:      {taxonomy.DEInfirmier, taxonomy.DEPuericultrice, taxonomy.DEEJE, taxonomy.DEAuxiliaire},
	taxonomy.BacASSP:      {taxonomy.DEInfirmier, taxonomy.DEPuericultrice, taxonomy.DEEJE, taxonomy.DEAuxiliaire},
	taxonomy.BEPCSS:       {taxonomy.DEInfirmier, taxonomy.DEPuericultrice, taxonomy.DEEJE, taxonomy.DEAuxiliaire},
	taxonomy.DEAuxiliaire: {taxonomy.DEInfirmier, taxonomy.DEPuericultrice, taxonomy.DEEJE},
}

// Evaluate checks a candidate's qualification set against a position's
// required set.
//
// Policy, in order:
//   - an empty requirement gates nobody: always compliant, full strength,
//     whatever the candidate holds;
//   - an empty (unknown) candidate set is never compliant against a
//     requirement;
//   - holding any one required code, or any code that supersedes a required
//     code, is full compliance;
//   - holding only unrelated taxonomy codes earns partial credit without
//     compliance.
func Evaluate(candidate, required taxonomy.Set) Result {
	if required.Empty() {
		return Result{Compliant: true, Strength: FullStrength}
	}
	if candidate.Empty() {
		return Result{Compliant: false, Strength: NoStrength}
	}
	if candidate.Intersects(required) {
		return Result{Compliant: true, Strength: FullStrength}
	}
	for req := range required {
		for _, higher := range supersedes[req] {
			if candidate.Contains(higher) {
				return Result{Compliant: true, Strength: FullStrength}
			}
		}
	}
	return Result{Compliant: false, Strength: PartialStrength}
}
