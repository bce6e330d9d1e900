package taxonomy

// RuleTableVersion identifies the substring rule set below. Bump it whenever
// a keyword family changes so downstream stores can tell which normalization
// produced a candidate's codes.
const RuleTableVersion = 2

// Rule maps raw qualification text to one taxonomy code. A rule fires when
// the canonicalized input contains any of the Any substrings or equals one of
// the Exact tokens, unless an Unless substring is present. Rules are
// non-exclusive: several rules may fire on one input.
type Rule struct {
	Code   Code
	Any    []string
	Exact  []string
	Unless []string
}

// rules is the versioned, ordered rule table. Order matters only for the
// legacy single-value normalizer, which takes the first match.
var rules = []Rule{
	{
		Code:  DEInfirmier,
		Any:   []string{"infirmier", "infirmière", "infirmiere", "soins infirmiers", "nursing"},
		Exact: []string{"ide"},
	},
	{
		Code:   DEPuericultrice,
		Any:    []string{"puéricultrice", "puericultrice"},
		Unless: []string{"auxiliaire"},
	},
	{
		Code: DEEJE,
		Any: []string{
			"eje",
			"educateur jeunes enfants", "éducateur de jeunes enfants",
			"educatrice de jeunes enfants", "éducatrice de jeunes enfants",
		},
	},
	{
		Code:  DEAuxiliaire,
		Any:   []string{"auxiliaire", "deap"},
		Exact: []string{"ap"},
	},
	{
		Code: CAPAEPE,
		Any:  []string{"aepe", "petite enfance", "accompagnant éducatif", "accompagnant educatif"},
	},
	{
		Code: BacASSP,
		Any:  []string{"assp", "accompagnement soins et services"},
	},
	{
		Code: BEPCSS,
		Any:  []string{"bep css", "carrières sanitaires", "carrieres sanitaires"},
	},
	{
		Code: BAFA,
		Any:  []string{"bafa"},
	},
	{
		Code: TitreADVF,
		Any:  []string{"advf", "vie aux familles"},
	},
}
