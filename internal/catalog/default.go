package catalog

import "landscape-quote/pkg/units"

// Default returns the built-in landscaping catalog. Operators can replace
// it with a YAML file via Load; the defaults keep the mock and dev presets
// self-contained.
func Default() *Catalog {
	entries := []Entry{
		{CanonicalName: "triple ground mulch", LookupKey: "MULCH_TG", Unit: units.SquareFeet, Category: "mulching"},
		{CanonicalName: "metal edging", LookupKey: "EDGE_METAL", Unit: units.LinearFeet, Category: "edging"},
		{CanonicalName: "stone edging", LookupKey: "EDGE_STONE", Unit: units.LinearFeet, Category: "edging"},
		{CanonicalName: "irrigation zones", LookupKey: "IRR_ZONE", Unit: units.Zones, Category: "irrigation", Special: true, SetupKey: "IRR_SETUP"},
		{CanonicalName: "irrigation setup", LookupKey: "IRR_SETUP", Unit: units.Each, Category: "irrigation", Special: true},
		{CanonicalName: "sod installation", LookupKey: "SOD_INST", Unit: units.SquareFeet, Category: "lawn"},
		{CanonicalName: "lawn seeding", LookupKey: "LAWN_SEED", Unit: units.SquareFeet, Category: "lawn"},
		{CanonicalName: "topsoil delivery", LookupKey: "TOPSOIL", Unit: units.CubicYards, Category: "grading"},
		{CanonicalName: "river rock", LookupKey: "ROCK_RIVER", Unit: units.SquareFeet, Category: "rock"},
		{CanonicalName: "paver patio", LookupKey: "PAVER_PATIO", Unit: units.SquareFeet, Category: "hardscape"},
		{CanonicalName: "shrub planting", LookupKey: "SHRUB_PLANT", Unit: units.Each, Category: "planting"},
		{CanonicalName: "tree removal", LookupKey: "TREE_REMOVE", Unit: units.Each, Category: "tree"},
	}

	synonyms := map[string][]string{
		"triple ground mulch": {"mulch", "bark chips", "wood chips", "triple ground", "shredded mulch", "hardwood mulch"},
		"metal edging":        {"edging", "steel edging", "metal border", "metal landscape edging"},
		"stone edging":        {"stone border", "rock edging", "paver edging"},
		"irrigation zones":    {"irrigation", "sprinkler zones", "sprinkler system", "irrigation system", "sprinklers"},
		"irrigation setup":    {"sprinkler setup", "irrigation install setup", "irrigation hookup"},
		"sod installation":    {"sod", "new sod", "grass sod", "sod install"},
		"lawn seeding":        {"seeding", "overseeding", "grass seed", "seed lawn"},
		"topsoil delivery":    {"topsoil", "top soil", "fill dirt", "garden soil"},
		"river rock":          {"rock", "decorative rock", "stone", "gravel", "rock bed"},
		"paver patio":         {"pavers", "patio", "paver installation", "patio pavers"},
		"shrub planting":      {"shrubs", "bushes", "shrub install", "plant shrubs"},
		"tree removal":        {"remove tree", "tree cutting", "cut down tree", "tree takedown"},
	}

	c, err := New(entries, synonyms)
	if err != nil {
		// The built-in table is covered by tests; a broken default is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return c
}
