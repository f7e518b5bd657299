// Package curation picks bounded, diversity-balanced subsets of a
// deduplicated article list for editorial slots: the featured carousel,
// the mixed home grid and the "most read" list.
//
// Every function here is pure. Inputs are never modified and results are
// deterministic for a given input (and, for RankMostRead, a given clock).
package curation
