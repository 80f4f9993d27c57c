package report

import (
	"sort"
	"strings"

	"github.com/biovault/biovault/internal/clinvar"
)

// topN bounds the condition and allele lists kept per gene group; both are
// display fields and only the strongest entries matter.
const topN = 3

// Condition placeholder values present in the reference data that carry no
// information, compared after underscore normalization.
var conditionPlaceholders = map[string]bool{
	"not provided":  true,
	"not specified": true,
}

// AlleleCount is one ref>alt allele pair with its occurrence count within
// a gene group.
type AlleleCount struct {
	Ref   string `json:"ref"`
	Alt   string `json:"alt"`
	Count int    `json:"count"`
}

// GeneGroup summarizes all matches for one gene. Recomputed on every
// analysis run, never persisted.
type GeneGroup struct {
	Gene                  string          `json:"gene"`
	Variants              []clinvar.Match `json:"variants"`
	MostSignificant       string          `json:"mostSignificant"`
	SignificanceScore     int             `json:"significanceScore"`
	PathogenicCount       int             `json:"pathogenicCount"`
	LikelyPathogenicCount int             `json:"likelyPathogenicCount"`
	UncertainCount        int             `json:"uncertainCount"`
	ConflictingCount      int             `json:"conflictingCount"`
	TotalVariants         int             `json:"totalVariants"`
	UniqueRsIDs           int             `json:"uniqueRsids"`
	Conditions            []string        `json:"conditions"`
	Alleles               []AlleleCount   `json:"alleles"`
}

// Aggregate partitions matches by gene symbol and computes per-gene
// statistics. Pure function: no I/O, deterministic for a given input
// order. Matches with an empty gene fall into the "Unknown" group. An
// empty input yields an empty result.
func Aggregate(matches []clinvar.Match) []GeneGroup {
	byGene := make(map[string][]clinvar.Match)
	var order []string
	for _, m := range matches {
		gene := m.Gene
		if gene == "" {
			gene = "Unknown"
		}
		if _, ok := byGene[gene]; !ok {
			order = append(order, gene)
		}
		byGene[gene] = append(byGene[gene], m)
	}

	groups := make([]GeneGroup, 0, len(order))
	for _, gene := range order {
		groups = append(groups, buildGroup(gene, byGene[gene]))
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].SignificanceScore != groups[j].SignificanceScore {
			return groups[i].SignificanceScore < groups[j].SignificanceScore
		}
		return groups[i].Gene < groups[j].Gene
	})
	return groups
}

func buildGroup(gene string, variants []clinvar.Match) GeneGroup {
	g := GeneGroup{
		Gene:          gene,
		Variants:      variants,
		TotalVariants: len(variants),
	}

	// Tier counts use independent substring checks: a free-text value
	// naming several tiers counts toward each except the
	// pathogenic/likely overlap, which the NOT-likely guard splits.
	for _, v := range variants {
		sig := strings.ToLower(v.ClnSig)
		if strings.Contains(sig, "pathogenic") && !strings.Contains(sig, "likely") {
			g.PathogenicCount++
		}
		if strings.Contains(sig, "likely_pathogenic") {
			g.LikelyPathogenicCount++
		}
		if strings.Contains(sig, "uncertain") {
			g.UncertainCount++
		}
		if strings.Contains(sig, "conflicting") {
			g.ConflictingCount++
		}
	}

	// Dominant record: stable min-reduce over input order. Ties at equal
	// score keep the first-encountered record.
	dominant := variants[0]
	for _, v := range variants[1:] {
		if SignificanceScore(v.ClnSig) < SignificanceScore(dominant.ClnSig) {
			dominant = v
		}
	}
	g.MostSignificant = SignificanceLabel(dominant.ClnSig)
	g.SignificanceScore = SignificanceScore(dominant.ClnSig)

	g.Conditions = collectConditions(variants)
	g.Alleles = collectAlleles(variants)

	seen := make(map[string]bool)
	for _, v := range variants {
		seen[v.RsID] = true
	}
	g.UniqueRsIDs = len(seen)

	return g
}

// collectConditions splits each pipe-delimited condition field, normalizes
// underscores to spaces, drops placeholders, and returns the first topN
// distinct conditions in lexicographic order.
func collectConditions(variants []clinvar.Match) []string {
	seen := make(map[string]bool)
	for _, v := range variants {
		for _, c := range strings.Split(v.Condition, "|") {
			c = strings.ReplaceAll(strings.TrimSpace(c), "_", " ")
			if c == "" || conditionPlaceholders[strings.ToLower(c)] {
				continue
			}
			seen[c] = true
		}
	}

	conditions := make([]string, 0, len(seen))
	for c := range seen {
		conditions = append(conditions, c)
	}
	sort.Strings(conditions)
	if len(conditions) > topN {
		conditions = conditions[:topN]
	}
	return conditions
}

// collectAlleles counts ref>alt pairs across the group and returns the
// topN by count descending, ties broken by the ref>alt key ascending so
// output is reproducible.
func collectAlleles(variants []clinvar.Match) []AlleleCount {
	counts := make(map[string]*AlleleCount)
	var keys []string
	for _, v := range variants {
		key := v.Ref + ">" + v.Alt
		if ac, ok := counts[key]; ok {
			ac.Count++
			continue
		}
		counts[key] = &AlleleCount{Ref: v.Ref, Alt: v.Alt, Count: 1}
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]].Count != counts[keys[j]].Count {
			return counts[keys[i]].Count > counts[keys[j]].Count
		}
		return keys[i] < keys[j]
	})

	if len(keys) > topN {
		keys = keys[:topN]
	}
	alleles := make([]AlleleCount, 0, len(keys))
	for _, k := range keys {
		alleles = append(alleles, *counts[k])
	}
	return alleles
}
