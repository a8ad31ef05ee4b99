package survey

import (
	"sort"
	"strings"
)

// MergeAnnotations joins auxiliary anomaly/feature records onto survey rows
// by nearest station. The auxiliary table's columns are identified
// heuristically; when either role cannot be identified the merge is skipped
// and logged as a no-op. Records sharing a distance are deduplicated keeping
// the first, so no survey row can match ambiguously. A row matches the
// record nearest to its station, accepted only within the tolerance; on an
// exact midpoint tie the lower distance wins, keeping repeated runs
// identical. Matched labels are appended to any pre-existing comment with a
// " | " separator, never overwriting it.
func MergeAnnotations(points []Point, aux *AuxTable, tolerance float64, rl *RunLog) {
	if aux == nil || len(aux.Rows) == 0 {
		rl.Infof("annotate: no auxiliary records supplied; nothing to merge")
		return
	}

	distIdx, labelIdx, ok := ResolveAuxColumns(aux.Headers)
	if !ok {
		rl.Warnf("annotate: auxiliary table has no identifiable distance or label column; skipping merge")
		return
	}

	anns := resolveAnnotations(aux, distIdx, labelIdx)
	if len(anns) == 0 {
		rl.Warnf("annotate: auxiliary table has no usable records; skipping merge")
		return
	}

	matched := 0
	for i := range points {
		p := &points[i]
		if IsMissing(p.Station) {
			continue
		}
		ann, ok := nearestAnnotation(anns, p.Station, tolerance)
		if !ok {
			continue
		}
		if p.Comment == "" {
			p.Comment = ann.Label
		} else {
			p.Comment = p.Comment + " | " + ann.Label
		}
		matched++
	}
	rl.Infof("annotate: matched %d of %d auxiliary record site(s) to survey rows (tolerance %.1f m)",
		matched, len(anns), tolerance)
}

// resolveAnnotations parses the identified columns into sorted, deduplicated
// annotations. Rows with an unparsable distance or an empty label are
// dropped; duplicated distances keep their first occurrence.
func resolveAnnotations(aux *AuxTable, distIdx, labelIdx int) []Annotation {
	seen := make(map[float64]bool)
	var anns []Annotation
	for _, row := range aux.Rows {
		if distIdx >= len(row) || labelIdx >= len(row) {
			continue
		}
		d := parseCell(row[distIdx])
		label := strings.TrimSpace(row[labelIdx])
		if IsMissing(d) || label == "" || seen[d] {
			continue
		}
		seen[d] = true
		anns = append(anns, Annotation{Distance: d, Label: label})
	}
	sort.SliceStable(anns, func(i, j int) bool { return anns[i].Distance < anns[j].Distance })
	return anns
}

// nearestAnnotation finds the annotation whose distance is closest to the
// station, within tolerance. anns must be sorted by distance.
func nearestAnnotation(anns []Annotation, station, tolerance float64) (Annotation, bool) {
	i := sort.Search(len(anns), func(k int) bool { return anns[k].Distance >= station })

	best := -1
	bestDiff := 0.0
	if i > 0 {
		best = i - 1
		bestDiff = station - anns[i-1].Distance
	}
	if i < len(anns) {
		diff := anns[i].Distance - station
		// Strict less-than: the lower distance wins exact ties.
		if best < 0 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	if best < 0 || bestDiff > tolerance {
		return Annotation{}, false
	}
	return anns[best], true
}

// commentSpellingFixes are the recurring field-crew misspellings corrected in
// the comment column before the table is reported.
var commentSpellingFixes = [][2]string{
	{"valvula", "Válvula"},
	{"anodo", "Ánodo"},
	{"potencial", "Potencial"},
	{"estacion", "Estación"},
}

// NormalizeComments applies the fixed spelling corrections to every comment.
func NormalizeComments(points []Point) {
	for i := range points {
		if points[i].Comment == "" {
			continue
		}
		for _, fix := range commentSpellingFixes {
			points[i].Comment = strings.ReplaceAll(points[i].Comment, fix[0], fix[1])
		}
	}
}
