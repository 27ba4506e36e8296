package logdoc

// Snapshot records one prior merge operation: when it happened and every
// file identifier involved in it.
type Snapshot struct {
	MergedAt     string   `json:"merged_at"`
	FilesInMerge []string `json:"files_in_merge"`
}

// Lineage is the cumulative merge provenance stored under "merged_sources".
// BaseFile is the ultimate original base, surviving across repeated merges;
// AdditionalFiles lists every non-base file ever folded in, in merge order.
type Lineage struct {
	MergedAt         string     `json:"merged_at"`
	BaseFile         string     `json:"base_file"`
	AdditionalFiles  []string   `json:"additional_files"`
	TotalFilesMerged int        `json:"total_files_merged"`
	PreviousMerges   []Snapshot `json:"previous_merges,omitempty"`
}

// LineageFrom extracts the document's merge lineage. The second return is
// false when the document has never been merged. The decode is tolerant:
// absent or oddly typed subfields degrade to zero values rather than
// failing, since "merged_sources" in an input file is not under this tool's
// control.
func LineageFrom(d Document) (Lineage, bool) {
	v, ok := d[MergedSourcesKey]
	if !ok {
		return Lineage{}, false
	}

	switch src := v.(type) {
	case Lineage:
		// The document came out of an in-process merge.
		return src, true
	case map[string]any:
		lin := Lineage{
			MergedAt:        asString(src["merged_at"]),
			BaseFile:        asString(src["base_file"]),
			AdditionalFiles: asStringSlice(src["additional_files"]),
		}
		lin.TotalFilesMerged = len(lin.AdditionalFiles) + 1
		if merges, ok := src["previous_merges"].([]any); ok {
			for _, m := range merges {
				entry, ok := m.(map[string]any)
				if !ok {
					continue
				}
				lin.PreviousMerges = append(lin.PreviousMerges, Snapshot{
					MergedAt:     asString(entry["merged_at"]),
					FilesInMerge: asStringSlice(entry["files_in_merge"]),
				})
			}
		}
		return lin, true
	default:
		// Present but unusable; treat as an empty prior lineage.
		return Lineage{}, true
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
