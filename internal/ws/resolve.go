package ws

// ResolvedPlaceholder is the outcome of interpreting one placeholder block's
// directive. Exactly one of NoResults or Block is meaningful.
type ResolvedPlaceholder struct {
	// NoResults marks a directive that interpreted to zero blocks; the
	// placeholder renders a terminal "no results" slot.
	NoResults bool
	// Block is the substituted block (already tagged LoadedFromPlaceholder).
	Block *Block
	// FoldUp is set when the block must merge into the previous index and the
	// placeholder's own slot be dropped (aggregate-search results).
	FoldUp bool
}

// ResolvePlaceholder decides how the blocks interpreted from a placeholder's
// directive substitute into the sequence at index idx.
//
// The first returned block inherits the placeholder's sort keys when it
// carries none of its own. Aggregate results — at least two sort keys with a
// null last key — attach to the preceding block instead of occupying their
// own slot, so directives like `search .mine .count` fold into the header
// line above them. A placeholder at index 0 has nothing to fold into and
// substitutes in place.
func ResolvePlaceholder(placeholder Block, idx int, interpreted []Block) ResolvedPlaceholder {
	if len(interpreted) == 0 {
		return ResolvedPlaceholder{NoResults: true}
	}

	b := interpreted[0]
	b.LoadedFromPlaceholder = true
	if len(b.SortKeys) == 0 && len(placeholder.SortKeys) > 0 {
		b.SortKeys = placeholder.SortKeys
	}

	foldUp := len(b.SortKeys) >= 2 && b.SortKeys[len(b.SortKeys)-1] == nil && idx > 0
	return ResolvedPlaceholder{Block: &b, FoldUp: foldUp}
}

// ApplyResolved reconciles a resolution into the block sequence, returning a
// new slice: in-place substitution normally, or replace-previous-and-drop for
// fold-ups. Out-of-range indexes (stale resolutions racing a reload) return
// blocks unchanged.
func ApplyResolved(blocks []Block, idx int, r ResolvedPlaceholder) []Block {
	if idx < 0 || idx >= len(blocks) {
		return blocks
	}
	out := make([]Block, len(blocks))
	copy(out, blocks)

	if r.NoResults || r.Block == nil {
		return out
	}
	if r.FoldUp && idx > 0 {
		out[idx-1] = *r.Block
		return append(out[:idx], out[idx+1:]...)
	}
	out[idx] = *r.Block
	return out
}
