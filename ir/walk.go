package ir

// Walk visits op and every operation nested in its regions in depth-first
// pre-order.
func Walk(op *Operation, fn func(*Operation)) {
	fn(op)
	for _, r := range op.regions {
		WalkRegion(r, fn)
	}
}

// WalkRegion visits every operation in the region in block order, descending
// depth-first into nested regions.
func WalkRegion(r *Region, fn func(*Operation)) {
	for _, b := range r.blocks {
		for _, op := range b.ops {
			Walk(op, fn)
		}
	}
}
