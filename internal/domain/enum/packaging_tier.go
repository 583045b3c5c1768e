package enum

// PackagingTier is the order-wide packaging choice. It applies to the whole
// order, not per line.
type PackagingTier string

const (
	// PackagingFree is the default tier: no shipping or packaging fees.
	PackagingFree PackagingTier = "free"
	// PackagingEssential adds a flat shipping surcharge and a per-order
	// packaging fee bounded by the most expensive selected item's
	// packaging requirement.
	PackagingEssential PackagingTier = "essential"
)

// IsValid reports whether the tier is one of the known values
func (t PackagingTier) IsValid() bool {
	return t == PackagingFree || t == PackagingEssential
}
