package ledger

import "math"

// The 10% VAT rate is baked into the legacy split below; both formulas must
// reproduce the numbers existing documents were written with.

// round matches the rounding of the runtime the legacy documents were
// produced by: half to even.
func round(x float64) int64 { return int64(math.RoundToEven(x)) }

// SplitVAT decomposes the raw material/labor input into net amounts, VAT and
// the gross total. With vatIncluded the input is treated as VAT-inclusive:
// the net is derived from the gross, the rounding residual lands in vat, and
// the net is apportioned between material and labor by their input ratio.
// Without it the amounts pass through untouched and vat is zero.
//
// Invariant: materialNet + laborNet + vat == material + labor.
func SplitVAT(material, labor int64, vatIncluded bool) (materialNet, laborNet, vat, total int64) {
	if !vatIncluded {
		return material, labor, 0, material + labor
	}

	totalInput := material + labor
	net := round(float64(totalInput) / 1.1)
	vat = totalInput - net
	total = totalInput

	switch {
	case material > 0 && labor > 0:
		materialNet = round(float64(net) * float64(material) / float64(totalInput))
		laborNet = net - materialNet
	case material > 0:
		materialNet = net
	case labor > 0:
		laborNet = net
	}
	return materialNet, laborNet, vat, total
}

// RecalcTotals recomputes the derived fields after an in-place amount edit.
// The edit path deliberately uses the flat 10% rule instead of the creation
// split: the two formulas diverge in the legacy document format and are both
// preserved for compatibility (see DESIGN.md).
func RecalcTotals(it *LineItem) {
	material, labor := it.MaterialAmount, it.LaborAmount

	if it.VATIncluded {
		totalNet := material + labor
		if totalNet > 0 {
			vat := round(float64(totalNet) * 0.1)
			it.VATAmount = vat
			it.TotalAmount = totalNet + vat
		} else {
			it.VATAmount = 0
			it.TotalAmount = 0
		}
		return
	}

	it.VATAmount = 0
	it.TotalAmount = material + labor
}
