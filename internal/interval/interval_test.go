package interval

import (
	"math"
	"testing"
)

func TestComputeOverlapping(t *testing.T) {
	ov := Compute(0, 2, 1, 3)

	if math.Abs(ov.Common-1) > 1e-9 {
		t.Errorf("Common = %f, want 1", ov.Common)
	}
	if math.Abs(ov.SrcBefore-1) > 1e-9 {
		t.Errorf("SrcBefore = %f, want 1", ov.SrcBefore)
	}
	if ov.TrgBefore != 0 {
		t.Errorf("TrgBefore = %f, want 0", ov.TrgBefore)
	}
	if math.Abs(ov.TrgAfter-1) > 1e-9 {
		t.Errorf("TrgAfter = %f, want 1", ov.TrgAfter)
	}
	if ov.SrcAfter != 0 {
		t.Errorf("SrcAfter = %f, want 0", ov.SrcAfter)
	}
	if math.Abs(ov.NonCommon-2) > 1e-9 {
		t.Errorf("NonCommon = %f, want 2", ov.NonCommon)
	}
}

func TestComputeDisjoint(t *testing.T) {
	ov := Compute(0, 1, 3, 5)

	if ov.Common > 0 {
		t.Errorf("Common = %f, want <= 0", ov.Common)
	}
	if math.Abs(ov.Common-(-2)) > 1e-9 {
		t.Errorf("Common = %f, want -2", ov.Common)
	}
	if math.Abs(ov.SrcBefore-3) > 1e-9 {
		t.Errorf("SrcBefore = %f, want 3", ov.SrcBefore)
	}
	if math.Abs(ov.TrgAfter-4) > 1e-9 {
		t.Errorf("TrgAfter = %f, want 4", ov.TrgAfter)
	}
}

func TestComputeIdentical(t *testing.T) {
	ov := Compute(2, 4, 2, 4)

	if math.Abs(ov.Common-2) > 1e-9 {
		t.Errorf("Common = %f, want 2", ov.Common)
	}
	if ov.NonCommon != 0 {
		t.Errorf("NonCommon = %f, want 0", ov.NonCommon)
	}
}

func TestComputeContained(t *testing.T) {
	ov := Compute(0, 10, 2, 4)

	if math.Abs(ov.Common-2) > 1e-9 {
		t.Errorf("Common = %f, want 2", ov.Common)
	}
	if math.Abs(ov.SrcBefore-2) > 1e-9 {
		t.Errorf("SrcBefore = %f, want 2", ov.SrcBefore)
	}
	if math.Abs(ov.SrcAfter-6) > 1e-9 {
		t.Errorf("SrcAfter = %f, want 6", ov.SrcAfter)
	}
	if math.Abs(ov.NonCommon-8) > 1e-9 {
		t.Errorf("NonCommon = %f, want 8", ov.NonCommon)
	}
}

// The decomposition identity from the cost model: all four one-sided spans
// plus the overlap equal the combined length minus the overlap.
func TestComputeIdentity(t *testing.T) {
	cases := [][4]float64{
		{0, 2, 1, 3},
		{0, 10, 2, 4},
		{1, 3, 1, 3},
		{0, 5, 5, 9},
		{2.5, 7.25, 3.75, 6.5},
	}
	for _, c := range cases {
		ov := Compute(c[0], c[1], c[2], c[3])
		lhs := ov.SrcBefore + ov.TrgBefore + ov.SrcAfter + ov.TrgAfter + ov.Common
		rhs := (c[1] - c[0]) + (c[3] - c[2]) - ov.Common
		if math.Abs(lhs-rhs) > 1e-9 {
			t.Errorf("Compute(%v): identity mismatch lhs=%f rhs=%f", c, lhs, rhs)
		}
	}
}
