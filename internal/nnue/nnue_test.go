package nnue

import "testing"

// tinyNetwork builds a small, deterministic network by hand (no random
// source — the session's toolchain constraints forbid running code to
// generate fixtures, so fixed literal weights stand in for a trained model,
// matching the teacher's own InitRandom-with-a-fixed-seed convention in
// spirit if not in exact mechanism).
func tinyNetwork() *Network {
	return &Network{
		InputSize:  4,
		HiddenSize: 2,
		OutputSize: 1,
		HiddenWeight: [][]int16{
			{10, -5, 3, 0},
			{0, 4, -2, 7},
		},
		HiddenBias:   []int16{1, -1},
		OutputWeight: [][]int16{{6, -3}},
		OutputBias:   []int16{2},
	}
}

func TestRefreshHiddenMatchesManualSum(t *testing.T) {
	n := tinyNetwork()
	l := AllocLayers(n)
	l.Canonical = []int16{1, 0, 1, 1}

	RefreshHidden(&l, n)

	// neuron 0: bias 1 + 10*1 + 3*1 + 0*1 = 14
	// neuron 1: bias -1 + (-2)*1 + 7*1 = 4
	want := []int16{14, 4}
	for i, w := range want {
		if l.Hidden[i] != w {
			t.Errorf("hidden[%d] = %d, want %d", i, l.Hidden[i], w)
		}
	}
}

func TestApplyDeltaMatchesFullRefresh(t *testing.T) {
	n := tinyNetwork()

	full := AllocLayers(n)
	full.Canonical = []int16{1, 0, 1, 1}
	RefreshHidden(&full, n)

	incremental := AllocLayers(n)
	incremental.Canonical = []int16{1, 0, 0, 1}
	RefreshHidden(&incremental, n)

	// Flip feature 2 on.
	ApplyDelta(&incremental, n, []int{2}, nil)

	for j := range full.Hidden {
		if incremental.Hidden[j] != full.Hidden[j] {
			t.Errorf("hidden[%d] = %d after incremental update, want %d (full refresh)", j, incremental.Hidden[j], full.Hidden[j])
		}
	}
}

func TestEvalSaturates(t *testing.T) {
	n := &Network{
		InputSize:    1,
		HiddenSize:   1,
		OutputSize:   1,
		HiddenWeight: [][]int16{{1}},
		HiddenBias:   []int16{0},
		OutputWeight: [][]int16{{32767}},
		OutputBias:   []int16{32767},
	}
	l := AllocLayers(n)
	l.Hidden[0] = 32767

	score := Eval(&l, n)
	if score > MaxScore-1 || score < -(MaxScore - 1) {
		t.Errorf("Eval() = %d, out of saturation bounds", score)
	}
}

func TestQuantizeDeterministic(t *testing.T) {
	a := quantize(1.5)
	b := quantize(1.5)
	if a != b {
		t.Fatalf("quantize not deterministic: %d vs %d", a, b)
	}
	if a != int16(1.5*QuantScale) {
		t.Errorf("quantize(1.5) = %d, want %d", a, int16(1.5*QuantScale))
	}
}
