package nnue

import (
	"encoding/json"
	"fmt"
	"os"
)

// document is the textual weight-file schema of §6: a map of four float
// arrays keyed by the layer names a serialized two-layer linear model
// would naturally carry. encoding/json is used deliberately, not a
// third-party library — see DESIGN.md's "Model file format" entry: no repo
// in the example pack uses a third-party JSON library for anything, so
// there is no ecosystem precedent to prefer instead.
type document struct {
	HiddenWeight [][]float64 `json:"linear.0.weight"`
	HiddenBias   []float64   `json:"linear.0.bias"`
	OutputWeight [][]float64 `json:"linear.2.weight"`
	OutputBias   []float64   `json:"linear.2.bias"`
}

// Load reads a weight file from path, quantizing every float by QuantScale
// and truncating to int16. Fails with a *ModelLoadError wrapping the
// underlying os/json error on a missing file or a malformed/mismatched
// schema.
func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	return LoadBytes(path, data)
}

// LoadBytes parses an already-read weight document; path is carried along
// only for error messages.
func LoadBytes(path string, data []byte) (*Network, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ModelLoadError{Path: path, Err: fmt.Errorf("parse weights: %w", err)}
	}

	hidden := len(doc.HiddenWeight)
	if hidden == 0 || hidden != len(doc.HiddenBias) {
		return nil, &ModelLoadError{Path: path, Err: fmt.Errorf("hidden layer shape mismatch: %d weight rows, %d biases", hidden, len(doc.HiddenBias))}
	}
	input := len(doc.HiddenWeight[0])
	for i, row := range doc.HiddenWeight {
		if len(row) != input {
			return nil, &ModelLoadError{Path: path, Err: fmt.Errorf("hidden weight row %d has %d columns, want %d", i, len(row), input)}
		}
	}

	output := len(doc.OutputWeight)
	if output == 0 || output != len(doc.OutputBias) {
		return nil, &ModelLoadError{Path: path, Err: fmt.Errorf("output layer shape mismatch: %d weight rows, %d biases", output, len(doc.OutputBias))}
	}
	for i, row := range doc.OutputWeight {
		if len(row) != hidden {
			return nil, &ModelLoadError{Path: path, Err: fmt.Errorf("output weight row %d has %d columns, want %d", i, len(row), hidden)}
		}
	}

	n := &Network{
		InputSize:    input,
		HiddenSize:   hidden,
		OutputSize:   output,
		HiddenWeight: make([][]int16, hidden),
		HiddenBias:   make([]int16, hidden),
		OutputWeight: make([][]int16, output),
		OutputBias:   make([]int16, output),
	}

	for j, row := range doc.HiddenWeight {
		n.HiddenWeight[j] = quantizeRow(row)
		n.HiddenBias[j] = quantize(doc.HiddenBias[j])
	}
	for o, row := range doc.OutputWeight {
		n.OutputWeight[o] = quantizeRow(row)
		n.OutputBias[o] = quantize(doc.OutputBias[o])
	}

	return n, nil
}

func quantize(v float64) int16 {
	return int16(v * QuantScale)
}

func quantizeRow(row []float64) []int16 {
	out := make([]int16, len(row))
	for i, v := range row {
		out[i] = quantize(v)
	}
	return out
}
