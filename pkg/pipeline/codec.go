package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/asciiwipe/pkg/cache"
	"github.com/matzehuels/asciiwipe/pkg/frames"
	"github.com/matzehuels/asciiwipe/pkg/grid"
	"github.com/matzehuels/asciiwipe/pkg/sequence"
)

// MarshalGrid encodes a grid as a JSON array of rows.
func MarshalGrid(g grid.Grid) ([]byte, error) {
	return json.Marshal([]string(g))
}

// UnmarshalGrid decodes a grid and checks that it is rectangular.
func UnmarshalGrid(data []byte) (grid.Grid, error) {
	var rows []string
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return grid.New(rows...)
}

// HashGrids returns the content hash of an ordered set of grids.
func HashGrids(grids []grid.Grid) string {
	data, _ := json.Marshal(grids)
	return cache.Hash(data)
}

// MarshalProgram encodes a program as nested JSON arrays:
// entries → frames → rows.
func MarshalProgram(p sequence.Program) ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalProgram decodes a program and checks every frame is rectangular.
func UnmarshalProgram(data []byte) (sequence.Program, error) {
	var raw [][][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	p := make(sequence.Program, len(raw))
	for i, entry := range raw {
		p[i] = make(frames.List, len(entry))
		for j, rows := range entry {
			g, err := grid.New(rows...)
			if err != nil {
				return nil, err
			}
			p[i][j] = g
		}
	}
	return p, nil
}
