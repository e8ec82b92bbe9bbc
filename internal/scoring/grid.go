package scoring

import "slices"

// Placement - положение одного сценария на матрице.
type Placement struct {
	ID         string `json:"id"`
	Gravity    Scale  `json:"gravity"`
	Likelihood Scale  `json:"likelihood"`
}

type Cell struct {
	Gravity     Scale     `json:"gravity"`
	Likelihood  Scale     `json:"likelihood"`
	Level       RiskLevel `json:"level"`
	ScenarioIDs []string  `json:"scenarios"`
}

// Grid хранит все 16 клеток по строкам тяжести: Cells[(g-1)*4 + (l-1)].
type Grid struct {
	Cells []Cell `json:"cells"`
}

func (g Grid) At(gravity, likelihood Scale) Cell {
	return g.Cells[int(gravity-1)*int(MaxScale)+int(likelihood-1)]
}

func (c Cell) Count() int {
	return len(c.ScenarioIDs)
}

// BuildMatrix раскладывает сценарии по клеткам. Пустые клетки тоже
// возвращаются, идентификаторы внутри клетки отсортированы.
func BuildMatrix(scenarios []Placement, m Matrix) (Grid, error) {
	grid := Grid{Cells: make([]Cell, 0, MaxScale*MaxScale)}
	for g := MinScale; g <= MaxScale; g++ {
		for l := MinScale; l <= MaxScale; l++ {
			level, err := m.Lookup(g, l)
			if err != nil {
				return Grid{}, err
			}
			grid.Cells = append(grid.Cells, Cell{Gravity: g, Likelihood: l, Level: level, ScenarioIDs: []string{}})
		}
	}
	for _, s := range scenarios {
		if s.ID == "" {
			return Grid{}, InvalidInput("scenario", "empty identifier")
		}
		if err := s.Gravity.Check("gravity of " + s.ID); err != nil {
			return Grid{}, err
		}
		if err := s.Likelihood.Check("likelihood of " + s.ID); err != nil {
			return Grid{}, err
		}
		idx := int(s.Gravity-1)*int(MaxScale) + int(s.Likelihood-1)
		grid.Cells[idx].ScenarioIDs = append(grid.Cells[idx].ScenarioIDs, s.ID)
	}
	for i := range grid.Cells {
		slices.Sort(grid.Cells[i].ScenarioIDs)
	}
	return grid, nil
}
