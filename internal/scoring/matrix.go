package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RiskLevel - уровень риска из матрицы.
type RiskLevel int

const (
	LevelLow RiskLevel = iota + 1
	LevelMedium
	LevelHigh
	LevelCritical
)

var levelNames = map[RiskLevel]string{
	LevelLow:      "low",
	LevelMedium:   "medium",
	LevelHigh:     "high",
	LevelCritical: "critical",
}

// французские названия из документов EBIOS RM
var levelLabels = map[RiskLevel]string{
	LevelLow:      "Faible",
	LevelMedium:   "Acceptable",
	LevelHigh:     "Modéré",
	LevelCritical: "Critique",
}

func Levels() []RiskLevel {
	return []RiskLevel{LevelLow, LevelMedium, LevelHigh, LevelCritical}
}

func (l RiskLevel) Valid() bool {
	return l >= LevelLow && l <= LevelCritical
}

func (l RiskLevel) String() string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	return "level(" + strconv.Itoa(int(l)) + ")"
}

func (l RiskLevel) Label() string {
	return levelLabels[l]
}

// ParseRiskLevel принимает английское имя, французское название или число.
func ParseRiskLevel(s string) (RiskLevel, error) {
	s = strings.TrimSpace(s)
	for l, n := range levelNames {
		if strings.EqualFold(s, n) || strings.EqualFold(s, levelLabels[l]) {
			return l, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && RiskLevel(n).Valid() {
		return RiskLevel(n), nil
	}
	return 0, InvalidInput("risk level", "unknown level %q", s)
}

func (l RiskLevel) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, InvalidInput("risk level", "cannot encode %d", int(l))
	}
	return json.Marshal(l.String())
}

func (l *RiskLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return InvalidInput("risk level", "expected string or number")
		}
		s = strconv.Itoa(n)
	}
	v, err := ParseRiskLevel(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Matrix сопоставляет паре (тяжесть, вероятность) уровень риска. Строки -
// тяжесть 1..4, столбцы - вероятность 1..4. Матрица из NewMatrix полная.
type Matrix struct {
	cells [MaxScale][MaxScale]RiskLevel
}

// DefaultMatrix - эталонная матрица EBIOS RM.
var DefaultMatrix = mustMatrix([][]int{
	{1, 1, 2, 2},
	{1, 2, 2, 3},
	{2, 2, 3, 4},
	{2, 3, 4, 4},
})

func mustMatrix(rows [][]int) Matrix {
	m, err := NewMatrix(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMatrix проверяет, что заданы все 16 клеток и уровни лежат в 1..4.
func NewMatrix(rows [][]int) (Matrix, error) {
	var m Matrix
	if len(rows) != int(MaxScale) {
		return m, InvalidInput("matrix", "expected %d gravity rows, got %d", MaxScale, len(rows))
	}
	for g, row := range rows {
		if len(row) != int(MaxScale) {
			return m, InvalidInput("matrix", "gravity row %d has %d cells, expected %d", g+1, len(row), MaxScale)
		}
		for l, v := range row {
			if !RiskLevel(v).Valid() {
				return m, InvalidInput("matrix", "cell (%d,%d) holds %d", g+1, l+1, v)
			}
			m.cells[g][l] = RiskLevel(v)
		}
	}
	return m, nil
}

// ParseMatrix читает "1,1,2,2;1,2,2,3;2,2,3,4;2,3,4,4" (строки по тяжести).
func ParseMatrix(s string) (Matrix, error) {
	var rows [][]int
	for _, rawRow := range strings.Split(strings.TrimSpace(s), ";") {
		var row []int
		for _, rawCell := range strings.Split(rawRow, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(rawCell))
			if err != nil {
				return Matrix{}, InvalidInput("matrix", "cell %q is not a number", rawCell)
			}
			row = append(row, n)
		}
		rows = append(rows, row)
	}
	return NewMatrix(rows)
}

func (m Matrix) Rows() [][]int {
	rows := make([][]int, MaxScale)
	for g := range rows {
		rows[g] = make([]int, MaxScale)
		for l := range rows[g] {
			rows[g][l] = int(m.cells[g][l])
		}
	}
	return rows
}

func (m Matrix) String() string {
	parts := make([]string, 0, MaxScale)
	for _, row := range m.Rows() {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = strconv.Itoa(v)
		}
		parts = append(parts, strings.Join(cells, ","))
	}
	return strings.Join(parts, ";")
}

func (m Matrix) Lookup(gravity, likelihood Scale) (RiskLevel, error) {
	return RiskLevelOf(gravity, likelihood, m)
}

func RiskLevelOf(gravity, likelihood Scale, m Matrix) (RiskLevel, error) {
	if err := gravity.Check("gravity"); err != nil {
		return 0, err
	}
	if err := likelihood.Check("likelihood"); err != nil {
		return 0, err
	}
	l := m.cells[gravity-1][likelihood-1]
	if !l.Valid() {
		// нулевая Matrix{} не проходила через NewMatrix
		return 0, fmt.Errorf("%w: matrix cell (%d,%d) undefined", ErrInvalidInput, gravity, likelihood)
	}
	return l, nil
}
