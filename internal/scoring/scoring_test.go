package scoring

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allScales = []Scale{1, 2, 3, 4}

func TestSeverityIsMaximumOfDICT(t *testing.T) {
	g, err := Severity(DICT{Availability: 2, Integrity: 3, Confidentiality: 1, Traceability: 4})
	require.NoError(t, err)
	assert.Equal(t, Scale(4), g)
}

func TestSeverityRangeAndMonotonic(t *testing.T) {
	for _, a := range allScales {
		for _, b := range allScales {
			for _, c := range allScales {
				for _, d := range allScales {
					base := DICT{a, b, c, d}
					g, err := Severity(base)
					require.NoError(t, err)
					require.True(t, g.Valid())

					bumped := []DICT{
						{min(a+1, 4), b, c, d},
						{a, min(b+1, 4), c, d},
						{a, b, min(c+1, 4), d},
						{a, b, c, min(d+1, 4)},
					}
					for _, up := range bumped {
						g2, err := Severity(up)
						require.NoError(t, err)
						require.GreaterOrEqual(t, g2, g, "severity decreased from %+v to %+v", base, up)
					}
				}
			}
		}
	}
}

func TestSeverityRejectsOutOfRange(t *testing.T) {
	for _, bad := range []Scale{0, 5} {
		_, err := Severity(DICT{Availability: bad, Integrity: 1, Confidentiality: 1, Traceability: 1})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))

		_, err = Severity(DICT{Availability: 1, Integrity: 1, Confidentiality: 1, Traceability: bad})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestCapabilityRoundsMeanHalfUp(t *testing.T) {
	cases := []struct {
		r, d, s Scale
		want    Scale
	}{
		{1, 1, 1, 1},
		{1, 1, 2, 1}, // 1.33
		{1, 2, 2, 2}, // 1.67
		{2, 3, 4, 3},
		{4, 4, 3, 4}, // 3.67
	}
	for _, tc := range cases {
		got, err := Capability(tc.r, tc.d, tc.s)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "capability(%d,%d,%d)", tc.r, tc.d, tc.s)
	}

	_, err := Capability(0, 2, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPertinence(t *testing.T) {
	v, err := Pertinence(3, 2)
	require.NoError(t, err)
	assert.Equal(t, Scale(2), v)

	v, err = Pertinence(1, 1)
	require.NoError(t, err)
	assert.Equal(t, Scale(1), v)

	v, err = Pertinence(4, 4)
	require.NoError(t, err)
	assert.Equal(t, Scale(4), v)

	for _, sr := range allScales {
		for _, ov := range allScales {
			v, err := Pertinence(sr, ov)
			require.NoError(t, err)
			assert.True(t, v.Valid())
		}
	}

	_, err = Pertinence(5, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDefaultMatrixIsTotal(t *testing.T) {
	for _, g := range allScales {
		for _, l := range allScales {
			level, err := RiskLevelOf(g, l, DefaultMatrix)
			require.NoError(t, err)
			assert.True(t, level.Valid(), "(%d,%d)", g, l)
			assert.NotEmpty(t, level.Label())
		}
	}

	level, err := DefaultMatrix.Lookup(4, 4)
	require.NoError(t, err)
	assert.Equal(t, LevelCritical, level)

	level, err = DefaultMatrix.Lookup(2, 4)
	require.NoError(t, err)
	assert.Equal(t, LevelHigh, level)
}

func TestRiskLevelIsIdempotent(t *testing.T) {
	for _, g := range allScales {
		for _, l := range allScales {
			a, err := DefaultMatrix.Lookup(g, l)
			require.NoError(t, err)
			b, err := DefaultMatrix.Lookup(g, l)
			require.NoError(t, err)
			assert.Equal(t, a, b)
		}
	}
}

func TestNewMatrixRejectsGapsAndBadValues(t *testing.T) {
	_, err := NewMatrix([][]int{{1, 1, 2, 2}, {1, 2, 2, 3}, {2, 2, 3, 4}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewMatrix([][]int{{1, 1, 2}, {1, 2, 2, 3}, {2, 2, 3, 4}, {2, 3, 4, 4}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewMatrix([][]int{{1, 1, 2, 2}, {1, 2, 2, 3}, {2, 2, 3, 4}, {2, 3, 4, 5}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = RiskLevelOf(1, 1, Matrix{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseMatrixRoundTrip(t *testing.T) {
	m, err := ParseMatrix(DefaultMatrix.String())
	require.NoError(t, err)
	assert.Equal(t, DefaultMatrix, m)
	assert.Equal(t, "1,1,2,2;1,2,2,3;2,2,3,4;2,3,4,4", m.String())

	_, err = ParseMatrix("1,1,2,2;1,x,2,3;2,2,3,4;2,3,4,4")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRiskLevelJSON(t *testing.T) {
	b, err := json.Marshal(LevelHigh)
	require.NoError(t, err)
	assert.JSONEq(t, `"high"`, string(b))

	var l RiskLevel
	require.NoError(t, json.Unmarshal([]byte(`"Critique"`), &l))
	assert.Equal(t, LevelCritical, l)
	require.NoError(t, json.Unmarshal([]byte(`2`), &l))
	assert.Equal(t, LevelMedium, l)
	assert.Error(t, json.Unmarshal([]byte(`"severe"`), &l))
}

func TestResidualRiskReduceOneStep(t *testing.T) {
	r, err := ResidualRisk(LevelHigh, StrategyReduce, DefaultMitigation)
	require.NoError(t, err)
	assert.Equal(t, LevelMedium, r.Level)
	assert.False(t, r.Transferred)

	r, err = ResidualRisk(LevelLow, StrategyReduce, DefaultMitigation)
	require.NoError(t, err)
	assert.Equal(t, LevelLow, r.Level)

	r, err = ResidualRisk(LevelHigh, StrategyReduce, Mitigation{ReduceSteps: 3})
	require.NoError(t, err)
	assert.Equal(t, LevelLow, r.Level)
}

func TestResidualRiskStrategies(t *testing.T) {
	for _, level := range Levels() {
		accept, err := ResidualRisk(level, StrategyAccept, DefaultMitigation)
		require.NoError(t, err)
		avoid, err := ResidualRisk(level, StrategyAvoid, DefaultMitigation)
		require.NoError(t, err)
		transfer, err := ResidualRisk(level, StrategyTransfer, DefaultMitigation)
		require.NoError(t, err)

		assert.Equal(t, level, accept.Level)
		assert.LessOrEqual(t, avoid.Level, accept.Level)
		assert.Equal(t, LevelLow, avoid.Level)
		assert.Equal(t, level, transfer.Level)
		assert.True(t, transfer.Transferred)
	}

	_, err := ResidualRisk(0, StrategyAccept, DefaultMitigation)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ResidualRisk(LevelHigh, Strategy("ignore"), DefaultMitigation)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ResidualRisk(LevelHigh, StrategyReduce, Mitigation{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("Atténuation")
	require.NoError(t, err)
	assert.Equal(t, StrategyReduce, s)

	s, err = ParseStrategy(" transfer ")
	require.NoError(t, err)
	assert.Equal(t, StrategyTransfer, s)

	_, err = ParseStrategy("mitigate")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResidualFromEfficacy(t *testing.T) {
	l, err := ResidualFromEfficacy(LevelCritical, 0.5)
	require.NoError(t, err)
	assert.Equal(t, LevelMedium, l)

	l, err = ResidualFromEfficacy(LevelMedium, 1)
	require.NoError(t, err)
	assert.Equal(t, LevelLow, l)

	_, err = ResidualFromEfficacy(LevelMedium, 1.2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRankPairsTieBreakOnIdentifiers(t *testing.T) {
	pairs := []Pair{
		{SourceID: "SR2", ObjectiveID: "OV1", SourceScore: 3, ObjectiveScore: 4},
		{SourceID: "SR1", ObjectiveID: "OV2", SourceScore: 4, ObjectiveScore: 3},
	}
	ranked, err := RankPairs(pairs)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, Scale(3), ranked[0].Pertinence)
	assert.Equal(t, Scale(3), ranked[1].Pertinence)
	assert.Equal(t, "SR1", ranked[0].SourceID)
	assert.Equal(t, "OV2", ranked[0].ObjectiveID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankPairsIsPermutationInvariant(t *testing.T) {
	var pairs []Pair
	for i, sr := range []string{"SR1", "SR2", "SR3", "SR4"} {
		for j, ov := range []string{"OV1", "OV2", "OV3"} {
			pairs = append(pairs, Pair{
				SourceID:       sr,
				ObjectiveID:    ov,
				SourceScore:    allScales[(i+j)%4],
				ObjectiveScore: allScales[(i*j)%4],
			})
		}
	}
	want, err := RankPairs(pairs)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 50; n++ {
		shuffled := append([]Pair(nil), pairs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got, err := RankPairs(shuffled)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	for i := 1; i < len(want); i++ {
		assert.GreaterOrEqual(t, want[i-1].Pertinence, want[i].Pertinence)
	}
}

func TestRankPairsRejectsBadInput(t *testing.T) {
	_, err := RankPairs([]Pair{{SourceID: "SR1", ObjectiveID: "OV1", SourceScore: 0, ObjectiveScore: 1}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	dup := Pair{SourceID: "SR1", ObjectiveID: "OV1", SourceScore: 1, ObjectiveScore: 1}
	_, err = RankPairs([]Pair{dup, dup})
	assert.ErrorIs(t, err, ErrInvalidInput)

	ranked, err := RankPairs(nil)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestBuildMatrixIsTotal(t *testing.T) {
	grid, err := BuildMatrix([]Placement{
		{ID: "SS2", Gravity: 4, Likelihood: 3},
		{ID: "SS1", Gravity: 4, Likelihood: 3},
		{ID: "SS3", Gravity: 1, Likelihood: 1},
	}, DefaultMatrix)
	require.NoError(t, err)
	require.Len(t, grid.Cells, 16)

	cell := grid.At(4, 3)
	assert.Equal(t, []string{"SS1", "SS2"}, cell.ScenarioIDs)
	assert.Equal(t, LevelCritical, cell.Level)
	assert.Equal(t, 1, grid.At(1, 1).Count())

	empty := grid.At(2, 2)
	assert.NotNil(t, empty.ScenarioIDs)
	assert.Empty(t, empty.ScenarioIDs)

	var total int
	for _, c := range grid.Cells {
		total += c.Count()
	}
	assert.Equal(t, 3, total)
}

func TestBuildMatrixRejectsOutOfRange(t *testing.T) {
	_, err := BuildMatrix([]Placement{{ID: "SS1", Gravity: 5, Likelihood: 1}}, DefaultMatrix)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPrioritizeTreatmentPlan(t *testing.T) {
	in := []PlannedMeasure{
		{ID: "M3", Residual: LevelMedium, Cost: 100},
		{ID: "M1", Residual: LevelHigh, Cost: 5000},
		{ID: "M4", Residual: LevelHigh, Cost: 1000},
		{ID: "M2", Residual: LevelHigh, Cost: 1000},
		{ID: "M5", Residual: LevelLow, Cost: 0},
	}
	out := PrioritizeTreatmentPlan(in)

	ids := make([]string, len(out))
	for i, m := range out {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"M2", "M4", "M1", "M3", "M5"}, ids)
	assert.Equal(t, "M3", in[0].ID, "input must not be reordered")
}

func TestPhaseAndReview(t *testing.T) {
	p, err := PhaseFor(90)
	require.NoError(t, err)
	assert.Equal(t, PhaseUrgent, p)
	p, err = PhaseFor(91)
	require.NoError(t, err)
	assert.Equal(t, PhaseShortTerm, p)
	p, err = PhaseFor(400)
	require.NoError(t, err)
	assert.Equal(t, PhaseMidTerm, p)
	_, err = PhaseFor(-1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 90, ReviewIntervalDays(LevelHigh))
	assert.Equal(t, 365, ReviewIntervalDays(LevelMedium))
}
