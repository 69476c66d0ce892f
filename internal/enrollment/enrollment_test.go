package enrollment

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotal_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(KnownTotal(1020))
	require.NoError(t, err)
	assert.Equal(t, "1020", string(data))

	data, err = json.Marshal(UnknownTotal())
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestAgeBucket(t *testing.T) {
	tests := []struct {
		age  int
		want int
	}{
		{16, 18},
		{18, 18},
		{19, 19},
		{29, 29},
		{30, 30},
		{34, 30},
		{35, 35},
		{39, 35},
		{40, 40},
		{67, 40},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("age %d", tt.age), func(t *testing.T) {
			assert.Equal(t, tt.want, AgeBucket(tt.age))
		})
	}
}

func TestNewHistograms(t *testing.T) {
	ages := NewAgeHistogram([15]int{5, 3, 2, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 7})
	assert.Len(t, ages, 15)
	assert.Equal(t, 5, ages[18])
	assert.Equal(t, 1, ages[30])
	assert.Equal(t, 7, ages[40])
	assert.Equal(t, 19, ages.Sum())

	channels := NewChannelHistogram([6]int{0, 0, 10, 5, 0, 3})
	assert.Len(t, channels, 6)
	assert.Equal(t, 10, channels["F.P."])
	assert.Equal(t, 3, channels["Otros"])
	assert.Equal(t, 18, channels.Sum())
}

func TestDegree_JSONShape(t *testing.T) {
	d := NewDegree(KnownTotal(30))
	d.Hombres.Total = 12
	d.Hombres.ViaAcceso = NewChannelHistogram([6]int{10, 0, 0, 0, 1, 1})
	d.Mujeres.Total = 18

	data, err := json.Marshal(Report{"GRADO EN X": d})
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	degree := decoded["GRADO EN X"]
	assert.EqualValues(t, 30, degree["total"])

	hombres := degree["hombres"].(map[string]any)
	assert.Contains(t, hombres, "via_acceso")
	assert.NotContains(t, hombres, "edades")

	mujeres := degree["mujeres"].(map[string]any)
	assert.NotContains(t, mujeres, "via_acceso")
}

func TestDegree_Sex(t *testing.T) {
	d := NewDegree(UnknownTotal())
	assert.Same(t, &d.Hombres, d.Sex(Hombres))
	assert.Same(t, &d.Mujeres, d.Sex(Mujeres))
	assert.Nil(t, d.Sex("otros"))
}

func TestReport_Programs(t *testing.T) {
	r := Report{
		"GRADO EN HISTORIA":  NewDegree(UnknownTotal()),
		"GRADO EN BIOLOGIA":  NewDegree(UnknownTotal()),
		"GRADO EN FILOSOFIA": NewDegree(UnknownTotal()),
	}
	assert.Equal(t, []string{"GRADO EN BIOLOGIA", "GRADO EN FILOSOFIA", "GRADO EN HISTORIA"}, r.Programs())
}

func TestErrorPredicates(t *testing.T) {
	inconsistent := fmt.Errorf("access pass: %w", &InconsistentTotalsError{
		Program: "GRADO EN X",
		Have:    KnownTotal(50),
		Got:     UnknownTotal(),
	})
	assert.True(t, IsInconsistentTotals(inconsistent))
	assert.False(t, IsMalformedRow(inconsistent))
	assert.Contains(t, inconsistent.Error(), "50 already recorded, report gives unknown")

	unparseable := fmt.Errorf("ages pass: %w", &UnparseableNumberError{Row: 12, Column: 7, Text: "n/a"})
	assert.True(t, IsUnparseableNumber(unparseable))
	assert.Contains(t, unparseable.Error(), `row 12 column 7: cannot parse "n/a"`)

	assert.True(t, IsMalformedRow(&MalformedRowError{Row: 3, Reason: "too few cells"}))
}
