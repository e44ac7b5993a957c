package copystatus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{Available, OnLoan, true},
		{Available, Maintenance, true},
		{Available, Lost, true},
		{OnLoan, Available, true},
		{OnLoan, Lost, true},
		{OnLoan, Maintenance, false},
		{Maintenance, Available, true},
		{Maintenance, OnLoan, false},
		{Lost, Available, true},
		{Lost, OnLoan, false},
		{Lost, Lost, true},
		{Available, Status("borrowed"), false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestManualTransition_RejectsLoanManagedState(t *testing.T) {
	err := ManualTransition(Available, OnLoan)
	require.Error(t, err)

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, Available, te.From)
	assert.Equal(t, OnLoan, te.To)

	assert.Error(t, ManualTransition(OnLoan, Available))
	assert.NoError(t, ManualTransition(OnLoan, OnLoan))
	assert.NoError(t, ManualTransition(Available, Maintenance))
	assert.Error(t, ManualTransition(Maintenance, Status("")))
}

func TestInitial(t *testing.T) {
	assert.True(t, Initial(Available))
	assert.True(t, Initial(Maintenance))
	assert.True(t, Initial(Lost))
	assert.False(t, Initial(OnLoan))
	assert.False(t, Initial(Status("gone")))
}
