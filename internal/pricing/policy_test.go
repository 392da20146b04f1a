package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/rangbhumi-booking/internal/model"
)

func TestPolicyPrice(t *testing.T) {
	p := Default()

	assert.Equal(t, 50, p.Price("A1"))
	assert.Equal(t, 50, p.Price("A10"))
	assert.Equal(t, 30, p.Price("B1"))
	assert.Equal(t, 30, p.Price("E10"))
	assert.Equal(t, 30, p.Price("garbage"))
}

func TestPolicyTotal(t *testing.T) {
	p := Default()

	assert.Equal(t, 60, p.Total([]string{"B1", "B2"}))
	assert.Equal(t, 80, p.Total([]string{"A3", "C4"}))
	assert.Equal(t, 0, p.Total(nil))
}

func TestNewPolicyNormalisesRows(t *testing.T) {
	p := NewPolicy([]string{" a", "C", ""}, 10, 25)

	assert.True(t, p.IsVIP("A4"))
	assert.True(t, p.IsVIP("C1"))
	assert.False(t, p.IsVIP("B1"))
	assert.Equal(t, []string{"A", "C"}, p.Rows(model.DefaultLayout))
}
