package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		discount string
		want     string
	}{
		{"no discount", "150.00", "0", "150"},
		{"regular discount", "150.00", "20.00", "130"},
		{"discount equals subtotal", "80.00", "80.00", "0"},
		{"discount exceeds subtotal", "50.00", "70.00", "0"},
		{"negative discount treated as zero", "100.00", "-10.00", "100"},
		{"zero subtotal", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotal(dec(tt.subtotal), dec(tt.discount))
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseAmount(t *testing.T) {
	assert.True(t, ParseAmount("123,45").Equal(dec("123.45")))
	assert.True(t, ParseAmount("  40,00 ").Equal(dec("40")))
	assert.True(t, ParseAmount("1000").Equal(dec("1000")))

	// Unparseable input counts as zero
	assert.True(t, ParseAmount("").IsZero())
	assert.True(t, ParseAmount("abc").IsZero())
	assert.True(t, ParseAmount("12,34,56").IsZero())
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, s := range []string{"123,45", "0,00", "130,00", "0,01", "99999,99"} {
		parsed := ParseAmount(s)
		assert.Equal(t, s, FormatAmount(parsed), "round-trip of %q", s)
	}
}

func TestRebalanceSingleAllocation(t *testing.T) {
	allocs := []Allocation{{ID: "a", Method: MethodCash, Amount: "10,00"}}

	out := Rebalance(allocs, dec("130.00"))

	require.Len(t, out, 1)
	assert.Equal(t, "130,00", out[0].Amount)
	// Input slice untouched
	assert.Equal(t, "10,00", allocs[0].Amount)
}

func TestRebalanceTwoAllocations(t *testing.T) {
	allocs := []Allocation{
		{ID: "a", Method: MethodCash, Amount: "40,00"},
		{ID: "b", Method: MethodPix, Amount: "10,00"},
	}

	out := Rebalance(allocs, dec("100.00"))

	require.Len(t, out, 2)
	assert.Equal(t, "40,00", out[0].Amount, "first allocation keeps its amount")
	assert.Equal(t, "60,00", out[1].Amount, "second absorbs the remainder")
}

func TestRebalanceClampsSecondToZero(t *testing.T) {
	allocs := []Allocation{
		{ID: "a", Method: MethodCash, Amount: "150,00"},
		{ID: "b", Method: MethodPix, Amount: "10,00"},
	}

	out := Rebalance(allocs, dec("100.00"))
	assert.Equal(t, "0,00", out[1].Amount)
}

func TestRebalanceIdempotent(t *testing.T) {
	allocs := []Allocation{
		{ID: "a", Method: MethodCash, Amount: "40,00"},
		{ID: "b", Method: MethodPix, Amount: "99,99"},
	}
	total := dec("100.00")

	once := Rebalance(allocs, total)
	twice := Rebalance(once, total)

	assert.Equal(t, once, twice)
}

func TestEditAmount(t *testing.T) {
	allocs := []Allocation{
		{ID: "a", Method: MethodCash, Amount: "50,00"},
		{ID: "b", Method: MethodCard, Amount: "50,00"},
	}

	out := EditAmount(allocs, 0, "40,00", dec("100.00"))
	require.Len(t, out, 2)
	assert.Equal(t, "40,00", out[0].Amount)
	assert.Equal(t, "60,00", out[1].Amount)

	// Editing the second recomputes the first
	out = EditAmount(out, 1, "75,50", dec("100.00"))
	assert.Equal(t, "24,50", out[0].Amount)
	assert.Equal(t, "75,50", out[1].Amount)
}

func TestEditAmountKeepsPartialInput(t *testing.T) {
	allocs := []Allocation{
		{ID: "a", Method: MethodCash, Amount: "50,00"},
		{ID: "b", Method: MethodCard, Amount: "50,00"},
	}

	// "4," is mid-typing; it parses as 4 and stays verbatim in the field
	out := EditAmount(allocs, 0, "4,", dec("100.00"))
	assert.Equal(t, "4,", out[0].Amount)
	assert.Equal(t, "96,00", out[1].Amount)
}

func TestEditAmountSingleAllocationNoCounterbalance(t *testing.T) {
	allocs := []Allocation{{ID: "a", Method: MethodCash, Amount: "100,00"}}

	out := EditAmount(allocs, 0, "70,00", dec("100.00"))
	require.Len(t, out, 1)
	assert.Equal(t, "70,00", out[0].Amount)
}

func TestEditAmountIndexOutOfRange(t *testing.T) {
	allocs := []Allocation{{ID: "a", Method: MethodCash, Amount: "100,00"}}
	out := EditAmount(allocs, 3, "1,00", dec("100.00"))
	assert.Equal(t, allocs, out)
}

func TestAdd(t *testing.T) {
	allocs := []Allocation{{ID: "a", Method: MethodCash, Amount: "40,00"}}

	out, err := Add(allocs, dec("100.00"))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.NotEqual(t, MethodCash, out[1].Method, "default method not already in use")
	assert.Equal(t, "60,00", out[1].Amount)
	assert.NotEmpty(t, out[1].ID)
}

func TestAddRefusedAtMax(t *testing.T) {
	allocs := []Allocation{
		{ID: "a", Method: MethodCash, Amount: "40,00"},
		{ID: "b", Method: MethodPix, Amount: "60,00"},
	}

	out, err := Add(allocs, dec("100.00"))
	assert.ErrorIs(t, err, ErrTooManyAllocations)
	assert.Equal(t, allocs, out)
}

func TestAddClampsNegativeRemainder(t *testing.T) {
	allocs := []Allocation{{ID: "a", Method: MethodCash, Amount: "120,00"}}

	out, err := Add(allocs, dec("100.00"))
	require.NoError(t, err)
	assert.Equal(t, "0,00", out[1].Amount)
}

func TestRemove(t *testing.T) {
	allocs := []Allocation{
		{ID: "a", Method: MethodCash, Amount: "40,00"},
		{ID: "b", Method: MethodPix, Amount: "60,00"},
	}

	out := Remove(allocs, "b", dec("100.00"))
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "100,00", out[0].Amount, "survivor forced to full settlement")
}

func TestRemoveUnknownID(t *testing.T) {
	allocs := []Allocation{
		{ID: "a", Method: MethodCash, Amount: "40,00"},
		{ID: "b", Method: MethodPix, Amount: "60,00"},
	}

	out := Remove(allocs, "zzz", dec("100.00"))
	assert.Equal(t, allocs, out)
}

func TestValidateForSubmit(t *testing.T) {
	total := dec("100.00")

	t.Run("ok single", func(t *testing.T) {
		err := ValidateForSubmit([]Allocation{
			{ID: "a", Method: MethodCash, Amount: "100,00"},
		}, total)
		assert.NoError(t, err)
	})

	t.Run("ok split", func(t *testing.T) {
		err := ValidateForSubmit([]Allocation{
			{ID: "a", Method: MethodCash, Amount: "40,00"},
			{ID: "b", Method: MethodPix, Amount: "60,00"},
		}, total)
		assert.NoError(t, err)
	})

	t.Run("within one cent tolerance", func(t *testing.T) {
		err := ValidateForSubmit([]Allocation{
			{ID: "a", Method: MethodCash, Amount: "99,99"},
		}, total)
		assert.NoError(t, err)
	})

	t.Run("amount mismatch", func(t *testing.T) {
		err := ValidateForSubmit([]Allocation{
			{ID: "a", Method: MethodCash, Amount: "99,00"},
		}, total)

		var mismatch *AmountMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.True(t, mismatch.Paid.Equal(dec("99")), "paid %s", mismatch.Paid)
		assert.True(t, mismatch.Expected.Equal(dec("100.00")))
	})

	t.Run("incomplete when no method", func(t *testing.T) {
		err := ValidateForSubmit([]Allocation{
			{ID: "a", Method: "", Amount: "100,00"},
		}, total)
		assert.ErrorIs(t, err, ErrIncompleteAllocation)
	})

	t.Run("incomplete when amount not positive", func(t *testing.T) {
		err := ValidateForSubmit([]Allocation{
			{ID: "a", Method: MethodCash, Amount: "0,00"},
			{ID: "b", Method: MethodPix, Amount: "abc"},
		}, total)
		assert.ErrorIs(t, err, ErrIncompleteAllocation)
	})

	t.Run("no allocations", func(t *testing.T) {
		err := ValidateForSubmit(nil, total)
		assert.ErrorIs(t, err, ErrIncompleteAllocation)
	})
}

func TestRegisterScenario(t *testing.T) {
	// subtotal 150,00 with 20,00 discount: one allocation defaults to 130,00
	total := ComputeTotal(dec("150.00"), dec("20.00"))
	assert.True(t, total.Equal(dec("130.00")))

	alloc := NewAllocation(total)
	assert.Equal(t, "130,00", alloc.Amount)
	assert.Equal(t, MethodCash, alloc.Method)
	require.NoError(t, ValidateForSubmit([]Allocation{alloc}, total))
}

func TestJoinMethods(t *testing.T) {
	assert.Equal(t, "dinheiro + pix", JoinMethods([]Allocation{
		{Method: MethodCash}, {Method: MethodPix},
	}))
	assert.Equal(t, "cartao", JoinMethods([]Allocation{{Method: MethodCard}}))
	assert.Equal(t, "", JoinMethods(nil))
}
