// Package settlement keeps a transaction's subtotal, discount, total and
// payment allocations mutually consistent while any one of them is edited,
// and validates that the allocations settle the total before commit.
//
// Amounts travel as locale-formatted text ("130,00") because that is what
// the payment form holds; arithmetic is done on decimals and results are
// always written back with exactly two decimal places.
package settlement

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods offered by the register form, in the order used when
// picking a default for a new allocation.
const (
	MethodCash     = "dinheiro"
	MethodCard     = "cartao"
	MethodPix      = "pix"
	MethodTransfer = "transferencia"
)

var defaultMethods = []string{MethodCash, MethodCard, MethodPix, MethodTransfer}

// MaxAllocations is how many payment slices a single transaction may have.
const MaxAllocations = 2

// Tolerance is the largest acceptable difference between the allocated sum
// and the transaction total at submit time: one cent.
var Tolerance = decimal.New(1, -2)

// Allocation is one method/amount slice of an in-progress settlement.
// Amount holds the literal text the user typed; an unparseable value
// counts as zero until the next program-driven overwrite.
type Allocation struct {
	ID     string
	Method string
	Amount string
}

// NewAllocation returns a single full-settlement allocation for a fresh form.
func NewAllocation(total decimal.Decimal) Allocation {
	return Allocation{
		ID:     uuid.NewString(),
		Method: MethodCash,
		Amount: FormatAmount(total),
	}
}

// ParseAmount converts locale text with a comma decimal separator to a
// decimal. Anything that does not parse counts as zero.
func ParseAmount(text string) decimal.Decimal {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders a decimal as locale text with a comma separator and
// exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}

// ComputeTotal derives the amount due from subtotal and discount.
// A negative discount is treated as zero, and the total never goes below
// zero when the discount exceeds the subtotal.
func ComputeTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Rebalance realigns allocation amounts after the total changed (item set
// edited, discount edited). With one allocation its amount becomes the
// total. With two, the first keeps whatever the user typed and the second
// absorbs the remainder, floored at zero. Calling it again with the same
// total is a no-op.
func Rebalance(allocations []Allocation, total decimal.Decimal) []Allocation {
	out := append([]Allocation(nil), allocations...)
	switch len(out) {
	case 1:
		out[0].Amount = FormatAmount(total)
	case 2:
		first := ParseAmount(out[0].Amount)
		out[1].Amount = FormatAmount(clampZero(total.Sub(first)))
	}
	return out
}

// EditAmount applies a user edit to one allocation's amount field. The
// edited entry keeps the literal text, including intermediate input like
// "4," so typing is never fought. When a second allocation exists its
// amount is recomputed as the remainder.
func EditAmount(allocations []Allocation, index int, text string, total decimal.Decimal) []Allocation {
	out := append([]Allocation(nil), allocations...)
	if index < 0 || index >= len(out) {
		return out
	}
	out[index].Amount = text
	if len(out) == 2 {
		other := 1 - index
		edited := ParseAmount(text)
		out[other].Amount = FormatAmount(clampZero(total.Sub(edited)))
	}
	return out
}

// Add appends a second allocation covering whatever the existing ones do
// not, with a default method not already in use.
func Add(allocations []Allocation, total decimal.Decimal) ([]Allocation, error) {
	if len(allocations) >= MaxAllocations {
		return allocations, ErrTooManyAllocations
	}

	used := make(map[string]bool, len(allocations))
	for _, a := range allocations {
		used[a.Method] = true
	}
	method := defaultMethods[0]
	for _, m := range defaultMethods {
		if !used[m] {
			method = m
			break
		}
	}

	remaining := total
	for _, a := range allocations {
		remaining = remaining.Sub(ParseAmount(a.Amount))
	}

	out := append([]Allocation(nil), allocations...)
	out = append(out, Allocation{
		ID:     uuid.NewString(),
		Method: method,
		Amount: FormatAmount(clampZero(remaining)),
	})
	return out, nil
}

// Remove drops the allocation with the given id. A sole survivor is forced
// back to full settlement of the total.
func Remove(allocations []Allocation, id string, total decimal.Decimal) []Allocation {
	out := make([]Allocation, 0, len(allocations))
	for _, a := range allocations {
		if a.ID != id {
			out = append(out, a)
		}
	}
	if len(out) == 1 {
		out[0].Amount = FormatAmount(total)
	}
	return out
}

// Sum returns the parsed sum of all allocation amounts.
func Sum(allocations []Allocation) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range allocations {
		sum = sum.Add(ParseAmount(a.Amount))
	}
	return sum
}

// JoinMethods renders the allocation methods as the stored payment-method
// summary, e.g. "dinheiro + pix".
func JoinMethods(allocations []Allocation) string {
	methods := make([]string, 0, len(allocations))
	for _, a := range allocations {
		if a.Method != "" {
			methods = append(methods, a.Method)
		}
	}
	return strings.Join(methods, " + ")
}

// ValidateForSubmit checks that the allocations can settle the total. It
// never mutates the allocations; a failed validation leaves the form
// editable for the user to correct and resubmit.
func ValidateForSubmit(allocations []Allocation, total decimal.Decimal) error {
	complete := false
	for _, a := range allocations {
		if a.Method != "" && ParseAmount(a.Amount).IsPositive() {
			complete = true
			break
		}
	}
	if !complete {
		return ErrIncompleteAllocation
	}

	paid := Sum(allocations)
	if paid.Sub(total).Abs().GreaterThan(Tolerance) {
		return &AmountMismatchError{Paid: paid, Expected: total}
	}
	return nil
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// AmountMismatchError reports a paid/expected divergence beyond the
// one-cent tolerance, carrying both values for the user-facing message.
type AmountMismatchError struct {
	Paid     decimal.Decimal
	Expected decimal.Decimal
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("allocated amount %s does not match total %s",
		FormatAmount(e.Paid), FormatAmount(e.Expected))
}
