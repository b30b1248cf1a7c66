package fiado

import (
	"testing"
	"time"

	"salonflow-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	ref := ParseReference("Fiado - Maria Silva - parcela 2/6")
	require.NotNil(t, ref)
	assert.Equal(t, "Maria Silva", ref.ClientName)
	assert.Equal(t, 2, ref.InstallmentNumber)
	assert.Equal(t, 6, ref.TotalInstallments)
}

func TestParseReferenceCaseInsensitive(t *testing.T) {
	ref := ParseReference("FIADO - João - PARCELA 1/3")
	require.NotNil(t, ref)
	assert.Equal(t, "João", ref.ClientName)
	assert.Equal(t, 1, ref.InstallmentNumber)
	assert.Equal(t, 3, ref.TotalInstallments)
}

func TestParseReferenceLooseSpacing(t *testing.T) {
	ref := ParseReference("  fiado-Ana Costa-parcela 3 / 12 ")
	require.NotNil(t, ref)
	assert.Equal(t, "Ana Costa", ref.ClientName)
	assert.Equal(t, 3, ref.InstallmentNumber)
	assert.Equal(t, 12, ref.TotalInstallments)
}

func TestParseReferenceNonMatching(t *testing.T) {
	for _, description := range []string{
		"",
		"Corte de cabelo",
		"Fiado - Maria Silva",
		"Fiado - Maria - parcela x/6",
		"parcela 2/6",
	} {
		assert.Nil(t, ParseReference(description), "description %q", description)
	}
}

func TestResolveSale(t *testing.T) {
	sales := []models.CreditSale{
		{ID: uuid.New(), ClientName: "Maria Silva", NumberOfInstallments: 3},
		{ID: uuid.New(), ClientName: "Maria Silva", NumberOfInstallments: 6},
		{ID: uuid.New(), ClientName: "Ana Costa", NumberOfInstallments: 6},
	}

	ref := &Reference{ClientName: "maria silva", InstallmentNumber: 2, TotalInstallments: 6}
	sale := ResolveSale(ref, sales)

	require.NotNil(t, sale)
	assert.Equal(t, sales[1].ID, sale.ID, "matches on name and installment count, case-insensitive")
}

func TestResolveSaleFirstMatchWins(t *testing.T) {
	sales := []models.CreditSale{
		{ID: uuid.New(), ClientName: "Maria Silva", NumberOfInstallments: 6},
		{ID: uuid.New(), ClientName: "Maria Silva", NumberOfInstallments: 6},
	}

	ref := &Reference{ClientName: "Maria Silva", InstallmentNumber: 1, TotalInstallments: 6}
	sale := ResolveSale(ref, sales)

	require.NotNil(t, sale)
	assert.Equal(t, sales[0].ID, sale.ID)
}

func TestResolveSaleMiss(t *testing.T) {
	sales := []models.CreditSale{
		{ID: uuid.New(), ClientName: "Maria Silva", NumberOfInstallments: 6},
	}

	ref := &Reference{ClientName: "Unknown", InstallmentNumber: 1, TotalInstallments: 3}
	assert.Nil(t, ResolveSale(ref, sales))
	assert.Nil(t, ResolveSale(nil, sales))
	assert.Nil(t, ResolveSale(ref, nil))
}

func TestResolveInstallments(t *testing.T) {
	saleID := uuid.New()
	otherSaleID := uuid.New()
	due := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	// Shuffled on purpose; plus one installment from another sale
	installments := []models.Installment{
		{ID: uuid.New(), CreditSaleID: saleID, InstallmentNumber: 5, DueDate: due},
		{ID: uuid.New(), CreditSaleID: saleID, InstallmentNumber: 2, DueDate: due},
		{ID: uuid.New(), CreditSaleID: otherSaleID, InstallmentNumber: 1, DueDate: due},
		{ID: uuid.New(), CreditSaleID: saleID, InstallmentNumber: 1, DueDate: due},
		{ID: uuid.New(), CreditSaleID: saleID, InstallmentNumber: 6, DueDate: due},
		{ID: uuid.New(), CreditSaleID: saleID, InstallmentNumber: 4, DueDate: due},
		{ID: uuid.New(), CreditSaleID: saleID, InstallmentNumber: 3, DueDate: due},
	}

	sale := &models.CreditSale{ID: saleID, ClientName: "Maria Silva", NumberOfInstallments: 6}
	ref := &Reference{ClientName: "Maria Silva", InstallmentNumber: 2, TotalInstallments: 6}

	resolved := ResolveInstallments(ref, sale, installments)

	require.NotNil(t, resolved.Current)
	assert.Equal(t, 2, resolved.Current.InstallmentNumber)

	require.Len(t, resolved.Others, 5)
	want := []int{1, 3, 4, 5, 6}
	for i, inst := range resolved.Others {
		assert.Equal(t, want[i], inst.InstallmentNumber)
		assert.Equal(t, saleID, inst.CreditSaleID)
	}
}

func TestResolveInstallmentsNumberNotInSchedule(t *testing.T) {
	saleID := uuid.New()
	sale := &models.CreditSale{ID: saleID, NumberOfInstallments: 2}
	installments := []models.Installment{
		{ID: uuid.New(), CreditSaleID: saleID, InstallmentNumber: 1},
		{ID: uuid.New(), CreditSaleID: saleID, InstallmentNumber: 2},
	}

	ref := &Reference{InstallmentNumber: 9, TotalInstallments: 2}
	resolved := ResolveInstallments(ref, sale, installments)

	assert.Nil(t, resolved.Current)
	assert.Len(t, resolved.Others, 2)
}

func TestResolveInstallmentsNilInputs(t *testing.T) {
	resolved := ResolveInstallments(nil, nil, nil)
	assert.Nil(t, resolved.Current)
	assert.Empty(t, resolved.Others)
}

func TestParseProductList(t *testing.T) {
	entries := ParseProductList("Shampoo (2x), Escova, Máscara Capilar (3x)")

	require.Len(t, entries, 3)
	assert.Equal(t, ProductEntry{Name: "Shampoo", Quantity: 2}, entries[0])
	assert.Equal(t, ProductEntry{Name: "Escova", Quantity: 1}, entries[1])
	assert.Equal(t, ProductEntry{Name: "Máscara Capilar", Quantity: 3}, entries[2])
}

func TestParseProductListEdgeCases(t *testing.T) {
	assert.Nil(t, ParseProductList(""))
	assert.Nil(t, ParseProductList(" , , "))

	entries := ParseProductList("Creme (abc), Gel (0x)")
	require.Len(t, entries, 2)
	// Malformed suffix stays part of the name
	assert.Equal(t, ProductEntry{Name: "Creme (abc)", Quantity: 1}, entries[0])
	assert.Equal(t, ProductEntry{Name: "Gel", Quantity: 0}, entries[1])
}

func TestFormatReferenceRoundTrip(t *testing.T) {
	ref := Reference{ClientName: "Maria Silva", InstallmentNumber: 2, TotalInstallments: 6}
	description := FormatReference(ref)
	assert.Equal(t, "Fiado - Maria Silva - parcela 2/6", description)

	parsed := ParseReference(description)
	require.NotNil(t, parsed)
	assert.Equal(t, ref, *parsed)
}
