// Package fiado resolves credit-sale payment transactions back to their
// originating sale and installment schedule.
//
// Older rows encode the link only in the free-text description
// ("Fiado - Maria Silva - parcela 2/6"); newer rows carry the same data in
// structured columns. Either way a lookup miss is ordinary, not an error:
// most transactions are not credit-sale payments, and the caller falls
// back to the raw transaction fields.
package fiado

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"salonflow-backend/models"
)

var referencePattern = regexp.MustCompile(`(?i)^\s*fiado\s*-\s*(.+?)\s*-\s*parcela\s*(\d+)\s*/\s*(\d+)\s*$`)

// Reference identifies one installment payment of a credit sale.
type Reference struct {
	ClientName        string
	InstallmentNumber int
	TotalInstallments int
}

// ParseReference decodes a transaction description of the form
// "Fiado - <client> - parcela <N>/<M>" (case-insensitive). It returns nil
// when the description does not match.
func ParseReference(description string) *Reference {
	m := referencePattern.FindStringSubmatch(description)
	if m == nil {
		return nil
	}
	number, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}
	total, err := strconv.Atoi(m[3])
	if err != nil {
		return nil
	}
	return &Reference{
		ClientName:        m[1],
		InstallmentNumber: number,
		TotalInstallments: total,
	}
}

// ResolveSale finds the credit sale a reference points at: same client name
// (case-insensitive) and same installment count. The first match wins; two
// sales for the same client with the same installment count are not
// disambiguated further. Returns nil when nothing matches.
func ResolveSale(ref *Reference, sales []models.CreditSale) *models.CreditSale {
	if ref == nil {
		return nil
	}
	for i := range sales {
		if strings.EqualFold(sales[i].ClientName, ref.ClientName) &&
			sales[i].NumberOfInstallments == ref.TotalInstallments {
			return &sales[i]
		}
	}
	return nil
}

// ResolvedInstallments is the sale's schedule partitioned around the
// installment a reference paid.
type ResolvedInstallments struct {
	Current *models.Installment
	Others  []models.Installment
}

// ResolveInstallments filters the installments belonging to the sale, sorts
// them by installment number and splits out the one the reference paid.
// Current stays nil when the referenced number is not in the schedule.
func ResolveInstallments(ref *Reference, sale *models.CreditSale, installments []models.Installment) ResolvedInstallments {
	var resolved ResolvedInstallments
	if ref == nil || sale == nil {
		return resolved
	}

	mine := make([]models.Installment, 0, len(installments))
	for _, inst := range installments {
		if inst.CreditSaleID == sale.ID {
			mine = append(mine, inst)
		}
	}
	sort.Slice(mine, func(i, j int) bool {
		return mine[i].InstallmentNumber < mine[j].InstallmentNumber
	})

	for i := range mine {
		if mine[i].InstallmentNumber == ref.InstallmentNumber {
			current := mine[i]
			resolved.Current = &current
			continue
		}
		resolved.Others = append(resolved.Others, mine[i])
	}
	return resolved
}

// ProductEntry is one decoded item of a credit sale's product list.
type ProductEntry struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

var quantitySuffix = regexp.MustCompile(`^(.*?)\s*\((\d+)x\)$`)

// ParseProductList decodes a comma-joined product string such as
// "Shampoo (2x), Escova". A missing "(Nx)" suffix means quantity 1.
func ParseProductList(text string) []ProductEntry {
	var entries []ProductEntry
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		entry := ProductEntry{Name: part, Quantity: 1}
		if m := quantitySuffix.FindStringSubmatch(part); m != nil {
			if qty, err := strconv.Atoi(m[2]); err == nil {
				entry.Name = strings.TrimSpace(m[1])
				entry.Quantity = qty
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// FormatReference renders the legacy description for a new installment
// payment so older clients keep recognizing it.
func FormatReference(ref Reference) string {
	return "Fiado - " + ref.ClientName + " - parcela " +
		strconv.Itoa(ref.InstallmentNumber) + "/" + strconv.Itoa(ref.TotalInstallments)
}
