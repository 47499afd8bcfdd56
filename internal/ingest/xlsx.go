// Package ingest converts raw customer workbooks into the bulk dataset
// file consumed at startup.
package ingest

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/bh-assurance/agent-cli/internal/model"
)

// Sheet names expected in the source workbook.
const (
	SheetIndividuals   = "individuals"
	SheetOrganizations = "organizations"
	SheetContracts     = "contracts"
	SheetClaims        = "claims"
	SheetGuarantees    = "guarantees"
)

// IndividualRecord is an individual with its dataset id.
type IndividualRecord struct {
	ID string `json:"id"`
	model.Individual
}

// OrganizationRecord is an organization with its dataset id.
type OrganizationRecord struct {
	ID string `json:"id"`
	model.Organization
}

// Dataset is the converted workbook, shaped like the bulk dataset file.
type Dataset struct {
	Individuals   []IndividualRecord   `json:"individuals"`
	Organizations []OrganizationRecord `json:"organizations"`
	Contracts     []model.Contract     `json:"contracts"`
	Claims        []model.Claim        `json:"claims"`
	Guarantees    []model.Guarantee    `json:"guarantees"`
}

// ConvertWorkbook reads an XLSX workbook and converts its sheets into a
// dataset. Sheets are matched by name; a missing sheet yields an empty
// section. Rows with no id (or no contract number for joins) are
// skipped.
func ConvertWorkbook(path string) (*Dataset, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}

	ds := &Dataset{}

	for _, row := range sheetRows(f, SheetIndividuals) {
		id := row.str("id")
		if id == "" {
			continue
		}
		ds.Individuals = append(ds.Individuals, IndividualRecord{
			ID: id,
			Individual: model.Individual{
				FullName:      row.str("full_name"),
				BirthDate:     row.date("birth_date"),
				Sex:           row.str("sex"),
				MaritalStatus: row.str("marital_status"),
				Profession:    row.str("profession"),
				Sector:        row.str("sector"),
				Location:      row.str("location"),
			},
		})
	}

	for _, row := range sheetRows(f, SheetOrganizations) {
		id := row.str("id")
		if id == "" {
			continue
		}
		ds.Organizations = append(ds.Organizations, OrganizationRecord{
			ID: id,
			Organization: model.Organization{
				RegisteredName: row.str("registered_name"),
				TaxID:          row.str("tax_id"),
				Activity:       row.str("activity"),
				Sector:         row.str("sector"),
				Location:       row.str("location"),
			},
		})
	}

	for _, row := range sheetRows(f, SheetContracts) {
		if row.str("number") == "" {
			continue
		}
		ds.Contracts = append(ds.Contracts, model.Contract{
			OwnerID:        row.str("owner_id"),
			Number:         row.str("number"),
			Product:        row.str("product"),
			Branch:         row.str("branch"),
			EffectiveDate:  row.date("effective_date"),
			ExpiryDate:     row.date("expiry_date"),
			NextDueDate:    row.date("next_due_date"),
			Status:         row.str("status"),
			InsuredCapital: row.num("insured_capital"),
			PremiumsPaid:   row.num("premiums_paid"),
			PaymentStatus:  model.PaymentStatus(strings.ToLower(row.str("payment_status"))),
		})
	}

	for _, row := range sheetRows(f, SheetClaims) {
		if row.str("contract_number") == "" {
			continue
		}
		ds.Claims = append(ds.Claims, model.Claim{
			ContractNumber:     row.str("contract_number"),
			Number:             row.str("number"),
			Nature:             row.str("nature"),
			Type:               row.str("type"),
			ResponsibilityRate: row.num("responsibility_rate"),
			OccurredAt:         row.date("occurred_at"),
			DeclaredAt:         row.date("declared_at"),
			OpenedAt:           row.date("opened_at"),
			Status:             row.str("status"),
			AmountCollected:    row.num("amount_collected"),
			AmountPending:      row.num("amount_pending"),
		})
	}

	for _, row := range sheetRows(f, SheetGuarantees) {
		if row.str("contract_number") == "" {
			continue
		}
		ds.Guarantees = append(ds.Guarantees, model.Guarantee{
			ContractNumber: row.str("contract_number"),
			Code:           row.str("code"),
			Label:          row.str("label"),
			InsuredCapital: row.num("insured_capital"),
		})
	}

	return ds, nil
}

// WriteJSON writes the dataset to path in the bulk dataset format.
func (ds *Dataset) WriteJSON(path string) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return eris.Wrap(err, "ingest: marshal dataset")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "ingest: write %s", path)
	}
	return nil
}

// record maps a row's cells by lowercased header name.
type record map[string]string

func (r record) str(key string) string {
	return strings.TrimSpace(r[key])
}

func (r record) num(key string) float64 {
	v, err := strconv.ParseFloat(r.str(key), 64)
	if err != nil {
		return 0
	}
	return v
}

func (r record) date(key string) time.Time {
	s := r.str(key)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// sheetRows returns the sheet's data rows as header-keyed records. The
// first row is the header; sheet names match case-insensitively.
func sheetRows(f *xlsx.File, name string) []record {
	var sheet *xlsx.Sheet
	for _, s := range f.Sheets {
		if strings.EqualFold(s.Name, name) {
			sheet = s
			break
		}
	}
	if sheet == nil || len(sheet.Rows) < 2 {
		return nil
	}

	header := make([]string, len(sheet.Rows[0].Cells))
	for j, cell := range sheet.Rows[0].Cells {
		header[j] = strings.ToLower(strings.TrimSpace(cell.String()))
	}

	var out []record
	for _, row := range sheet.Rows[1:] {
		rec := record{}
		for j, cell := range row.Cells {
			if j < len(header) && header[j] != "" {
				rec[header[j]] = cell.String()
			}
		}
		if len(rec) > 0 {
			out = append(out, rec)
		}
	}
	return out
}
