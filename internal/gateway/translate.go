package gateway

import (
	"fmt"
	"time"

	"flowcrm/internal/model"
	"flowcrm/internal/stage"
)

// Backend tables store snake_case columns; the domain model is camelCase.
// Translation lives here and only here.

type wireRecord map[string]any

const (
	tableDeals      = "deals"
	tableContacts   = "contacts"
	tableCompanies  = "companies"
	tableActivities = "activities"
)

func wireString(r wireRecord, key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

func wireFloat(r wireRecord, key string) float64 {
	// encoding/json decodes all numbers into float64.
	if v, ok := r[key].(float64); ok {
		return v
	}
	return 0
}

func wireInt(r wireRecord, key string) int {
	// Records we build for a request hold Go ints, not decoded float64s.
	if v, ok := r[key].(int); ok {
		return v
	}
	return int(wireFloat(r, key))
}

func wireIntPtr(r wireRecord, key string) *int {
	if v, ok := r[key].(float64); ok {
		n := int(v)
		return &n
	}
	return nil
}

func wireTime(r wireRecord, key string) time.Time {
	s := wireString(r, key)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func dealFromWire(r wireRecord) (model.Deal, error) {
	st := stage.Stage(wireString(r, "stage"))
	if st != "" && !stage.Valid(st) {
		return model.Deal{}, fmt.Errorf("deal %d: unknown stage %q", wireInt(r, "id"), st)
	}
	return model.Deal{
		ID:                wireInt(r, "id"),
		Title:             wireString(r, "title"),
		Value:             wireFloat(r, "value"),
		Stage:             st,
		ExpectedCloseDate: wireString(r, "expected_close_date"),
		ContactID:         wireIntPtr(r, "contact_id"),
		CompanyID:         wireIntPtr(r, "company_id"),
		Notes:             wireString(r, "notes"),
		CreatedAt:         wireTime(r, "created_at"),
		UpdatedAt:         wireTime(r, "updated_at"),
	}, nil
}

// dealToWire carries only client-writable fields; ids and timestamps are the
// backend's to assign.
func dealToWire(d model.Deal) wireRecord {
	r := wireRecord{
		"title":               d.Title,
		"value":               d.Value,
		"stage":               string(d.Stage),
		"expected_close_date": d.ExpectedCloseDate,
		"notes":               d.Notes,
	}
	if d.ContactID != nil {
		r["contact_id"] = *d.ContactID
	}
	if d.CompanyID != nil {
		r["company_id"] = *d.CompanyID
	}
	return r
}

func (p DealPatch) toWire(id int) wireRecord {
	r := wireRecord{"id": id}
	if p.Title != nil {
		r["title"] = *p.Title
	}
	if p.Value != nil {
		r["value"] = *p.Value
	}
	if p.Stage != nil {
		r["stage"] = string(*p.Stage)
	}
	if p.ExpectedCloseDate != nil {
		r["expected_close_date"] = *p.ExpectedCloseDate
	}
	if p.ContactID != nil {
		r["contact_id"] = *p.ContactID
	}
	if p.CompanyID != nil {
		r["company_id"] = *p.CompanyID
	}
	if p.Notes != nil {
		r["notes"] = *p.Notes
	}
	return r
}

func contactFromWire(r wireRecord) (model.Contact, error) {
	return model.Contact{
		ID:        wireInt(r, "id"),
		Name:      wireString(r, "name"),
		Email:     wireString(r, "email"),
		Phone:     wireString(r, "phone"),
		JobTitle:  wireString(r, "job_title"),
		CompanyID: wireIntPtr(r, "company_id"),
		Notes:     wireString(r, "notes"),
		CreatedAt: wireTime(r, "created_at"),
		UpdatedAt: wireTime(r, "updated_at"),
	}, nil
}

func contactToWire(c model.Contact) wireRecord {
	r := wireRecord{
		"name":      c.Name,
		"email":     c.Email,
		"phone":     c.Phone,
		"job_title": c.JobTitle,
		"notes":     c.Notes,
	}
	if c.CompanyID != nil {
		r["company_id"] = *c.CompanyID
	}
	return r
}

func (p ContactPatch) toWire(id int) wireRecord {
	r := wireRecord{"id": id}
	if p.Name != nil {
		r["name"] = *p.Name
	}
	if p.Email != nil {
		r["email"] = *p.Email
	}
	if p.Phone != nil {
		r["phone"] = *p.Phone
	}
	if p.JobTitle != nil {
		r["job_title"] = *p.JobTitle
	}
	if p.CompanyID != nil {
		r["company_id"] = *p.CompanyID
	}
	if p.Notes != nil {
		r["notes"] = *p.Notes
	}
	return r
}

func companyFromWire(r wireRecord) (model.Company, error) {
	return model.Company{
		ID:        wireInt(r, "id"),
		Name:      wireString(r, "name"),
		Industry:  wireString(r, "industry"),
		Website:   wireString(r, "website"),
		Phone:     wireString(r, "phone"),
		Address:   wireString(r, "address"),
		Notes:     wireString(r, "notes"),
		CreatedAt: wireTime(r, "created_at"),
		UpdatedAt: wireTime(r, "updated_at"),
	}, nil
}

func companyToWire(c model.Company) wireRecord {
	return wireRecord{
		"name":     c.Name,
		"industry": c.Industry,
		"website":  c.Website,
		"phone":    c.Phone,
		"address":  c.Address,
		"notes":    c.Notes,
	}
}

func (p CompanyPatch) toWire(id int) wireRecord {
	r := wireRecord{"id": id}
	if p.Name != nil {
		r["name"] = *p.Name
	}
	if p.Industry != nil {
		r["industry"] = *p.Industry
	}
	if p.Website != nil {
		r["website"] = *p.Website
	}
	if p.Phone != nil {
		r["phone"] = *p.Phone
	}
	if p.Address != nil {
		r["address"] = *p.Address
	}
	if p.Notes != nil {
		r["notes"] = *p.Notes
	}
	return r
}

func activityFromWire(r wireRecord) (model.Activity, error) {
	at := model.ActivityType(wireString(r, "type"))
	if at != "" && !model.ValidActivityType(at) {
		return model.Activity{}, fmt.Errorf("activity %d: unknown type %q", wireInt(r, "id"), at)
	}
	return model.Activity{
		ID:          wireInt(r, "id"),
		Type:        at,
		Description: wireString(r, "description"),
		Date:        wireTime(r, "date"),
		DealID:      wireIntPtr(r, "deal_id"),
		ContactID:   wireIntPtr(r, "contact_id"),
		CompanyID:   wireIntPtr(r, "company_id"),
		CreatedAt:   wireTime(r, "created_at"),
	}, nil
}

func (p ActivityPatch) toWire(id int) wireRecord {
	r := wireRecord{"id": id}
	if p.Type != nil {
		r["type"] = string(*p.Type)
	}
	if p.Description != nil {
		r["description"] = *p.Description
	}
	if p.Date != nil {
		r["date"] = p.Date.UTC().Format(time.RFC3339)
	}
	if p.DealID != nil {
		r["deal_id"] = *p.DealID
	}
	if p.ContactID != nil {
		r["contact_id"] = *p.ContactID
	}
	if p.CompanyID != nil {
		r["company_id"] = *p.CompanyID
	}
	return r
}

func activityToWire(a model.Activity) wireRecord {
	r := wireRecord{
		"type":        string(a.Type),
		"description": a.Description,
		"date":        a.Date.UTC().Format(time.RFC3339),
	}
	if a.DealID != nil {
		r["deal_id"] = *a.DealID
	}
	if a.ContactID != nil {
		r["contact_id"] = *a.ContactID
	}
	if a.CompanyID != nil {
		r["company_id"] = *a.CompanyID
	}
	return r
}
