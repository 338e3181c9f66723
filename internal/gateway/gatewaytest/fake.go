// Package gatewaytest provides an in-memory Gateway for tests: board, TUI and
// CLI tests exercise real repository semantics (server-assigned ids and
// timestamps, NotFound, injectable failures) without a network.
package gatewaytest

import (
	"context"
	"sync"
	"time"

	"flowcrm/internal/gateway"
	"flowcrm/internal/model"
)

type Fake struct {
	mu sync.Mutex

	deals      []model.Deal
	contacts   []model.Contact
	companies  []model.Company
	activities []model.Activity

	nextID int

	// failNext maps an op key (e.g. "deals.update") to an error returned by
	// the next matching call.
	failNext map[string]error

	// Calls records op keys in order, for asserting that an operation did or
	// did not reach the gateway.
	Calls []string

	now func() time.Time
}

func New() *Fake {
	return &Fake{
		nextID:   1,
		failNext: map[string]error{},
		now:      time.Now,
	}
}

// SetNow pins the clock used for server-assigned timestamps.
func (f *Fake) SetNow(now func() time.Time) { f.now = now }

// FailNext makes the next call with the given op key return err.
func (f *Fake) FailNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext[op] = err
}

func (f *Fake) Gateway() gateway.Gateway {
	return gateway.Gateway{
		Deals:      fakeDeals{f},
		Contacts:   fakeContacts{f},
		Companies:  fakeCompanies{f},
		Activities: fakeActivities{f},
	}
}

// Seed helpers assign ids the way the backend would.

func (f *Fake) SeedDeal(d model.Deal) model.Deal {
	f.mu.Lock()
	defer f.mu.Unlock()
	d.ID = f.nextID
	f.nextID++
	if d.CreatedAt.IsZero() {
		d.CreatedAt = f.now()
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}
	f.deals = append(f.deals, d)
	return d
}

func (f *Fake) SeedContact(c model.Contact) model.Contact {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.nextID
	f.nextID++
	f.contacts = append(f.contacts, c)
	return c
}

func (f *Fake) SeedCompany(c model.Company) model.Company {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.nextID
	f.nextID++
	f.companies = append(f.companies, c)
	return c
}

func (f *Fake) SeedActivity(a model.Activity) model.Activity {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = f.nextID
	f.nextID++
	if a.CreatedAt.IsZero() {
		a.CreatedAt = f.now()
	}
	f.activities = append(f.activities, a)
	return a
}

func (f *Fake) begin(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, op)
	if err, ok := f.failNext[op]; ok {
		delete(f.failNext, op)
		return err
	}
	return nil
}

// CallCount reports how many recorded calls match op.
func (f *Fake) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}

type fakeDeals struct{ f *Fake }

func (r fakeDeals) List(ctx context.Context) ([]model.Deal, error) {
	if err := r.f.begin("deals.list"); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make([]model.Deal, len(r.f.deals))
	copy(out, r.f.deals)
	return out, nil
}

func (r fakeDeals) Get(ctx context.Context, id int) (model.Deal, error) {
	if err := r.f.begin("deals.get"); err != nil {
		return model.Deal{}, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, d := range r.f.deals {
		if d.ID == id {
			return d, nil
		}
	}
	return model.Deal{}, gateway.NotFoundError{Kind: "deal", ID: id}
}

func (r fakeDeals) Create(ctx context.Context, d model.Deal) (model.Deal, error) {
	if err := r.f.begin("deals.create"); err != nil {
		return model.Deal{}, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	d.ID = r.f.nextID
	r.f.nextID++
	d.CreatedAt = r.f.now()
	d.UpdatedAt = d.CreatedAt
	r.f.deals = append(r.f.deals, d)
	return d, nil
}

func (r fakeDeals) Update(ctx context.Context, id int, p gateway.DealPatch) (model.Deal, error) {
	if err := r.f.begin("deals.update"); err != nil {
		return model.Deal{}, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return r.f.applyDealPatch(id, p)
}

func (f *Fake) applyDealPatch(id int, p gateway.DealPatch) (model.Deal, error) {
	for i := range f.deals {
		if f.deals[i].ID != id {
			continue
		}
		d := &f.deals[i]
		if p.Title != nil {
			d.Title = *p.Title
		}
		if p.Value != nil {
			d.Value = *p.Value
		}
		if p.Stage != nil {
			d.Stage = *p.Stage
		}
		if p.ExpectedCloseDate != nil {
			d.ExpectedCloseDate = *p.ExpectedCloseDate
		}
		if p.ContactID != nil {
			d.ContactID = p.ContactID
		}
		if p.CompanyID != nil {
			d.CompanyID = p.CompanyID
		}
		if p.Notes != nil {
			d.Notes = *p.Notes
		}
		d.UpdatedAt = f.now()
		return *d, nil
	}
	return model.Deal{}, gateway.NotFoundError{Kind: "deal", ID: id}
}

func (r fakeDeals) MoveStage(ctx context.Context, moves []gateway.StageMove) ([]model.Deal, error) {
	if err := r.f.begin("deals.move"); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var ok []model.Deal
	var failed []gateway.RecordError
	for _, mv := range moves {
		st := mv.Stage
		d, err := r.f.applyDealPatch(mv.ID, gateway.DealPatch{Stage: &st})
		if err != nil {
			failed = append(failed, gateway.RecordError{ID: mv.ID, Message: "record not found"})
			continue
		}
		ok = append(ok, d)
	}
	if len(failed) > 0 {
		return ok, gateway.PartialError{Kind: "deal", Failed: failed}
	}
	return ok, nil
}

func (r fakeDeals) Delete(ctx context.Context, id int) error {
	if err := r.f.begin("deals.delete"); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for i := range r.f.deals {
		if r.f.deals[i].ID == id {
			r.f.deals = append(r.f.deals[:i], r.f.deals[i+1:]...)
			return nil
		}
	}
	return gateway.NotFoundError{Kind: "deal", ID: id}
}

type fakeContacts struct{ f *Fake }

func (r fakeContacts) List(ctx context.Context) ([]model.Contact, error) {
	if err := r.f.begin("contacts.list"); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make([]model.Contact, len(r.f.contacts))
	copy(out, r.f.contacts)
	return out, nil
}

func (r fakeContacts) Get(ctx context.Context, id int) (model.Contact, error) {
	if err := r.f.begin("contacts.get"); err != nil {
		return model.Contact{}, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, c := range r.f.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Contact{}, gateway.NotFoundError{Kind: "contact", ID: id}
}

func (r fakeContacts) Create(ctx context.Context, c model.Contact) (model.Contact, error) {
	if err := r.f.begin("contacts.create"); err != nil {
		return model.Contact{}, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	c.ID = r.f.nextID
	r.f.nextID++
	c.CreatedAt = r.f.now()
	c.UpdatedAt = c.CreatedAt
	r.f.contacts = append(r.f.contacts, c)
	return c, nil
}

func (r fakeContacts) Update(ctx context.Context, id int, p gateway.ContactPatch) (model.Contact, error) {
	if err := r.f.begin("contacts.update"); err != nil {
		return model.Contact{}, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for i := range r.f.contacts {
		if r.f.contacts[i].ID != id {
			continue
		}
		c := &r.f.contacts[i]
		if p.Name != nil {
			c.Name = *p.Name
		}
		if p.Email != nil {
			c.Email = *p.Email
		}
		if p.Phone != nil {
			c.Phone = *p.Phone
		}
		if p.JobTitle != nil {
			c.JobTitle = *p.JobTitle
		}
		if p.CompanyID != nil {
			c.CompanyID = p.CompanyID
		}
		if p.Notes != nil {
			c.Notes = *p.Notes
		}
		c.UpdatedAt = r.f.now()
		return *c, nil
	}
	return model.Contact{}, gateway.NotFoundError{Kind: "contact", ID: id}
}

func (r fakeContacts) Delete(ctx context.Context, id int) error {
	if err := r.f.begin("contacts.delete"); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for i := range r.f.contacts {
		if r.f.contacts[i].ID == id {
			r.f.contacts = append(r.f.contacts[:i], r.f.contacts[i+1:]...)
			return nil
		}
	}
	return gateway.NotFoundError{Kind: "contact", ID: id}
}

type fakeCompanies struct{ f *Fake }

func (r fakeCompanies) List(ctx context.Context) ([]model.Company, error) {
	if err := r.f.begin("companies.list"); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make([]model.Company, len(r.f.companies))
	copy(out, r.f.companies)
	return out, nil
}

func (r fakeCompanies) Get(ctx context.Context, id int) (model.Company, error) {
	if err := r.f.begin("companies.get"); err != nil {
		return model.Company{}, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, c := range r.f.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Company{}, gateway.NotFoundError{Kind: "company", ID: id}
}

func (r fakeCompanies) Create(ctx context.Context, c model.Company) (model.Company, error) {
	if err := r.f.begin("companies.create"); err != nil {
		return model.Company{}, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	c.ID = r.f.nextID
	r.f.nextID++
	c.CreatedAt = r.f.now()
	c.UpdatedAt = c.CreatedAt
	r.f.companies = append(r.f.companies, c)
	return c, nil
}

func (r fakeCompanies) Update(ctx context.Context, id int, p gateway.CompanyPatch) (model.Company, error) {
	if err := r.f.begin("companies.update"); err != nil {
		return model.Company{}, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for i := range r.f.companies {
		if r.f.companies[i].ID != id {
			continue
		}
		c := &r.f.companies[i]
		if p.Name != nil {
			c.Name = *p.Name
		}
		if p.Industry != nil {
			c.Industry = *p.Industry
		}
		if p.Website != nil {
			c.Website = *p.Website
		}
		if p.Phone != nil {
			c.Phone = *p.Phone
		}
		if p.Address != nil {
			c.Address = *p.Address
		}
		if p.Notes != nil {
			c.Notes = *p.Notes
		}
		c.UpdatedAt = r.f.now()
		return *c, nil
	}
	return model.Company{}, gateway.NotFoundError{Kind: "company", ID: id}
}

func (r fakeCompanies) Delete(ctx context.Context, id int) error {
	if err := r.f.begin("companies.delete"); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for i := range r.f.companies {
		if r.f.companies[i].ID == id {
			r.f.companies = append(r.f.companies[:i], r.f.companies[i+1:]...)
			return nil
		}
	}
	return gateway.NotFoundError{Kind: "company", ID: id}
}

type fakeActivities struct{ f *Fake }

func (r fakeActivities) List(ctx context.Context) ([]model.Activity, error) {
	if err := r.f.begin("activities.list"); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make([]model.Activity, len(r.f.activities))
	copy(out, r.f.activities)
	return out, nil
}

func (r fakeActivities) Get(ctx context.Context, id int) (model.Activity, error) {
	if err := r.f.begin("activities.get"); err != nil {
		return model.Activity{}, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, a := range r.f.activities {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Activity{}, gateway.NotFoundError{Kind: "activity", ID: id}
}

func (r fakeActivities) Create(ctx context.Context, a model.Activity) (model.Activity, error) {
	if err := r.f.begin("activities.create"); err != nil {
		return model.Activity{}, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	a.ID = r.f.nextID
	r.f.nextID++
	a.CreatedAt = r.f.now()
	r.f.activities = append(r.f.activities, a)
	return a, nil
}

func (r fakeActivities) Update(ctx context.Context, id int, p gateway.ActivityPatch) (model.Activity, error) {
	if err := r.f.begin("activities.update"); err != nil {
		return model.Activity{}, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for i := range r.f.activities {
		if r.f.activities[i].ID != id {
			continue
		}
		a := &r.f.activities[i]
		if p.Type != nil {
			a.Type = *p.Type
		}
		if p.Description != nil {
			a.Description = *p.Description
		}
		if p.Date != nil {
			a.Date = *p.Date
		}
		if p.DealID != nil {
			a.DealID = p.DealID
		}
		if p.ContactID != nil {
			a.ContactID = p.ContactID
		}
		if p.CompanyID != nil {
			a.CompanyID = p.CompanyID
		}
		return *a, nil
	}
	return model.Activity{}, gateway.NotFoundError{Kind: "activity", ID: id}
}

func (r fakeActivities) Delete(ctx context.Context, id int) error {
	if err := r.f.begin("activities.delete"); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for i := range r.f.activities {
		if r.f.activities[i].ID == id {
			r.f.activities = append(r.f.activities[:i], r.f.activities[i+1:]...)
			return nil
		}
	}
	return gateway.NotFoundError{Kind: "activity", ID: id}
}
