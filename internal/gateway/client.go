package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"flowcrm/internal/model"

	"go.uber.org/zap"
)

// Client talks to the hosted record API. Every response uses the same
// envelope:
//
//	{ "success": bool, "message": "...", "data": ..., "results": [...] }
//
// Top-level success:false is a hard failure. For batch writes, per-record
// outcomes arrive in results[]; failed entries are reported while successful
// ones are still returned.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		// The client timeout also bounds a drag commit: a hung update fails
		// instead of pinning the board in Committing forever.
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// NewGateway wires the per-entity repositories onto one client.
func NewGateway(c *Client) Gateway {
	return Gateway{
		Deals:      dealRepo{c},
		Contacts:   contactRepo{c},
		Companies:  companyRepo{c},
		Activities: activityRepo{c},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Results []wireResult    `json:"results,omitempty"`
}

type wireResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) do(ctx context.Context, op, method, path string, body any) (int, envelope, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, envelope{}, TransportError{Op: op, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return 0, envelope{}, TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("gateway request failed", zap.String("op", op), zap.Error(err))
		return 0, envelope{}, TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, envelope{}, TransportError{
			Op:      op,
			Message: fmt.Sprintf("bad response (status %d)", resp.StatusCode),
			Err:     err,
		}
	}

	c.log.Debug("gateway request",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Bool("success", env.Success),
		zap.Duration("dur", time.Since(start)))

	return resp.StatusCode, env, nil
}

func notFoundMessage(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "not found")
}

func (c *Client) fetchList(ctx context.Context, table string) ([]wireRecord, error) {
	op := table + ".list"
	_, env, err := c.do(ctx, op, http.MethodGet, "/api/"+table, nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, TransportError{Op: op, Message: env.Message}
	}
	// "No rows" is success with an empty (or absent) data array, never an
	// error.
	if len(env.Data) == 0 {
		return []wireRecord{}, nil
	}
	var records []wireRecord
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, TransportError{Op: op, Err: err}
	}
	if records == nil {
		records = []wireRecord{}
	}
	return records, nil
}

func (c *Client) fetchOne(ctx context.Context, table, kind string, id int) (wireRecord, error) {
	op := table + ".get"
	status, env, err := c.do(ctx, op, http.MethodGet, fmt.Sprintf("/api/%s/%d", table, id), nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		if status == http.StatusNotFound || notFoundMessage(env.Message) {
			return nil, NotFoundError{Kind: kind, ID: id}
		}
		return nil, TransportError{Op: op, Message: env.Message}
	}
	var r wireRecord
	if err := json.Unmarshal(env.Data, &r); err != nil {
		return nil, TransportError{Op: op, Err: err}
	}
	return r, nil
}

// writeRecords executes a batch create or update and splits the results[]
// into succeeded records and a PartialError for the rest.
func (c *Client) writeRecords(ctx context.Context, op, method, path, kind string, records []wireRecord) ([]wireRecord, error) {
	_, env, err := c.do(ctx, op, method, path, map[string]any{"records": records})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, TransportError{Op: op, Message: env.Message}
	}

	ok := make([]wireRecord, 0, len(env.Results))
	var failed []RecordError
	for i, res := range env.Results {
		if !res.Success {
			re := RecordError{Message: res.Message}
			if i < len(records) {
				re.ID = wireInt(records[i], "id")
			}
			failed = append(failed, re)
			continue
		}
		var r wireRecord
		if err := json.Unmarshal(res.Data, &r); err != nil {
			return nil, TransportError{Op: op, Err: err}
		}
		ok = append(ok, r)
	}
	if len(failed) > 0 {
		return ok, PartialError{Kind: kind, Failed: failed}
	}
	return ok, nil
}

func (c *Client) createRecord(ctx context.Context, table, kind string, r wireRecord) (wireRecord, error) {
	out, err := c.writeRecords(ctx, table+".create", http.MethodPost, "/api/"+table, kind, []wireRecord{r})
	return firstRecord(table+".create", kind, 0, out, err)
}

func (c *Client) updateRecord(ctx context.Context, table, kind string, id int, r wireRecord) (wireRecord, error) {
	out, err := c.writeRecords(ctx, table+".update", http.MethodPatch, "/api/"+table, kind, []wireRecord{r})
	return firstRecord(table+".update", kind, id, out, err)
}

// firstRecord collapses a single-record batch result. A lone per-record
// failure mentioning a missing row becomes NotFound; anything else stays a
// hard failure for the one record the caller asked about.
func firstRecord(op, kind string, id int, out []wireRecord, err error) (wireRecord, error) {
	if err != nil {
		var pe PartialError
		if asPartial(err, &pe) && len(pe.Failed) == 1 {
			if notFoundMessage(pe.Failed[0].Message) {
				return nil, NotFoundError{Kind: kind, ID: id}
			}
			return nil, TransportError{Op: op, Message: pe.Failed[0].Message}
		}
		return nil, err
	}
	if len(out) == 0 {
		return nil, TransportError{Op: op, Message: "empty result"}
	}
	return out[0], nil
}

func asPartial(err error, target *PartialError) bool {
	pe, ok := err.(PartialError)
	if ok {
		*target = pe
	}
	return ok
}

func (c *Client) deleteRecords(ctx context.Context, table, kind string, ids []int) error {
	op := table + ".delete"
	status, env, err := c.do(ctx, op, http.MethodPost, "/api/"+table+"/delete", map[string]any{"ids": ids})
	if err != nil {
		return err
	}
	if !env.Success {
		if status == http.StatusNotFound || notFoundMessage(env.Message) {
			id := 0
			if len(ids) == 1 {
				id = ids[0]
			}
			return NotFoundError{Kind: kind, ID: id}
		}
		return TransportError{Op: op, Message: env.Message}
	}
	var failed []RecordError
	for i, res := range env.Results {
		if res.Success {
			continue
		}
		re := RecordError{Message: res.Message}
		if i < len(ids) {
			re.ID = ids[i]
		}
		failed = append(failed, re)
	}
	if len(failed) == 1 && len(ids) == 1 && notFoundMessage(failed[0].Message) {
		return NotFoundError{Kind: kind, ID: ids[0]}
	}
	if len(failed) > 0 {
		return PartialError{Kind: kind, Failed: failed}
	}
	return nil
}

type dealRepo struct{ c *Client }

func (r dealRepo) List(ctx context.Context) ([]model.Deal, error) {
	records, err := r.c.fetchList(ctx, tableDeals)
	if err != nil {
		return nil, err
	}
	deals := make([]model.Deal, 0, len(records))
	for _, rec := range records {
		d, err := dealFromWire(rec)
		if err != nil {
			return nil, TransportError{Op: "deals.list", Err: err}
		}
		deals = append(deals, d)
	}
	return deals, nil
}

func (r dealRepo) Get(ctx context.Context, id int) (model.Deal, error) {
	rec, err := r.c.fetchOne(ctx, tableDeals, "deal", id)
	if err != nil {
		return model.Deal{}, err
	}
	d, err := dealFromWire(rec)
	if err != nil {
		return model.Deal{}, TransportError{Op: "deals.get", Err: err}
	}
	return d, nil
}

func (r dealRepo) Create(ctx context.Context, d model.Deal) (model.Deal, error) {
	rec, err := r.c.createRecord(ctx, tableDeals, "deal", dealToWire(d))
	if err != nil {
		return model.Deal{}, err
	}
	out, err := dealFromWire(rec)
	if err != nil {
		return model.Deal{}, TransportError{Op: "deals.create", Err: err}
	}
	return out, nil
}

func (r dealRepo) Update(ctx context.Context, id int, p DealPatch) (model.Deal, error) {
	rec, err := r.c.updateRecord(ctx, tableDeals, "deal", id, p.toWire(id))
	if err != nil {
		return model.Deal{}, err
	}
	out, err := dealFromWire(rec)
	if err != nil {
		return model.Deal{}, TransportError{Op: "deals.update", Err: err}
	}
	return out, nil
}

func (r dealRepo) MoveStage(ctx context.Context, moves []StageMove) ([]model.Deal, error) {
	records := make([]wireRecord, 0, len(moves))
	for _, mv := range moves {
		records = append(records, wireRecord{"id": mv.ID, "stage": string(mv.Stage)})
	}
	out, werr := r.c.writeRecords(ctx, "deals.move", http.MethodPatch, "/api/"+tableDeals, "deal", records)
	deals := make([]model.Deal, 0, len(out))
	for _, rec := range out {
		d, err := dealFromWire(rec)
		if err != nil {
			return nil, TransportError{Op: "deals.move", Err: err}
		}
		deals = append(deals, d)
	}
	return deals, werr
}

func (r dealRepo) Delete(ctx context.Context, id int) error {
	return r.c.deleteRecords(ctx, tableDeals, "deal", []int{id})
}

type contactRepo struct{ c *Client }

func (r contactRepo) List(ctx context.Context) ([]model.Contact, error) {
	records, err := r.c.fetchList(ctx, tableContacts)
	if err != nil {
		return nil, err
	}
	contacts := make([]model.Contact, 0, len(records))
	for _, rec := range records {
		c, err := contactFromWire(rec)
		if err != nil {
			return nil, TransportError{Op: "contacts.list", Err: err}
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func (r contactRepo) Get(ctx context.Context, id int) (model.Contact, error) {
	rec, err := r.c.fetchOne(ctx, tableContacts, "contact", id)
	if err != nil {
		return model.Contact{}, err
	}
	return contactFromWire(rec)
}

func (r contactRepo) Create(ctx context.Context, c model.Contact) (model.Contact, error) {
	rec, err := r.c.createRecord(ctx, tableContacts, "contact", contactToWire(c))
	if err != nil {
		return model.Contact{}, err
	}
	return contactFromWire(rec)
}

func (r contactRepo) Update(ctx context.Context, id int, p ContactPatch) (model.Contact, error) {
	rec, err := r.c.updateRecord(ctx, tableContacts, "contact", id, p.toWire(id))
	if err != nil {
		return model.Contact{}, err
	}
	return contactFromWire(rec)
}

func (r contactRepo) Delete(ctx context.Context, id int) error {
	return r.c.deleteRecords(ctx, tableContacts, "contact", []int{id})
}

type companyRepo struct{ c *Client }

func (r companyRepo) List(ctx context.Context) ([]model.Company, error) {
	records, err := r.c.fetchList(ctx, tableCompanies)
	if err != nil {
		return nil, err
	}
	companies := make([]model.Company, 0, len(records))
	for _, rec := range records {
		c, err := companyFromWire(rec)
		if err != nil {
			return nil, TransportError{Op: "companies.list", Err: err}
		}
		companies = append(companies, c)
	}
	return companies, nil
}

func (r companyRepo) Get(ctx context.Context, id int) (model.Company, error) {
	rec, err := r.c.fetchOne(ctx, tableCompanies, "company", id)
	if err != nil {
		return model.Company{}, err
	}
	return companyFromWire(rec)
}

func (r companyRepo) Create(ctx context.Context, c model.Company) (model.Company, error) {
	rec, err := r.c.createRecord(ctx, tableCompanies, "company", companyToWire(c))
	if err != nil {
		return model.Company{}, err
	}
	return companyFromWire(rec)
}

func (r companyRepo) Update(ctx context.Context, id int, p CompanyPatch) (model.Company, error) {
	rec, err := r.c.updateRecord(ctx, tableCompanies, "company", id, p.toWire(id))
	if err != nil {
		return model.Company{}, err
	}
	return companyFromWire(rec)
}

func (r companyRepo) Delete(ctx context.Context, id int) error {
	return r.c.deleteRecords(ctx, tableCompanies, "company", []int{id})
}

type activityRepo struct{ c *Client }

func (r activityRepo) List(ctx context.Context) ([]model.Activity, error) {
	records, err := r.c.fetchList(ctx, tableActivities)
	if err != nil {
		return nil, err
	}
	activities := make([]model.Activity, 0, len(records))
	for _, rec := range records {
		a, err := activityFromWire(rec)
		if err != nil {
			return nil, TransportError{Op: "activities.list", Err: err}
		}
		activities = append(activities, a)
	}
	return activities, nil
}

func (r activityRepo) Get(ctx context.Context, id int) (model.Activity, error) {
	rec, err := r.c.fetchOne(ctx, tableActivities, "activity", id)
	if err != nil {
		return model.Activity{}, err
	}
	return activityFromWire(rec)
}

func (r activityRepo) Create(ctx context.Context, a model.Activity) (model.Activity, error) {
	rec, err := r.c.createRecord(ctx, tableActivities, "activity", activityToWire(a))
	if err != nil {
		return model.Activity{}, err
	}
	return activityFromWire(rec)
}

func (r activityRepo) Update(ctx context.Context, id int, p ActivityPatch) (model.Activity, error) {
	rec, err := r.c.updateRecord(ctx, tableActivities, "activity", id, p.toWire(id))
	if err != nil {
		return model.Activity{}, err
	}
	return activityFromWire(rec)
}

func (r activityRepo) Delete(ctx context.Context, id int) error {
	return r.c.deleteRecords(ctx, tableActivities, "activity", []int{id})
}
