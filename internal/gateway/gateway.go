// Package gateway is the abstraction boundary over the remote persistence
// API. It owns field-name translation (camelCase domain vs snake_case backend
// columns) and result/error normalization; nothing above it ever sees wire
// shapes.
package gateway

import (
	"context"
	"time"

	"flowcrm/internal/model"
	"flowcrm/internal/stage"
)

// DealPatch is a partial deal update. Nil fields are left unchanged.
type DealPatch struct {
	Title             *string
	Value             *float64
	Stage             *stage.Stage
	ExpectedCloseDate *string
	ContactID         *int
	CompanyID         *int
	Notes             *string
}

// StageMove reassigns one deal to a new stage, used by bulk pipeline moves.
type StageMove struct {
	ID    int
	Stage stage.Stage
}

type DealRepository interface {
	List(ctx context.Context) ([]model.Deal, error)
	Get(ctx context.Context, id int) (model.Deal, error)
	Create(ctx context.Context, d model.Deal) (model.Deal, error)
	Update(ctx context.Context, id int, p DealPatch) (model.Deal, error)
	// MoveStage applies stage moves as one batch write. On partial failure it
	// returns the records that succeeded together with a PartialError naming
	// the ones that did not.
	MoveStage(ctx context.Context, moves []StageMove) ([]model.Deal, error)
	Delete(ctx context.Context, id int) error
}

type ContactPatch struct {
	Name      *string
	Email     *string
	Phone     *string
	JobTitle  *string
	CompanyID *int
	Notes     *string
}

type ContactRepository interface {
	List(ctx context.Context) ([]model.Contact, error)
	Get(ctx context.Context, id int) (model.Contact, error)
	Create(ctx context.Context, c model.Contact) (model.Contact, error)
	Update(ctx context.Context, id int, p ContactPatch) (model.Contact, error)
	Delete(ctx context.Context, id int) error
}

type CompanyPatch struct {
	Name     *string
	Industry *string
	Website  *string
	Phone    *string
	Address  *string
	Notes    *string
}

type CompanyRepository interface {
	List(ctx context.Context) ([]model.Company, error)
	Get(ctx context.Context, id int) (model.Company, error)
	Create(ctx context.Context, c model.Company) (model.Company, error)
	Update(ctx context.Context, id int, p CompanyPatch) (model.Company, error)
	Delete(ctx context.Context, id int) error
}

type ActivityPatch struct {
	Type        *model.ActivityType
	Description *string
	Date        *time.Time
	DealID      *int
	ContactID   *int
	CompanyID   *int
}

type ActivityRepository interface {
	List(ctx context.Context) ([]model.Activity, error)
	Get(ctx context.Context, id int) (model.Activity, error)
	Create(ctx context.Context, a model.Activity) (model.Activity, error)
	Update(ctx context.Context, id int, p ActivityPatch) (model.Activity, error)
	Delete(ctx context.Context, id int) error
}

// Gateway bundles the per-entity repositories. It is passed down explicitly
// (screens never reach for a package-level client), so tests substitute a
// fake without touching globals.
type Gateway struct {
	Deals      DealRepository
	Contacts   ContactRepository
	Companies  CompanyRepository
	Activities ActivityRepository
}
