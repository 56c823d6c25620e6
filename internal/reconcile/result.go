package reconcile

import (
	"errors"

	"catalogsync/internal/model"
)

var (
	// ErrLowConfidence blocks persistence of an unclassified record.
	ErrLowConfidence = errors.New("product type is unknown; refusing to persist without an explicit kind")
	// ErrSupplierResolution means no supplier id could be obtained. The
	// relationship and history steps are skipped.
	ErrSupplierResolution = errors.New("supplier resolution failed")
)

type Step string

const (
	StepClassify     Step = "classify"
	StepSupplier     Step = "supplier"
	StepEntry        Step = "catalog_entry"
	StepRelationship Step = "relationship"
	StepPriceHistory Step = "price_history"
	StepStockHistory Step = "stock_history"
)

type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string { return string(e.Step) + ": " + e.Err.Error() }

func (e *StepError) Unwrap() error { return e.Err }

// HistoryOutcome reports one history write. When Skipped is set, Record is
// the existing same-day row and Reason says why nothing was written.
type HistoryOutcome struct {
	Record  *model.HistoryRecord `json:"record,omitempty"`
	Skipped bool                 `json:"skipped"`
	Reason  string               `json:"reason,omitempty"`
}

// Result collects what each step produced. Failed steps are listed in
// Errors; steps that did not depend on them still ran.
type Result struct {
	SupplierInfo      model.SupplierInfo          `json:"supplier_info"`
	Supplier          *model.Supplier             `json:"supplier,omitempty"`
	Entry             *model.CatalogEntry         `json:"entry,omitempty"`
	EntryIsNew        bool                        `json:"entry_is_new"`
	Relationship      *model.SupplierRelationship `json:"relationship,omitempty"`
	RelationshipIsNew bool                        `json:"relationship_is_new"`
	Price             *HistoryOutcome             `json:"price_history,omitempty"`
	Stock             *HistoryOutcome             `json:"stock_history,omitempty"`
	Errors            []*StepError                `json:"-"`
}

func (r *Result) fail(step Step, err error) {
	r.Errors = append(r.Errors, &StepError{Step: step, Err: err})
}

// Err joins every step error, or returns nil.
func (r *Result) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// ErrorMessages is the JSON friendly form of Errors.
func (r *Result) ErrorMessages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Error())
	}
	return out
}
