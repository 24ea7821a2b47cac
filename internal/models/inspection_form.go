package models

import (
	"time"

	"github.com/google/uuid"
)

type FormType string

const (
	FormTypeSMT FormType = "SMT"
	FormTypeTH  FormType = "TH"
)

func (t FormType) Valid() bool {
	return t == FormTypeSMT || t == FormTypeTH
}

type FormStatus string

const (
	FormStatusDraft     FormStatus = "draft"
	FormStatusSubmitted FormStatus = "submitted"
)

func (s FormStatus) Valid() bool {
	return s == FormStatusDraft || s == FormStatusSubmitted
}

// InspectionForm is the aggregate root of one AOI inspection record. It
// exclusively owns its Rejections and BoardData collections; both are
// persisted and deleted together with the form.
type InspectionForm struct {
	ID           uuid.UUID  `json:"id"`
	Date         time.Time  `json:"date"`
	Type         FormType   `json:"type"`
	FormNumber   string     `json:"form_number"`
	FormRev      string     `json:"form_rev"`
	Customer     *string    `json:"customer,omitempty"`
	Assembly     *string    `json:"assembly,omitempty"`
	JobNumber    *string    `json:"job_number,omitempty"`
	Revision     *string    `json:"revision,omitempty"`
	PanelsCount  int        `json:"panels_count"`
	BoardsCount  int        `json:"boards_count"`
	Inspector    *string    `json:"inspector,omitempty"`
	QtyInspected int        `json:"qty_inspected"`
	QtyRejected  int        `json:"qty_rejected"`
	QtyAccepted  int        `json:"qty_accepted"`
	Comments     *string    `json:"comments,omitempty"`
	Status       FormStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Rejections []Rejection   `json:"rejections"`
	BoardData  []BoardRecord `json:"board_data"`
}

// Rejection is one defect line item on a form. ProblemName is resolved from
// the catalog on read; it is never stored on the row itself.
type Rejection struct {
	ID                   uuid.UUID `json:"id"`
	FormID               uuid.UUID `json:"form_id"`
	Quantity             int       `json:"quantity"`
	ProblemCode          int       `json:"problem_code"`
	ProblemName          string    `json:"problem_name,omitempty"`
	ReferenceDesignators string    `json:"reference_designators"`
}

// BoardRecord carries optional per-board detail. A record only exists when at
// least one of its fields is populated.
type BoardRecord struct {
	ID                   uuid.UUID `json:"id"`
	FormID               uuid.UUID `json:"form_id"`
	BoardID              *string   `json:"board_id"`
	ReferenceDesignators *string   `json:"reference_designators"`
	ProblemCode          *int      `json:"problem_code"`
	ProblemName          *string   `json:"problem_name"`
	Comments             *string   `json:"comments"`
}

// Prepare assigns ids to the form and its child rows and links the children
// back to their owner.
func (f *InspectionForm) Prepare() {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	for i := range f.Rejections {
		if f.Rejections[i].ID == uuid.Nil {
			f.Rejections[i].ID = uuid.New()
		}
		f.Rejections[i].FormID = f.ID
	}
	for i := range f.BoardData {
		if f.BoardData[i].ID == uuid.Nil {
			f.BoardData[i].ID = uuid.New()
		}
		f.BoardData[i].FormID = f.ID
	}
}
