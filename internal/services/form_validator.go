package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"aoi-backend/internal/models"
)

const (
	defaultFormNumber = "Form-114"
	defaultFormRev    = "Rev. 17 (9/9/2025)"

	dateLayout = "2006-01-02"
)

// FormPayload is the inbound submission contract. Numeric fields are typed
// loosely because browser clients send both strings and numbers.
type FormPayload struct {
	Header     HeaderPayload      `json:"header"`
	Job        JobPayload         `json:"job"`
	LotResult  LotResultPayload   `json:"lot_result"`
	Comments   *string            `json:"comments"`
	Status     *string            `json:"status"`
	Rejections []RejectionPayload `json:"rejections"`
	BoardData  []BoardDataPayload `json:"board_data"`
	FormMeta   FormMetaPayload    `json:"form_meta"`
}

type HeaderPayload struct {
	Date any     `json:"date"`
	Type *string `json:"type"`
}

type JobPayload struct {
	Customer    *string `json:"customer"`
	Assembly    *string `json:"assembly"`
	JobNumber   *string `json:"job_number"`
	Revision    *string `json:"revision"`
	PanelsCount any     `json:"panels_count"`
	BoardsCount any     `json:"boards_count"`
	Inspector   *string `json:"inspector"`
}

type LotResultPayload struct {
	QtyInspected any `json:"qty_inspected"`
	QtyRejected  any `json:"qty_rejected"`
}

type RejectionPayload struct {
	Quantity             any     `json:"quantity"`
	ProblemCode          any     `json:"problem_code"`
	ReferenceDesignators *string `json:"reference_designators"`
}

type BoardDataPayload struct {
	BoardID              *string `json:"board_id"`
	ReferenceDesignators *string `json:"reference_designators"`
	ProblemCode          any     `json:"problem_code"`
	Comments             *string `json:"comments"`
}

type FormMetaPayload struct {
	FormNumber *string `json:"form_number"`
	FormRev    *string `json:"form_rev"`
}

// ComputeQtyAccepted derives the accepted quantity; it is never taken from
// input and never negative.
func ComputeQtyAccepted(qtyInspected, qtyRejected int) int {
	accepted := qtyInspected - qtyRejected
	if accepted < 0 {
		return 0
	}
	return accepted
}

// NormalizeSubmission validates payload against the given catalog snapshot
// and builds the canonical aggregate. Every field and every row is checked
// independently; all failures are accumulated and returned together, and any
// failure at all means no aggregate is produced.
func NormalizeSubmission(payload FormPayload, problemNames map[int]string) (*models.InspectionForm, *ValidationError) {
	errs := map[string]any{}

	form := &models.InspectionForm{
		FormNumber: defaultFormNumber,
		FormRev:    defaultFormRev,
		Customer:   payload.Job.Customer,
		Assembly:   payload.Job.Assembly,
		JobNumber:  payload.Job.JobNumber,
		Revision:   payload.Job.Revision,
		Inspector:  payload.Job.Inspector,
		Comments:   payload.Comments,
		Status:     models.FormStatusSubmitted,
	}
	if payload.FormMeta.FormNumber != nil {
		form.FormNumber = *payload.FormMeta.FormNumber
	}
	if payload.FormMeta.FormRev != nil {
		form.FormRev = *payload.FormMeta.FormRev
	}

	if payload.Status != nil {
		form.Status = models.FormStatus(*payload.Status)
	}
	if !form.Status.Valid() {
		errs["status"] = "Status must be 'draft' or 'submitted'"
	}

	if date, msg := parseDate(payload.Header.Date); msg != "" {
		errs["date"] = msg
	} else {
		form.Date = date
	}

	if payload.Header.Type == nil || !models.FormType(*payload.Header.Type).Valid() {
		errs["type"] = "Type must be either 'SMT' or 'TH'"
	} else {
		form.Type = models.FormType(*payload.Header.Type)
	}

	counts := []struct {
		field string
		value any
		dest  *int
	}{
		{"panels_count", payload.Job.PanelsCount, &form.PanelsCount},
		{"boards_count", payload.Job.BoardsCount, &form.BoardsCount},
		{"qty_inspected", payload.LotResult.QtyInspected, &form.QtyInspected},
		{"qty_rejected", payload.LotResult.QtyRejected, &form.QtyRejected},
	}
	for _, count := range counts {
		parsed, msg := parseIntField(count.value, 0)
		if msg != "" {
			errs[count.field] = msg
			continue
		}
		*count.dest = parsed
	}

	if form.QtyRejected > form.QtyInspected {
		errs["qty_rejected"] = "Rejected cannot exceed inspected"
	}

	form.QtyAccepted = ComputeQtyAccepted(form.QtyInspected, form.QtyRejected)

	rejectionErrors := make([]map[string]string, len(payload.Rejections))
	rejectionsFailed := false
	for i, item := range payload.Rejections {
		rowErrs := map[string]string{}

		quantity, msg := parseIntField(item.Quantity, 1)
		if msg != "" {
			rowErrs["quantity"] = msg
		}

		code, msg := parseProblemCode(item.ProblemCode)
		if msg != "" {
			rowErrs["problem_code"] = msg
		} else if _, known := problemNames[code]; !known {
			rowErrs["problem_code"] = "Unknown problem code"
		}

		rejectionErrors[i] = rowErrs
		if len(rowErrs) > 0 {
			rejectionsFailed = true
			continue
		}

		refs := ""
		if item.ReferenceDesignators != nil {
			refs = strings.TrimSpace(*item.ReferenceDesignators)
		}
		form.Rejections = append(form.Rejections, models.Rejection{
			Quantity:             quantity,
			ProblemCode:          code,
			ReferenceDesignators: refs,
		})
	}
	if rejectionsFailed {
		errs["rejections"] = rejectionErrors
	}

	boardErrors := make([]map[string]string, len(payload.BoardData))
	boardsFailed := false
	for i, item := range payload.BoardData {
		boardErrors[i] = map[string]string{}

		boardID := trimOptional(item.BoardID)
		refs := trimOptional(item.ReferenceDesignators)
		comments := trimOptional(item.Comments)
		codePresent := !blank(item.ProblemCode)

		// Rows with nothing in them are dropped, not stored.
		if boardID == nil && refs == nil && comments == nil && !codePresent {
			continue
		}

		board := models.BoardRecord{
			BoardID:              boardID,
			ReferenceDesignators: refs,
			Comments:             comments,
		}
		if codePresent {
			code, msg := parseProblemCode(item.ProblemCode)
			if msg != "" {
				boardErrors[i]["problem_code"] = msg
				boardsFailed = true
				continue
			}
			board.ProblemCode = &code
		}

		form.BoardData = append(form.BoardData, board)
	}
	if boardsFailed {
		errs["board_data"] = boardErrors
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return form, nil
}

func parseDate(value any) (time.Time, string) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, "Date is required"
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return time.Time{}, "Date is required"
		}
		date, err := time.Parse(dateLayout, trimmed)
		if err != nil {
			return time.Time{}, "Invalid date"
		}
		return date, ""
	default:
		return time.Time{}, "Invalid date"
	}
}

// parseIntField coerces a loosely-typed count. Blank and absent values count
// as zero; the minimum applies to the coerced value either way.
func parseIntField(value any, min int) (int, string) {
	parsed, err := coerceInt(value)
	if err != nil {
		return 0, "Must be an integer"
	}
	if parsed < min {
		return 0, fmt.Sprintf("Must be >= %d", min)
	}
	return parsed, ""
}

func parseProblemCode(value any) (int, string) {
	if value == nil {
		return 0, "Problem code is required"
	}
	if blank(value) {
		return 0, "Problem code must be a number"
	}
	parsed, err := coerceInt(value)
	if err != nil {
		return 0, "Problem code must be a number"
	}
	return parsed, ""
}

func coerceInt(value any) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, nil
		}
		return strconv.Atoi(trimmed)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		return int(v), nil
	case json.Number:
		return strconv.Atoi(v.String())
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("not an integer: %v", value)
	}
}

// blank mirrors the submission convention that nil, empty strings, and zero
// mean "not filled in".
func blank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case float64:
		return v == 0
	case json.Number:
		return v.String() == "0"
	case int:
		return v == 0
	case bool:
		return !v
	default:
		return false
	}
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
