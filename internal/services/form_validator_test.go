package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aoi-backend/internal/models"
)

func strPtr(s string) *string { return &s }

func testCatalog() map[int]string {
	return map[int]string{
		6:  "Insufficient Solder",
		7:  "Solder Bridge",
		12: "Tombstone",
	}
}

func validPayload() FormPayload {
	return FormPayload{
		Header: HeaderPayload{
			Date: "2024-01-10",
			Type: strPtr("SMT"),
		},
		Job: JobPayload{
			Customer:    strPtr("Acme Circuits"),
			Assembly:    strPtr("PCB-100"),
			JobNumber:   strPtr("J-2024-001"),
			PanelsCount: float64(4),
			BoardsCount: float64(16),
			Inspector:   strPtr("pat"),
		},
		LotResult: LotResultPayload{
			QtyInspected: float64(100),
			QtyRejected:  float64(10),
		},
		Rejections: []RejectionPayload{
			{Quantity: float64(10), ProblemCode: float64(6), ReferenceDesignators: strPtr(" R12, R14 ")},
		},
	}
}

func TestNormalizeSubmissionHappyPath(t *testing.T) {
	form, verr := NormalizeSubmission(validPayload(), testCatalog())
	require.Nil(t, verr)
	require.NotNil(t, form)

	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), form.Date)
	assert.Equal(t, models.FormTypeSMT, form.Type)
	assert.Equal(t, models.FormStatusSubmitted, form.Status)
	assert.Equal(t, "Form-114", form.FormNumber)
	assert.Equal(t, 100, form.QtyInspected)
	assert.Equal(t, 10, form.QtyRejected)
	assert.Equal(t, 90, form.QtyAccepted)

	require.Len(t, form.Rejections, 1)
	assert.Equal(t, 10, form.Rejections[0].Quantity)
	assert.Equal(t, 6, form.Rejections[0].ProblemCode)
	assert.Equal(t, "R12, R14", form.Rejections[0].ReferenceDesignators)
}

func TestNormalizeSubmissionStatusDefaultsToSubmitted(t *testing.T) {
	payload := validPayload()
	payload.Status = nil

	form, verr := NormalizeSubmission(payload, testCatalog())
	require.Nil(t, verr)
	assert.Equal(t, models.FormStatusSubmitted, form.Status)
}

func TestNormalizeSubmissionDraftStatus(t *testing.T) {
	payload := validPayload()
	payload.Status = strPtr("draft")

	form, verr := NormalizeSubmission(payload, testCatalog())
	require.Nil(t, verr)
	assert.Equal(t, models.FormStatusDraft, form.Status)
}

func TestNormalizeSubmissionInvalidStatus(t *testing.T) {
	payload := validPayload()
	payload.Status = strPtr("pending")

	_, verr := NormalizeSubmission(payload, testCatalog())
	require.NotNil(t, verr)
	assert.Equal(t, "Status must be 'draft' or 'submitted'", verr.Errors["status"])
}

func TestNormalizeSubmissionRejectedExceedsInspected(t *testing.T) {
	payload := validPayload()
	payload.LotResult.QtyInspected = float64(5)
	payload.LotResult.QtyRejected = float64(10)

	_, verr := NormalizeSubmission(payload, testCatalog())
	require.NotNil(t, verr)
	assert.Equal(t, "Rejected cannot exceed inspected", verr.Errors["qty_rejected"])
}

func TestNormalizeSubmissionQtyAcceptedAlwaysDerived(t *testing.T) {
	cases := []struct {
		inspected, rejected, want int
	}{
		{100, 10, 90},
		{5, 5, 0},
		{0, 0, 0},
	}

	for _, tc := range cases {
		payload := validPayload()
		payload.LotResult.QtyInspected = float64(tc.inspected)
		payload.LotResult.QtyRejected = float64(tc.rejected)
		payload.Rejections = nil

		form, verr := NormalizeSubmission(payload, testCatalog())
		require.Nil(t, verr)
		assert.Equal(t, tc.want, form.QtyAccepted)
	}
}

func TestComputeQtyAcceptedNeverNegative(t *testing.T) {
	assert.Equal(t, 0, ComputeQtyAccepted(5, 10))
	assert.Equal(t, 90, ComputeQtyAccepted(100, 10))
}

func TestNormalizeSubmissionUnknownProblemCode(t *testing.T) {
	payload := validPayload()
	payload.Rejections = []RejectionPayload{
		{Quantity: float64(10), ProblemCode: float64(999)},
	}

	form, verr := NormalizeSubmission(payload, testCatalog())
	require.Nil(t, form)
	require.NotNil(t, verr)
	assert.Equal(t, []map[string]string{{"problem_code": "Unknown problem code"}}, verr.Errors["rejections"])
}

func TestNormalizeSubmissionRowErrorsAlignedToInput(t *testing.T) {
	payload := validPayload()
	payload.Rejections = []RejectionPayload{
		{Quantity: float64(2), ProblemCode: float64(7)},
		{Quantity: float64(0), ProblemCode: nil},
		{Quantity: "three", ProblemCode: "x"},
	}

	_, verr := NormalizeSubmission(payload, testCatalog())
	require.NotNil(t, verr)

	rows, ok := verr.Errors["rejections"].([]map[string]string)
	require.True(t, ok)
	require.Len(t, rows, 3)

	assert.Empty(t, rows[0])
	assert.Equal(t, "Must be >= 1", rows[1]["quantity"])
	assert.Equal(t, "Problem code is required", rows[1]["problem_code"])
	assert.Equal(t, "Must be an integer", rows[2]["quantity"])
	assert.Equal(t, "Problem code must be a number", rows[2]["problem_code"])
}

func TestNormalizeSubmissionBlankRejectionQuantity(t *testing.T) {
	payload := validPayload()
	payload.Rejections = []RejectionPayload{
		{Quantity: "", ProblemCode: float64(6)},
	}

	_, verr := NormalizeSubmission(payload, testCatalog())
	require.NotNil(t, verr)

	rows := verr.Errors["rejections"].([]map[string]string)
	assert.Equal(t, "Must be >= 1", rows[0]["quantity"])
}

func TestNormalizeSubmissionCountCoercion(t *testing.T) {
	payload := validPayload()
	payload.Job.PanelsCount = "  12 "
	payload.Job.BoardsCount = ""
	payload.LotResult.QtyInspected = float64(3)
	payload.LotResult.QtyRejected = nil
	payload.Rejections = nil

	form, verr := NormalizeSubmission(payload, testCatalog())
	require.Nil(t, verr)
	assert.Equal(t, 12, form.PanelsCount)
	assert.Equal(t, 0, form.BoardsCount)
	assert.Equal(t, 3, form.QtyInspected)
	assert.Equal(t, 0, form.QtyRejected)
	assert.Equal(t, 3, form.QtyAccepted)
}

func TestNormalizeSubmissionRejectsBadCounts(t *testing.T) {
	payload := validPayload()
	payload.Job.PanelsCount = "lots"
	payload.Job.BoardsCount = float64(-1)
	payload.LotResult.QtyInspected = float64(2.5)

	_, verr := NormalizeSubmission(payload, testCatalog())
	require.NotNil(t, verr)
	assert.Equal(t, "Must be an integer", verr.Errors["panels_count"])
	assert.Equal(t, "Must be >= 0", verr.Errors["boards_count"])
	assert.Equal(t, "Must be an integer", verr.Errors["qty_inspected"])
}

func TestNormalizeSubmissionDateErrors(t *testing.T) {
	cases := []struct {
		name string
		date any
		want string
	}{
		{"missing", nil, "Date is required"},
		{"blank", "  ", "Date is required"},
		{"garbage", "10/01/2024", "Invalid date"},
		{"non-string", float64(20240110), "Invalid date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := validPayload()
			payload.Header.Date = tc.date

			_, verr := NormalizeSubmission(payload, testCatalog())
			require.NotNil(t, verr)
			assert.Equal(t, tc.want, verr.Errors["date"])
		})
	}
}

func TestNormalizeSubmissionInvalidType(t *testing.T) {
	payload := validPayload()
	payload.Header.Type = strPtr("BGA")

	_, verr := NormalizeSubmission(payload, testCatalog())
	require.NotNil(t, verr)
	assert.Equal(t, "Type must be either 'SMT' or 'TH'", verr.Errors["type"])
}

func TestNormalizeSubmissionAccumulatesAllErrors(t *testing.T) {
	payload := FormPayload{
		Header:    HeaderPayload{Date: nil, Type: nil},
		Status:    strPtr("bogus"),
		LotResult: LotResultPayload{QtyInspected: "nope"},
		Rejections: []RejectionPayload{
			{Quantity: float64(1), ProblemCode: float64(999)},
		},
	}

	_, verr := NormalizeSubmission(payload, testCatalog())
	require.NotNil(t, verr)

	assert.Contains(t, verr.Errors, "status")
	assert.Contains(t, verr.Errors, "date")
	assert.Contains(t, verr.Errors, "type")
	assert.Contains(t, verr.Errors, "qty_inspected")
	assert.Contains(t, verr.Errors, "rejections")
}

func TestNormalizeSubmissionBoardDataCompaction(t *testing.T) {
	payload := validPayload()
	payload.BoardData = []BoardDataPayload{
		{BoardID: strPtr("  "), ReferenceDesignators: strPtr(""), ProblemCode: "", Comments: nil},
		{BoardID: strPtr(" SN-042 ")},
		{ReferenceDesignators: strPtr(" U1 "), ProblemCode: float64(7), Comments: strPtr(" cold joint ")},
	}

	form, verr := NormalizeSubmission(payload, testCatalog())
	require.Nil(t, verr)
	require.Len(t, form.BoardData, 2)

	first := form.BoardData[0]
	require.NotNil(t, first.BoardID)
	assert.Equal(t, "SN-042", *first.BoardID)
	assert.Nil(t, first.ReferenceDesignators)
	assert.Nil(t, first.ProblemCode)
	assert.Nil(t, first.Comments)

	second := form.BoardData[1]
	assert.Nil(t, second.BoardID)
	assert.Equal(t, "U1", *second.ReferenceDesignators)
	require.NotNil(t, second.ProblemCode)
	assert.Equal(t, 7, *second.ProblemCode)
	assert.Equal(t, "cold joint", *second.Comments)
}

func TestNormalizeSubmissionBoardProblemCodeZeroTreatedAsAbsent(t *testing.T) {
	payload := validPayload()
	payload.BoardData = []BoardDataPayload{
		{BoardID: strPtr("SN-001"), ProblemCode: float64(0)},
	}

	form, verr := NormalizeSubmission(payload, testCatalog())
	require.Nil(t, verr)
	require.Len(t, form.BoardData, 1)
	assert.Nil(t, form.BoardData[0].ProblemCode)
}

func TestNormalizeSubmissionBoardProblemCodeNotCatalogChecked(t *testing.T) {
	payload := validPayload()
	payload.BoardData = []BoardDataPayload{
		{BoardID: strPtr("SN-001"), ProblemCode: float64(999)},
	}

	form, verr := NormalizeSubmission(payload, testCatalog())
	require.Nil(t, verr)
	require.NotNil(t, form.BoardData[0].ProblemCode)
	assert.Equal(t, 999, *form.BoardData[0].ProblemCode)
}

func TestNormalizeSubmissionBoardProblemCodeUnparsable(t *testing.T) {
	payload := validPayload()
	payload.BoardData = []BoardDataPayload{
		{BoardID: strPtr("SN-001"), ProblemCode: "seven"},
	}

	_, verr := NormalizeSubmission(payload, testCatalog())
	require.NotNil(t, verr)

	rows, ok := verr.Errors["board_data"].([]map[string]string)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "Problem code must be a number", rows[0]["problem_code"])
}

func TestNormalizeSubmissionFormMetaOverridesDefaults(t *testing.T) {
	payload := validPayload()
	payload.FormMeta = FormMetaPayload{
		FormNumber: strPtr("Form-220"),
		FormRev:    strPtr("Rev. 3"),
	}

	form, verr := NormalizeSubmission(payload, testCatalog())
	require.Nil(t, verr)
	assert.Equal(t, "Form-220", form.FormNumber)
	assert.Equal(t, "Rev. 3", form.FormRev)
}

func TestNormalizeSubmissionFailingRowsOmittedFromOutputNeverPersisted(t *testing.T) {
	payload := validPayload()
	payload.Rejections = []RejectionPayload{
		{Quantity: float64(1), ProblemCode: float64(6)},
		{Quantity: float64(1), ProblemCode: float64(999)},
	}

	form, verr := NormalizeSubmission(payload, testCatalog())
	require.Nil(t, form, "no canonical record may exist when any row fails")
	require.NotNil(t, verr)

	rows := verr.Errors["rejections"].([]map[string]string)
	require.Len(t, rows, 2)
	assert.Empty(t, rows[0])
	assert.Equal(t, "Unknown problem code", rows[1]["problem_code"])
}
