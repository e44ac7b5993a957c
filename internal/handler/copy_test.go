package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/copystatus"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/testutil"
)

func TestCreateCopy_Defaults(t *testing.T) {
	s := newTestServer(t)
	book := testutil.SeedBook(t, s.db, "Foundation", "9780553293357")

	w := s.do(t, http.MethodPost, "/copies/", map[string]any{
		"book":    book.ID.String(),
		"copy_id": "C1",
	}, &s.staff)
	expectStatus(t, w, http.StatusCreated)

	got := decode[CopyResponse](t, w).Data
	if got.Status != copystatus.Available {
		t.Errorf("expected status available, got %q", got.Status)
	}
	if got.ConditionRating != model.DefaultConditionRating {
		t.Errorf("expected condition %d, got %d", model.DefaultConditionRating, got.ConditionRating)
	}
	if got.AcquisitionDate.Format("2006-01-02") != day(0) {
		t.Errorf("expected acquisition today, got %v", got.AcquisitionDate)
	}
}

func TestCreateCopy_CopyIDUniquePerBook(t *testing.T) {
	s := newTestServer(t)
	foundation := testutil.SeedBook(t, s.db, "Foundation", "9780553293357")
	robot := testutil.SeedBook(t, s.db, "I, Robot", "9780553382563")
	testutil.SeedCopy(t, s.db, foundation, "C1", copystatus.Available)

	w := s.do(t, http.MethodPost, "/copies/", map[string]any{
		"book":    foundation.ID.String(),
		"copy_id": "C1",
	}, &s.staff)
	expectStatus(t, w, http.StatusConflict)
	if fe, ok := fieldErrors(t, w)["copy_id"]; !ok || fe.Rule != "unique" {
		t.Errorf("expected unique error on copy_id, body=%s", w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/copies/", map[string]any{
		"book":    robot.ID.String(),
		"copy_id": "C1",
	}, &s.staff)
	expectStatus(t, w, http.StatusCreated)
}

func TestCreateCopy_Rejections(t *testing.T) {
	s := newTestServer(t)
	book := testutil.SeedBook(t, s.db, "Foundation", "9780553293357")

	tests := []struct {
		name   string
		body   map[string]any
		as     *model.Member
		status int
		field  string
	}{
		{"reader", map[string]any{"book": book.ID.String(), "copy_id": "C1"}, &s.reader, http.StatusForbidden, ""},
		{"on loan from the start", map[string]any{"book": book.ID.String(), "copy_id": "C1", "status": "on_loan"}, &s.staff, http.StatusBadRequest, "status"},
		{"unknown status", map[string]any{"book": book.ID.String(), "copy_id": "C1", "status": "borrowed"}, &s.staff, http.StatusBadRequest, "status"},
		{"condition out of range", map[string]any{"book": book.ID.String(), "copy_id": "C1", "condition_rating": 6}, &s.staff, http.StatusBadRequest, "condition_rating"},
		{"future acquisition", map[string]any{"book": book.ID.String(), "copy_id": "C1", "acquisition_date": day(1)}, &s.staff, http.StatusBadRequest, "acquisition_date"},
		{"copy id too long", map[string]any{"book": book.ID.String(), "copy_id": "C123456789012345678901"}, &s.staff, http.StatusBadRequest, "copy_id"},
		{"unknown book", map[string]any{"book": uuid.NewString(), "copy_id": "C1"}, &s.staff, http.StatusBadRequest, "book"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/copies/", tt.body, tt.as)
			expectStatus(t, w, tt.status)

			if tt.field == "" {
				return
			}
			if _, ok := fieldErrors(t, w)[tt.field]; !ok {
				t.Errorf("expected error on %s, body=%s", tt.field, w.Body.String())
			}
		})
	}
}

func TestListCopies_Filters(t *testing.T) {
	s := newTestServer(t)
	foundation := testutil.SeedBook(t, s.db, "Foundation", "9780553293357")
	robot := testutil.SeedBook(t, s.db, "I, Robot", "9780553382563")

	testutil.SeedCopy(t, s.db, foundation, "C1", copystatus.Available)
	worn := testutil.SeedCopy(t, s.db, foundation, "C2", copystatus.Available)
	s.db.Model(&worn).Update("condition_rating", 2)
	testutil.SeedCopy(t, s.db, foundation, "C3", copystatus.Maintenance)
	testutil.SeedCopy(t, s.db, robot, "C1", copystatus.Available)

	tests := []struct {
		query string
		want  int
	}{
		{"", 4},
		{"?book=" + foundation.ID.String(), 3},
		{"?book=" + foundation.ID.String() + "&status=available", 2},
		{"?book=" + foundation.ID.String() + "&status=available&min_condition=3", 1},
		{"?status=maintenance", 1},
		{"?min_condition=5", 3},
	}

	for _, tt := range tests {
		w := s.do(t, http.MethodGet, "/copies/"+tt.query, nil, &s.staff)
		expectStatus(t, w, http.StatusOK)

		if got := decode[ListCopiesResponse](t, w).Data; len(got) != tt.want {
			t.Errorf("%q: expected %d copies, got %d", tt.query, tt.want, len(got))
		}
	}

	for _, query := range []string{"?book=nope", "?status=borrowed", "?min_condition=high"} {
		w := s.do(t, http.MethodGet, "/copies/"+query, nil, &s.staff)
		expectStatus(t, w, http.StatusBadRequest)
	}

	w := s.do(t, http.MethodGet, "/copies/", nil, &s.reader)
	expectStatus(t, w, http.StatusForbidden)
}

func TestUpdateCopy_StatusChanges(t *testing.T) {
	s := newTestServer(t)
	book := testutil.SeedBook(t, s.db, "Foundation", "9780553293357")
	bc := testutil.SeedCopy(t, s.db, book, "C1", copystatus.Available)
	path := "/copies/" + bc.ID.String() + "/"

	w := s.do(t, http.MethodPatch, path, map[string]any{"status": "maintenance"}, &s.staff)
	expectStatus(t, w, http.StatusOK)
	if got := decode[CopyResponse](t, w).Data; got.Status != copystatus.Maintenance || got.CopyID != "C1" {
		t.Errorf("unexpected copy after patch: %+v", got)
	}

	w = s.do(t, http.MethodPatch, path, map[string]any{"status": "on_loan"}, &s.staff)
	expectStatus(t, w, http.StatusBadRequest)
	if fe := fieldErrors(t, w)["status"]; fe.Rule != "transition" {
		t.Errorf("expected transition error, body=%s", w.Body.String())
	}

	w = s.do(t, http.MethodPatch, path, map[string]any{"status": "available"}, &s.reader)
	expectStatus(t, w, http.StatusForbidden)
}

func TestUpdateCopy_CannotReleaseLoanedCopy(t *testing.T) {
	s := newTestServer(t)
	book := testutil.SeedBook(t, s.db, "Foundation", "9780553293357")
	bc := testutil.SeedCopy(t, s.db, book, "C1", copystatus.Available)
	testutil.SeedLoan(t, s.db, bc, s.reader)

	w := s.do(t, http.MethodPatch, "/copies/"+bc.ID.String(), map[string]any{"status": "available"}, &s.staff)
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(t, http.MethodPatch, "/copies/"+bc.ID.String(), map[string]any{"condition_rating": 3}, &s.staff)
	expectStatus(t, w, http.StatusOK)
	if got := decode[CopyResponse](t, w).Data; got.Status != copystatus.OnLoan || got.ConditionRating != 3 {
		t.Errorf("unexpected copy after patch: %+v", got)
	}
}

func TestReplaceCopy_ResetsOmittedFields(t *testing.T) {
	s := newTestServer(t)
	book := testutil.SeedBook(t, s.db, "Foundation", "9780553293357")
	bc := testutil.SeedCopy(t, s.db, book, "C1", copystatus.Maintenance)
	path := "/copies/" + bc.ID.String() + "/"

	w := s.do(t, http.MethodPatch, path, map[string]any{"condition_rating": 2}, &s.staff)
	expectStatus(t, w, http.StatusOK)

	w = s.do(t, http.MethodPut, path, map[string]any{
		"book":    book.ID.String(),
		"copy_id": "C9",
	}, &s.staff)
	expectStatus(t, w, http.StatusOK)

	got := decode[CopyResponse](t, w).Data
	if got.CopyID != "C9" || got.Status != copystatus.Available {
		t.Errorf("unexpected copy after put: %+v", got)
	}
	if got.ConditionRating != model.DefaultConditionRating {
		t.Errorf("expected condition %d, got %d", model.DefaultConditionRating, got.ConditionRating)
	}
	if got.AcquisitionDate.Format("2006-01-02") != day(0) {
		t.Errorf("expected acquisition today, got %v", got.AcquisitionDate)
	}

	loaned := testutil.SeedCopy(t, s.db, book, "C2", copystatus.Available)
	testutil.SeedLoan(t, s.db, loaned, s.reader)

	w = s.do(t, http.MethodPut, "/copies/"+loaned.ID.String(), map[string]any{
		"book":    book.ID.String(),
		"copy_id": "C2",
	}, &s.staff)
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(t, http.MethodPut, "/copies/"+loaned.ID.String(), map[string]any{
		"book":    book.ID.String(),
		"copy_id": "C2",
		"status":  "on_loan",
	}, &s.staff)
	expectStatus(t, w, http.StatusOK)
}

func TestDeleteCopy_ProtectedByLoans(t *testing.T) {
	s := newTestServer(t)
	book := testutil.SeedBook(t, s.db, "Foundation", "9780553293357")
	loaned := testutil.SeedCopy(t, s.db, book, "C1", copystatus.Available)
	spare := testutil.SeedCopy(t, s.db, book, "C2", copystatus.Available)
	testutil.SeedLoan(t, s.db, loaned, s.reader)

	w := s.do(t, http.MethodDelete, "/copies/"+loaned.ID.String()+"/", nil, &s.staff)
	expectStatus(t, w, http.StatusConflict)

	w = s.do(t, http.MethodDelete, "/copies/"+spare.ID.String()+"/", nil, &s.staff)
	expectStatus(t, w, http.StatusNoContent)
}
