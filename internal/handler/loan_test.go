package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/copystatus"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/testutil"
)

type loanEnv struct {
	*testServer
	book model.Book
}

func newLoanEnv(t *testing.T) *loanEnv {
	t.Helper()

	s := newTestServer(t)
	return &loanEnv{
		testServer: s,
		book:       testutil.SeedBook(t, s.db, "Foundation", "9780553293357"),
	}
}

func (e *loanEnv) copyStatus(t *testing.T, bc model.BookCopy) copystatus.Status {
	t.Helper()

	var got model.BookCopy
	if err := e.db.First(&got, "id = ?", bc.ID).Error; err != nil {
		t.Fatalf("reload copy: %v", err)
	}
	return got.Status
}

func (e *loanEnv) activeLoans(t *testing.T, m model.Member) int {
	t.Helper()

	var got model.Member
	if err := e.db.First(&got, "id = ?", m.ID).Error; err != nil {
		t.Fatalf("reload member: %v", err)
	}
	return got.ActiveLoans
}

func loanPayload(bc model.BookCopy, m model.Member) map[string]any {
	return map[string]any{
		"book_copy": bc.ID.String(),
		"member":    m.ID.String(),
		"due_date":  day(14),
	}
}

func TestCreateLoan_TakesCopy(t *testing.T) {
	e := newLoanEnv(t)
	bc := testutil.SeedCopy(t, e.db, e.book, "C1", copystatus.Available)

	w := e.do(t, http.MethodPost, "/loans/", loanPayload(bc, e.reader), &e.staff)
	expectStatus(t, w, http.StatusCreated)

	got := decode[LoanResponse](t, w).Data
	if got.LoanDate.Format("2006-01-02") != day(0) {
		t.Errorf("expected loan_date to default to today, got %v", got.LoanDate)
	}
	if got.ReturnDate != nil || got.FineAmount != 0 {
		t.Errorf("unexpected new loan: %+v", got)
	}
	if status := e.copyStatus(t, bc); status != copystatus.OnLoan {
		t.Errorf("expected copy on_loan, got %q", status)
	}
	if n := e.activeLoans(t, e.reader); n != 1 {
		t.Errorf("expected 1 active loan, got %d", n)
	}
}

func TestCreateLoan_CopyUnavailable(t *testing.T) {
	e := newLoanEnv(t)

	for _, status := range []copystatus.Status{copystatus.Maintenance, copystatus.Lost} {
		bc := testutil.SeedCopy(t, e.db, e.book, "C-"+string(status), status)

		w := e.do(t, http.MethodPost, "/loans/", loanPayload(bc, e.reader), &e.staff)
		expectStatus(t, w, http.StatusConflict)
		if fe := fieldErrors(t, w)["book_copy"]; fe.Rule != "available" {
			t.Errorf("%s: expected available error on book_copy, body=%s", status, w.Body.String())
		}
	}

	taken := testutil.SeedCopy(t, e.db, e.book, "C1", copystatus.Available)
	other := testutil.SeedMember(t, e.db, "other", false)
	testutil.SeedLoan(t, e.db, taken, other)

	w := e.do(t, http.MethodPost, "/loans/", loanPayload(taken, e.reader), &e.staff)
	expectStatus(t, w, http.StatusConflict)

	if n := e.activeLoans(t, e.reader); n != 0 {
		t.Errorf("rejected loans must not count, got %d", n)
	}
}

func TestCreateLoan_LimitReached(t *testing.T) {
	e := newLoanEnv(t)

	for i := range model.MaxActiveLoans {
		bc := testutil.SeedCopy(t, e.db, e.book, fmt.Sprintf("C%d", i), copystatus.Available)
		testutil.SeedLoan(t, e.db, bc, e.reader)
	}
	extra := testutil.SeedCopy(t, e.db, e.book, "EXTRA", copystatus.Available)

	w := e.do(t, http.MethodPost, "/loans/", loanPayload(extra, e.reader), &e.staff)
	expectStatus(t, w, http.StatusConflict)
	if fe := fieldErrors(t, w)["member"]; fe.Rule != "max_active_loans" {
		t.Errorf("expected max_active_loans error, body=%s", w.Body.String())
	}

	if status := e.copyStatus(t, extra); status != copystatus.Available {
		t.Errorf("copy must stay available after a rejected loan, got %q", status)
	}
	if n := e.activeLoans(t, e.reader); n != model.MaxActiveLoans {
		t.Errorf("expected %d active loans, got %d", model.MaxActiveLoans, n)
	}
}

func TestCreateLoan_Validation(t *testing.T) {
	e := newLoanEnv(t)
	bc := testutil.SeedCopy(t, e.db, e.book, "C1", copystatus.Available)

	tests := []struct {
		name  string
		edit  func(p map[string]any)
		field string
	}{
		{"due before loan", func(p map[string]any) { p["loan_date"] = day(-2); p["due_date"] = day(-3) }, "due_date"},
		{"due same day", func(p map[string]any) { p["due_date"] = day(0) }, "due_date"},
		{"future loan date", func(p map[string]any) { p["loan_date"] = day(2); p["due_date"] = day(20) }, "loan_date"},
		{"fine too precise", func(p map[string]any) { p["fine_amount"] = 1.234 }, "fine_amount"},
		{"negative fine", func(p map[string]any) { p["fine_amount"] = -1 }, "fine_amount"},
		{"fine too large", func(p map[string]any) { p["fine_amount"] = 10000 }, "fine_amount"},
		{"missing due date", func(p map[string]any) { delete(p, "due_date") }, "due_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := loanPayload(bc, e.reader)
			tt.edit(payload)

			w := e.do(t, http.MethodPost, "/loans/", payload, &e.staff)
			expectStatus(t, w, http.StatusBadRequest)
			if _, ok := fieldErrors(t, w)[tt.field]; !ok {
				t.Errorf("expected error on %s, body=%s", tt.field, w.Body.String())
			}
		})
	}

	if status := e.copyStatus(t, bc); status != copystatus.Available {
		t.Errorf("invalid loans must not take the copy, got %q", status)
	}
}

func TestLoans_ReaderAccess(t *testing.T) {
	e := newLoanEnv(t)
	other := testutil.SeedMember(t, e.db, "other", false)
	mine := testutil.SeedLoan(t, e.db, testutil.SeedCopy(t, e.db, e.book, "C1", copystatus.Available), e.reader)
	theirs := testutil.SeedLoan(t, e.db, testutil.SeedCopy(t, e.db, e.book, "C2", copystatus.Available), other)
	spare := testutil.SeedCopy(t, e.db, e.book, "C3", copystatus.Available)

	w := e.do(t, http.MethodGet, "/loans/", nil, &e.reader)
	expectStatus(t, w, http.StatusOK)
	got := decode[ListLoansResponse](t, w).Data
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Fatalf("reader should only see their own loans, got %+v", got)
	}

	w = e.do(t, http.MethodGet, "/loans/"+mine.ID.String()+"/", nil, &e.reader)
	expectStatus(t, w, http.StatusOK)

	w = e.do(t, http.MethodGet, "/loans/"+theirs.ID.String()+"/", nil, &e.reader)
	expectStatus(t, w, http.StatusNotFound)

	w = e.do(t, http.MethodPost, "/loans/", loanPayload(spare, e.reader), &e.reader)
	expectStatus(t, w, http.StatusForbidden)

	w = e.do(t, http.MethodPatch, "/loans/"+mine.ID.String()+"/", map[string]any{"return_date": day(0)}, &e.reader)
	expectStatus(t, w, http.StatusForbidden)

	w = e.do(t, http.MethodDelete, "/loans/"+mine.ID.String()+"/", nil, &e.reader)
	expectStatus(t, w, http.StatusForbidden)

	w = e.do(t, http.MethodGet, "/loans/", nil, &e.staff)
	expectStatus(t, w, http.StatusOK)
	if got := decode[ListLoansResponse](t, w).Data; len(got) != 2 {
		t.Errorf("staff should see every loan, got %d", len(got))
	}
}

func TestUpdateLoan_Return(t *testing.T) {
	e := newLoanEnv(t)
	bc := testutil.SeedCopy(t, e.db, e.book, "C1", copystatus.Available)
	loan := testutil.SeedLoan(t, e.db, bc, e.reader)
	path := "/loans/" + loan.ID.String() + "/"

	w := e.do(t, http.MethodPatch, path, map[string]any{
		"return_date": day(0),
		"fine_amount": 1.5,
	}, &e.staff)
	expectStatus(t, w, http.StatusOK)

	got := decode[LoanResponse](t, w).Data
	if got.ReturnDate == nil || got.ReturnDate.Format("2006-01-02") != day(0) {
		t.Errorf("expected return_date today, got %v", got.ReturnDate)
	}
	if got.FineAmount != 1.5 {
		t.Errorf("expected fine 1.5, got %v", got.FineAmount)
	}
	if status := e.copyStatus(t, bc); status != copystatus.Available {
		t.Errorf("expected copy released, got %q", status)
	}
	if n := e.activeLoans(t, e.reader); n != 0 {
		t.Errorf("expected no active loans, got %d", n)
	}

	w = e.do(t, http.MethodPatch, path, map[string]any{"return_date": day(1)}, &e.staff)
	expectStatus(t, w, http.StatusBadRequest)
	if _, ok := fieldErrors(t, w)["return_date"]; !ok {
		t.Errorf("expected error on return_date, body=%s", w.Body.String())
	}
}

func TestReplaceLoan_ResetsOmittedFields(t *testing.T) {
	e := newLoanEnv(t)
	bc := testutil.SeedCopy(t, e.db, e.book, "C1", copystatus.Available)
	loan := testutil.SeedLoan(t, e.db, bc, e.reader)

	w := e.do(t, http.MethodPut, "/loans/"+loan.ID.String()+"/", map[string]any{
		"book_copy": bc.ID.String(),
		"member":    e.reader.ID.String(),
		"due_date":  day(7),
	}, &e.staff)
	expectStatus(t, w, http.StatusOK)

	got := decode[LoanResponse](t, w).Data
	if got.LoanDate.Format("2006-01-02") != day(0) {
		t.Errorf("expected loan_date today, got %v", got.LoanDate)
	}
	if got.ReturnDate != nil || got.FineAmount != 0 {
		t.Errorf("unexpected loan after put: %+v", got)
	}
	if n := e.activeLoans(t, e.reader); n != 1 {
		t.Errorf("expected 1 active loan, got %d", n)
	}
}

func TestDeleteLoan_ReleasesCopy(t *testing.T) {
	e := newLoanEnv(t)
	bc := testutil.SeedCopy(t, e.db, e.book, "C1", copystatus.Available)
	loan := testutil.SeedLoan(t, e.db, bc, e.reader)

	w := e.do(t, http.MethodDelete, "/loans/"+loan.ID.String()+"/", nil, &e.staff)
	expectStatus(t, w, http.StatusNoContent)

	if status := e.copyStatus(t, bc); status != copystatus.Available {
		t.Errorf("expected copy released, got %q", status)
	}
	if n := e.activeLoans(t, e.reader); n != 0 {
		t.Errorf("expected no active loans, got %d", n)
	}

	w = e.do(t, http.MethodDelete, "/loans/"+loan.ID.String()+"/", nil, &e.staff)
	expectStatus(t, w, http.StatusNotFound)
}
