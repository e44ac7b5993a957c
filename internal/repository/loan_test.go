package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/copystatus"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/testutil"
	"gorm.io/gorm"
)

type loanFixture struct {
	db     *gorm.DB
	repo   *GormLoanRepository
	book   model.Book
	member model.Member
}

func newLoanFixture(t *testing.T) loanFixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	return loanFixture{
		db:     db,
		repo:   NewGormLoanRepository(db),
		book:   testutil.SeedBook(t, db, "Foundation", "1234567890123"),
		member: testutil.SeedMember(t, db, "reader", false),
	}
}

func (f loanFixture) copyStatus(t *testing.T, bc model.BookCopy) copystatus.Status {
	t.Helper()

	var stored model.BookCopy
	if err := f.db.First(&stored, "id = ?", bc.ID).Error; err != nil {
		t.Fatalf("failed to reload copy: %v", err)
	}
	return stored.Status
}

func (f loanFixture) activeLoans(t *testing.T, m model.Member) int {
	t.Helper()

	var stored model.Member
	if err := f.db.First(&stored, "id = ?", m.ID).Error; err != nil {
		t.Fatalf("failed to reload member: %v", err)
	}
	return stored.ActiveLoans
}

func newLoan(bc model.BookCopy, m model.Member) model.Loan {
	return model.Loan{
		BookCopyID: bc.ID,
		MemberID:   m.ID,
		LoanDate:   testutil.Today(0),
		DueDate:    testutil.Today(14),
	}
}

func TestGormLoanRepository_Create_TakesCopyAndSlot(t *testing.T) {
	f := newLoanFixture(t)
	bc := testutil.SeedCopy(t, f.db, f.book, "C1", copystatus.Available)

	loan := newLoan(bc, f.member)
	if err := f.repo.Create(context.Background(), &loan); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if got := f.copyStatus(t, bc); got != copystatus.OnLoan {
		t.Errorf("expected copy on_loan, got %s", got)
	}
	if got := f.activeLoans(t, f.member); got != 1 {
		t.Errorf("expected 1 active loan, got %d", got)
	}
}

func TestGormLoanRepository_Create_RejectsUnavailableCopy(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()

	for _, status := range []copystatus.Status{copystatus.Maintenance, copystatus.Lost} {
		bc := testutil.SeedCopy(t, f.db, f.book, "C-"+string(status), status)

		loan := newLoan(bc, f.member)
		if err := f.repo.Create(ctx, &loan); !errors.Is(err, ErrCopyUnavailable) {
			t.Fatalf("%s copy: expected ErrCopyUnavailable, got %v", status, err)
		}
	}

	bc := testutil.SeedCopy(t, f.db, f.book, "C1", copystatus.Available)
	first := newLoan(bc, f.member)
	if err := f.repo.Create(ctx, &first); err != nil {
		t.Fatalf("first loan failed: %v", err)
	}

	other := testutil.SeedMember(t, f.db, "other", false)
	second := newLoan(bc, other)
	if err := f.repo.Create(ctx, &second); !errors.Is(err, ErrCopyUnavailable) {
		t.Fatalf("expected ErrCopyUnavailable for copy already on loan, got %v", err)
	}
	if got := f.activeLoans(t, other); got != 0 {
		t.Errorf("rejected loan must not count, got %d", got)
	}
}

func TestGormLoanRepository_Create_EnforcesActiveLoanLimit(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()

	for i := 0; i < model.MaxActiveLoans; i++ {
		bc := testutil.SeedCopy(t, f.db, f.book, fmt.Sprintf("C%d", i), copystatus.Available)
		loan := newLoan(bc, f.member)
		if err := f.repo.Create(ctx, &loan); err != nil {
			t.Fatalf("loan %d failed: %v", i+1, err)
		}
	}

	extra := testutil.SeedCopy(t, f.db, f.book, "EXTRA", copystatus.Available)
	loan := newLoan(extra, f.member)
	if err := f.repo.Create(ctx, &loan); !errors.Is(err, ErrLoanLimit) {
		t.Fatalf("expected ErrLoanLimit, got %v", err)
	}

	if got := f.copyStatus(t, extra); got != copystatus.Available {
		t.Errorf("rolled back loan must leave copy available, got %s", got)
	}
	if got := f.activeLoans(t, f.member); got != model.MaxActiveLoans {
		t.Errorf("expected %d active loans, got %d", model.MaxActiveLoans, got)
	}
}

func TestGormLoanRepository_Update_ReturnReleasesCopy(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()
	bc := testutil.SeedCopy(t, f.db, f.book, "C1", copystatus.Available)

	loan := newLoan(bc, f.member)
	if err := f.repo.Create(ctx, &loan); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	returned := testutil.Today(0)
	loan.ReturnDate = &returned
	loan.FineAmount = 1.5
	if err := f.repo.Update(ctx, &loan); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if got := f.copyStatus(t, bc); got != copystatus.Available {
		t.Errorf("expected copy available after return, got %s", got)
	}
	if got := f.activeLoans(t, f.member); got != 0 {
		t.Errorf("expected 0 active loans after return, got %d", got)
	}

	stored, err := f.repo.FindByID(ctx, loan.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if stored.Active() {
		t.Errorf("expected stored loan to be returned")
	}
	if stored.FineAmount != 1.5 {
		t.Errorf("expected fine 1.5, got %v", stored.FineAmount)
	}

	// a second update of a returned loan leaves the copy alone
	loan.FineAmount = 2
	if err := f.repo.Update(ctx, &loan); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got := f.copyStatus(t, bc); got != copystatus.Available {
		t.Errorf("expected copy to stay available, got %s", got)
	}
}

func TestGormLoanRepository_Update_MovesToAnotherCopy(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()
	first := testutil.SeedCopy(t, f.db, f.book, "C1", copystatus.Available)
	second := testutil.SeedCopy(t, f.db, f.book, "C2", copystatus.Available)

	loan := newLoan(first, f.member)
	if err := f.repo.Create(ctx, &loan); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	loan.BookCopyID = second.ID
	if err := f.repo.Update(ctx, &loan); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if got := f.copyStatus(t, first); got != copystatus.Available {
		t.Errorf("expected old copy available, got %s", got)
	}
	if got := f.copyStatus(t, second); got != copystatus.OnLoan {
		t.Errorf("expected new copy on_loan, got %s", got)
	}
	if got := f.activeLoans(t, f.member); got != 1 {
		t.Errorf("expected 1 active loan, got %d", got)
	}
}

func TestGormLoanRepository_Delete_ActiveLoanReleasesCopy(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()
	bc := testutil.SeedCopy(t, f.db, f.book, "C1", copystatus.Available)

	loan := newLoan(bc, f.member)
	if err := f.repo.Create(ctx, &loan); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := f.repo.Delete(ctx, loan.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if got := f.copyStatus(t, bc); got != copystatus.Available {
		t.Errorf("expected copy available, got %s", got)
	}
	if got := f.activeLoans(t, f.member); got != 0 {
		t.Errorf("expected 0 active loans, got %d", got)
	}

	if err := f.repo.Delete(ctx, loan.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestGormLoanRepository_List_ScopedToMember(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()
	other := testutil.SeedMember(t, f.db, "other", false)

	mine := testutil.SeedLoan(t, f.db, testutil.SeedCopy(t, f.db, f.book, "C1", ""), f.member)
	testutil.SeedLoan(t, f.db, testutil.SeedCopy(t, f.db, f.book, "C2", ""), other)

	loans, err := f.repo.List(ctx, LoanListParams{MemberID: &f.member.ID})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(loans) != 1 || loans[0].ID != mine.ID {
		t.Fatalf("expected only the member's loan, got %+v", loans)
	}

	all, _ := f.repo.List(ctx, LoanListParams{})
	if len(all) != 2 {
		t.Fatalf("expected 2 loans unscoped, got %d", len(all))
	}
}

func TestGormLoanRepository_Create_UnknownReferences(t *testing.T) {
	f := newLoanFixture(t)
	bc := testutil.SeedCopy(t, f.db, f.book, "C1", copystatus.Available)

	loan := newLoan(bc, model.Member{ID: [16]byte{9}})
	err := f.repo.Create(context.Background(), &loan)

	var refErr *ReferenceError
	if !errors.As(err, &refErr) || refErr.Field != "member" {
		t.Fatalf("expected member ReferenceError, got %v", err)
	}
}
