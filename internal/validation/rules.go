package validation

import (
	"math"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

var (
	isbnPattern      = regexp.MustCompile(`^\d{10}$|^\d{13}$`)
	genreNamePattern = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)
	websitePattern   = regexp.MustCompile(`^https?://`)
)

func ISBN(s string) bool { return isbnPattern.MatchString(s) }

func GenreName(s string) bool { return genreNamePattern.MatchString(s) }

func Website(s string) bool { return websitePattern.MatchString(s) }

// TwoDecimals accepts amounts with at most two digits after the point.
func TwoDecimals(f float64) bool {
	cents := f * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

// NotFuture compares calendar days, so anything dated today passes.
func NotFuture(t time.Time) bool {
	return !model.DateOf(t).After(model.Today())
}

func notFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	if t.IsZero() {
		return true
	}
	return NotFuture(t)
}

// LoanDates checks the rules that span several loan fields. It runs on the
// record as it will be stored, after a partial update has been merged in.
func LoanDates(l model.Loan) []FieldError {
	var errs []FieldError

	if !model.DateOf(l.DueDate).After(model.DateOf(l.LoanDate)) {
		errs = append(errs, FieldError{
			Field:   "due_date",
			Rule:    "after_loan_date",
			Message: "Due date must be after loan date",
		})
	}
	if !NotFuture(l.LoanDate) {
		errs = append(errs, FieldError{
			Field:   "loan_date",
			Rule:    "not_future",
			Message: "Loan date cannot be in the future",
		})
	}
	if l.ReturnDate != nil && !NotFuture(*l.ReturnDate) {
		errs = append(errs, FieldError{
			Field:   "return_date",
			Rule:    "not_future",
			Message: "Return date cannot be in the future",
		})
	}

	return errs
}
