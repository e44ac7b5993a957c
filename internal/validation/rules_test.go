package validation

import (
	"testing"
	"time"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/stretchr/testify/assert"
)

func fixToday(t *testing.T, day string) {
	t.Helper()

	fixed, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", day, err)
	}

	prev := model.Now
	model.Now = func() time.Time { return fixed.Add(15 * time.Hour) }
	t.Cleanup(func() { model.Now = prev })
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestISBN(t *testing.T) {
	assert.True(t, ISBN("1234567890"))
	assert.True(t, ISBN("9781234567897"))
	assert.False(t, ISBN("123456789"))
	assert.False(t, ISBN("12345678901"))
	assert.False(t, ISBN("123456789X"))
	assert.False(t, ISBN("978-1234567897"))
	assert.False(t, ISBN(""))
}

func TestGenreName(t *testing.T) {
	assert.True(t, GenreName("Science Fiction"))
	assert.True(t, GenreName("Poetry 101"))
	assert.False(t, GenreName("Sci-Fi"))
	assert.False(t, GenreName(""))
}

func TestWebsite(t *testing.T) {
	assert.True(t, Website("http://example.com"))
	assert.True(t, Website("https://example.com"))
	assert.False(t, Website("ftp://example.com"))
	assert.False(t, Website("example.com"))
}

func TestTwoDecimals(t *testing.T) {
	assert.True(t, TwoDecimals(0))
	assert.True(t, TwoDecimals(1.5))
	assert.True(t, TwoDecimals(9999.99))
	assert.True(t, TwoDecimals(0.1+0.2))
	assert.False(t, TwoDecimals(1.005))
	assert.False(t, TwoDecimals(0.001))
}

func TestNotFuture_ComparesCalendarDays(t *testing.T) {
	fixToday(t, "2024-06-15")

	assert.True(t, NotFuture(day("2024-06-15")))
	assert.True(t, NotFuture(day("2024-06-14")))
	assert.False(t, NotFuture(day("2024-06-16")))
}

func TestLoanDates(t *testing.T) {
	fixToday(t, "2024-06-15")

	ok := model.Loan{LoanDate: day("2024-06-01"), DueDate: day("2024-06-15")}
	assert.Empty(t, LoanDates(ok))

	sameDay := model.Loan{LoanDate: day("2024-06-01"), DueDate: day("2024-06-01")}
	errs := LoanDates(sameDay)
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "due_date", errs[0].Field)
	}

	future := day("2024-07-01")
	bad := model.Loan{LoanDate: day("2024-06-20"), DueDate: day("2024-06-10"), ReturnDate: &future}
	errs = LoanDates(bad)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"due_date", "loan_date", "return_date"}, fields)
}
