// Package testutil builds throwaway SQLite databases and seed records for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/copystatus"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/db"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const Password = "Password123!"

func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:testdb_" + uuid.New().String() + "?mode=memory&cache=shared&_foreign_keys=1"

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}
	// one connection keeps shared-cache SQLite from reporting table locks
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return gdb
}

// NewEmptyDB opens a database without tables, for exercising store failures.
func NewEmptyDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:errdb_" + uuid.New().String() + "?mode=memory&cache=shared"

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to error test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return gdb
}

func Day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Today is shorthand for model.Today offset by days.
func Today(days int) time.Time {
	return model.Today().AddDate(0, 0, days)
}

func SeedAuthor(t *testing.T, gdb *gorm.DB, name string) model.Author {
	t.Helper()

	author := model.Author{Name: name}
	if err := gdb.Create(&author).Error; err != nil {
		t.Fatalf("failed to seed author %q: %v", name, err)
	}
	return author
}

func SeedGenre(t *testing.T, gdb *gorm.DB, name string) model.Genre {
	t.Helper()

	genre := model.Genre{Name: name}
	if err := gdb.Create(&genre).Error; err != nil {
		t.Fatalf("failed to seed genre %q: %v", name, err)
	}
	return genre
}

func SeedPublisher(t *testing.T, gdb *gorm.DB, name string) model.Publisher {
	t.Helper()

	publisher := model.Publisher{Name: name}
	if err := gdb.Create(&publisher).Error; err != nil {
		t.Fatalf("failed to seed publisher %q: %v", name, err)
	}
	return publisher
}

func SeedBook(t *testing.T, gdb *gorm.DB, title, isbn string, authors ...model.Author) model.Book {
	t.Helper()

	book := model.Book{
		Title:           title,
		ISBN:            isbn,
		Pages:           255,
		PublicationDate: Day("1951-06-01"),
		Authors:         authors,
	}
	if err := gdb.Omit("Authors.*").Create(&book).Error; err != nil {
		t.Fatalf("failed to seed book %q: %v", title, err)
	}
	return book
}

func SeedCopy(t *testing.T, gdb *gorm.DB, book model.Book, copyID string, status copystatus.Status) model.BookCopy {
	t.Helper()

	bc := model.BookCopy{
		BookID:          book.ID,
		CopyID:          copyID,
		AcquisitionDate: Day("2020-01-01"),
		Status:          status,
		ConditionRating: 5,
	}
	if err := gdb.Create(&bc).Error; err != nil {
		t.Fatalf("failed to seed copy %q: %v", copyID, err)
	}
	return bc
}

func SeedMember(t *testing.T, gdb *gorm.DB, username string, staff bool) model.Member {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	member := model.Member{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsStaff:      staff,
	}
	if err := gdb.Create(&member).Error; err != nil {
		t.Fatalf("failed to seed member %q: %v", username, err)
	}
	return member
}

// SeedLoan inserts an active loan directly and marks the copy as taken, the
// way the loan repository would.
func SeedLoan(t *testing.T, gdb *gorm.DB, bc model.BookCopy, member model.Member) model.Loan {
	t.Helper()

	loan := model.Loan{
		BookCopyID: bc.ID,
		MemberID:   member.ID,
		LoanDate:   Today(-3),
		DueDate:    Today(11),
	}
	if err := gdb.Create(&loan).Error; err != nil {
		t.Fatalf("failed to seed loan: %v", err)
	}
	if err := gdb.Model(&model.BookCopy{}).Where("id = ?", bc.ID).Update("status", copystatus.OnLoan).Error; err != nil {
		t.Fatalf("failed to mark copy on loan: %v", err)
	}
	if err := gdb.Model(&model.Member{}).Where("id = ?", member.ID).
		UpdateColumn("active_loans", gorm.Expr("active_loans + 1")).Error; err != nil {
		t.Fatalf("failed to bump active loans: %v", err)
	}
	return loan
}
