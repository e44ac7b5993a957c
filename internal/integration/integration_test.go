//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/auth"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/db"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/handler"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const password = "Password123!"

var (
	testDB     *gorm.DB
	testRouter *gin.Engine
)

func TestMain(m *testing.M) {
	DBHost := os.Getenv("POSTGRES_HOST")
	DBPort := os.Getenv("POSTGRES_PORT")
	DBUser := os.Getenv("POSTGRES_USER")
	DBPass := os.Getenv("POSTGRES_PASSWORD")
	DBName := os.Getenv("POSTGRES_DB")
	DBSSLMode := "disable"
	TZ := os.Getenv("TZ")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		DBHost,
		DBUser,
		DBPass,
		DBName,
		DBPort,
		DBSSLMode,
		TZ,
	)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	testDB = gdb

	if err := db.Migrate(gdb); err != nil {
		panic("failed to migrate: " + err.Error())
	}

	auth.PasswordCost = bcrypt.MinCost

	gin.SetMode(gin.TestMode)
	r := gin.Default()

	authn := auth.NewAuthenticator(
		repository.NewGormMemberRepository(gdb),
		auth.NewTokenVerifier("integration-secret"),
		auth.NewMemorySessionStore(time.Hour),
	)
	handler.RegisterLibraryRoutes(r.Group("/api/library"), gdb, authn, false)

	testRouter = r

	code := m.Run()
	os.Exit(code)
}

func resetDB(t *testing.T) {
	t.Helper()
	sqlDB, err := testDB.DB()
	if err != nil {
		t.Fatalf("get sql.DB failed: %v", err)
	}
	_, err = sqlDB.Exec("TRUNCATE TABLE loans, book_copies, book_authors, books, authors, genres, publishers, members RESTART IDENTITY CASCADE;")
	if err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
}

func seedMember(t *testing.T, username string, staff bool) model.Member {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	m := model.Member{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsStaff:      staff,
	}
	if err := testDB.Create(&m).Error; err != nil {
		t.Fatalf("seed member %s: %v", username, err)
	}
	return m
}

type client struct {
	t       *testing.T
	baseURL string
	http    *http.Client
	user    string
}

func (c *client) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("failed to marshal request: %v", err)
		}
	}

	req, err := http.NewRequest(method, c.baseURL+"/api/library"+path, &buf)
	if err != nil {
		c.t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.user, password)

	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (c *client) create(path string, body any) string {
	c.t.Helper()

	resp, decoded := c.do(http.MethodPost, path, body)
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("POST %s: expected 201, got %d (%v)", path, resp.StatusCode, decoded)
	}
	id, _ := decoded["data"].(map[string]any)["id"].(string)
	if id == "" {
		c.t.Fatalf("POST %s: expected id in response, got %v", path, decoded)
	}
	return id
}

func TestLibraryFlow_Integration(t *testing.T) {
	resetDB(t)

	srv := httptest.NewServer(testRouter)
	defer srv.Close()

	seedMember(t, "librarian", true)
	reader := seedMember(t, "reader", false)

	staff := &client{t: t, baseURL: srv.URL, http: srv.Client(), user: "librarian"}
	patron := &client{t: t, baseURL: srv.URL, http: srv.Client(), user: "reader"}

	authorID := staff.create("/authors/", map[string]any{"name": "Robert C. Martin"})
	genreID := staff.create("/genres/", map[string]any{"name": "Software"})
	bookID := staff.create("/books/", map[string]any{
		"title":            "Clean Code",
		"authors":          []string{authorID},
		"genre":            genreID,
		"publication_date": "2008-08-01",
		"isbn":             "9780132350884",
		"pages":            464,
	})
	copyID := staff.create("/copies/", map[string]any{"book": bookID, "copy_id": "C1"})

	t.Run("duplicate_isbn", func(t *testing.T) {
		resp, _ := staff.do(http.MethodPost, "/books/", map[string]any{
			"title":            "Clean Code (again)",
			"authors":          []string{authorID},
			"publication_date": "2008-08-01",
			"isbn":             "9780132350884",
			"pages":            464,
		})
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("duplicate_copy_id", func(t *testing.T) {
		resp, _ := staff.do(http.MethodPost, "/copies/", map[string]any{"book": bookID, "copy_id": "C1"})
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("expected 409, got %d", resp.StatusCode)
		}
	})

	loanID := staff.create("/loans/", map[string]any{
		"book_copy": copyID,
		"member":    reader.ID.String(),
		"due_date":  time.Now().AddDate(0, 0, 14).Format("2006-01-02"),
	})

	t.Run("copy_is_on_loan", func(t *testing.T) {
		resp, body := patron.do(http.MethodGet, "/copies/"+copyID+"/", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if status := body["data"].(map[string]any)["status"]; status != "on_loan" {
			t.Errorf("expected on_loan, got %v", status)
		}
	})

	t.Run("reader_sees_own_loan", func(t *testing.T) {
		resp, body := patron.do(http.MethodGet, "/loans/", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if loans := body["data"].([]any); len(loans) != 1 {
			t.Errorf("expected 1 loan, got %d", len(loans))
		}

		resp, body = patron.do(http.MethodGet, "/members/me/", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if n := body["data"].(map[string]any)["active_loans"]; n != float64(1) {
			t.Errorf("expected 1 active loan, got %v", n)
		}
	})

	t.Run("return_releases_copy", func(t *testing.T) {
		resp, _ := staff.do(http.MethodPatch, "/loans/"+loanID+"/", map[string]any{
			"return_date": time.Now().Format("2006-01-02"),
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		_, body := patron.do(http.MethodGet, "/copies/"+copyID+"/", nil)
		if status := body["data"].(map[string]any)["status"]; status != "available" {
			t.Errorf("expected available, got %v", status)
		}
	})

	t.Run("book_with_history_is_protected", func(t *testing.T) {
		resp, _ := staff.do(http.MethodDelete, "/books/"+bookID+"/", nil)
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("expected 409, got %d", resp.StatusCode)
		}
	})
}

func TestSearch_NonASCII_Integration(t *testing.T) {
	resetDB(t)
	ctx := context.Background()

	zola := model.Author{Name: "Émile Zola"}
	if err := testDB.Create(&zola).Error; err != nil {
		t.Fatalf("seed author: %v", err)
	}
	book := model.Book{
		Title:           "Œuvres Complètes",
		ISBN:            "9782070000000",
		Pages:           900,
		PublicationDate: time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
		Authors:         []model.Author{zola},
	}
	if err := testDB.Omit("Authors.*").Create(&book).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}

	authors, err := repository.NewGormAuthorRepository(testDB).List(ctx, repository.AuthorListParams{Search: "ÉMILE"})
	if err != nil || len(authors) != 1 {
		t.Fatalf("expected Zola for ÉMILE, got %v / %v", authors, err)
	}

	for _, search := range []string{"œuvres", "ÉMILE zola"} {
		books, err := repository.NewGormBookRepository(testDB).List(ctx, repository.BookListParams{Search: search})
		if err != nil || len(books) != 1 {
			t.Errorf("expected one book for %q, got %d / %v", search, len(books), err)
		}
	}
}

// Concurrent checkouts of one copy must produce exactly one loan.
func TestConcurrentCheckout_Integration(t *testing.T) {
	resetDB(t)

	srv := httptest.NewServer(testRouter)
	defer srv.Close()

	seedMember(t, "librarian", true)
	staff := &client{t: t, baseURL: srv.URL, http: srv.Client(), user: "librarian"}

	authorID := staff.create("/authors/", map[string]any{"name": "Kent Beck"})
	bookID := staff.create("/books/", map[string]any{
		"title":            "Test Driven Development",
		"authors":          []string{authorID},
		"publication_date": "2002-11-08",
		"isbn":             "9780321146533",
		"pages":            240,
	})
	copyID := staff.create("/copies/", map[string]any{"book": bookID, "copy_id": "C1"})

	const borrowers = 8
	members := make([]model.Member, borrowers)
	for i := range members {
		members[i] = seedMember(t, fmt.Sprintf("borrower%d", i), false)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	due := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	for _, m := range members {
		wg.Add(1)
		go func(m model.Member) {
			defer wg.Done()

			b, _ := json.Marshal(map[string]any{"book_copy": copyID, "member": m.ID.String(), "due_date": due})
			req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/library/loans/", bytes.NewReader(b))
			req.Header.Set("Content-Type", "application/json")
			req.SetBasicAuth("librarian", password)

			resp, err := srv.Client().Do(req)
			if err != nil {
				return
			}
			resp.Body.Close()

			if resp.StatusCode == http.StatusCreated {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(m)
	}
	wg.Wait()

	if created != 1 {
		t.Fatalf("expected exactly one loan, got %d", created)
	}

	var loans int64
	testDB.Model(&model.Loan{}).Count(&loans)
	if loans != 1 {
		t.Fatalf("expected one stored loan, got %d", loans)
	}
}
