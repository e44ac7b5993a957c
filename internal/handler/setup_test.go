package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/auth"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/testutil"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	basePath   = "/api/library"
	testSecret = "test-secret"
)

type testServer struct {
	db       *gorm.DB
	router   *gin.Engine
	sessions *auth.MemorySessionStore
	tokens   *auth.TokenVerifier
	staff    model.Member
	reader   model.Member
}

func init() {
	auth.PasswordCost = bcrypt.MinCost
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	s := &testServer{
		db:       db,
		sessions: auth.NewMemorySessionStore(time.Hour),
		tokens:   auth.NewTokenVerifier(testSecret),
		staff:    testutil.SeedMember(t, db, "librarian", true),
		reader:   testutil.SeedMember(t, db, "reader", false),
	}

	authn := auth.NewAuthenticator(repository.NewGormMemberRepository(db), s.tokens, s.sessions)

	s.router = gin.New()
	RegisterLibraryRoutes(s.router.Group(basePath), db, authn, false)

	return s
}

// newStubServer mounts a single handler, usually backed by a fake repository,
// behind the real authentication middleware.
func newStubServer(t *testing.T, register func(r *gin.RouterGroup)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Register()

	db := testutil.NewTestDB(t)
	s := &testServer{
		db:     db,
		staff:  testutil.SeedMember(t, db, "librarian", true),
		reader: testutil.SeedMember(t, db, "reader", false),
	}

	authn := auth.NewAuthenticator(repository.NewGormMemberRepository(db), nil, nil)

	s.router = gin.New()
	register(s.router.Group(basePath, authn.Required()))

	return s
}

// do sends body as JSON, authenticating as the given member with basic
// credentials. A nil member sends no credentials.
func (s *testServer) do(t *testing.T, method, path string, body any, as *model.Member) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	if !strings.HasPrefix(path, basePath) {
		path = basePath + path
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.SetBasicAuth(as.Username, testutil.Password)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()

	if w.Code != want {
		t.Fatalf("expected status %d, got %d, body=%s", want, w.Code, w.Body.String())
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to unmarshal response: %v, body=%s", err, w.Body.String())
	}
	return v
}

// fieldErrors indexes an error response by field name.
func fieldErrors(t *testing.T, w *httptest.ResponseRecorder) map[string]validation.FieldError {
	t.Helper()

	resp := decode[validation.ErrorResponse](t, w)
	out := make(map[string]validation.FieldError, len(resp.Errors))
	for _, fe := range resp.Errors {
		out[fe.Field] = fe
	}
	return out
}

func day(offset int) string {
	return testutil.Today(offset).Format("2006-01-02")
}
