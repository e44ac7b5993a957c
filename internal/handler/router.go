package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/auth"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
	"gorm.io/gorm"
)

// RegisterLibraryRoutes mounts every library resource on base. Everything
// except session login and logout requires an authenticated member.
func RegisterLibraryRoutes(base *gin.RouterGroup, db *gorm.DB, authn *auth.Authenticator, secureCookie bool) {
	validation.Register()

	sessions := authn.Sessions()
	if sessions != nil {
		NewSessionHandler(authn, sessions, secureCookie).RegisterRoutes(base)
	}

	api := base.Group("", authn.Required())

	NewAuthorHandler(repository.NewGormAuthorRepository(db)).RegisterRoutes(api)
	NewGenreHandler(repository.NewGormGenreRepository(db)).RegisterRoutes(api)
	NewPublisherHandler(repository.NewGormPublisherRepository(db)).RegisterRoutes(api)
	NewBookHandler(repository.NewGormBookRepository(db)).RegisterRoutes(api)
	NewCopyHandler(repository.NewGormCopyRepository(db)).RegisterRoutes(api)
	NewMemberHandler(repository.NewGormMemberRepository(db), sessions).RegisterRoutes(api)
	NewLoanHandler(repository.NewGormLoanRepository(db)).RegisterRoutes(api)
}
