package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"gorm.io/gorm"
)

type BookListParams struct {
	// Search matches title, isbn or any author name, case-insensitively.
	Search string
}

type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, params BookListParams) ([]model.Book, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var bookUnique = uniqueRule{
	index:   "idx_books_isbn",
	columns: "books.isbn",
	field:   "isbn",
	message: "This ISBN already exists",
}

type GormBookRepository struct {
	db *gorm.DB
}

func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

// Create stores book and links it to the authors whose IDs are set on
// book.Authors.
func (r *GormBookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkBookRefs(tx, book); err != nil {
			return err
		}
		authors, err := resolveAuthors(tx, book.AuthorIDs())
		if err != nil {
			return err
		}
		book.Authors = authors

		return classify(tx.Omit("Authors.*", "Copies").Create(book).Error, bookUnique)
	})
}

func (r *GormBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).
		Preload("Authors").
		First(&book, "id = ?", id).Error; err != nil {

		return nil, err
	}
	return &book, nil
}

func (r *GormBookRepository) List(ctx context.Context, params BookListParams) ([]model.Book, error) {
	q := r.db.WithContext(ctx).Model(&model.Book{}).Preload("Authors")

	if params.Search != "" {
		pattern := containsPattern(params.Search)
		byAuthor := r.db.Table("book_authors").
			Select("book_authors.book_id").
			Joins("JOIN authors ON authors.id = book_authors.author_id").
			Where(containsClause(r.db, "authors.name"), pattern)

		q = q.Where(
			containsClause(r.db, "books.title")+" OR "+containsClause(r.db, "books.isbn")+" OR books.id IN (?)",
			pattern, pattern, byAuthor,
		)
	}

	var books []model.Book
	if err := q.Order("books.title ASC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *GormBookRepository) Update(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkBookRefs(tx, book); err != nil {
			return err
		}
		authors, err := resolveAuthors(tx, book.AuthorIDs())
		if err != nil {
			return err
		}

		result := tx.Model(&model.Book{}).
			Where("id = ?", book.ID).
			Updates(map[string]any{
				"title":            book.Title,
				"genre_id":         book.GenreID,
				"publisher_id":     book.PublisherID,
				"publication_date": book.PublicationDate,
				"isbn":             book.ISBN,
				"pages":            book.Pages,
				"language":         book.Language,
			})
		if result.Error != nil {
			return classify(result.Error, bookUnique)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		book.Authors = authors
		return tx.Model(&model.Book{ID: book.ID}).Association("Authors").Replace(authors)
	})
}

// Delete removes the book with its copies, unless any copy has loan history.
func (r *GormBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loans int64
		if err := tx.Model(&model.Loan{}).
			Joins("JOIN book_copies ON book_copies.id = loans.book_copy_id").
			Where("book_copies.book_id = ?", id).
			Count(&loans).Error; err != nil {
			return err
		}
		if loans > 0 {
			return ErrProtected
		}

		if err := tx.Model(&model.Book{ID: id}).Association("Authors").Clear(); err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&model.BookCopy{}).Error; err != nil {
			return classifyDelete(err)
		}
		return deleteByID(tx, &model.Book{}, id)
	})
}

func checkBookRefs(tx *gorm.DB, book *model.Book) error {
	if err := mustExistOptional(tx, &model.Genre{}, book.GenreID, "genre"); err != nil {
		return err
	}
	return mustExistOptional(tx, &model.Publisher{}, book.PublisherID, "publisher")
}

// resolveAuthors loads every author in ids, failing on the first unknown one.
func resolveAuthors(tx *gorm.DB, ids []uuid.UUID) ([]model.Author, error) {
	if len(ids) == 0 {
		return []model.Author{}, nil
	}

	var authors []model.Author
	if err := tx.Where("id IN ?", ids).Find(&authors).Error; err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]bool, len(authors))
	for _, a := range authors {
		found[a.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, &ReferenceError{Field: "authors", ID: id.String()}
		}
	}
	return authors, nil
}
