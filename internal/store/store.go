package store

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pageza/recipe-hub/backend/internal/apperr"
	"github.com/pageza/recipe-hub/backend/internal/model"
)

// RecipeStore is the adapter over the collection of recipe documents.
// Implementations never retry; driver failures surface as *apperr.StoreError.
type RecipeStore interface {
	Insert(ctx context.Context, recipe *model.Recipe) (string, error)
	FindAll(ctx context.Context) ([]*model.Recipe, error)
	FindByID(ctx context.Context, id string) (*model.Recipe, error)
	FindByTitle(ctx context.Context, text string) ([]*model.Recipe, error)
	FindByFlags(ctx context.Context, names []string) ([]*model.Recipe, error)
	Update(ctx context.Context, id string, patch model.RecipePatch) (matched, modified int64, err error)
	Delete(ctx context.Context, id string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// NewID generates a document identifier. Every backend uses ObjectID hex
// strings so ids look the same regardless of where recipes live.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed document identifier
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func notFound(id string) error {
	return &apperr.NotFoundError{ID: id}
}

func storeErr(op string, err error) error {
	return &apperr.StoreError{Op: op, Err: err}
}

func titleMatches(title, text string) bool {
	return strings.Contains(strings.ToLower(title), strings.ToLower(text))
}

// Options selects and configures a backend
type Options struct {
	Type     string
	URL      string
	Database string
}

// Open connects to the backend named by opts.Type. An empty type means mongo.
func Open(ctx context.Context, opts Options) (RecipeStore, error) {
	fields := logrus.Fields{"storageType": opts.Type}

	var (
		s   RecipeStore
		err error
	)
	switch opts.Type {
	case "memory":
		s = NewMemoryStore()
	case "sql", "sqlite", "postgres":
		fields["dsn"] = redactDSN(opts.URL)
		s, err = NewSQLStore(opts.URL)
	default:
		fields["storageType"] = "mongo"
		fields["database"] = opts.Database
		s, err = NewMongoStore(ctx, opts.URL, opts.Database)
	}
	if err != nil {
		return nil, err
	}
	logrus.WithFields(fields).Info("Use storage")
	return s, nil
}

func redactDSN(dsn string) string {
	if i := strings.Index(dsn, "@"); i >= 0 {
		if j := strings.Index(dsn, "://"); j >= 0 && j < i {
			return dsn[:j+3] + "***" + dsn[i:]
		}
	}
	return dsn
}
