package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pageza/recipe-hub/backend/internal/model"
)

const (
	// DefaultDatabase is the database holding the recipes collection
	DefaultDatabase = "RecipeApp"
	collectionName  = "recipes"
)

// recipeDocument is the stored shape of a recipe
type recipeDocument struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Title               string             `bson:"title"`
	Ingredients         []string           `bson:"ingredients"`
	DietaryRestrictions map[string]bool    `bson:"dietaryRestrictions"`
	Duration            string             `bson:"duration"`
	Instructions        string             `bson:"instructions"`
	ImageURL            string             `bson:"imageUrl"`
	CreatedAt           time.Time          `bson:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
}

func toDocument(r *model.Recipe) recipeDocument {
	flags := map[string]bool(r.DietaryRestrictions)
	if flags == nil {
		flags = map[string]bool{}
	}
	return recipeDocument{
		Title:               r.Title,
		Ingredients:         []string(r.Ingredients),
		DietaryRestrictions: flags,
		Duration:            r.Duration,
		Instructions:        r.Instructions,
		ImageURL:            r.ImageURL,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func (d recipeDocument) toModel() *model.Recipe {
	flags := model.Flags(d.DietaryRestrictions)
	if flags == nil {
		flags = model.Flags{}
	}
	ingredients := model.StringList(d.Ingredients)
	if ingredients == nil {
		ingredients = model.StringList{}
	}
	return &model.Recipe{
		ID:                  d.ID.Hex(),
		Title:               d.Title,
		Ingredients:         ingredients,
		DietaryRestrictions: flags,
		Duration:            d.Duration,
		Instructions:        d.Instructions,
		ImageURL:            d.ImageURL,
		CreatedAt:           d.CreatedAt.UTC(),
		UpdatedAt:           d.UpdatedAt.UTC(),
	}
}

// MongoStore persists recipes in a MongoDB collection
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to url and verifies the connection
func NewMongoStore(ctx context.Context, url, database string) (*MongoStore, error) {
	if url == "" {
		return nil, fmt.Errorf("database URL is not defined")
	}
	if database == "" {
		database = DefaultDatabase
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}

	logrus.WithField("database", database).Info("Connected successfully to MongoDB")
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collectionName),
	}, nil
}

// withSession runs fn inside its own session, ended whether fn fails or not
func (s *MongoStore) withSession(ctx context.Context, op string, fn func(sc mongo.SessionContext) error) error {
	err := s.client.UseSession(ctx, fn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		logrus.WithFields(logrus.Fields{"op": op, "error": err}).Error("MongoDB operation failed")
		return storeErr(op, err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, recipe *model.Recipe) (string, error) {
	doc := toDocument(recipe)
	doc.ID = primitive.NewObjectID()

	err := s.withSession(ctx, "insert", func(sc mongo.SessionContext) error {
		_, err := s.collection.InsertOne(sc, doc)
		return err
	})
	if err != nil {
		return "", err
	}

	recipe.ID = doc.ID.Hex()
	logrus.WithField("recipe_id", recipe.ID).Debug("Recipe stored in mongo")
	return recipe.ID, nil
}

func (s *MongoStore) FindAll(ctx context.Context) ([]*model.Recipe, error) {
	return s.find(ctx, "find all", bson.M{})
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound(id)
	}

	var doc recipeDocument
	err = s.withSession(ctx, "find by id", func(sc mongo.SessionContext) error {
		return s.collection.FindOne(sc, bson.M{"_id": oid}).Decode(&doc)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound(id)
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *MongoStore) FindByTitle(ctx context.Context, text string) ([]*model.Recipe, error) {
	filter := bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}}
	recipes, err := s.find(ctx, "search by title", filter)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"term": text, "count": len(recipes)}).Debug("Title search finished")
	return recipes, nil
}

func (s *MongoStore) FindByFlags(ctx context.Context, names []string) ([]*model.Recipe, error) {
	filter := bson.M{}
	for _, name := range names {
		// Flags are flat keys; a dotted or operator-like name can never be set.
		if name == "" || strings.ContainsAny(name, ".$") {
			return []*model.Recipe{}, nil
		}
		filter["dietaryRestrictions."+name] = true
	}
	return s.find(ctx, "filter by flags", filter)
}

func (s *MongoStore) Update(ctx context.Context, id string, patch model.RecipePatch) (int64, int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, 0, nil
	}

	update := bson.M{"$max": bson.M{"updatedAt": patch.UpdatedAt}}
	if set := mongoFields(patch); len(set) > 0 {
		update["$set"] = set
	}

	var result *mongo.UpdateResult
	err = s.withSession(ctx, "update", func(sc mongo.SessionContext) error {
		var err error
		result, err = s.collection.UpdateOne(sc, bson.M{"_id": oid}, update)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return result.MatchedCount, result.ModifiedCount, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}

	var result *mongo.DeleteResult
	err = s.withSession(ctx, "delete", func(sc mongo.SessionContext) error {
		var err error
		result, err = s.collection.DeleteOne(sc, bson.M{"_id": oid})
		return err
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (s *MongoStore) DeleteAll(ctx context.Context) (int64, error) {
	var result *mongo.DeleteResult
	err := s.withSession(ctx, "delete all", func(sc mongo.SessionContext) error {
		var err error
		result, err = s.collection.DeleteMany(sc, bson.M{})
		return err
	})
	if err != nil {
		return 0, err
	}
	logrus.WithField("count", result.DeletedCount).Info("Deleted recipes")
	return result.DeletedCount, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) find(ctx context.Context, op string, filter bson.M) ([]*model.Recipe, error) {
	var docs []recipeDocument
	err := s.withSession(ctx, op, func(sc mongo.SessionContext) error {
		cursor, err := s.collection.Find(sc, filter)
		if err != nil {
			return err
		}
		return cursor.All(sc, &docs)
	})
	if err != nil {
		return nil, err
	}

	recipes := make([]*model.Recipe, 0, len(docs))
	for _, doc := range docs {
		recipes = append(recipes, doc.toModel())
	}
	return recipes, nil
}

func mongoFields(patch model.RecipePatch) bson.M {
	set := bson.M{}
	for name, value := range patch.Fields() {
		switch v := value.(type) {
		case model.StringList:
			set[name] = []string(v)
		case model.Flags:
			set[name] = map[string]bool(v)
		default:
			set[name] = v
		}
	}
	return set
}
