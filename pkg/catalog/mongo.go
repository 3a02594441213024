package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Default collection names.
const (
	DefaultPolyfillsCollection = "polyfills"
	DefaultAliasesCollection   = "polyfill_aliases"
)

type polyfillDocument struct {
	Name string `bson:"_id"`
	Meta *Meta  `bson:"meta,omitempty"`
	Raw  string `bson:"raw,omitempty"`
	Min  string `bson:"min,omitempty"`
}

type aliasDocument struct {
	Name    string   `bson:"_id"`
	Members []string `bson:"members"`
}

// MongoCollection is the subset of *mongo.Collection used by MongoProvider.
type MongoCollection interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...options.Lister[options.BulkWriteOptions]) (*mongo.BulkWriteResult, error)
}

// MongoProvider stores one document per feature, keyed by feature name, and
// one document per alias.
type MongoProvider struct {
	polyfills MongoCollection
	aliases   MongoCollection
}

// MongoOption configures a MongoProvider.
type MongoOption func(*mongoOptions)

type mongoOptions struct {
	polyfills string
	aliases   string
}

// WithMongoCollections overrides the default collection names.
func WithMongoCollections(polyfills, aliases string) MongoOption {
	return func(o *mongoOptions) {
		if polyfills != "" {
			o.polyfills = polyfills
		}
		if aliases != "" {
			o.aliases = aliases
		}
	}
}

// NewMongoProvider returns a catalog stored in db.
func NewMongoProvider(db *mongo.Database, opts ...MongoOption) *MongoProvider {
	o := mongoOptions{polyfills: DefaultPolyfillsCollection, aliases: DefaultAliasesCollection}
	for _, opt := range opts {
		opt(&o)
	}
	return NewMongoProviderFromCollections(db.Collection(o.polyfills), db.Collection(o.aliases))
}

// NewMongoProviderFromCollections returns a catalog stored in the given
// feature and alias collections.
func NewMongoProviderFromCollections(polyfills, aliases MongoCollection) *MongoProvider {
	return &MongoProvider{polyfills: polyfills, aliases: aliases}
}

func classifyMongoError(err error, operation string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return errors.Join(ErrBackendFailure, fmt.Errorf("%s: %w", operation, err))
}

func (p *MongoProvider) findOne(ctx context.Context, name, field string) (polyfillDocument, error) {
	var doc polyfillDocument
	err := p.polyfills.FindOne(ctx,
		bson.D{{Key: "_id", Value: name}},
		options.FindOne().SetProjection(bson.D{{Key: field, Value: 1}}),
	).Decode(&doc)
	if err != nil {
		return doc, classifyMongoError(err, "find "+field)
	}
	return doc, nil
}

func (p *MongoProvider) Meta(ctx context.Context, name string) (*Meta, error) {
	doc, err := p.findOne(ctx, name, "meta")
	if err != nil {
		return nil, err
	}
	if doc.Meta == nil {
		return &Meta{}, nil
	}
	return doc.Meta, nil
}

func (p *MongoProvider) Source(ctx context.Context, name string, variant Variant) (string, error) {
	if !variant.Valid() {
		return "", ErrInvalidVariant
	}
	doc, err := p.findOne(ctx, name, string(variant))
	if err != nil {
		return "", err
	}
	if variant == VariantMin {
		return doc.Min, nil
	}
	return doc.Raw, nil
}

func (p *MongoProvider) Aliases(ctx context.Context) (map[string][]string, error) {
	cursor, err := p.aliases.Find(ctx, bson.D{})
	if err != nil {
		return nil, classifyMongoError(err, "find aliases")
	}
	var docs []aliasDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classifyMongoError(err, "decode aliases")
	}

	aliases := make(map[string][]string, len(docs))
	for _, doc := range docs {
		aliases[doc.Name] = doc.Members
	}
	return aliases, nil
}

// WriteRecords replaces or inserts every record with one unordered bulk write.
func (p *MongoProvider) WriteRecords(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(records))
	for _, r := range records {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: r.Name}}).
			SetReplacement(polyfillDocument{Name: r.Name, Meta: r.Meta, Raw: r.Raw, Min: r.Min}).
			SetUpsert(true))
	}
	if _, err := p.polyfills.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return classifyMongoError(err, "bulk write polyfills")
	}
	return nil
}

func (p *MongoProvider) WriteAliases(ctx context.Context, aliases map[string][]string) error {
	if len(aliases) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(aliases))
	for name, members := range aliases {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: name}}).
			SetReplacement(aliasDocument{Name: name, Members: members}).
			SetUpsert(true))
	}
	if _, err := p.aliases.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return classifyMongoError(err, "bulk write aliases")
	}
	return nil
}
