package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/polyfill/pkg/catalog"
)

// MockMongoCollection is a mock implementation of catalog.MongoCollection.
// FindOne and Find answer by document id; the projection is ignored.
type MockMongoCollection struct {
	mock.Mock
}

func idOf(filter any) string {
	for _, e := range filter.(bson.D) {
		if e.Key == "_id" {
			return e.Value.(string)
		}
	}
	return ""
}

func (m *MockMongoCollection) FindOne(ctx context.Context, filter any, _ ...options.Lister[options.FindOneOptions]) *mongo.SingleResult {
	args := m.Called(ctx, idOf(filter))
	doc := args.Get(0)
	if doc == nil {
		doc = bson.D{}
	}
	return mongo.NewSingleResultFromDocument(doc, args.Error(1), nil)
}

func (m *MockMongoCollection) Find(ctx context.Context, _ any, _ ...options.Lister[options.FindOptions]) (*mongo.Cursor, error) {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	return mongo.NewCursorFromDocuments(args.Get(0).([]any), nil, nil)
}

func (m *MockMongoCollection) BulkWrite(ctx context.Context, models []mongo.WriteModel, _ ...options.Lister[options.BulkWriteOptions]) (*mongo.BulkWriteResult, error) {
	args := m.Called(ctx, models)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return &mongo.BulkWriteResult{UpsertedCount: int64(len(models))}, nil
}

func TestMongoProvider_Read(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mapDoc := bson.D{
		{Key: "_id", Value: "Map"},
		{Key: "meta", Value: bson.D{
			{Key: "dependencies", Value: bson.A{"Symbol"}},
			{Key: "license", Value: "MIT"},
		}},
		{Key: "raw", Value: "self.Map = {};"},
		{Key: "min", Value: "self.Map={};"},
	}

	features := &MockMongoCollection{}
	features.On("FindOne", mock.Anything, "Map").Return(mapDoc, nil)
	features.On("FindOne", mock.Anything, "Bare").Return(bson.D{{Key: "_id", Value: "Bare"}}, nil)
	features.On("FindOne", mock.Anything, "Nope").Return(nil, mongo.ErrNoDocuments)
	features.On("FindOne", mock.Anything, "Down").Return(nil, errors.New("server selection timeout"))

	aliases := &MockMongoCollection{}
	aliases.On("Find", mock.Anything).Return([]any{
		bson.D{{Key: "_id", Value: "es6"}, {Key: "members", Value: bson.A{"Map", "Set"}}},
	}, nil)

	p := catalog.NewMongoProviderFromCollections(features, aliases)

	meta, err := p.Meta(ctx, "Map")
	require.NoError(t, err)
	assert.Equal(t, []string{"Symbol"}, meta.Dependencies)
	assert.Equal(t, "MIT", meta.License)

	bare, err := p.Meta(ctx, "Bare")
	require.NoError(t, err)
	assert.Equal(t, &catalog.Meta{}, bare)

	_, err = p.Meta(ctx, "Nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = p.Meta(ctx, "Down")
	assert.ErrorIs(t, err, catalog.ErrBackendFailure)
	assert.NotErrorIs(t, err, catalog.ErrNotFound)

	raw, err := p.Source(ctx, "Map", catalog.VariantRaw)
	require.NoError(t, err)
	assert.Equal(t, "self.Map = {};", raw)

	minified, err := p.Source(ctx, "Map", catalog.VariantMin)
	require.NoError(t, err)
	assert.Equal(t, "self.Map={};", minified)

	_, err = p.Source(ctx, "Map", catalog.Variant("gz"))
	assert.ErrorIs(t, err, catalog.ErrInvalidVariant)

	table, err := p.Aliases(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"es6": {"Map", "Set"}}, table)

	features.AssertExpectations(t)
	aliases.AssertExpectations(t)
}

func TestMongoProvider_AliasesFailure(t *testing.T) {
	t.Parallel()

	aliases := &MockMongoCollection{}
	aliases.On("Find", mock.Anything).Return(nil, errors.New("connection reset"))

	p := catalog.NewMongoProviderFromCollections(&MockMongoCollection{}, aliases)
	_, err := p.Aliases(context.Background())
	assert.ErrorIs(t, err, catalog.ErrBackendFailure)
}

func TestMongoProvider_Write(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	features := &MockMongoCollection{}
	features.On("BulkWrite", mock.Anything, mock.MatchedBy(func(models []mongo.WriteModel) bool {
		return len(models) == 2
	})).Return(nil).Once()

	aliases := &MockMongoCollection{}
	aliases.On("BulkWrite", mock.Anything, mock.MatchedBy(func(models []mongo.WriteModel) bool {
		return len(models) == 1
	})).Return(errors.New("not primary")).Once()

	p := catalog.NewMongoProviderFromCollections(features, aliases)

	err := p.WriteRecords(ctx, []catalog.Record{
		{Name: "Map", Meta: &catalog.Meta{License: "MIT"}, Raw: "self.Map = {};", Min: "self.Map={};"},
		{Name: "Set", Meta: &catalog.Meta{}, Raw: "self.Set = {};"},
	})
	require.NoError(t, err)

	err = p.WriteAliases(ctx, map[string][]string{"es6": {"Map", "Set"}})
	assert.ErrorIs(t, err, catalog.ErrBackendFailure)

	// Empty input never reaches the store.
	require.NoError(t, p.WriteRecords(ctx, nil))
	require.NoError(t, p.WriteAliases(ctx, nil))

	features.AssertExpectations(t)
	aliases.AssertExpectations(t)
}
