package repository_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/port"
	"github.com/nikolayk812/nexus-cart/internal/repository"
)

type wishlistRepositorySuite struct {
	suite.Suite

	repo      port.WishlistRepository
	client    *mongo.Client
	coll      *mongo.Collection
	container *mongodb.MongoDBContainer
}

func TestWishlistRepositorySuite(t *testing.T) {
	suite.Run(t, new(wishlistRepositorySuite))
}

func (suite *wishlistRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	container, client, err := startMongo(ctx)
	suite.Require().NoError(err)

	suite.container = container
	suite.client = client
	suite.coll = client.Database("nexus").Collection("wishlists")
	suite.repo = repository.NewWishlist(suite.coll)
}

func (suite *wishlistRepositorySuite) TearDownSuite() {
	if suite.client != nil {
		suite.NoError(suite.client.Disconnect(suite.T().Context()))
	}
	suite.NoError(testcontainers.TerminateContainer(suite.container))
}

func (suite *wishlistRepositorySuite) TearDownTest() {
	_, err := suite.coll.DeleteMany(suite.T().Context(), bson.M{})
	suite.NoError(err)
}

func (suite *wishlistRepositorySuite) TestAddListRemove() {
	t := suite.T()
	ctx := t.Context()

	first, second := uuid.New(), uuid.New()

	added, err := suite.repo.Add(ctx, "user-1", first)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = suite.repo.Add(ctx, "user-1", second)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = suite.repo.Add(ctx, "user-1", first)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = suite.repo.Add(ctx, "user-2", first)
	require.NoError(t, err)

	items, err := suite.repo.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, lo.Map(items, func(i domain.WishlistItem, _ int) uuid.UUID { return i.ProductID }))
	assert.Equal(t, "user-1", items[0].UserID)
	assert.False(t, items[0].AddedAt.Before(items[1].AddedAt))

	removed, err := suite.repo.Remove(ctx, "user-1", first)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = suite.repo.Remove(ctx, "user-1", first)
	require.NoError(t, err)
	assert.False(t, removed)

	items, err = suite.repo.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second, items[0].ProductID)

	others, err := suite.repo.List(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, others, 1)

	empty, err := suite.repo.List(ctx, "user-3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func (suite *wishlistRepositorySuite) TestConcurrentAddsOfOneProduct() {
	t := suite.T()
	ctx := t.Context()

	productID := uuid.New()

	var g errgroup.Group
	for range 10 {
		g.Go(func() error {
			_, err := suite.repo.Add(ctx, "user-1", productID)
			return err
		})
	}
	require.NoError(t, g.Wait())

	items, err := suite.repo.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
