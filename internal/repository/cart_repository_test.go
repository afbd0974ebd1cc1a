package repository_test

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/sync/errgroup"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/port"
	"github.com/nikolayk812/nexus-cart/internal/repository"
)

type cartRepositorySuite struct {
	suite.Suite

	repo      port.CartRepository
	pool      *pgxpool.Pool
	container *postgres.PostgresContainer
}

func TestCartRepositorySuite(t *testing.T) {
	suite.Run(t, new(cartRepositorySuite))
}

func (suite *cartRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	container, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)
	suite.container = container

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewCart(suite.pool)
}

func (suite *cartRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
	suite.NoError(testcontainers.TerminateContainer(suite.container))
}

func (suite *cartRepositorySuite) TearDownTest() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE cart_items")
	suite.NoError(err)
}

func (suite *cartRepositorySuite) TestUpsertLine_SameIdentityAccumulates() {
	t := suite.T()
	ctx := t.Context()

	params := randomUpsert(gofakeit.UUID(), 1)

	first, err := suite.repo.UpsertLine(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, domain.UpsertCreated, first.Outcome)

	params.Delta = 2
	second, err := suite.repo.UpsertLine(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, domain.UpsertUpdated, second.Outcome)
	assert.Equal(t, first.Line.ID, second.Line.ID)

	lines, err := suite.repo.GetLines(ctx, params.OwnerID)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	got := lines[0]
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, params.Selection.Fingerprint(), got.Fingerprint)
	assertNoDiff(t, params.UnitBasePrice, got.UnitBasePrice)
	assertNoDiff(t, params.Selection, got.Selection)
	assert.False(t, got.CreatedAt.IsZero())
}

func (suite *cartRepositorySuite) TestUpsertLine_ConcurrentSameIdentity() {
	t := suite.T()
	ctx := t.Context()

	const writers = 20
	params := randomUpsert(gofakeit.UUID(), 1)

	var created atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for range writers {
		g.Go(func() error {
			res, err := suite.repo.UpsertLine(gctx, params)
			if err != nil {
				return err
			}
			if res.Outcome == domain.UpsertCreated {
				created.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	lines, err := suite.repo.GetLines(ctx, params.OwnerID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, writers, lines[0].Quantity)
	assert.EqualValues(t, 1, created.Load())
}

func (suite *cartRepositorySuite) TestUpsertLine_QuantityOutOfRange() {
	t := suite.T()
	ctx := t.Context()

	params := randomUpsert(gofakeit.UUID(), 4294967297)
	_, err := suite.repo.UpsertLine(ctx, params)
	require.ErrorIs(t, err, domain.ErrValidation)

	lines, err := suite.repo.GetLines(ctx, params.OwnerID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	params.Delta = math.MaxInt32 - 1
	_, err = suite.repo.UpsertLine(ctx, params)
	require.NoError(t, err)

	params.Delta = 2
	_, err = suite.repo.UpsertLine(ctx, params)
	require.ErrorIs(t, err, domain.ErrValidation)

	line, err := suite.repo.GetLines(ctx, params.OwnerID)
	require.NoError(t, err)
	require.Len(t, line, 1)
	assert.Equal(t, math.MaxInt32-1, line[0].Quantity)

	_, err = suite.repo.SetQuantity(ctx, params.OwnerID, line[0].ID, math.MaxInt32+1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func (suite *cartRepositorySuite) TestUpsertLine_DistinctConfigurations() {
	t := suite.T()
	ctx := t.Context()

	a := randomUpsert(gofakeit.UUID(), 1)
	b := a
	b.Selection = domain.ConfigSelection{
		domain.CategoryGPU: {Name: a.Selection[domain.CategoryGPU].Name + "-ti", Price: decimal.NewFromInt(10)},
	}

	_, err := suite.repo.UpsertLine(ctx, a)
	require.NoError(t, err)
	_, err = suite.repo.UpsertLine(ctx, b)
	require.NoError(t, err)

	lines, err := suite.repo.GetLines(ctx, a.OwnerID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, a.Selection.Fingerprint(), lines[0].Fingerprint)
	assert.Equal(t, b.Selection.Fingerprint(), lines[1].Fingerprint)

	count, err := suite.repo.CountItems(ctx, a.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func (suite *cartRepositorySuite) TestUpsertLine_Decrement() {
	tests := []struct {
		name        string
		start       int
		delta       int
		wantOutcome domain.UpsertOutcome
		wantQty     int
	}{
		{name: "partial decrement", start: 3, delta: -1, wantOutcome: domain.UpsertUpdated, wantQty: 2},
		{name: "to zero removes line", start: 2, delta: -2, wantOutcome: domain.UpsertDeleted, wantQty: 0},
		{name: "below zero removes line", start: 1, delta: -5, wantOutcome: domain.UpsertDeleted, wantQty: 0},
		{name: "absent line is a noop", start: 0, delta: -1, wantOutcome: domain.UpsertNoop, wantQty: 0},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			params := randomUpsert(gofakeit.UUID(), tt.start)
			if tt.start > 0 {
				_, err := suite.repo.UpsertLine(ctx, params)
				require.NoError(t, err)
			}

			params.Delta = tt.delta
			res, err := suite.repo.UpsertLine(ctx, params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, res.Outcome)

			count, err := suite.repo.CountItems(ctx, params.OwnerID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQty, count)
		})
	}
}

func (suite *cartRepositorySuite) TestUpsertLine_EmptyOwner() {
	_, err := suite.repo.UpsertLine(suite.T().Context(), randomUpsert("", 1))
	suite.EqualError(err, "ownerID is empty")
}

func (suite *cartRepositorySuite) TestGetLine() {
	t := suite.T()
	ctx := t.Context()

	params := randomUpsert(gofakeit.UUID(), 2)
	res, err := suite.repo.UpsertLine(ctx, params)
	require.NoError(t, err)

	line, err := suite.repo.GetLine(ctx, params.OwnerID, res.Line.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, params.OwnerID, line.OwnerID)

	_, err = suite.repo.GetLine(ctx, "someone-else", res.Line.ID)
	assert.ErrorIs(t, err, domain.ErrLineNotFound)

	_, err = suite.repo.GetLine(ctx, params.OwnerID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrLineNotFound)
}

func (suite *cartRepositorySuite) TestSetQuantity() {
	t := suite.T()
	ctx := t.Context()

	params := randomUpsert(gofakeit.UUID(), 1)
	res, err := suite.repo.UpsertLine(ctx, params)
	require.NoError(t, err)

	updated, err := suite.repo.SetQuantity(ctx, params.OwnerID, res.Line.ID, 7)
	require.NoError(t, err)
	assert.True(t, updated)

	line, err := suite.repo.GetLine(ctx, params.OwnerID, res.Line.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, line.Quantity)

	updated, err = suite.repo.SetQuantity(ctx, params.OwnerID, uuid.New(), 7)
	require.NoError(t, err)
	assert.False(t, updated)

	_, err = suite.repo.SetQuantity(ctx, params.OwnerID, res.Line.ID, 0)
	assert.EqualError(t, err, "quantity must be positive")
}

func (suite *cartRepositorySuite) TestDeleteLineAndAll() {
	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.UUID()
	var ids []uuid.UUID
	for range 3 {
		res, err := suite.repo.UpsertLine(ctx, randomUpsert(ownerID, 1))
		require.NoError(t, err)
		ids = append(ids, res.Line.ID)
	}
	other := randomUpsert(gofakeit.UUID(), 4)
	_, err := suite.repo.UpsertLine(ctx, other)
	require.NoError(t, err)

	deleted, err := suite.repo.DeleteLine(ctx, ownerID, ids[0])
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = suite.repo.DeleteLine(ctx, ownerID, ids[0])
	require.NoError(t, err)
	assert.False(t, deleted)

	n, err := suite.repo.DeleteAll(ctx, ownerID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	lines, err := suite.repo.GetLines(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	count, err := suite.repo.CountItems(ctx, other.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func (suite *cartRepositorySuite) TestNewCartWithTx_Rollback() {
	t := suite.T()
	ctx := t.Context()

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)

	params := randomUpsert(gofakeit.UUID(), 2)
	_, err = repository.NewCartWithTx(tx).UpsertLine(ctx, params)
	require.NoError(t, err)

	require.NoError(t, tx.Rollback(ctx))

	lines, err := suite.repo.GetLines(ctx, params.OwnerID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
