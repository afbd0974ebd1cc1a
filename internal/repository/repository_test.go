package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/nexus-cart/internal/domain"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_cart_items.up.sql",
			"../migrations/02_orders.up.sql",
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func startMongo(ctx context.Context) (*mongodb.MongoDBContainer, *mongo.Client, error) {
	mongoContainer, err := mongodb.Run(ctx, "mongo:8.0")
	if err != nil {
		return nil, nil, fmt.Errorf("mongodb.Run: %w", err)
	}

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("mc.ConnectionString: %w", err)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo.Connect: %w", err)
	}

	return mongoContainer, client, nil
}

var moneyOpts = cmp.Options{
	cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	}),
	cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	}),
}

func usd(amount string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(amount), currency.USD)
}

func randomSelection() domain.ConfigSelection {
	return domain.ConfigSelection{
		domain.CategoryGPU: {Name: gofakeit.Word(), Price: decimal.NewFromInt(int64(gofakeit.Number(0, 900)))},
		domain.CategoryRAM: {Name: fmt.Sprintf("%dGB", gofakeit.RandomInt([]int{8, 16, 32, 64})), Price: decimal.Zero},
	}
}

func randomUpsert(ownerID string, delta int) domain.UpsertLineParams {
	return domain.UpsertLineParams{
		OwnerID:       ownerID,
		ProductID:     uuid.MustParse(gofakeit.UUID()),
		Selection:     randomSelection(),
		UnitBasePrice: domain.NewMoney(decimal.NewFromFloat(gofakeit.Price(100, 3000)).Round(2), currency.USD),
		Delta:         delta,
	}
}

func assertNoDiff(t *testing.T, expected, actual any, opts ...cmp.Option) {
	t.Helper()

	if diff := cmp.Diff(expected, actual, append(opts, moneyOpts)...); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
