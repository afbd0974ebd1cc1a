package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/logger"
	"github.com/nikolayk812/nexus-cart/internal/port"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type productRepository struct {
	coll *mongo.Collection
}

func NewProduct(collection *mongo.Collection) port.ProductRepository {
	return &productRepository{coll: collection}
}

func (r *productRepository) ProductByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	const op = "repository.ProductByID"

	var ent productEntity
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := productToDomain(ent)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (r *productRepository) ProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	const op = "repository.ProductsByIDs"

	if len(ids) == 0 {
		return map[uuid.UUID]domain.Product{}, nil
	}

	keys := lo.Uniq(lo.Map(ids, func(id uuid.UUID, _ int) string { return id.String() }))

	products, err := r.find(ctx, bson.M{"_id": bson.M{"$in": keys}}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return lo.KeyBy(products, func(p domain.Product) uuid.UUID { return p.ID }), nil
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	const op = "repository.List"

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		re := bson.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"brand": re},
			bson.M{"model": re},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	products, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return products, nil
}

func (r *productRepository) Create(ctx context.Context, p domain.Product) (uuid.UUID, error) {
	const op = "repository.Create"

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	ent, err := productFromDomain(p)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.coll.InsertOne(ctx, ent); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return p.ID, nil
}

func (r *productRepository) Update(ctx context.Context, p domain.Product) error {
	const op = "repository.Update"

	if p.ID == uuid.Nil {
		return fmt.Errorf("%s: product ID is empty", op)
	}
	p.UpdatedAt = time.Now()

	ent, err := productFromDomain(p)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	update := bson.M{"$set": bson.M{
		"name":           ent.Name,
		"brand":          ent.Brand,
		"model":          ent.Model,
		"description":    ent.Description,
		"category":       ent.Category,
		"price_amount":   ent.PriceAmount,
		"price_currency": ent.PriceCurrency,
		"rating":         ent.Rating,
		"features":       ent.Features,
		"configurations": ent.Configurations,
		"images":         ent.Images,
		"specs":          ent.Specs,
		"updated_at":     ent.UpdatedAt,
	}}

	res, err := r.coll.UpdateByID(ctx, ent.ID, update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	const op = "repository.Delete"

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount > 0, nil
}

func (r *productRepository) find(ctx context.Context, query bson.M, opts *options.FindOptionsBuilder) ([]domain.Product, error) {
	var findOpts []options.Lister[options.FindOptions]
	if opts != nil {
		findOpts = append(findOpts, opts)
	}

	cur, err := r.coll.Find(ctx, query, findOpts...)
	if err != nil {
		return nil, fmt.Errorf("coll.Find: %w", err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			logger.Warn(ctx, "failed to close cursor", logger.ErrorF(cerr))
		}
	}()

	out := make([]domain.Product, 0)
	for cur.Next(ctx) {
		var ent productEntity
		if err := cur.Decode(&ent); err != nil {
			return nil, fmt.Errorf("cur.Decode: %w", err)
		}

		p, err := productToDomain(ent)
		if err != nil {
			return nil, fmt.Errorf("productToDomain: %w", err)
		}
		out = append(out, p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cur.Err: %w", err)
	}

	return out, nil
}
