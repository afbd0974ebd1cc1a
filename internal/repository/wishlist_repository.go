package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/logger"
	"github.com/nikolayk812/nexus-cart/internal/port"
)

type wishlistEntity struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	ProductID string    `bson:"product_id"`
	AddedAt   time.Time `bson:"added_at"`
}

type wishlistRepository struct {
	coll *mongo.Collection
}

func NewWishlist(collection *mongo.Collection) port.WishlistRepository {
	return &wishlistRepository{coll: collection}
}

// wishlistKey makes one document per (user, product) pair.
func wishlistKey(userID string, productID uuid.UUID) string {
	return userID + "/" + productID.String()
}

func (r *wishlistRepository) Add(ctx context.Context, userID string, productID uuid.UUID) (bool, error) {
	const op = "repository.wishlist.Add"

	key := wishlistKey(userID, productID)
	update := bson.M{"$setOnInsert": bson.M{
		"user_id":    userID,
		"product_id": productID.String(),
		"added_at":   time.Now().UTC(),
	}}

	res, err := r.coll.UpdateByID(ctx, key, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.UpsertedCount > 0, nil
}

func (r *wishlistRepository) Remove(ctx context.Context, userID string, productID uuid.UUID) (bool, error) {
	const op = "repository.wishlist.Remove"

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": wishlistKey(userID, productID)})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount > 0, nil
}

func (r *wishlistRepository) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	const op = "repository.wishlist.List"

	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}, {Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			logger.Warn(ctx, "failed to close cursor", logger.ErrorF(cerr))
		}
	}()

	var ents []wishlistEntity
	if err := cur.All(ctx, &ents); err != nil {
		return nil, fmt.Errorf("%s: cur.All: %w", op, err)
	}

	items := make([]domain.WishlistItem, 0, len(ents))
	for _, ent := range ents {
		productID, err := uuid.Parse(ent.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%s: product id[%s] is not valid: %w", op, ent.ProductID, err)
		}
		items = append(items, domain.WishlistItem{
			UserID:    ent.UserID,
			ProductID: productID,
			AddedAt:   ent.AddedAt,
		})
	}

	return items, nil
}
