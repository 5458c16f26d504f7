package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/identity-service/internal/core/domain"
)

const resetTokenCollection = "reset_tokens"

type ResetTokenRepository struct {
	coll *mongo.Collection
}

func NewResetTokenRepository(db *mongo.Database) *ResetTokenRepository {
	return &ResetTokenRepository{coll: db.Collection(resetTokenCollection)}
}

// EnsureIndexes creates the token lookup index and a TTL index that lets
// Mongo garbage-collect long-expired records. Expiry for correctness is
// still checked in Consume; the TTL index is only housekeeping.
func (r *ResetTokenRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(24 * 60 * 60),
		},
	})
	if err != nil {
		return fmt.Errorf("create reset token indexes: %w", err)
	}
	return nil
}

type mongoResetToken struct {
	Token      string    `bson:"token"`
	IdentityID string    `bson:"identity_id"`
	Email      string    `bson:"email"`
	ExpiresAt  time.Time `bson:"expires_at"`
	Consumed   bool      `bson:"consumed"`
	CreatedAt  time.Time `bson:"created_at"`
}

func (r *ResetTokenRepository) Save(ctx context.Context, token *domain.PasswordResetToken) error {
	doc := mongoResetToken{
		Token:      token.Token,
		IdentityID: token.IdentityID,
		Email:      token.Email,
		ExpiresAt:  token.ExpiresAt,
		Consumed:   token.Consumed,
		CreatedAt:  token.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

// Consume flips consumed from false to true in a single FindOneAndUpdate.
// The filter includes the expiry, so an expired or already-consumed token
// matches nothing — exactly one concurrent caller can ever win.
func (r *ResetTokenRepository) Consume(ctx context.Context, token string, now time.Time) (*domain.PasswordResetToken, error) {
	filter := bson.M{
		"token":      token,
		"consumed":   false,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"consumed": true}}

	var mt mongoResetToken
	err := r.coll.FindOneAndUpdate(ctx, filter, update).Decode(&mt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrResetTokenInvalid
		}
		return nil, fmt.Errorf("consume reset token: %w", err)
	}

	return &domain.PasswordResetToken{
		Token:      mt.Token,
		IdentityID: mt.IdentityID,
		Email:      mt.Email,
		ExpiresAt:  mt.ExpiresAt,
		Consumed:   true,
		CreatedAt:  mt.CreatedAt,
	}, nil
}
