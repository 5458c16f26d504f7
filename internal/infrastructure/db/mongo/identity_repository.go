package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/identity-service/internal/core/domain"
)

const identityCollection = "identities"

type IdentityRepository struct {
	coll *mongo.Collection
}

// NewIdentityRepository wraps the identities collection. EnsureIndexes must
// run at startup before the first Create: the unique email index is what
// makes the uniqueness check and insert one atomic step.
func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{coll: db.Collection(identityCollection)}
}

// EnsureIndexes creates the unique index on email.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

type mongoIdentity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Role         string             `bson:"role"`
	PasswordHash string             `bson:"password_hash"`
	FirstName    string             `bson:"first_name,omitempty"`
	LastName     string             `bson:"last_name,omitempty"`
	Phone        string             `bson:"phone,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	doc := mongoIdentity{
		Email:        identity.Email,
		Role:         identity.Role,
		PasswordHash: identity.PasswordHash,
		FirstName:    identity.FirstName,
		LastName:     identity.LastName,
		Phone:        identity.Phone,
		CreatedAt:    identity.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	created := *identity
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var mi mongoIdentity
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *IdentityRepository) UpdatePasswordHash(ctx context.Context, identityID, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(identityID)
	if err != nil {
		return domain.ErrIdentityNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"password_hash": passwordHash}},
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (r *IdentityRepository) ListCustomers(ctx context.Context) ([]domain.Identity, error) {
	cur, err := r.coll.Find(ctx, bson.M{"role": domain.RoleCustomer})
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Identity
	for cur.Next(ctx) {
		var mi mongoIdentity
		if err := cur.Decode(&mi); err != nil {
			return nil, fmt.Errorf("decode identity: %w", err)
		}
		out = append(out, *mi.toDomain())
	}
	return out, cur.Err()
}

func (mi *mongoIdentity) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:           mi.ID.Hex(),
		Email:        mi.Email,
		Role:         mi.Role,
		PasswordHash: mi.PasswordHash,
		FirstName:    mi.FirstName,
		LastName:     mi.LastName,
		Phone:        mi.Phone,
		CreatedAt:    unixToTime(mi.CreatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
