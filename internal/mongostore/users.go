package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/learnhub/elearning-api/internal/users"
)

type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection), now: time.Now}
}

func (r *UserRepository) Create(ctx context.Context, u *users.User) error {
	now := r.now().UTC()
	u.Email = users.NormalizeEmail(u.Email)
	u.CreatedAt, u.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return users.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*users.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.findOne(ctx, bson.M{"email": users.NormalizeEmail(email)})
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*users.User, error) {
	return r.findOne(ctx, bson.M{
		"resetToken":       token,
		"resetTokenExpiry": bson.M{"$gt": now.UTC()},
	})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*users.User, error) {
	var u users.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]users.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var out []users.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return out, nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, token string, expiry time.Time) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{
		"resetToken":       token,
		"resetTokenExpiry": users.CeilTime(expiry.UTC(), time.Millisecond),
		"updatedAt":        r.now().UTC(),
	}})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.update(ctx, id, bson.M{
		"$set":   bson.M{"password": hash, "updatedAt": r.now().UTC()},
		"$unset": bson.M{"resetToken": "", "resetTokenExpiry": ""},
	})
}

func (r *UserRepository) update(ctx context.Context, id string, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return users.ErrUserNotFound
	}
	return nil
}
