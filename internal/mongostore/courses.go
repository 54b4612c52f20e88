package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/learnhub/elearning-api/internal/courses"
)

type CourseRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{coll: db.Collection(coursesCollection), now: time.Now}
}

func (r *CourseRepository) Create(ctx context.Context, c *courses.Course) error {
	now := r.now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Students == nil {
		c.Students = courses.StringList{}
	}
	if c.Media == nil {
		c.Media = courses.StringList{}
	}
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*courses.Course, error) {
	var c courses.Course
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, courses.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &c, nil
}

func (r *CourseRepository) List(ctx context.Context) ([]courses.Course, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	var out []courses.Course
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return out, nil
}

func (r *CourseRepository) Update(ctx context.Context, c *courses.Course) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"title":       c.Title,
		"description": c.Description,
		"duration":    c.Duration,
		"price":       c.Price,
		"updatedAt":   r.now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if res.MatchedCount == 0 {
		return courses.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if res.DeletedCount == 0 {
		return courses.ErrCourseNotFound
	}
	return nil
}

// AddStudent matches only courses that do not yet list the student, so the
// membership check and the write are one atomic operation.
func (r *CourseRepository) AddStudent(ctx context.Context, courseID, studentID string) (*courses.Course, error) {
	var c courses.Course
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": courseID, "students": bson.M{"$ne": studentID}},
		bson.M{
			"$addToSet": bson.M{"students": studentID},
			"$set":      bson.M{"updatedAt": r.now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("enroll student: %w", err)
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("count course: %w", err)
	}
	if n == 0 {
		return nil, courses.ErrCourseNotFound
	}
	return nil, courses.ErrAlreadyEnrolled
}

func (r *CourseRepository) AddMedia(ctx context.Context, courseID, url string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": courseID}, bson.M{
		"$push": bson.M{"media": url},
		"$set":  bson.M{"updatedAt": r.now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("add media: %w", err)
	}
	if res.MatchedCount == 0 {
		return courses.ErrCourseNotFound
	}
	return nil
}
