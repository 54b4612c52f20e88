package courses

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/learnhub/elearning-api/internal/apperr"
)

var (
	ErrCourseNotFound   = apperr.New(apperr.ErrNotFound, "Course not found")
	ErrAlreadyEnrolled  = apperr.New(apperr.ErrConflict, "Already enrolled in this course")
	ErrMediaUnavailable = apperr.New(apperr.ErrUnavailable, "Media storage is not configured")
)

type Repository interface {
	Create(ctx context.Context, c *Course) error
	FindByID(ctx context.Context, id string) (*Course, error)
	List(ctx context.Context) ([]Course, error)
	// Update persists the editable fields of c.
	Update(ctx context.Context, c *Course) error
	Delete(ctx context.Context, id string) error
	// AddStudent appends studentID once; a repeat returns ErrAlreadyEnrolled.
	AddStudent(ctx context.Context, courseID, studentID string) (*Course, error)
	AddMedia(ctx context.Context, courseID, url string) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Course{})
}

func (r *GormRepository) Create(ctx context.Context, c *Course) error {
	c.normalize()
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*Course, error) {
	return findByID(r.db.WithContext(ctx), id)
}

func findByID(tx *gorm.DB, id string) (*Course, error) {
	var c Course
	if err := tx.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	c.normalize()
	return &c, nil
}

func (r *GormRepository) List(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := r.db.WithContext(ctx).Order("created_at").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	for i := range out {
		out[i].normalize()
	}
	return out, nil
}

func (r *GormRepository) Update(ctx context.Context, c *Course) error {
	res := r.db.WithContext(ctx).Model(&Course{}).Where("id = ?", c.ID).Updates(map[string]any{
		"title":       c.Title,
		"description": c.Description,
		"duration":    c.Duration,
		"price":       c.Price,
	})
	if res.Error != nil {
		return fmt.Errorf("update course: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Course{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete course: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// AddStudent locks the row so concurrent enrollments of the same student
// cannot both pass the membership check.
func (r *GormRepository) AddStudent(ctx context.Context, courseID, studentID string) (*Course, error) {
	var out *Course
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findByID(tx.Clauses(clause.Locking{Strength: "UPDATE"}), courseID)
		if err != nil {
			return err
		}
		if c.Students.Contains(studentID) {
			return ErrAlreadyEnrolled
		}
		c.Students = append(c.Students, studentID)
		if err := tx.Model(&Course{}).Where("id = ?", courseID).Update("students", c.Students).Error; err != nil {
			return fmt.Errorf("enroll student: %w", err)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepository) AddMedia(ctx context.Context, courseID, url string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findByID(tx.Clauses(clause.Locking{Strength: "UPDATE"}), courseID)
		if err != nil {
			return err
		}
		c.Media = append(c.Media, url)
		if err := tx.Model(&Course{}).Where("id = ?", courseID).Update("media", c.Media).Error; err != nil {
			return fmt.Errorf("add media: %w", err)
		}
		return nil
	})
}
