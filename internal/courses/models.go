package courses

import (
	"database/sql/driver"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/learnhub/elearning-api/internal/apperr"
)

// StringList is stored as a text[] on Postgres and as the same array
// literal in a text column elsewhere.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *StringList) Scan(src any) error {
	return (*pq.StringArray)(l).Scan(src)
}

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

type Course struct {
	ID           string     `gorm:"primaryKey;type:text" bson:"_id" json:"id"`
	Title        string     `gorm:"not null" bson:"title" json:"title"`
	Description  string     `bson:"description" json:"description"`
	InstructorID string     `gorm:"index;not null" bson:"instructor" json:"instructor"`
	Duration     string     `gorm:"not null" bson:"duration" json:"duration"`
	Price        float64    `gorm:"not null" bson:"price" json:"price"`
	Students     StringList `bson:"students" json:"students"`
	Media        StringList `bson:"media" json:"media"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// normalize replaces nil lists so they encode as [] rather than null.
func (c *Course) normalize() {
	if c.Students == nil {
		c.Students = StringList{}
	}
	if c.Media == nil {
		c.Media = StringList{}
	}
}

type CreateCourseRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Price       *float64 `json:"price"`
}

func (r CreateCourseRequest) Validate() error {
	return apperr.Validation(validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.Duration, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Price, validation.NotNil, validation.Min(float64(0))),
	))
}

// UpdateCourseRequest carries only the fields the caller sent.
type UpdateCourseRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Duration    *string  `json:"duration"`
	Price       *float64 `json:"price"`
}

func (r UpdateCourseRequest) Validate() error {
	return apperr.Validation(validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.Duration, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Price, validation.Min(float64(0))),
	))
}

func (r UpdateCourseRequest) apply(c *Course) {
	if r.Title != nil {
		c.Title = *r.Title
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
	if r.Duration != nil {
		c.Duration = *r.Duration
	}
	if r.Price != nil {
		c.Price = *r.Price
	}
}

type MediaUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
