// Package seeds loads demo accounts and courses into a fresh database.
package seeds

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/learnhub/elearning-api/internal/access"
	"github.com/learnhub/elearning-api/internal/auth"
	"github.com/learnhub/elearning-api/internal/courses"
	"github.com/learnhub/elearning-api/internal/logging"
	"github.com/learnhub/elearning-api/internal/users"
)

//go:embed data/demo.json
var demoData []byte

type seedUser struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     access.Role `json:"role"`
}

type seedCourse struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    string  `json:"duration"`
	Price       float64 `json:"price"`
	Instructor  string  `json:"instructor"`
}

type Data struct {
	Users   []seedUser   `json:"users"`
	Courses []seedCourse `json:"courses"`
}

// Demo returns the bundled demo data set.
func Demo() (*Data, error) {
	var d Data
	if err := json.Unmarshal(demoData, &d); err != nil {
		return nil, fmt.Errorf("parse demo data: %w", err)
	}
	return &d, nil
}

type Seeder struct {
	Users   users.Repository
	Courses *courses.Service
	Hasher  *auth.PasswordHasher
	Logger  logging.Logger
}

// SeedAll inserts every user and course of d. Users whose email already
// exists are kept as they are, and a course is skipped when its instructor
// already has one with the same title.
func (s *Seeder) SeedAll(ctx context.Context, d *Data) error {
	if err := s.seedUsers(ctx, d.Users); err != nil {
		return err
	}
	return s.seedCourses(ctx, d.Courses)
}

func (s *Seeder) seedUsers(ctx context.Context, list []seedUser) error {
	created := 0
	for _, su := range list {
		_, err := s.Users.FindByEmail(ctx, su.Email)
		if err == nil {
			s.Logger.Info(ctx, "user exists, skipping", "email", su.Email)
			continue
		}
		if !errors.Is(err, users.ErrUserNotFound) {
			return fmt.Errorf("lookup %s: %w", su.Email, err)
		}

		hash, err := s.Hasher.Hash(su.Password)
		if err != nil {
			return err
		}
		u := &users.User{
			ID:           uuid.NewString(),
			Name:         su.Name,
			Email:        su.Email,
			Role:         su.Role,
			PasswordHash: hash,
		}
		if err := s.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", su.Email, err)
		}
		created++
	}
	s.Logger.Info(ctx, "seeded users", "created", created)
	return nil
}

func (s *Seeder) seedCourses(ctx context.Context, list []seedCourse) error {
	existing, err := s.Courses.List(ctx)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c.InstructorID+"|"+c.Title] = true
	}

	created := 0
	for _, sc := range list {
		owner, err := s.Users.FindByEmail(ctx, sc.Instructor)
		if err != nil {
			return fmt.Errorf("instructor %s: %w", sc.Instructor, err)
		}
		if have[owner.ID+"|"+sc.Title] {
			continue
		}

		price := sc.Price
		_, err = s.Courses.Create(ctx, owner.Identity(), courses.CreateCourseRequest{
			Title:       sc.Title,
			Description: sc.Description,
			Duration:    sc.Duration,
			Price:       &price,
		})
		if err != nil {
			return fmt.Errorf("create course %q: %w", sc.Title, err)
		}
		created++
	}
	s.Logger.Info(ctx, "seeded courses", "created", created)
	return nil
}
