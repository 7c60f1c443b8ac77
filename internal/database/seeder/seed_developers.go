package seeder

import (
	"context"
	"encoding/json"
	"time"

	"connecty/internal/database"
	"connecty/internal/domain/profile"
	ucauth "connecty/internal/usecase/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every seeded developer account.
const DemoPassword = "connecty123"

// DevelopersSeeder inserts a few demo accounts with profiles. Existing emails
// and handles are left alone so the seeder can run on every start.
type DevelopersSeeder struct{}

func (DevelopersSeeder) Name() string { return "developers" }

type demoDeveloper struct {
	Name       string
	Email      string
	Handle     string
	Status     string
	Company    string
	Location   string
	Skills     []string
	GitHub     string
	Experience []profile.Experience
	Education  []profile.Education
}

func demoDevelopers() []demoDeveloper {
	date := func(y int, m time.Month) time.Time { return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC) }
	to := date(2021, time.June)

	return []demoDeveloper{
		{
			Name: "Ada Lovelace", Email: "ada@connecty.dev", Handle: "ada",
			Status: "Senior Developer", Company: "Analytical Engines", Location: "London",
			Skills: []string{"Go", "PostgreSQL", "Algorithms"}, GitHub: "ada",
			Experience: []profile.Experience{
				{ID: uuid.New(), Title: "Staff Engineer", Company: "Analytical Engines", From: date(2021, time.July), Current: true},
				{ID: uuid.New(), Title: "Backend Developer", Company: "Difference Labs", From: date(2017, time.March), To: &to},
			},
			Education: []profile.Education{
				{ID: uuid.New(), School: "University of London", Degree: "BSc", FieldOfStudy: "Mathematics", From: date(2012, time.September), To: &to},
			},
		},
		{
			Name: "Grace Hopper", Email: "grace@connecty.dev", Handle: "grace",
			Status: "Instructor", Company: "Compilers Inc", Location: "New York",
			Skills: []string{"COBOL", "Compilers", "Go"}, GitHub: "grace",
			Experience: []profile.Experience{
				{ID: uuid.New(), Title: "Principal Engineer", Company: "Compilers Inc", From: date(2019, time.January), Current: true},
			},
		},
		{
			Name: "Linus Pauling", Email: "linus@connecty.dev", Handle: "linus",
			Status: "Junior Developer", Location: "Portland",
			Skills: []string{"JavaScript", "React", "Node.js"},
		},
	}
}

func (DevelopersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "name", "email", "password_hash", "avatar"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "profiles", "id", "user_id", "handle", "skills", "experience", "education"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, d := range demoDevelopers() {
			userID := uuid.New()
			err := tx.QueryRow(
				ctx,
				`INSERT INTO users (id, name, email, password_hash, avatar)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
				 RETURNING id`,
				userID, d.Name, d.Email, string(hash), ucauth.GravatarURL(d.Email),
			).Scan(&userID)
			if err != nil {
				return err
			}

			social, err := json.Marshal(profile.Social{})
			if err != nil {
				return err
			}
			experience, err := json.Marshal(nonNil(d.Experience))
			if err != nil {
				return err
			}
			education, err := json.Marshal(nonNil(d.Education))
			if err != nil {
				return err
			}

			if _, err := tx.Exec(
				ctx,
				`INSERT INTO profiles (id, user_id, handle, company, location, status, githubusername, skills, social, experience, education)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				 ON CONFLICT DO NOTHING`,
				uuid.New(), userID, d.Handle, d.Company, d.Location, d.Status, d.GitHub, d.Skills, social, experience, education,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
