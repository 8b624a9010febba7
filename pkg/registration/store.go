package registration

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/unicode/norm"

	"github.com/idadental/registration/pkg/identity"
)

// Migrations holds the goose migrations for the registrations table under "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Registration is a persisted submission.
type Registration struct {
	ID         uuid.UUID
	SubjectID  string
	AuthMethod identity.AuthMethod
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	City       string
	HasClinic  bool
	ClinicName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewRegistration builds a record from a submitted draft. A hidden clinic
// name is not persisted.
func NewRegistration(p identity.Profile, d Draft) Registration {
	r := Registration{
		ID:         uuid.New(),
		SubjectID:  p.SubjectID,
		AuthMethod: p.AuthMethod,
		FirstName:  clean(d.FirstName),
		LastName:   clean(d.LastName),
		Phone:      clean(d.Phone),
		City:       clean(d.City),
		HasClinic:  d.HasClinic,
	}
	if p.AuthMethod == identity.MethodPasswordOrSocial {
		r.Email = clean(d.Email)
	}
	if d.HasClinic {
		r.ClinicName = clean(d.ClinicName)
	}
	return r
}

// clean folds value to NFC so equal names compare equal in storage. It does
// not trim: the stored value is the one the schema validated.
func clean(value string) string {
	return norm.NFC.String(value)
}

// DB is the subset of *pgxpool.Pool used by Repository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository stores registrations in Postgres, one row per subject.
type Repository struct {
	db  DB
	now func() time.Time
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

const upsertRegistrationQuery = `
INSERT INTO registrations (
    id, subject_id, auth_method, first_name, last_name, email, phone, city, has_clinic, clinic_name, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, NULLIF($10, ''), $11, $11)
ON CONFLICT (subject_id) DO UPDATE SET
    auth_method = EXCLUDED.auth_method,
    first_name  = EXCLUDED.first_name,
    last_name   = EXCLUDED.last_name,
    email       = EXCLUDED.email,
    phone       = EXCLUDED.phone,
    city        = EXCLUDED.city,
    has_clinic  = EXCLUDED.has_clinic,
    clinic_name = EXCLUDED.clinic_name,
    updated_at  = EXCLUDED.updated_at`

// Save inserts r or replaces the previous registration of the same subject.
func (r *Repository) Save(ctx context.Context, reg *Registration) error {
	if reg == nil {
		return ErrNilRegistration
	}
	if reg.SubjectID == "" {
		return ErrMissingSubject
	}
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	now := r.now().UTC()
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = now
	}
	reg.UpdatedAt = now

	_, err := r.db.Exec(ctx, upsertRegistrationQuery,
		reg.ID, reg.SubjectID, string(reg.AuthMethod),
		reg.FirstName, reg.LastName, reg.Email, reg.Phone, reg.City,
		reg.HasClinic, reg.ClinicName, now,
	)
	if err != nil {
		return fmt.Errorf("save registration: %w", err)
	}
	return nil
}

// Saver is implemented by Repository.
type Saver interface {
	Save(ctx context.Context, reg *Registration) error
}

// Submitter binds a form's submissions to s for profile.
func Submitter(s Saver, profile identity.Profile) SubmitFunc {
	return func(ctx context.Context, d Draft) error {
		reg := NewRegistration(profile, d)
		return s.Save(ctx, &reg)
	}
}
