package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/domain/entity"
)

func seedPatient(t *testing.T, repo port.PatientRepository, document string) *entity.Patient {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	p := &entity.Patient{
		IdentityDocument: document,
		FirstName:        "Elena",
		LastName:         "Marchetti",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func newCase(code string, patientID int64) *entity.Case {
	now := time.Now().UTC().Truncate(time.Second)
	return &entity.Case{
		CaseCode:  code,
		PatientID: patientID,
		Status:    entity.CaseStatusInProcess,
		Origin:    entity.CaseOriginIntake,
		Tests: []entity.ComplementaryTest{
			{Code: "HE-01", Name: "H&E stain", Quantity: 1},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCaseRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	patients := NewPatientRepository(db, zap.NewNop())
	repo := NewCaseRepository(db, zap.NewNop())
	ctx := context.Background()

	patient := seedPatient(t, patients, "X1234567")

	c := newCase("2026-00001", patient.ID)
	require.NoError(t, repo.Create(ctx, c))
	require.NotZero(t, c.ID)

	got, err := repo.GetByCode(ctx, "2026-00001")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, entity.CaseStatusInProcess, got.Status)
	assert.Equal(t, c.Tests, got.Tests)

	_, err = repo.GetByCode(ctx, "2026-99999")
	assert.ErrorIs(t, err, port.ErrCaseNotFound)
}

func TestCaseRepository_SourceApprovalUniqueness(t *testing.T) {
	db := newTestDB(t)
	patients := NewPatientRepository(db, zap.NewNop())
	repo := NewCaseRepository(db, zap.NewNop())
	ctx := context.Background()

	patient := seedPatient(t, patients, "X7654321")

	first := newCase("2026-00010", patient.ID)
	first.Origin = entity.CaseOriginApproval
	first.SourceApprovalCode = "AC-2026-00005"
	require.NoError(t, repo.Create(ctx, first))

	t.Run("lookup by source approval", func(t *testing.T) {
		got, err := repo.GetBySourceApproval(ctx, "AC-2026-00005")
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
	})

	t.Run("second case for same approval rejected", func(t *testing.T) {
		second := newCase("2026-00011", patient.ID)
		second.Origin = entity.CaseOriginApproval
		second.SourceApprovalCode = "AC-2026-00005"
		err := repo.Create(ctx, second)
		assert.ErrorIs(t, err, port.ErrCaseAlreadyCreated)
	})

	t.Run("cases without source approval are unconstrained", func(t *testing.T) {
		a := newCase("2026-00012", patient.ID)
		b := newCase("2026-00013", patient.ID)
		require.NoError(t, repo.Create(ctx, a))
		require.NoError(t, repo.Create(ctx, b))
	})
}

func TestCaseRepository_AssignAndSign(t *testing.T) {
	db := newTestDB(t)
	patients := NewPatientRepository(db, zap.NewNop())
	repo := NewCaseRepository(db, zap.NewNop())
	ctx := context.Background()

	patient := seedPatient(t, patients, "X0000001")
	c := newCase("2026-00020", patient.ID)
	require.NoError(t, repo.Create(ctx, c))

	require.NoError(t, repo.AssignPathologist(ctx, c.ID, entity.PathologistRef{ID: 7, Name: "Dr. Osei"}))

	signedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Sign(ctx, c.ID, "dr.osei", signedAt))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AssignedPathologist)
	assert.Equal(t, "Dr. Osei", got.AssignedPathologist.Name)
	assert.Equal(t, entity.CaseStatusSigned, got.Status)
	assert.Equal(t, "dr.osei", got.SignedBy)
	require.NotNil(t, got.SignedAt)

	t.Run("missing case", func(t *testing.T) {
		err := repo.Sign(ctx, 9999, "dr.osei", signedAt)
		assert.ErrorIs(t, err, port.ErrCaseNotFound)
	})
}

func TestPatientRepository_Search(t *testing.T) {
	db := newTestDB(t)
	repo := NewPatientRepository(db, zap.NewNop())
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	for _, p := range []*entity.Patient{
		{IdentityDocument: "A111", FirstName: "Marta", LastName: "Silva", CreatedAt: now, UpdatedAt: now},
		{IdentityDocument: "B222", FirstName: "Jonas", LastName: "Silveira", CreatedAt: now, UpdatedAt: now},
		{IdentityDocument: "C333", FirstName: "Ana", LastName: "Kovac", CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, repo.Create(ctx, p))
	}

	results, total, err := repo.Search(ctx, "Silv", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, results, 2)

	t.Run("duplicate identity document rejected", func(t *testing.T) {
		dup := &entity.Patient{IdentityDocument: "A111", FirstName: "Other", LastName: "Person", CreatedAt: now, UpdatedAt: now}
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, port.ErrDuplicateIdentityDocument)
	})

	t.Run("lookup by document", func(t *testing.T) {
		got, err := repo.GetByIdentityDocument(ctx, "C333")
		require.NoError(t, err)
		assert.Equal(t, "Kovac", got.LastName)
	})
}
