package staff_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/staff"
	dummydb "github.com/trezcool/mahudhurio/storage/database/dummy"
	"github.com/trezcool/mahudhurio/testutil"
)

func setup(intn ...staff.IntnFunc) (*dummydb.DB, staff.Repository, staff.Service) {
	db := dummydb.Open()
	repo := dummydb.NewStaffRepository(db)
	return db, repo, staff.NewService(repo, core.NewNopLogger(), testutil.Config(), intn...)
}

func TestService_Signup(t *testing.T) {
	ctx := context.Background()
	ns := staff.NewStaff{Name: "Ann Lee", Subject: "Math", Classes: []string{"Grade 5A", "Grade 5B"}, Pin: "4321"}

	t.Run("creates staff & classes", func(t *testing.T) {
		_, repo, svc := setup(testutil.SeqIntn(23))

		stf, classes, err := svc.Signup(ctx, ns)
		require.NoError(t, err)
		assert.Equal(t, "AN123", stf.ID)

		got, err := repo.GetStaff(ctx, "AN123")
		require.NoError(t, err)
		assert.Equal(t, "Ann Lee", got.Name)
		assert.Equal(t, "Math", got.Subject)
		assert.NoError(t, got.CheckPin("4321"))

		stored, err := repo.ListClasses(ctx, "AN123")
		require.NoError(t, err)
		assert.Equal(t, classes, stored)
		require.Len(t, stored, 2)
		assert.Equal(t, "Grade 5A", stored[0].Name)
		assert.Equal(t, "Grade 5B", stored[1].Name)
	})

	t.Run("regenerates colliding ids", func(t *testing.T) {
		db, repo, svc := setup(testutil.SeqIntn(23, 23, 24))
		testutil.CreateStaff(t, repo, "AN123", "Anna Bell", "Art", "1111", "Grade 1")

		stf, _, err := svc.Signup(ctx, ns)
		require.NoError(t, err)
		assert.Equal(t, "AN124", stf.ID)

		nStaffs, nClasses, _, _ := db.Counts()
		assert.Equal(t, 2, nStaffs)
		assert.Equal(t, 3, nClasses)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		db, repo, svc := setup(testutil.SeqIntn(23))
		testutil.CreateStaff(t, repo, "AN123", "Anna Bell", "Art", "1111", "Grade 1")

		_, _, err := svc.Signup(ctx, ns)
		assert.Equal(t, staff.ErrStaffIDExhausted, err)

		nStaffs, nClasses, _, _ := db.Counts()
		assert.Equal(t, 1, nStaffs)
		assert.Equal(t, 1, nClasses)
	})

	t.Run("all or nothing", func(t *testing.T) {
		db, _, svc := setup(testutil.SeqIntn(23))
		boom := errors.New("boom")
		var calls int
		db.FailOn = func(op string) error {
			if op == "CreateClass" {
				calls++
				if calls == 2 {
					return boom
				}
			}
			return nil
		}

		_, _, err := svc.Signup(ctx, ns)
		assert.Equal(t, boom, errors.Cause(err))

		nStaffs, nClasses, _, _ := db.Counts()
		assert.Zero(t, nStaffs)
		assert.Zero(t, nClasses)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	_, repo, svc := setup()
	ann, classes := testutil.CreateStaff(t, repo, "AN123", "Ann Lee", "Math", "4321", "Grade 5A", "Grade 5B")

	tests := []struct {
		name      string
		creds     staff.Credentials
		wantErr   error
		wantClass staff.Class
	}{
		{name: "valid", creds: staff.Credentials{StaffID: "AN123", ClassName: "Grade 5B", Pin: "4321"}, wantClass: classes[1]},
		{name: "id with spaces", creds: staff.Credentials{StaffID: " AN123 ", ClassName: "Grade 5A", Pin: "4321"}, wantClass: classes[0]},
		{name: "wrong pin", creds: staff.Credentials{StaffID: "AN123", ClassName: "Grade 5A", Pin: "0000"}, wantErr: staff.ErrInvalidCredentials},
		{name: "unknown staff", creds: staff.Credentials{StaffID: "ZZ999", ClassName: "Grade 5A", Pin: "4321"}, wantErr: staff.ErrInvalidCredentials},
		{name: "wrong class", creds: staff.Credentials{StaffID: "AN123", ClassName: "Grade 9", Pin: "4321"}, wantErr: staff.ErrInvalidClass},
		{name: "class names are exact", creds: staff.Credentials{StaffID: "AN123", ClassName: "grade 5a", Pin: "4321"}, wantErr: staff.ErrInvalidClass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stf, cls, err := svc.Login(ctx, tt.creds)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ann.ID, stf.ID)
			assert.Equal(t, tt.wantClass, cls)
		})
	}
}

func TestService_ResetPin(t *testing.T) {
	ctx := context.Background()
	_, repo, svc := setup()
	testutil.CreateStaff(t, repo, "AN123", "Ann Lee", "Math", "4321", "Grade 5A")

	err := svc.ResetPin(ctx, "AN123", "12ab")
	assert.True(t, core.IsValidationError(err))

	assert.Equal(t, staff.ErrNotFound, errors.Cause(svc.ResetPin(ctx, "ZZ999", "9876")))

	require.NoError(t, svc.ResetPin(ctx, "AN123", "9876"))
	_, _, err = svc.Login(ctx, staff.Credentials{StaffID: "AN123", ClassName: "Grade 5A", Pin: "9876"})
	assert.NoError(t, err)
	_, _, err = svc.Login(ctx, staff.Credentials{StaffID: "AN123", ClassName: "Grade 5A", Pin: "4321"})
	assert.Equal(t, staff.ErrInvalidCredentials, err)
}
