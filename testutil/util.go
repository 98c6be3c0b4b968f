package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/staff"
)

// Config returns a test configuration with the cheapest pin hashing.
func Config() *core.Config {
	return &core.Config{
		AppName:  "Mahudhurio",
		Env:      "TEST",
		TestMode: true,
		Server: core.ServerConfig{
			Address:         ":0",
			ShutdownTimeout: time.Second,
			DisableReqLogs:  true,
			AllowOrigins:    []string{"*"},
		},
		Staff: core.StaffConfig{
			IDMaxAttempts: 5,
			PinHashCost:   bcrypt.MinCost,
		},
	}
}

func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	staff.InitValidators(validate, translator)
	return validate, translator
}

// SeqIntn returns an IntnFunc yielding values in order, then repeating the last one.
func SeqIntn(values ...int) staff.IntnFunc {
	var mu sync.Mutex
	var i int
	return func(n int) int {
		mu.Lock()
		defer mu.Unlock()
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v % n
	}
}

func CreateStaff(t *testing.T, repo staff.Repository, id, name, subject, pin string, classNames ...string) (staff.Staff, []staff.Class) {
	ctx := context.Background()
	stf := staff.Staff{
		ID:        id,
		Name:      name,
		Subject:   subject,
		CreatedAt: time.Now().UTC(),
	}
	if err := stf.SetPin(pin, bcrypt.MinCost); err != nil {
		t.Fatalf("CreateStaff() failed: %v", err)
	}
	stf, err := repo.CreateStaff(ctx, stf)
	if err != nil {
		t.Fatalf("CreateStaff() failed: %v", err)
	}

	classes := make([]staff.Class, 0, len(classNames))
	for _, name := range classNames {
		cls, err := repo.CreateClass(ctx, staff.Class{Name: name, StaffID: stf.ID})
		if err != nil {
			t.Fatalf("CreateStaff() failed: %v", err)
		}
		classes = append(classes, cls)
	}
	return stf, classes
}

func CreateStudent(t *testing.T, repo roster.Repository, name, regNo string, classID int) roster.Student {
	stud, err := repo.CreateStudent(context.Background(), roster.NewStudent{
		Name:               name,
		RegistrationNumber: roster.RegistrationNumber(regNo),
		ClassID:            classID,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stud
}
