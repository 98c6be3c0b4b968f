package staff

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

var (
	// errors
	ErrNotFound           = errors.New("staff not found")
	ErrStaffIDExists      = errors.New("a staff with this id already exists")
	ErrStaffIDExhausted   = errors.New("could not generate a unique staff id")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidClass       = errors.New("invalid class")
)

const defaultIDMaxAttempts = 5

type (
	Repository interface {
		// Atomic runs fn against a Repository bound to a single transaction.
		Atomic(ctx context.Context, fn func(repo Repository) error) error
		// CreateStaff returns ErrStaffIDExists if the staff id is already taken.
		CreateStaff(ctx context.Context, stf Staff) (Staff, error)
		CreateClass(ctx context.Context, cls Class) (Class, error)
		GetStaff(ctx context.Context, staffID string) (Staff, error)
		GetClass(ctx context.Context, staffID, className string) (Class, error)
		ListClasses(ctx context.Context, staffID string) ([]Class, error)
		UpdatePin(ctx context.Context, staffID string, pinHash []byte) error
	}

	Service interface {
		Signup(ctx context.Context, ns NewStaff) (Staff, []Class, error)
		Login(ctx context.Context, creds Credentials) (Staff, Class, error)
		ResetPin(ctx context.Context, staffID, pin string) error
	}

	service struct {
		repo        Repository
		logger      core.Logger
		intn        IntnFunc
		maxAttempts int
		pinCost     int
	}
)

var _ Service = (*service)(nil)

// NewService returns the staff Service. intn defaults to math/rand.Intn.
func NewService(repo Repository, logger core.Logger, conf *core.Config, intn ...IntnFunc) Service {
	svc := &service{
		repo:        repo,
		logger:      logger,
		intn:        rand.Intn,
		maxAttempts: conf.Staff.IDMaxAttempts,
		pinCost:     conf.Staff.PinHashCost,
	}
	if len(intn) > 0 && intn[0] != nil {
		svc.intn = intn[0]
	}
	if svc.maxAttempts < 1 {
		svc.maxAttempts = defaultIDMaxAttempts
	}
	return svc
}

// Signup creates the Staff and one Class per class name in a single transaction.
// The staff id is regenerated when it collides with an existing one.
func (svc *service) Signup(ctx context.Context, ns NewStaff) (Staff, []Class, error) {
	stf := Staff{
		Name:      ns.Name,
		Subject:   ns.Subject,
		CreatedAt: core.NowFunc().UTC(),
	}
	if err := stf.SetPin(ns.Pin, svc.pinCost); err != nil {
		return Staff{}, nil, errors.Wrap(err, "hashing pin")
	}

	for attempt := 1; attempt <= svc.maxAttempts; attempt++ {
		stf.ID = GenerateStaffID(stf.Name, svc.intn)

		classes, err := svc.create(ctx, stf, ns.Classes)
		if err == nil {
			return stf, classes, nil
		}
		if errors.Cause(err) != ErrStaffIDExists {
			return Staff{}, nil, err
		}
		svc.logger.Warn(fmt.Sprintf("staff id %q already taken (attempt %d/%d)", stf.ID, attempt, svc.maxAttempts))
	}
	return Staff{}, nil, ErrStaffIDExhausted
}

func (svc *service) create(ctx context.Context, stf Staff, classNames []string) ([]Class, error) {
	classes := make([]Class, 0, len(classNames))
	err := svc.repo.Atomic(ctx, func(repo Repository) error {
		if _, err := repo.CreateStaff(ctx, stf); err != nil {
			return err
		}
		for _, name := range classNames {
			cls, err := repo.CreateClass(ctx, Class{Name: name, StaffID: stf.ID})
			if err != nil {
				return errors.Wrapf(err, "creating class %q", name)
			}
			classes = append(classes, cls)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return classes, nil
}

// Login checks the staff id and pin first, then the class name.
func (svc *service) Login(ctx context.Context, creds Credentials) (Staff, Class, error) {
	stf, err := svc.repo.GetStaff(ctx, core.CleanString(creds.StaffID))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Staff{}, Class{}, ErrInvalidCredentials
		}
		return Staff{}, Class{}, errors.Wrap(err, "getting staff")
	}
	if err = stf.CheckPin(creds.Pin); err != nil {
		return Staff{}, Class{}, ErrInvalidCredentials
	}

	cls, err := svc.repo.GetClass(ctx, stf.ID, creds.ClassName)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Staff{}, Class{}, ErrInvalidClass
		}
		return Staff{}, Class{}, errors.Wrap(err, "getting class")
	}
	return stf, cls, nil
}

func (svc *service) ResetPin(ctx context.Context, staffID, pin string) error {
	if !isValidPin(pin) {
		return core.NewValidationError(errors.New(pinText), core.FieldError{Field: "pin", Error: pinText})
	}

	stf := Staff{ID: staffID}
	if err := stf.SetPin(pin, svc.pinCost); err != nil {
		return errors.Wrap(err, "hashing pin")
	}
	return svc.repo.UpdatePin(ctx, staffID, stf.PinHash)
}
