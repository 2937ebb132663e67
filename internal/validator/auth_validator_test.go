package validator_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type usersMock struct{ mock.Mock }

func (m *usersMock) Create(ctx context.Context, user *model.User) error {
	panic("not used in validator tests")
}

func (m *usersMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	panic("not used in validator tests")
}

func (m *usersMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *usersMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *usersMock) Update(ctx context.Context, user *model.User) error {
	panic("not used in validator tests")
}

func TestValidateRegister_OK(t *testing.T) {
	users := new(usersMock)
	v := validator.NewAuthValidator(users)

	users.On("FindByUsername", mock.Anything, "alice").Return(nil, nil)
	users.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, nil)

	err := v.ValidateRegister(context.Background(), "alice", "alice@example.com", "secret123")
	assert.NoError(t, err)
}

func TestValidateRegister_ShortPassword(t *testing.T) {
	v := validator.NewAuthValidator(new(usersMock))

	err := v.ValidateRegister(context.Background(), "alice", "alice@example.com", "short")
	assert.ErrorIs(t, err, validator.ErrInvalidInput)
}

func TestValidateRegister_BadEmail(t *testing.T) {
	v := validator.NewAuthValidator(new(usersMock))

	err := v.ValidateRegister(context.Background(), "alice", "not-an-email", "secret123")
	assert.ErrorIs(t, err, validator.ErrInvalidInput)
}

func TestValidateRegister_BadUsername(t *testing.T) {
	v := validator.NewAuthValidator(new(usersMock))

	err := v.ValidateRegister(context.Background(), "has space", "alice@example.com", "secret123")
	assert.ErrorIs(t, err, validator.ErrInvalidInput)
}

func TestValidateRegister_UsernameTaken(t *testing.T) {
	users := new(usersMock)
	v := validator.NewAuthValidator(users)

	users.On("FindByUsername", mock.Anything, "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)

	err := v.ValidateRegister(context.Background(), "alice", "alice@example.com", "secret123")
	assert.ErrorIs(t, err, validator.ErrUsernameAlreadyUsed)
}

func TestValidateRegister_EmailTaken(t *testing.T) {
	users := new(usersMock)
	v := validator.NewAuthValidator(users)

	users.On("FindByUsername", mock.Anything, "alice").Return(nil, nil)
	users.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{ID: 2}, nil)

	err := v.ValidateRegister(context.Background(), "alice", "alice@example.com", "secret123")
	assert.ErrorIs(t, err, validator.ErrEmailAlreadyUsed)
}

func TestValidateLogin_MissingFields(t *testing.T) {
	v := validator.NewAuthValidator(new(usersMock))

	assert.ErrorIs(t, v.ValidateLogin(context.Background(), "", "x"), validator.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateLogin(context.Background(), "alice", ""), validator.ErrInvalidInput)
}

func TestValidateRefresh_Empty(t *testing.T) {
	v := validator.NewAuthValidator(new(usersMock))

	assert.ErrorIs(t, v.ValidateRefresh(context.Background(), "  ", "ua"), validator.ErrInvalidRefresh)
}
