package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/waratahblog/waratah/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("unauthorized access")
)

func NewUserService(db *sql.DB, mb common.MessageProducer) *UserService {
	return &UserService{
		m:  newUserModel(db),
		mb: mb,
	}
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser adds an account from the admin back-office and publishes a
// user.created event so the mail consumer can send the invite.
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if req.Role == "" {
		req.Role = RoleUser
	}

	v := common.NewValidator()
	validateName(v, req.Name)
	validateEmail(v, req.Email)
	validatePassword(v, req.Password)
	validateRole(v, req.Role)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Active: true,
	}

	if err := u.Password.set(req.Password); err != nil {
		return nil, err
	}

	if err := s.m.insert(ctx, &u); err != nil {
		return nil, err
	}

	data := struct {
		Name  string
		Email string
	}{
		Name:  u.Name,
		Email: u.Email,
	}

	eventData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	if err := s.mb.Publish(ctx, eventData, common.UserCreatedKey, common.UserExchange); err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *UserService) GetUsers(ctx context.Context) ([]User, error) {
	return s.m.list(ctx)
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByID(ctx, id)
}

type UpdateUserRequest struct {
	ID    int    `json:"-"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *UserService) UpdateUser(ctx context.Context, req *UpdateUserRequest) (*User, error) {
	v := common.NewValidator()
	validateInt(v, req.ID, "id")
	validateName(v, req.Name)
	validateEmail(v, req.Email)
	validateRole(v, req.Role)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		ID:    req.ID,
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}

	if err := s.m.update(ctx, &u); err != nil {
		return nil, err
	}

	return s.m.getByID(ctx, u.ID)
}

// SetUserActive toggles whether the account can authenticate. Deactivation
// also drops any live tokens so the lockout is immediate.
func (s *UserService) SetUserActive(ctx context.Context, id int, active bool) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.setActive(ctx, id, active); err != nil {
		return err
	}

	if !active {
		tx, err := s.m.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		if err := s.m.deleteTokens(tx, ctx, id, TokenScopeAuth); err != nil {
			_ = tx.Rollback()
			return err
		}

		return tx.Commit()
	}

	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.delete(ctx, id)
}

// LoginUser verifies the credentials and issues a fresh access token,
// replacing any previous one for the account.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*Token, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	if !user.Active {
		return nil, ErrAuthenticationFailure
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailure
	}

	token, err := newToken(user.ID, AccessTokenTime, TokenScopeAuth)
	if err != nil {
		return nil, err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if err := s.m.deleteTokens(tx, ctx, user.ID, TokenScopeAuth); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := s.m.insertToken(tx, ctx, token); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return token, nil
}

func (s *UserService) LogoutUser(ctx context.Context, userID int) error {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := s.m.deleteTokens(tx, ctx, userID, TokenScopeAuth); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// GetUserByAccessToken resolves the bearer token presented on a request.
func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getUserByToken(ctx, TokenScopeAuth, hashToken(token))
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
