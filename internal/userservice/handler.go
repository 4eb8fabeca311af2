package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hanamachi/inkwell/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("unauthorized access")
)

func NewUserService(db *sql.DB, mb common.MessageProducer, c *common.Cache, signer *TokenSigner) *UserService {
	return &UserService{
		m:      newUserModel(db),
		mb:     mb,
		c:      c,
		signer: signer,
	}
}

// CreateUser registers a new user account, creates an activation token and
// publishes a user.created event so the mail consumer can deliver it.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string) (*string, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: username,
		Email:    email,
		Password: Password{Plain: password},
	}

	err := u.Password.set(u.Password.Plain)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	token, err := s.m.createToken(ctx, nil, u.ID, ActivationTokenTime, TokenScopeActivate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Email string
		Token string
	}{
		Email: u.Email,
		Token: token.Plain,
	}

	emailData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	err = s.mb.Publish(ctx, emailData, common.UserCreatedKey, common.UserExchange)
	if err != nil {
		return nil, err
	}

	return &token.Plain, nil
}

// ActivateUser activates a user account using the token, deletes the token
// and grants the blog:write permission, all in one transaction.
func (s *UserService) ActivateUser(ctx context.Context, token string) error {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return v.ValidationError()
	}

	hash := hashToken(token)

	user, err := s.m.getUserForToken(ctx, TokenScopeActivate, hash)
	if err != nil {
		return err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = s.m.activateUserAccount(tx, ctx, user.ID, user.Version)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	err = s.m.deleteTokens(tx, ctx, user.ID, TokenScopeActivate)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	err = s.m.addUserPermission(tx, ctx, user.ID, PermissionWriteBlog)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyUserByID(user.ID))

	return nil
}

// LoginUser verifies the credentials and returns a signed access token plus a
// fresh refresh token. Any previous refresh tokens are replaced.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*AuthToken, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailure
	}

	return s.issueAuthToken(ctx, user.ID)
}

// RefreshToken rotates a refresh token: the presented token is deleted and a
// new access/refresh pair is issued.
func (s *UserService) RefreshToken(ctx context.Context, token string) (*AuthToken, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)

	user, err := s.m.getUserForToken(ctx, TokenScopeRefresh, hash)
	if err != nil {
		return nil, err
	}

	return s.issueAuthToken(ctx, user.ID)
}

func (s *UserService) issueAuthToken(ctx context.Context, userID int) (*AuthToken, error) {
	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	err = s.m.deleteTokens(tx, ctx, userID, TokenScopeRefresh)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	refresh, err := s.m.createToken(ctx, tx, userID, RefreshTokenTime, TokenScopeRefresh)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	access, expiry, err := s.signer.Sign(userID)
	if err != nil {
		return nil, err
	}

	return &AuthToken{
		AccessToken:        access,
		AccessTokenExpiry:  expiry,
		RefreshToken:       refresh.Plain,
		RefreshTokenExpiry: refresh.Expiry,
		UserID:             userID,
	}, nil
}

// LogoutUser invalidates the user's refresh tokens. Outstanding access tokens
// stay valid until they expire.
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

	err = s.m.deleteTokens(tx, ctx, userID, TokenScopeRefresh)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetUserByAccessToken verifies the signed access token and loads the user
// with permissions. Lookups are cached briefly to keep the middleware cheap.
func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	userID, err := s.signer.Parse(token)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.c.Get(common.CacheKeyUserByID(userID)); ok {
		if user, ok := cached.(*User); ok {
			return user, nil
		}
	}

	user, err := s.m.getUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyUserByID(userID), user, 1*time.Minute)

	return user, nil
}

// GetPublicProfile returns the public fields of a user. Profile reads are
// cached; UpdateProfile invalidates the entry.
func (s *UserService) GetPublicProfile(ctx context.Context, id int) (*PublicUser, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyProfile(id)); ok {
		if profile, ok := cached.(*PublicUser); ok {
			return profile, nil
		}
	}

	user, err := s.m.getUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := user.Public()
	s.c.Set(common.CacheKeyProfile(id), profile)

	return profile, nil
}

// UpdateProfileRequest carries the profile fields a user may change. Nil
// fields are left untouched; explicitly supplied empty values are applied.
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// UpdateProfile applies a partial update to the requester's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, req *UpdateProfileRequest) (*User, error) {
	user, err := s.m.getUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	v := common.NewValidator()
	validateUsername(v, user.Username)
	validateBio(v, user.Bio)
	validateAvatarURL(v, user.AvatarURL)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err = s.m.updateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyProfile(userID))
	s.c.Delete(common.CacheKeyUserByID(userID))

	return user, nil
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

func (u *User) IsActivated() bool {
	return u.Activated
}

func (u *User) HasPermission(permission Permission) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}

	return false
}
