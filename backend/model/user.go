package model

import (
	"errors"
	"fmt"

	"abrino-storage/backend/common"
	apierrors "abrino-storage/backend/common/errors"

	"github.com/burugo/thing"
)

// User represents an account. Accounts come from two places: web registration
// (email + password) and first contact over Telegram (synthesized email,
// sentinel password). Sensitive fields never appear in API responses.
type User struct {
	thing.BaseModel
	Email string `db:"email,uniqueIndex" json:"email" validate:"required,email"`
	// The hash must survive the ORM cache's JSON round-trip, so it cannot be
	// tagged out of serialization. API responses go through Profile instead.
	Password     string `db:"password" json:"password" validate:"required,min=8,max=72"`
	DisplayName  string `db:"display_name" json:"display_name" validate:"max=64"`
	Role         int    `db:"role" json:"role"`
	Status       int    `db:"status" json:"status"`
	TwoFAEnabled bool   `db:"twofa_enabled" json:"twofa_enabled"`
	TelegramID   int64  `db:"telegram_id,index" json:"telegram_id,omitempty"`
}

// UserProfile is the API-safe projection of a User. Every endpoint that
// answers with a user answers with this.
type UserProfile struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	Role         int    `json:"role"`
	Status       int    `json:"status"`
	TwoFAEnabled bool   `json:"twofa_enabled"`
	TelegramID   int64  `json:"telegram_id,omitempty"`
}

func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		Role:         u.Role,
		Status:       u.Status,
		TwoFAEnabled: u.TwoFAEnabled,
		TelegramID:   u.TelegramID,
	}
}

func (u *User) TableName() string {
	return "users"
}

var UserDB *thing.Thing[*User]

func UserInit() error {
	var err error
	UserDB, err = thing.Use[*User]()
	if err != nil {
		return fmt.Errorf("failed to initialize UserDB: %w", err)
	}
	return nil
}

func GetUserById(id int64) (*User, error) {
	if id == 0 {
		return nil, errors.New("id is empty")
	}
	user, err := UserDB.ByID(id)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.ErrUserNotFound, fmt.Sprintf("user %d not found", id))
	}
	return user, nil
}

func GetUserByEmail(email string) (*User, error) {
	if email == "" {
		return nil, errors.New("email is empty")
	}
	users, err := UserDB.Where("email = ?", email).Fetch(0, 1)
	if err != nil || len(users) == 0 {
		return nil, apierrors.New(apierrors.ErrUserNotFound, "user not found")
	}
	return users[0], nil
}

func GetUserByTelegramID(telegramID int64) (*User, error) {
	if telegramID == 0 {
		return nil, errors.New("telegram id is empty")
	}
	users, err := UserDB.Where("telegram_id = ?", telegramID).Fetch(0, 1)
	if err != nil || len(users) == 0 {
		return nil, apierrors.New(apierrors.ErrUserNotFound, "user not found")
	}
	return users[0], nil
}

func IsEmailAlreadyTaken(email string) bool {
	users, err := UserDB.Where("email = ?", email).Fetch(0, 1)
	return err == nil && len(users) > 0
}

func IsTelegramIDAlreadyTaken(telegramID int64) bool {
	users, err := UserDB.Where("telegram_id = ?", telegramID).Fetch(0, 1)
	return err == nil && len(users) > 0
}

func (user *User) Insert() error {
	if user.Password != "" && user.Password != common.TelegramOnlyPassword {
		var err error
		user.Password, err = common.Password2Hash(user.Password)
		if err != nil {
			return err
		}
	}
	return UserDB.Save(user)
}

func (user *User) Update(updatePassword bool) error {
	if updatePassword {
		var err error
		user.Password, err = common.Password2Hash(user.Password)
		if err != nil {
			return err
		}
	}
	return UserDB.Save(user)
}

func (user *User) Delete() error {
	if user.ID == 0 {
		return errors.New("id is empty")
	}
	return UserDB.Delete(user)
}

// ValidateAndFill checks email + password and loads the full record on success.
// Chat-only users carry a sentinel instead of a hash and always fail here.
func (user *User) ValidateAndFill() error {
	if user.Email == "" || user.Password == "" {
		return apierrors.New(apierrors.ErrEmptyCredentials, "email or password is empty")
	}
	users, err := UserDB.Where("email = ?", user.Email).Fetch(0, 1)
	if err != nil || len(users) == 0 {
		return apierrors.New(apierrors.ErrInvalidCredentials, "invalid email or password")
	}
	found := users[0]
	okay := common.ValidatePasswordAndHash(user.Password, found.Password)
	if !okay || found.Status != common.UserStatusEnabled {
		return apierrors.New(apierrors.ErrInvalidCredentials, "invalid email or password")
	}
	*user = *found
	return nil
}

// TelegramUserEmail synthesizes the locally-unique, non-loginable address for a
// chat-only account.
func TelegramUserEmail(telegramID int64) string {
	return fmt.Sprintf("telegram_%d@telegram.user", telegramID)
}

// RegisterTelegramUser provisions an account for a Telegram identity. The
// configured admin Telegram ID links to the seeded admin account instead of
// getting a fresh chat-only record.
func RegisterTelegramUser(telegramID int64) (*User, error) {
	if telegramID == common.TelegramAdminID && common.AdminEmail != "" {
		admin, err := GetUserByEmail(common.AdminEmail)
		if err == nil {
			admin.TelegramID = telegramID
			if err := admin.Update(false); err != nil {
				return nil, err
			}
			return admin, nil
		}
	}

	user := &User{
		Email:       TelegramUserEmail(telegramID),
		Password:    common.TelegramOnlyPassword,
		DisplayName: fmt.Sprintf("Telegram %d", telegramID),
		Role:        common.RoleCommonUser,
		Status:      common.UserStatusEnabled,
		TelegramID:  telegramID,
	}
	if err := user.Insert(); err != nil {
		return nil, err
	}
	return user, nil
}

// LinkTelegramID attaches a Telegram identity to a web account. If a chat-only
// account already holds the identity, its files are re-owned to the web account
// and the orphan record is removed so both entry points converge on one user.
func LinkTelegramID(user *User, telegramID int64) error {
	existing, err := GetUserByTelegramID(telegramID)
	if err == nil && existing.ID != user.ID {
		if existing.Password != common.TelegramOnlyPassword {
			return apierrors.New(apierrors.ErrTelegramIDTaken, "telegram account already linked to another user")
		}
		if err := ReassignFiles(existing.ID, user.ID); err != nil {
			return err
		}
		if err := existing.Delete(); err != nil {
			return err
		}
	}
	user.TelegramID = telegramID
	return user.Update(false)
}
