package common

import "golang.org/x/crypto/bcrypt"

// TelegramOnlyPassword is the sentinel stored for users auto-provisioned from
// chat. It is not a bcrypt hash, so password login can never succeed for them.
const TelegramOnlyPassword = "telegram_only_user"

func Password2Hash(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashedPassword), err
}

func ValidatePasswordAndHash(password string, hash string) bool {
	if hash == TelegramOnlyPassword {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
