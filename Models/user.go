package Models

import (
	"errors"
	"html"
	"strings"

	"github.com/Aryan1411/hms/Utils/Token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

type User struct {
	gorm.Model
	Username      string `gorm:"size:255;not null;unique" json:"username"`
	Password      string `gorm:"size:255;not null" json:"password"`
	Role          string `gorm:"size:20;not null" json:"role"`
	Email         string `gorm:"size:255" json:"email"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`
	IsBlacklisted bool   `json:"is_blacklisted"`
}

func GetUserByID(uid uint) (User, error) {
	var user User

	if err := DB.First(&user, uid).Error; err != nil {
		return user, ErrEntityNotFound
	}

	user.PrepareGive()

	return user, nil
}

func (user *User) PrepareGive() {
	user.Password = ""
}

func VerifyPassword(password, hashedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// LoginCheck verifies the credentials and account state, and on success
// returns the user together with a signed session token.
func LoginCheck(username string, password string) (User, string, error) {

	user := User{}

	err := DB.Model(User{}).Where("username = ?", username).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}

	if err := VerifyPassword(password, user.Password); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	if user.IsBlacklisted {
		return User{}, "", ErrAccountBlacklisted
	}

	if !user.IsActive {
		return User{}, "", ErrAccountInactive
	}

	token, err := Token.GenerateToken(user.ID, user.Role)
	if err != nil {
		return User{}, "", err
	}

	user.PrepareGive()
	return user, token, nil
}

func (user *User) SaveUser() (*User, error) {

	var count int64
	if err := DB.Model(&User{}).Where("username = ?", strings.TrimSpace(user.Username)).Count(&count).Error; err != nil {
		return &User{}, err
	}
	if count > 0 {
		return &User{}, ErrDuplicateUsername
	}

	if err := user.BeforeSave(); err != nil {
		return &User{}, err
	}

	if err := DB.Create(&user).Error; err != nil {
		return &User{}, err
	}

	return user, nil
}

func (user *User) BeforeSave() error {

	//turn password into hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)

	//remove spaces in username
	user.Username = html.EscapeString(strings.TrimSpace(user.Username))

	return nil
}

// ToggleBlacklist flips the blacklist flag and returns the updated user.
func ToggleBlacklist(userID uint) (User, error) {
	var user User
	if err := DB.First(&user, userID).Error; err != nil {
		return user, ErrEntityNotFound
	}

	user.IsBlacklisted = !user.IsBlacklisted
	if err := DB.Model(&user).Update("is_blacklisted", user.IsBlacklisted).Error; err != nil {
		return user, err
	}

	user.PrepareGive()
	return user, nil
}
