package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"artists/config"
	"artists/httperr"
)

type User struct {
	ID           uint64 `gorm:"primaryKey"`
	Name         string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(255);index:uniq_user_email,unique;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Role         string `gorm:"type:varchar(50);not null;default:USER"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func UserCreate(tx *gorm.DB, name, email, plainTextPassword string) (User, error) {
	var count int64
	if err := tx.Model(&User{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error; err != nil {
		return User{}, err
	}
	if count > 0 {
		return User{}, httperr.Conflict("E-mail já cadastrado")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u := User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "USER",
		Active:       true,
	}
	return u, tx.Create(&u).Error
}

// UserByLogin resolves the login field per configuration, falling back to the
// other field the way the login endpoint accepts either.
func UserByLogin(tx *gorm.DB, login string) (User, error) {
	first, second := "LOWER(email) = LOWER(?)", "LOWER(name) = LOWER(?)"
	if config.JWT_LOGIN_FIELD == "nome" {
		first, second = second, first
	}
	var u User
	err := tx.First(&u, first, login).Error
	if err == gorm.ErrRecordNotFound {
		err = tx.First(&u, second, login).Error
	}
	if err == gorm.ErrRecordNotFound {
		return User{}, httperr.NotFound("Usuário não encontrado")
	}
	return u, err
}

func UserByID(tx *gorm.DB, id uint64) (User, error) {
	var u User
	err := tx.First(&u, id).Error
	if err == gorm.ErrRecordNotFound {
		return User{}, httperr.NotFound("Usuário não encontrado")
	}
	return u, err
}

func (u *User) CheckPassword(plainTextPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plainTextPassword)) == nil
}
