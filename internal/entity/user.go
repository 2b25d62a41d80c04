package entity

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type User struct {
	// ID is assigned by the identity provider.
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Email           sql.NullString `gorm:"unique"`
	FirstName       string
	LastName        string
	ProfileImageURL string

	IsAdmin         bool
	CurrencyBalance int64
}

func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
	case u.FirstName != "":
		return u.FirstName
	case u.Email.Valid && u.Email.String != "":
		local, _, _ := strings.Cut(u.Email.String, "@")
		return local
	default:
		return fmt.Sprintf("User %s", u.ID)
	}
}
