package models

import "time"

// User is a row of the users table. Password holds whatever the configured
// credential hasher produced, never the raw value.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"username" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserView is the public projection of a User.
type UserView struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
}

func (u *User) View() UserView {
	return UserView{ID: u.ID, Username: u.Name, Email: u.Email}
}

func Views(users []User) []UserView {
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	return views
}

// CachedUser is the shape stored in the response cache. It carries the
// stored password value on purpose.
type CachedUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StreamedUser is one line of the NDJSON stream.
type StreamedUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserPage struct {
	Page       int        `json:"page" example:"1"`
	Limit      int        `json:"limit" example:"10"`
	TotalUsers int64      `json:"total_users" example:"25"`
	TotalPages int64      `json:"total_pages" example:"3"`
	Users      []UserView `json:"users"`
}
