package models

import (
	"time"
)

type SignupRequest struct {
	SRCode   string `json:"srcode"`
	Name     string `json:"name"`
	College  string `json:"college"`
	Password string `json:"password"`
}

type LoginRequest struct {
	SRCode   string `json:"srcode"`
	Password string `json:"password"`
}

// LoginResponse reports bad credentials with Success=false instead of an error status.
type LoginResponse struct {
	Success bool     `json:"success"`
	User    *Profile `json:"user,omitempty"`
	Message string   `json:"message,omitempty"`
	Token   string   `json:"token,omitempty"`
}

type Profile struct {
	SRCode  string `json:"srcode"`
	Name    string `json:"name"`
	College string `json:"college"`
}

type User struct {
	SRCode    string    `json:"srcode"`
	Name      string    `json:"name"`
	College   string    `json:"college"`
	password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) GetPassword() string {
	return u.password
}

func (u *User) SetPassword(password string) {
	u.password = password
}

func (u *User) Profile() Profile {
	return Profile{SRCode: u.SRCode, Name: u.Name, College: u.College}
}
