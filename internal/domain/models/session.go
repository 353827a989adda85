package models

import "strings"

// SessionIdentity is the authenticated student kept by the client between runs.
type SessionIdentity struct {
	SRCode  string `json:"srcode"`
	Name    string `json:"name"`
	College string `json:"college"`
	Token   string `json:"token,omitempty"`
}

// Valid reports whether the identity carries a usable srcode.
func (s *SessionIdentity) Valid() bool {
	return s != nil && strings.TrimSpace(s.SRCode) != ""
}

// Profile returns the public part of the identity.
func (s *SessionIdentity) Profile() Profile {
	return Profile{SRCode: s.SRCode, Name: s.Name, College: s.College}
}
