package types

import (
	"encoding/json"
	"time"
)

const UserIndex = "user-idx"

type User struct {
	Id          int       `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Age         int       `json:"age"`
	CreatedDate time.Time `json:"createdDate"`
}

func (u *User) GetId() int   { return u.Id }
func (u *User) SetId(id int) { u.Id = id }

func (u *User) String() string {
	b, _ := json.Marshal(u)
	return string(b)
}

type UserAddRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age"`
}

type UserUpdateRequest struct {
	Id        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age"`
}

// NewUser builds an unsaved user from an add request, stamping the creation
// time in UTC.
func NewUser(req UserAddRequest) *User {
	return &User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Age:         req.Age,
		CreatedDate: time.Now().UTC(),
	}
}

// Apply overwrites the mutable fields of u with the ones in req.
func (req UserUpdateRequest) Apply(u *User) {
	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Age = req.Age
}

func userMapping() map[string]any {
	return map[string]any{
		"settings": map[string]any{
			"index": map[string]any{
				"number_of_shards":   1,
				"number_of_replicas": 0,
			},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"id": map[string]any{"type": "long"},
				"firstName": map[string]any{
					"type": "text",
					"fields": map[string]any{
						"keyword": map[string]any{"type": "keyword", "ignore_above": 256},
					},
				},
				"lastName": map[string]any{
					"type": "text",
					"fields": map[string]any{
						"keyword": map[string]any{"type": "keyword", "ignore_above": 256},
					},
				},
				"age":         map[string]any{"type": "integer"},
				"createdDate": map[string]any{"type": "date"},
			},
		},
	}
}
