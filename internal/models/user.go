package models

import "time"

type User struct {
	AccessID    int64     `json:"-" db:"access_id"`
	Username    string    `json:"username" db:"username"`
	DisplayName *string   `json:"display_name,omitempty" db:"display_name"`
	Buying      int32     `json:"buying" db:"buying"`
	Selling     int32     `json:"selling" db:"selling"`
	Confirmed   bool      `json:"-" db:"confirmed"`
	Created     time.Time `json:"created" db:"created"`
}
