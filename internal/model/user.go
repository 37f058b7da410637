package model

import (
	"time"
)

type UserRole string

const (
	Preceptor   UserRole = "preceptor"
	Facilitator UserRole = "facilitator"
	Admin       UserRole = "admin"
)

// User 平台账号。Role 来自文档库中的角色元数据记录，而不是令牌本身，
// 角色闸门每次请求都会重新读取它。
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	Role      UserRole  `bson:"role" json:"role"`
	Disabled  bool      `bson:"disabled" json:"disabled"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
