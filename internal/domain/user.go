package domain

import "time"

type UserRole int

const (
	RoleAdmin   UserRole = 1
	RoleSupport UserRole = 2
	RoleUser    UserRole = 3
)

// IsReviewer reports whether the role may act on KYC review endpoints.
func (r UserRole) IsReviewer() bool {
	return r == RoleAdmin || r == RoleSupport
}

type User struct {
	ID        int64      `gorm:"column:id;primaryKey" json:"id"`
	Firstname string     `gorm:"column:firstname" json:"firstname"`
	Lastname  string     `gorm:"column:lastname" json:"lastname"`
	Username  string     `gorm:"column:username" json:"username,omitempty"`
	Email     string     `gorm:"column:email;uniqueIndex" json:"email"`
	Phone     string     `gorm:"column:phone;uniqueIndex" json:"phone"`
	Password  string     `gorm:"column:password" json:"-"`
	Role      UserRole   `gorm:"column:role" json:"role"`
	BirthDate *time.Time `gorm:"column:birth_date" json:"birth_date,omitempty"`
	Avatar    string     `gorm:"column:avatar" json:"avatar,omitempty"`

	// one KYC request per user, lazily created at registration
	KYCUserRequest *KYCRequest    `gorm:"foreignKey:UserID" json:"kyc_user_request,omitempty"`
	Notifications  []Notification `gorm:"foreignKey:CreatedForUserID" json:"notifications,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }
