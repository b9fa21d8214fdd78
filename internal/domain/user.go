package domain

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleOperator UserRole = "operator"
)

// User is a back-office operator. Only the fields the rental flows need are carried here.
type User struct {
	ID       int32    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
	IsActive bool     `json:"is_active"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}
