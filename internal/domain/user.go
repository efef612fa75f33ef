package domain

// User is a gateway customer.
type User struct {
	ID          string `json:"id" fake:"uuid"`
	Email       string `json:"email" validate:"email" fake:"email"`
	LastName    string `json:"lastName" fake:"last_name"`
	FirstName   string `json:"firstName" fake:"first_name"`
	MiddleName  string `json:"middleName" fake:"middle_name"`
	PhoneNumber string `json:"phoneNumber" fake:"phone"`
}

// CreateUserRequest registers a user.
type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email" fake:"email"`
	LastName    string `json:"lastName" validate:"required" fake:"last_name"`
	FirstName   string `json:"firstName" validate:"required" fake:"first_name"`
	MiddleName  string `json:"middleName" validate:"required" fake:"middle_name"`
	PhoneNumber string `json:"phoneNumber" validate:"required" fake:"phone"`
}

// UserResponse wraps a user: {"user": {...}}.
type UserResponse struct {
	User User `json:"user"`
}

type (
	CreateUserResponse = UserResponse
	GetUserResponse    = UserResponse
)
