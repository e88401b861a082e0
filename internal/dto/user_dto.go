package dto

// RegisterRequest is the signup payload. The caller supplies the user_id.
type RegisterRequest struct {
	UserID    string  `json:"user_id" validate:"required,uuid_any"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=64"`
	FirstName string  `json:"first_name" validate:"required,min=1,max=50"`
	LastName  string  `json:"last_name" validate:"required,min=1,max=50"`
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

type LoginRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid_any"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

// UpdateUserRequest is a patch: nil fields are left untouched.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitnil,email"`
	FirstName *string `json:"first_name" validate:"omitnil,min=1,max=50"`
	LastName  *string `json:"last_name" validate:"omitnil,min=1,max=50"`
	BirthDate *string `json:"birth_date" validate:"omitnil,datetime=2006-01-02"`
	Password  *string `json:"password" validate:"omitnil,min=8,max=64"`
}

// UserResponse never carries the password or its hash.
type UserResponse struct {
	UserID    string  `json:"user_id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	BirthDate *string `json:"birth_date"`
}
