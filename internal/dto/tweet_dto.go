package dto

// AuthorPayload is the author snapshot embedded in a new tweet.
type AuthorPayload struct {
	UserID    string  `json:"user_id" validate:"required,uuid_any"`
	Email     string  `json:"email" validate:"required,email"`
	FirstName string  `json:"first_name" validate:"required,min=1,max=50"`
	LastName  string  `json:"last_name" validate:"required,min=1,max=50"`
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

type CreateTweetRequest struct {
	TweetID   string         `json:"tweet_id" validate:"required,uuid_any"`
	Content   string         `json:"content" validate:"required,min=1,max=256"`
	CreatedAt *string        `json:"created_at" validate:"omitempty,iso8601"`
	By        *AuthorPayload `json:"by" validate:"required"`
}

type UpdateTweetRequest struct {
	Content string `json:"content" validate:"required,min=1,max=256"`
}

type TweetResponse struct {
	TweetID   string       `json:"tweet_id"`
	Content   string       `json:"content"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt *string      `json:"updated_at"`
	By        UserResponse `json:"by"`
}
