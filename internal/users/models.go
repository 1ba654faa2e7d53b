package users

// User is the persisted user record. UserID uniquely identifies it.
type User struct {
	UserID string `json:"userId" dynamodbav:"userId"`
	Name   string `json:"name" dynamodbav:"name"`
}

// CreateUserRequest represents the request to create a user. Fields are
// pointers so an absent field can be told apart from an empty one.
type CreateUserRequest struct {
	UserID *string `json:"userId"`
	Name   *string `json:"name"`
}

// UpdateUserRequest represents the request to rename a user
type UpdateUserRequest struct {
	Name *string `json:"name"`
}
