package handler

// --- Request types ---

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,alphanum"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	// Role is accepted on the create-subordinate route; plain signup
	// ignores it and always registers a user. Values are normalized and
	// checked against the closed role set by the service.
	Role string `json:"role" validate:"omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"omitempty"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// --- Response types ---

type loginData struct {
	User         interface{} `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}
