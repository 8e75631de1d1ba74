package handler

import "github.com/labstack/echo/v4"

// envelope is the uniform response wrapper: every endpoint, success or
// failure, renders {success, message?, data?}.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}
