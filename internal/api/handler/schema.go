package handler

import (
	"time"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"max=80"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"max=4000"`
	Type    string `json:"type" validate:"max=32"`
}

type sendMessageResponse struct {
	Message       string    `json:"message"`
	ID            string    `json:"id"`
	ReceiverID    string    `json:"receiver_id"`
	ReceiverEmail string    `json:"receiver_email"`
	CreatedAt     time.Time `json:"created_at"`
}

type messageItem struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	Type       string    `json:"message_type"`
	CreatedAt  time.Time `json:"created_at"`
	SenderName string    `json:"sender_name"`
}

type messagesResponse struct {
	Messages []messageItem `json:"messages"`
}

type logActivityRequest struct {
	ActivityType string `json:"activity_type" validate:"max=64"`
	Details      string `json:"details" validate:"max=2000"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type usersResponse struct {
	Users []*domain.User `json:"users"`
}
