package pkg

import "github.com/google/uuid"

// GenerateNewSessionID - generates an identifier for an anonymous study session.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// GenerateResultID - generates an identifier for a finished game record.
func GenerateResultID() string {
	return uuid.NewString()
}

func GenerateCardID() string {
	return uuid.NewString()
}
