package services

import (
	"context"

	"google.golang.org/api/idtoken"
)

type GoogleAuthService struct {
	ClientID string
}

func NewGoogleAuthService(clientID string) *GoogleAuthService {
	return &GoogleAuthService{ClientID: clientID}
}

func (g *GoogleAuthService) VerifyGoogleToken(ctx context.Context, idToken string) (*idtoken.Payload, error) {
	payload, err := idtoken.Validate(ctx, idToken, g.ClientID)
	if err != nil {
		return nil, err
	}
	return payload, nil
}
